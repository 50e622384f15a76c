package answer

import (
	"fmt"
	"strings"

	"github.com/searchlight-ai/searchlight/internal/domain"
	"github.com/searchlight-ai/searchlight/internal/prompt"
)

// citationBlock renders ordered texts as a citation context block:
// entry i (1-based) becomes "[citation:i] <content>", joined by blank lines.
// Indices always follow the final emitted sources order, so the prompt and
// the sources event agree on citation numbering.
func citationBlock(texts []domain.TextSource) string {
	var sb strings.Builder
	for i, t := range texts {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "[citation:%d] %s", i+1, t.Content)
	}
	return sb.String()
}

// buildMessages composes the single user-role message for a category and
// purpose: the selected template with the citation block interpolated,
// followed by the raw user query.
func buildMessages(
	category domain.Category, purpose prompt.Purpose,
	texts []domain.TextSource, query string,
) []domain.Message {
	tpl := prompt.Template(category, purpose)
	content := fmt.Sprintf(tpl, citationBlock(texts)) + "\n\n" + query
	return []domain.Message{{Role: domain.RoleUser, Content: content}}
}
