// Package prompt holds the LLM prompt templates. Template text is
// configuration, not logic: the pipeline only selects and interpolates.
// Each template contains a single %s placeholder for the citation block.
package prompt

import "github.com/searchlight-ai/searchlight/internal/domain"

// Purpose selects between the answer prompt and the related-questions prompt.
type Purpose string

// Prompt purposes.
const (
	PurposeAnswer  Purpose = "answer"
	PurposeRelated Purpose = "related"
)

const deepAnswer = `You are a helpful assistant that answers the user's question using the provided web search context. Cite the context entries that support each statement using the [citation:x] notation, where x is the citation number. Write a thorough, accurate answer; if the context is insufficient, say so instead of guessing.

Context:
%s

Answer the question below.`

const academicAnswer = `You are an academic research assistant. Answer the user's question using the scholarly context below. Cite the supporting entries with [citation:x] notation and keep a precise, formal tone. Point out open questions or conflicting findings when the context contains them.

Context:
%s

Answer the question below.`

const newsAnswer = `You are a news assistant. Summarize what the news context below reports about the user's question. Cite each claim with [citation:x] notation, attribute statements to their outlets, and keep speculation out of the answer.

Context:
%s

Answer the question below.`

const relatedQuestions = `Based on the search context below and the user's question, propose three short follow-up questions the user is likely to ask next. Output one question per line with no numbering or commentary.

Context:
%s

The user's question follows.`

const academicRelated = `Based on the scholarly context below and the user's question, propose three follow-up research questions. Output one question per line with no numbering or commentary.

Context:
%s

The user's question follows.`

const newsRelated = `Based on the news context below and the user's question, propose three follow-up questions about this story. Output one question per line with no numbering or commentary.

Context:
%s

The user's question follows.`

// Template returns the prompt template for a category and purpose.
// Academic and news have dedicated templates; everything else shares the
// defaults.
func Template(category domain.Category, purpose Purpose) string {
	if purpose == PurposeRelated {
		switch category {
		case domain.CategoryAcademic:
			return academicRelated
		case domain.CategoryNews:
			return newsRelated
		default:
			return relatedQuestions
		}
	}
	switch category {
	case domain.CategoryAcademic:
		return academicAnswer
	case domain.CategoryNews:
		return newsAnswer
	default:
		return deepAnswer
	}
}
