package domain

// AnswerMode is the requested answer shape. Orthogonal to Category:
// template selection currently branches on category only, the mode is
// validated at admission and carried through the pipeline.
type AnswerMode string

// Answer mode constants.
const (
	ModeSimple   AnswerMode = "simple"
	ModeDeep     AnswerMode = "deep"
	ModeResearch AnswerMode = "research"
)

// IsValid checks if the mode is one of the supported values.
func (m AnswerMode) IsValid() bool {
	return m == ModeSimple || m == ModeDeep || m == ModeResearch
}
