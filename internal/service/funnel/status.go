package funnel

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Stage is one of the three canonical pipeline stages of a lead.
type Stage string

const (
	StageInProgress   Stage = "in_progress"
	StageCompleted    Stage = "completed"
	StageDisqualified Stage = "disqualified"
)

// Literals persisted in the store's status column.
const (
	LiteralInProgress   = "Em andamento"
	LiteralCompleted    = "Concluído"
	LiteralDisqualified = "Desqualificado"
)

// Stages lists every stage in board order.
var Stages = []Stage{StageInProgress, StageCompleted, StageDisqualified}

// Classify maps a stored status to its stage. Unknown or empty values fall back to StageInProgress.
func Classify(raw string) Stage {
	if stage, ok := ParseStage(raw); ok {
		return stage
	}
	return StageInProgress
}

// ParseStage resolves a status given either as a stored literal or as a stage name.
// Matching ignores surrounding space, case and accents.
func ParseStage(raw string) (Stage, bool) {
	switch fold(raw) {
	case "concluido", "completed":
		return StageCompleted, true
	case "desqualificado", "disqualified":
		return StageDisqualified, true
	case "em andamento", "em_andamento", "in_progress", "in progress":
		return StageInProgress, true
	}
	return "", false
}

// Literal returns the value persisted for the stage.
func (s Stage) Literal() string {
	switch s {
	case StageCompleted:
		return LiteralCompleted
	case StageDisqualified:
		return LiteralDisqualified
	default:
		return LiteralInProgress
	}
}

// Valid reports whether s is one of the canonical stages.
func (s Stage) Valid() bool {
	switch s {
	case StageInProgress, StageCompleted, StageDisqualified:
		return true
	}
	return false
}

// CanTransition reports whether a lead may move from one stage to another.
// The pipeline is a free graph: any pair of valid stages is allowed, including staying put.
func CanTransition(from, to Stage) bool {
	return from.Valid() && to.Valid()
}

func fold(s string) string {
	decomposed := norm.NFD.String(strings.TrimSpace(s))
	folded := strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Mn, r) {
			return -1
		}
		return unicode.ToLower(r)
	}, decomposed)
	return norm.NFC.String(folded)
}
