package model

import "fmt"

// WarningKind classifies a recoverable problem found while choreographing a slide.
type WarningKind string

const (
	WarnPhraseMatch      WarningKind = "phrase_match_failure"
	WarnCueNotFound      WarningKind = "cue_not_found"
	WarnMalformedField   WarningKind = "malformed_session_field"
	WarnQuestionFallback WarningKind = "question_fallback"
)

// Warning is a non-fatal condition reported alongside a choreography.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	BlockID string      `json:"block_id,omitempty"`
	Message string      `json:"message"`
}

func (w Warning) String() string {
	if w.BlockID == "" {
		return fmt.Sprintf("%s: %s", w.Kind, w.Message)
	}
	return fmt.Sprintf("%s [%s]: %s", w.Kind, w.BlockID, w.Message)
}
