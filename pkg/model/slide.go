package model

import "strings"

// SlideType selects the choreographer for a narrated slide.
type SlideType string

const (
	SlideIntro           SlideType = "intro"
	SlideCase            SlideType = "case"
	SlideQuestionSummary SlideType = "q_summary"
	SlideFeedbackBlocks  SlideType = "feedback_blocks"
	SlideThinkingSteps   SlideType = "thinking_steps"
)

// SlideTypes lists every supported slide type in dispatch order.
var SlideTypes = []SlideType{
	SlideIntro,
	SlideCase,
	SlideQuestionSummary,
	SlideFeedbackBlocks,
	SlideThinkingSteps,
}

// ParseSlideType returns the slide type for a manifest value.
func ParseSlideType(s string) (SlideType, bool) {
	st := SlideType(strings.TrimSpace(s))
	for _, known := range SlideTypes {
		if st == known {
			return st, true
		}
	}
	return "", false
}

// stemKeywords maps file-name fragments to slide types, checked in order.
var stemKeywords = []struct {
	keyword string
	slide   SlideType
}{
	{"intro", SlideIntro},
	{"case", SlideCase},
	{"summary", SlideQuestionSummary},
	{"feedback", SlideFeedbackBlocks},
	{"thinking", SlideThinkingSteps},
}

// InferSlideType guesses the slide type from a timing file stem such as "q1_feedback".
func InferSlideType(stem string) (SlideType, bool) {
	lower := strings.ToLower(stem)
	for _, kw := range stemKeywords {
		if strings.Contains(lower, kw.keyword) {
			return kw.slide, true
		}
	}
	return "", false
}
