package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Session is the authored content for one candidate's feedback video.
type Session struct {
	SessionID     string     `json:"session_id"`
	CandidateName string     `json:"candidate_name"`
	CaseTitle     string     `json:"case_title"`
	Questions     []Question `json:"questions"`
}

// Question holds the per-question fields read by the choreographers.
type Question struct {
	ID              string         `json:"question_id"`
	Number          int            `json:"question_number"`
	Topic           string         `json:"topic"`
	Score           Score          `json:"score"`
	ScoreText       string         `json:"score_text"`
	Prompt          string         `json:"question_prompt"`
	ProblemSummary  ProblemSummary `json:"problem_summary"`
	FeedbackSummary string         `json:"feedback_summary"`
	WhatWentRight   StringList     `json:"what_went_right"`
	WhatWentWrong   StringList     `json:"what_went_wrong"`
	ThinkingAdvice  string         `json:"thinking_advice"`
	ThinkingSteps   ThinkingSteps  `json:"thinking_steps"`
}

// ProblemSummary is the case overview content. Narration fields, when present,
// are what the voice actually says and take precedence over the point lists.
type ProblemSummary struct {
	Scenario                        string     `json:"scenario"`
	ScenarioNarration               string     `json:"scenario_narration"`
	Data                            StringList `json:"data"`
	DataNarration                   string     `json:"data_narration"`
	BusinessRules                   StringList `json:"business_rules"`
	BusinessRulesNarration          string     `json:"business_rules_narration"`
	PerformanceConstraints          StringList `json:"performance_constraints"`
	PerformanceConstraintsNarration string     `json:"performance_constraints_narration"`
}

// StringList decodes a JSON list of strings leniently: null, a bare string or
// mixed element types never fail the surrounding document.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *StringList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*l = nil
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = StringList{s}
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		out := make(StringList, 0, len(raw))
		for _, item := range raw {
			var s string
			if json.Unmarshal(item, &s) == nil {
				out = append(out, s)
			}
		}
		*l = out
	default:
		*l = nil
	}
	return nil
}

// Score is a question score authored as a number, a string or null.
type Score struct {
	raw   string
	valid bool
}

// NewScore builds a score from a number.
func NewScore(v float64) Score {
	return Score{raw: strconv.FormatFloat(v, 'f', -1, 64), valid: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Score) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*s = Score{}
		return nil
	}
	if b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = Score{raw: strings.TrimSpace(str), valid: strings.TrimSpace(str) != ""}
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		// Objects, bools and the like carry no usable score
		*s = Score{}
		return nil
	}
	*s = NewScore(f)
	return nil
}

// Valid reports whether a score was authored.
func (s Score) Valid() bool { return s.valid }

func (s Score) String() string { return s.raw }

// StepRow is one normalized thinking-step row.
type StepRow struct {
	Step     string
	Approach string
	Ideal    string
}

// StepShape records which authored layout a ThinkingSteps value came from.
type StepShape int

const (
	StepShapeNone StepShape = iota
	StepShapeColumns
	StepShapeRows
)

// ThinkingSteps is authored either as parallel columns or as a list of row
// objects. Both are normalized to rows.
type ThinkingSteps struct {
	shape StepShape
	rows  []StepRow
}

// ColumnSteps builds thinking steps from parallel columns, padding short
// columns with empty strings.
func ColumnSteps(steps, thought, advice []string) ThinkingSteps {
	n := max(len(steps), len(thought), len(advice))
	rows := make([]StepRow, n)
	for i := range rows {
		rows[i] = StepRow{
			Step:     at(steps, i),
			Approach: at(thought, i),
			Ideal:    at(advice, i),
		}
	}
	return ThinkingSteps{shape: StepShapeColumns, rows: rows}
}

// RowSteps builds thinking steps from row objects.
func RowSteps(rows []StepRow) ThinkingSteps {
	return ThinkingSteps{shape: StepShapeRows, rows: append([]StepRow(nil), rows...)}
}

func at(list []string, i int) string {
	if i < len(list) {
		return list[i]
	}
	return ""
}

// Shape returns the authored layout.
func (t ThinkingSteps) Shape() StepShape { return t.shape }

// Rows returns a copy of the normalized rows.
func (t ThinkingSteps) Rows() []StepRow {
	return append([]StepRow(nil), t.rows...)
}

type stepColumnsJSON struct {
	Steps          StringList `json:"steps"`
	HowYouThought  StringList `json:"how_you_thought"`
	ThinkingAdvice StringList `json:"thinking_advice"`
}

type stepRowJSON struct {
	StepTitle    string `json:"step_title"`
	YourApproach string `json:"your_approach"`
	Ideal        string `json:"ideal"`
}

// UnmarshalJSON implements json.Unmarshaler, picking the variant from the payload shape.
func (t *ThinkingSteps) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		*t = ThinkingSteps{}
		return nil
	}
	switch b[0] {
	case '{':
		var cols stepColumnsJSON
		if err := json.Unmarshal(b, &cols); err != nil {
			return fmt.Errorf("thinking_steps columns: %w", err)
		}
		*t = ColumnSteps(cols.Steps, cols.HowYouThought, cols.ThinkingAdvice)
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(b, &raw); err != nil {
			return fmt.Errorf("thinking_steps rows: %w", err)
		}
		rows := make([]StepRow, 0, len(raw))
		for _, item := range raw {
			var r stepRowJSON
			if json.Unmarshal(item, &r) != nil {
				continue
			}
			rows = append(rows, StepRow{Step: r.StepTitle, Approach: r.YourApproach, Ideal: r.Ideal})
		}
		*t = RowSteps(rows)
	default:
		*t = ThinkingSteps{}
	}
	return nil
}

// Issues lists expected sub-fields that are missing from the question.
// They are recovered with empty defaults and reported as warnings.
func (q *Question) Issues(slide SlideType) []Warning {
	var out []Warning
	missing := func(field string) {
		out = append(out, Warning{
			Kind:    WarnMalformedField,
			Message: fmt.Sprintf("question %q has no %s", q.ID, field),
		})
	}
	switch slide {
	case SlideCase:
		ps := q.ProblemSummary
		if ps.ScenarioNarration == "" && ps.Scenario == "" {
			missing("problem_summary.scenario")
		}
	case SlideQuestionSummary:
		if q.Prompt == "" {
			missing("question_prompt")
		}
		if q.FeedbackSummary == "" {
			missing("feedback_summary")
		}
		if !q.Score.Valid() {
			missing("score")
		}
	case SlideFeedbackBlocks:
		if len(q.WhatWentRight) == 0 {
			missing("what_went_right")
		}
		if len(q.WhatWentWrong) == 0 {
			missing("what_went_wrong")
		}
	case SlideThinkingSteps:
		switch {
		case q.ThinkingSteps.Shape() == StepShapeNone:
			missing("thinking_steps")
		case len(q.ThinkingSteps.rows) == 0:
			out = append(out, Warning{
				Kind:    WarnMalformedField,
				Message: fmt.Sprintf("question %q has empty thinking_steps", q.ID),
			})
		}
	}
	return out
}
