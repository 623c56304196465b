package choreographer

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slidechoreo/pkg/config"
	"slidechoreo/pkg/highlight"
	"slidechoreo/pkg/model"
)

// narrate builds a timing record speaking one word every third of a second (10 frames at 30fps).
func narrate(text string, durationSec float64) *model.TimingRecord {
	rec := &model.TimingRecord{AudioFile: "audio/slide.mp3"}
	if durationSec > 0 {
		rec.DurationSec = &durationSec
	}
	for i, w := range strings.Fields(text) {
		start := float64(i) / 3
		rec.Words = append(rec.Words, model.RawWord{Text: w, StartSec: start, EndSec: start + 1.0/3, DurationSec: 1.0 / 3})
	}
	return rec
}

func run(t *testing.T, slide model.SlideType, rec *model.TimingRecord, q *model.Question) Result {
	t.Helper()
	reg := NewRegistry(highlight.NewBuilder(highlight.DefaultOptions()))
	c, ok := reg.Get(slide)
	require.True(t, ok)

	in := NewInput(rec, slide, 30)
	in.Question = q
	if q != nil {
		in.QuestionID = q.ID
	}
	res, err := c.Choreograph(in)
	require.NoError(t, err)
	return res
}

func anim(c model.Choreography, blockID string) model.Animation {
	for _, a := range c.Animations {
		if a.BlockID == blockID {
			return a
		}
	}
	return model.Animation{}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry(highlight.NewBuilder(highlight.DefaultOptions()))
	for _, st := range model.SlideTypes {
		_, ok := reg.Get(st)
		assert.True(t, ok, st)
	}
	_, ok := reg.Get("outro")
	assert.False(t, ok)
}

func TestIntro(t *testing.T) {
	res := run(t, model.SlideIntro, narrate("welcome to your feedback", 0), nil)
	c := res.Choreography

	assert.Equal(t, "intro_welcome", c.SlideType)
	assert.Equal(t, 180, c.TotalDurationFrames, "missing duration falls back to 6 seconds")
	assert.Equal(t, 6.0, c.ActualDurationSec)
	assert.Equal(t, []model.Animation{
		{BlockID: "intro_caption", Type: model.AnimFadeIn, StartFrame: 0, DurationFrames: 60, Easing: model.EaseOut},
	}, c.Animations)
	assert.Len(t, c.Narration.WordTimings, 4)
	assert.Equal(t, 180, c.Narration.EndFrame)

	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "highlights")
	assert.Contains(t, string(data), `"word":"welcome"`)
}

func TestCaseOverview(t *testing.T) {
	q := &model.Question{
		ID: "q1",
		ProblemSummary: model.ProblemSummary{
			Scenario:               "ignored when narrated",
			ScenarioNarration:      "A retailer sees wrong prices",
			Data:                   model.StringList{"orders table", "price table"},
			BusinessRulesNarration: "discounts apply once",
			BusinessRules:          model.StringList{"not used"},
		},
	}
	rec := narrate("a retailer sees wrong prices the orders table and the price table hold the data and discounts apply once", 20)
	res := run(t, model.SlideCase, rec, q)
	c := res.Choreography

	assert.Equal(t, "case_overview", c.SlideType)
	require.Len(t, c.Highlights, 4)

	assert.Equal(t, 0, c.Highlights[0].StartFrame)
	assert.Equal(t, 52, c.Highlights[0].EndFrame)
	assert.Equal(t, 52, c.Highlights[1].StartFrame)
	assert.Equal(t, 122, c.Highlights[1].EndFrame)
	assert.Len(t, c.Highlights[1].Segments, 2)
	assert.Equal(t, 152, c.Highlights[2].StartFrame)

	// performance constraints were never authored
	assert.Equal(t, []model.Segment{{StartFrame: 450, EndFrame: 600}}, c.Highlights[3].Segments)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, model.WarnPhraseMatch, res.Warnings[0].Kind)
	assert.Equal(t, "performance_constraints", res.Warnings[0].BlockID)

	want := []model.Animation{
		{BlockID: "problem_scenario", Type: model.AnimSlideInLeft, StartFrame: 0, DurationFrames: 40, Easing: model.EaseOut},
		{BlockID: "data_simplified", Type: model.AnimSlideInRight, StartFrame: 34, DurationFrames: 40, Easing: model.EaseOut},
		{BlockID: "business_rules", Type: model.AnimSlideInLeft, StartFrame: 134, DurationFrames: 40, Easing: model.EaseOut},
		{BlockID: "performance_constraints", Type: model.AnimSlideInRight, StartFrame: 432, DurationFrames: 40, Easing: model.EaseOut},
	}
	assert.Equal(t, want, c.Animations)
}

const summaryScript = "Why does the invoice total differ from the order total " +
	"You had to find where the price difference is coming from. " +
	"Here is your feedback summary. " +
	"You found the orders table but missed the discount join. " +
	"So you started in the right direction, but did not complete the full tracing. " +
	"You scored 7 out of 10"

func summaryQuestion() *model.Question {
	return &model.Question{
		ID:              "q1",
		Prompt:          "Why does the invoice total differ from the order total",
		FeedbackSummary: "You found the orders table but missed the discount join",
		Score:           model.NewScore(7),
	}
}

func TestQuestionSummary(t *testing.T) {
	res := run(t, model.SlideQuestionSummary, narrate(summaryScript, 20), summaryQuestion())
	c := res.Choreography
	assert.Empty(t, res.Warnings)
	assert.Equal(t, "q1_summary", c.SlideType)

	q := c.HighlightByID("question_block")
	require.NotNil(t, q)
	assert.Equal(t, 0, q.StartFrame)
	assert.Equal(t, 210, q.EndFrame, "held until the task restatement ends")
	assert.Equal(t, 210, q.Segments[0].EndFrame)

	fb := c.HighlightByID("feedback_block")
	require.NotNil(t, fb)
	assert.Equal(t, 240, fb.StartFrame, "anchored to the spoken cue")
	assert.Equal(t, 360, fb.EndFrame, "cut where the closing sentence starts")
	assert.Equal(t, model.Segment{Text: summaryQuestion().FeedbackSummary, StartFrame: 240, EndFrame: 360}, fb.Segments[0])

	score := c.HighlightByID("score_badge")
	require.NotNil(t, score)
	assert.Equal(t, 492, score.StartFrame)

	assert.Equal(t, model.Animation{BlockID: "question_block", Type: model.AnimSlideInRight, StartFrame: 0, DurationFrames: 35, Easing: model.EaseOut}, anim(c, "question_block"))
	assert.Equal(t, model.Animation{BlockID: "feedback_block", Type: model.AnimSlideInRight, StartFrame: 240, DurationFrames: 35, Easing: model.EaseOut}, anim(c, "feedback_block"))
	assert.Equal(t, model.Animation{BlockID: "score_badge", Type: model.AnimScaleIn, StartFrame: 477, DurationFrames: 30, Easing: model.EaseOut}, anim(c, "score_badge"))
	assert.Equal(t, model.Animation{BlockID: "score_number", Type: model.AnimCounter, StartFrame: 487, DurationFrames: 40, Easing: model.Linear}, anim(c, "score_number"))
}

func TestQuestionSummary_MissingQuestionEnd(t *testing.T) {
	script := "Why does the invoice total differ from the order total and here is your feedback summary"
	q := summaryQuestion()
	q.Score = model.Score{}
	res := run(t, model.SlideQuestionSummary, narrate(script, 10), q)

	h := res.Choreography.HighlightByID("question_block")
	require.NotNil(t, h)
	assert.Equal(t, 300, h.EndFrame)

	var kinds []model.WarningKind
	for _, w := range res.Warnings {
		kinds = append(kinds, w.Kind)
	}
	assert.Contains(t, kinds, model.WarnCueNotFound)
	assert.Contains(t, kinds, model.WarnMalformedField, "score was not authored")
	assert.Contains(t, kinds, model.WarnPhraseMatch)
}

func TestQuestionSummary_UnscoredBadgeFallsBack(t *testing.T) {
	q := summaryQuestion()
	q.Score = model.Score{}
	res := run(t, model.SlideQuestionSummary, narrate(summaryScript, 20), q)

	score := res.Choreography.HighlightByID("score_badge")
	require.NotNil(t, score)
	// third of three blocks on a 600 frame slide
	assert.Equal(t, []model.Segment{{StartFrame: 400, EndFrame: 600}}, score.Segments)
	assert.Equal(t, 400, score.StartFrame)

	var kinds []model.WarningKind
	for _, w := range res.Warnings {
		kinds = append(kinds, w.Kind)
		assert.NotContains(t, w.Message, "  ")
		if w.Kind == model.WarnPhraseMatch {
			assert.Equal(t, "score_badge", w.BlockID)
		}
	}
	assert.ElementsMatch(t, []model.WarningKind{model.WarnMalformedField, model.WarnPhraseMatch}, kinds)
}

func TestQuestionSummary_CueOverride(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Slides = []config.SlideOverride{{
		SlideType:  string(model.SlideQuestionSummary),
		QuestionID: "q1",
		Cues:       config.CuePhrases{FeedbackIntro: "your feedback"},
	}}

	reg := NewRegistry(highlight.NewBuilder(highlight.DefaultOptions()))
	c, _ := reg.Get(model.SlideQuestionSummary)
	in := NewInput(narrate(summaryScript, 20), model.SlideQuestionSummary, 30)
	in.Question = summaryQuestion()
	in.QuestionID = "q1"
	in.Cues = cfg.CueTable().Lookup(config.SlideKey{SlideType: string(model.SlideQuestionSummary), QuestionID: "q1"})

	res, err := c.Choreograph(in)
	require.NoError(t, err)
	assert.Equal(t, 230, res.Choreography.HighlightByID("feedback_block").StartFrame)
}

func TestFeedbackBlocks(t *testing.T) {
	q := &model.Question{
		ID:            "q2",
		WhatWentRight: model.StringList{"you found the orders table"},
		WhatWentWrong: model.StringList{"you missed the discount join"},
	}
	script := "Let's start with the positives first you found the orders table " +
		"now let's see what went wrong one you missed the discount join"
	res := run(t, model.SlideFeedbackBlocks, narrate(script, 0), q)
	c := res.Choreography
	assert.Empty(t, res.Warnings)
	assert.Equal(t, "q2_feedback", c.SlideType)
	assert.Equal(t, 270, c.TotalDurationFrames)

	right := c.HighlightByID("right_box")
	require.NotNil(t, right)
	assert.Equal(t, 0, right.StartFrame)
	assert.Equal(t, 0, right.Segments[0].StartFrame)
	assert.Equal(t, 112, right.EndFrame)

	wrong := c.HighlightByID("wrong_box")
	require.NotNil(t, wrong)
	assert.Equal(t, 108, wrong.StartFrame, "nudged to the pivot cue")
	assert.Equal(t, 172, wrong.Segments[0].StartFrame, "segments keep their own timing")

	ten := 10
	assert.Equal(t, []model.Animation{
		{BlockID: "right_box", Type: model.AnimSlideInLeft, StartFrame: 0, DurationFrames: 45, Easing: model.EaseOut},
		{BlockID: "wrong_box", Type: model.AnimSlideInRight, StartFrame: 88, DurationFrames: 45, Easing: model.EaseOut},
		{BlockID: "right_bullets", Type: model.AnimFadeIn, StartFrame: 0, DurationFrames: 30, Easing: model.EaseOut, Stagger: &ten},
		{BlockID: "wrong_bullets", Type: model.AnimFadeIn, StartFrame: 168, DurationFrames: 30, Easing: model.EaseOut, Stagger: &ten},
	}, c.Animations)
}

func TestFeedbackBlocks_MissingWrongList(t *testing.T) {
	q := &model.Question{ID: "q2", WhatWentRight: model.StringList{"you found the orders table"}}
	res := run(t, model.SlideFeedbackBlocks, narrate("let's start you found the orders table", 0), q)

	require.Len(t, res.Warnings, 2)
	assert.Equal(t, model.WarnMalformedField, res.Warnings[0].Kind)
	assert.Equal(t, model.WarnPhraseMatch, res.Warnings[1].Kind)

	wrong := res.Choreography.HighlightByID("wrong_box")
	require.NotNil(t, wrong)
	assert.Equal(t, 135, wrong.StartFrame)
	assert.Equal(t, 270, wrong.EndFrame)
	assert.Equal(t, 130, anim(res.Choreography, "wrong_bullets").StartFrame)
}

func TestThinkingSteps(t *testing.T) {
	q := &model.Question{
		ID: "q3",
		ThinkingSteps: model.ColumnSteps(
			[]string{"locate the rows", "trace the totals"},
			[]string{"scanned every table"},
			[]string{"trace the totals"},
		),
	}
	script := "trace the totals first how you thought you scanned every table then locate the rows"
	res := run(t, model.SlideThinkingSteps, narrate(script, 0), q)
	c := res.Choreography
	assert.Empty(t, res.Warnings)
	assert.Equal(t, "q3_thinking", c.SlideType)
	assert.Equal(t, 300, c.TotalDurationFrames)

	steps := c.HighlightByID("col_steps")
	require.NotNil(t, steps)
	assert.Equal(t, []model.Segment{
		{Text: "locate the rows", StartFrame: 112, EndFrame: 152},
		{Text: "trace the totals", StartFrame: 0, EndFrame: 32},
	}, steps.Segments, "rows are matched from the start of the transcript")

	thought := c.HighlightByID("col_thought")
	require.NotNil(t, thought)
	assert.Equal(t, 40, thought.StartFrame, "column unlocks on the spoken cue")
	assert.Equal(t, 72, thought.Segments[0].StartFrame)

	advice := c.HighlightByID("col_advice")
	require.NotNil(t, advice)
	assert.Equal(t, 0, advice.StartFrame)

	assert.Equal(t, model.Animation{BlockID: "col_steps", Type: model.AnimSlideInLeft, StartFrame: 0, DurationFrames: 40, Easing: model.EaseOut}, anim(c, "col_steps"))
	assert.Equal(t, model.Animation{BlockID: "col_thought", Type: model.AnimSlideInUp, StartFrame: 22, DurationFrames: 40, Easing: model.EaseOut}, anim(c, "col_thought"))
	assert.Equal(t, model.Animation{BlockID: "col_advice", Type: model.AnimSlideInUp, StartFrame: 0, DurationFrames: 40, Easing: model.EaseOut}, anim(c, "col_advice"))
}

func TestChoreograph_Idempotent(t *testing.T) {
	first := run(t, model.SlideQuestionSummary, narrate(summaryScript, 20), summaryQuestion())
	second := run(t, model.SlideQuestionSummary, narrate(summaryScript, 20), summaryQuestion())

	a, err := json.MarshalIndent(first.Choreography, "", "  ")
	require.NoError(t, err)
	b, err := json.MarshalIndent(second.Choreography, "", "  ")
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}
