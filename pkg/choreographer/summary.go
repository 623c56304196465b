package choreographer

import (
	"fmt"

	"slidechoreo/pkg/align"
	"slidechoreo/pkg/animation"
	"slidechoreo/pkg/highlight"
	"slidechoreo/pkg/model"
)

// QuestionSummary shows the question prompt, the feedback summary and the score badge.
//
// The question block stays lit until the narration finishes restating the task.
// The feedback block appears on the spoken "feedback summary" cue and goes dark
// when the narration moves on to its closing sentence.
type QuestionSummary struct {
	builder *highlight.Builder
}

// Choreograph implements Choreographer.
func (c *QuestionSummary) Choreograph(in Input) (Result, error) {
	q := in.question()
	cues := in.Cues
	s := stream(in)

	// Unscored questions leave the badge to fallback timing
	var scored []string
	if q.Score.Valid() {
		scored = []string{fmt.Sprintf("You scored %s out of 10", q.Score)}
	}
	specs := []model.BlockSpec{
		{BlockID: "question_block", Phrases: []string{q.Prompt}},
		{BlockID: "feedback_block", Phrases: []string{q.FeedbackSummary}},
		{BlockID: "score_badge", Phrases: scored},
	}
	hs, warns := c.builder.BuildStream(s, specs, in.TotalFrames)
	out := record(in, in.QuestionID+"_summary")
	out.Highlights = hs

	if qh := out.HighlightByID("question_block"); qh != nil {
		end, ok := s.PhraseEnd(cues.QuestionEnd, cues.QuestionGap())
		traceCue(cues.QuestionEnd, end, ok)
		if !ok {
			end = in.TotalFrames
			warns = append(warns, cueMissing(qh.BlockID, cues.QuestionEnd, "keeping highlight to the end of narration"))
		}
		highlight.Truncate(qh, end)
	}

	if fh := out.HighlightByID("feedback_block"); fh != nil {
		start, ok := s.PhraseStart(cues.FeedbackIntro, align.ContiguousGap)
		traceCue(cues.FeedbackIntro, start, ok)
		if ok {
			highlight.Anchor(fh, start)
		}
		cut, ok := s.PhraseStart(cues.FeedbackEnd, c.builder.Options().MaxGap)
		traceCue(cues.FeedbackEnd, cut, ok)
		if ok {
			highlight.Truncate(fh, max(cut, fh.StartFrame))
		}
	}

	out.Animations = animate(out.Highlights, func(id string) motion {
		m := motion{typ: model.AnimFadeIn, opts: animation.Options{Duration: 35, Lead: 15}}
		switch id {
		case "question_block":
			m.typ = model.AnimSlideInRight
		case "feedback_block":
			m.typ = model.AnimSlideInRight
			m.opts.Lead = 0
		case "score_badge":
			m.typ = model.AnimScaleIn
			m.opts.Duration = 30
		}
		return m
	})

	if sh := out.HighlightByID("score_badge"); sh != nil {
		out.Animations = append(out.Animations, animation.At("score_number", model.AnimCounter,
			sh.StartFrame-5, animation.Options{Duration: 40, Easing: model.Linear}))
	}

	warns = append(q.Issues(model.SlideQuestionSummary), warns...)
	return Result{Choreography: out, Warnings: warns}, nil
}
