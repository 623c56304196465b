package choreographer

import (
	"slidechoreo/pkg/align"
	"slidechoreo/pkg/animation"
	"slidechoreo/pkg/highlight"
	"slidechoreo/pkg/model"
)

const (
	bulletDuration = 30
	bulletStagger  = 10
)

// FeedbackBlocks shows what went right and what went wrong, each with a bullet reveal.
type FeedbackBlocks struct {
	builder *highlight.Builder
}

// Choreograph implements Choreographer.
func (c *FeedbackBlocks) Choreograph(in Input) (Result, error) {
	q := in.question()
	cues := in.Cues
	s := stream(in)

	rightCue, hasRight := s.FirstPhraseStart(cues.RightIntro, align.ContiguousGap)
	wrongCue, hasWrong := s.FirstPhraseStart(cues.WrongIntro, align.ContiguousGap)
	traceCue("right intro", rightCue, hasRight)
	traceCue("wrong intro", wrongCue, hasWrong)

	specs := []model.BlockSpec{
		{BlockID: "right_box", Phrases: q.WhatWentRight},
		{BlockID: "wrong_box", Phrases: q.WhatWentWrong},
	}
	hs, warns := c.builder.BuildStream(s, specs, in.TotalFrames)
	out := record(in, in.QuestionID+"_feedback")
	out.Highlights = hs

	right := out.HighlightByID("right_box")
	wrong := out.HighlightByID("wrong_box")
	if right != nil && hasRight {
		highlight.Anchor(right, rightCue)
	}
	// Light the wrong box as soon as the narration pivots to it
	if wrong != nil && hasWrong {
		highlight.Nudge(wrong, wrongCue, 2)
	}

	out.Animations = animate(out.Highlights, func(id string) motion {
		if id == "right_box" {
			return motion{typ: model.AnimSlideInLeft, opts: animation.Options{Duration: 45}}
		}
		return motion{typ: model.AnimSlideInRight, opts: animation.Options{Duration: 45, Lead: 20}}
	})

	if right != nil {
		out.Animations = append(out.Animations,
			animation.BulletReveal("right_bullets", right.StartFrame-5, bulletDuration, bulletStagger))
	}
	if wrong != nil {
		from := 0
		if hasWrong {
			from = wrongCue
		}
		start := wrong.StartFrame - 5
		if anchor, ok := s.From(from).PhraseStart(cues.WrongBullet, align.ContiguousGap); ok {
			start = anchor - 2
		}
		out.Animations = append(out.Animations,
			animation.BulletReveal("wrong_bullets", start, bulletDuration, bulletStagger))
	}

	warns = append(q.Issues(model.SlideFeedbackBlocks), warns...)
	return Result{Choreography: out, Warnings: warns}, nil
}
