package choreographer

import (
	"slidechoreo/pkg/align"
	"slidechoreo/pkg/animation"
	"slidechoreo/pkg/highlight"
	"slidechoreo/pkg/model"
)

// ThinkingSteps lays out the three thinking-step columns. Rows inside a column
// are not narrated top to bottom, so every row is matched against the whole
// transcript. A column's block start marks when it unlocks; its rows keep
// their own segment timing.
type ThinkingSteps struct {
	builder *highlight.Builder
}

// Choreograph implements Choreographer.
func (c *ThinkingSteps) Choreograph(in Input) (Result, error) {
	q := in.question()
	cues := in.Cues
	s := stream(in)

	thought, hasThought := s.PhraseStart(cues.ThoughtIntro, align.ContiguousGap)
	advice, hasAdvice := s.PhraseStart(cues.AdviceIntro, align.ContiguousGap)
	traceCue(cues.ThoughtIntro, thought, hasThought)
	traceCue(cues.AdviceIntro, advice, hasAdvice)

	rows := q.ThinkingSteps.Rows()
	specs := []model.BlockSpec{
		{BlockID: "col_steps", Phrases: make([]string, len(rows)), SearchFromStart: true},
		{BlockID: "col_thought", Phrases: make([]string, len(rows)), SearchFromStart: true},
		{BlockID: "col_advice", Phrases: make([]string, len(rows)), SearchFromStart: true},
	}
	for i, r := range rows {
		specs[0].Phrases[i] = r.Step
		specs[1].Phrases[i] = r.Approach
		specs[2].Phrases[i] = r.Ideal
	}
	hs, warns := c.builder.BuildStream(s, specs, in.TotalFrames)
	out := record(in, in.QuestionID+"_thinking")
	out.Highlights = hs

	if h := out.HighlightByID("col_thought"); h != nil && hasThought {
		highlight.AnchorBlock(h, thought)
	}
	if h := out.HighlightByID("col_advice"); h != nil {
		switch {
		case cues.AdviceStartsAtZero():
			highlight.AnchorBlock(h, 0)
			highlight.FloorSegments(h, 0)
		case hasAdvice:
			highlight.AnchorBlock(h, advice)
		}
	}

	out.Animations = animate(out.Highlights, func(id string) motion {
		switch id {
		case "col_steps":
			return motion{typ: model.AnimSlideInLeft, opts: animation.Options{Duration: 40, Lead: 18}}
		case "col_advice":
			return motion{typ: model.AnimSlideInUp, opts: animation.Options{Duration: 40}}
		default:
			return motion{typ: model.AnimSlideInUp, opts: animation.Options{Duration: 40, Lead: 18}}
		}
	})

	warns = append(q.Issues(model.SlideThinkingSteps), warns...)
	return Result{Choreography: out, Warnings: warns}, nil
}
