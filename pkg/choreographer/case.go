package choreographer

import (
	"slidechoreo/pkg/animation"
	"slidechoreo/pkg/highlight"
	"slidechoreo/pkg/model"
)

// CaseOverview highlights the four problem summary panels as they are narrated.
type CaseOverview struct {
	builder *highlight.Builder
}

// Choreograph implements Choreographer.
func (c *CaseOverview) Choreograph(in Input) (Result, error) {
	q := in.question()
	ps := q.ProblemSummary

	specs := []model.BlockSpec{
		{BlockID: "problem_scenario", Phrases: []string{firstNonEmpty(ps.ScenarioNarration, ps.Scenario)}},
		{BlockID: "data_simplified", Phrases: narratedOr(ps.DataNarration, ps.Data)},
		{BlockID: "business_rules", Phrases: narratedOr(ps.BusinessRulesNarration, ps.BusinessRules)},
		{BlockID: "performance_constraints", Phrases: narratedOr(ps.PerformanceConstraintsNarration, ps.PerformanceConstraints)},
	}
	hs, warns := c.builder.BuildStream(stream(in), specs, in.TotalFrames)

	entries := map[string]model.AnimationType{
		"problem_scenario":        model.AnimSlideInLeft,
		"data_simplified":         model.AnimSlideInRight,
		"business_rules":          model.AnimSlideInLeft,
		"performance_constraints": model.AnimSlideInRight,
	}
	out := record(in, "case_overview")
	out.Highlights = hs
	out.Animations = animate(hs, func(id string) motion {
		return motion{typ: entries[id], opts: animation.Options{Duration: 40, Lead: 18}}
	})

	warns = append(q.Issues(model.SlideCase), warns...)
	return Result{Choreography: out, Warnings: warns}, nil
}

// narratedOr prefers the spoken narration over the bullet points it summarizes.
func narratedOr(narration string, points []string) []string {
	if narration != "" {
		return []string{narration}
	}
	return points
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
