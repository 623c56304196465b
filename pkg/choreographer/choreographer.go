// Package choreographer assembles per-slide choreography from word timings and session content.
package choreographer

import (
	"slidechoreo/pkg/align"
	"slidechoreo/pkg/animation"
	"slidechoreo/pkg/config"
	"slidechoreo/pkg/highlight"
	"slidechoreo/pkg/logging"
	"slidechoreo/pkg/model"
	"slidechoreo/pkg/timing"
)

// Input is everything a choreographer needs for one slide instance.
type Input struct {
	Timing      *model.TimingRecord
	Words       []model.WordTiming
	TotalFrames int
	DurationSec float64
	Question    *model.Question // nil when the session has no questions
	QuestionID  string
	Cues        config.CuePhrases
}

// Result is a finished choreography plus the non-fatal problems met on the way.
type Result struct {
	Choreography model.Choreography
	Warnings     []model.Warning
}

// Choreographer produces the choreography for one slide type.
type Choreographer interface {
	Choreograph(in Input) (Result, error)
}

// NewInput converts a timing record to frames for slide, with default cue phrases.
func NewInput(rec *model.TimingRecord, slide model.SlideType, fps int) Input {
	dur := timing.Duration(rec, slide)
	return Input{
		Timing:      rec,
		Words:       timing.ToFrames(rec.Words, fps),
		TotalFrames: timing.SecondsToFrames(dur, fps),
		DurationSec: dur,
		Cues:        config.DefaultCues(),
	}
}

// Registry maps slide types to their choreographers.
type Registry struct {
	byType map[model.SlideType]Choreographer
}

// NewRegistry registers the built-in choreographers, all sharing one highlight builder.
func NewRegistry(b *highlight.Builder) *Registry {
	return &Registry{
		byType: map[model.SlideType]Choreographer{
			model.SlideIntro:           &Intro{},
			model.SlideCase:            &CaseOverview{builder: b},
			model.SlideQuestionSummary: &QuestionSummary{builder: b},
			model.SlideFeedbackBlocks:  &FeedbackBlocks{builder: b},
			model.SlideThinkingSteps:   &ThinkingSteps{builder: b},
		},
	}
}

// Get returns the choreographer for t.
func (r *Registry) Get(t model.SlideType) (Choreographer, bool) {
	c, ok := r.byType[t]
	return c, ok
}

func (in Input) question() *model.Question {
	if in.Question == nil {
		return &model.Question{ID: in.QuestionID}
	}
	return in.Question
}

func (in Input) audioFile() string {
	if in.Timing == nil {
		return ""
	}
	return in.Timing.AudioFile
}

// record fills the fields every slide shares.
func record(in Input, slideType string) model.Choreography {
	words := in.Words
	if words == nil {
		words = []model.WordTiming{}
	}
	return model.Choreography{
		SlideType:           slideType,
		TotalDurationFrames: in.TotalFrames,
		ActualDurationSec:   in.DurationSec,
		Animations:          []model.Animation{},
		Narration: model.Narration{
			AudioFile:   in.audioFile(),
			StartFrame:  0,
			EndFrame:    in.TotalFrames,
			DurationSec: in.DurationSec,
			WordTimings: words,
		},
	}
}

// motion is the entrance animation a block gets.
type motion struct {
	typ  model.AnimationType
	opts animation.Options
}

// animate derives one animation per highlight, in highlight order.
func animate(hs []model.Highlight, pick func(blockID string) motion) []model.Animation {
	out := make([]model.Animation, 0, len(hs))
	for _, h := range hs {
		m := pick(h.BlockID)
		out = append(out, animation.FromHighlight(h, m.typ, m.opts))
	}
	return out
}

func cueMissing(blockID, phrase, fallback string) model.Warning {
	return model.Warning{
		Kind:    model.WarnCueNotFound,
		BlockID: blockID,
		Message: "could not find \"" + phrase + "\", " + fallback,
	}
}

func traceCue(phrase string, frame int, found bool) {
	if !found {
		logging.TraceDefault("Cue not spoken", "cue", phrase)
		return
	}
	logging.TraceDefault("Cue located", "cue", phrase, "frame", frame)
}

// stream tokenizes the slide transcript once for builder and cue lookups.
func stream(in Input) *align.Stream {
	return align.NewStream(in.Words)
}
