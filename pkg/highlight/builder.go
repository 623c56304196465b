// Package highlight turns block phrase lists into frame windows.
package highlight

import (
	"fmt"
	"log/slog"
	"strings"

	"slidechoreo/pkg/align"
	"slidechoreo/pkg/config"
	"slidechoreo/pkg/logging"
	"slidechoreo/pkg/model"
)

// Options tunes matching and window padding.
type Options struct {
	Color           string
	LeadFrames      int
	TrailFrames     int
	MaxGap          int
	MaxMatches      int
	FallbackStagger int
}

// DefaultOptions returns the renderer's stock timing.
func DefaultOptions() Options {
	return Options{
		Color:           model.DefaultHighlightColor,
		LeadFrames:      8,
		TrailFrames:     2,
		MaxGap:          align.DefaultMaxGap,
		MaxMatches:      align.DefaultMaxMatches,
		FallbackStagger: 10,
	}
}

// OptionsFromConfig maps the highlight config section onto Options.
func OptionsFromConfig(c config.HighlightConfig) Options {
	o := Options{
		Color:           c.Color,
		LeadFrames:      c.LeadFrames,
		TrailFrames:     c.TrailFrames,
		MaxGap:          c.MaxGap,
		MaxMatches:      c.MaxMatches,
		FallbackStagger: c.FallbackStagger,
	}
	if o.Color == "" {
		o.Color = model.DefaultHighlightColor
	}
	if o.MaxMatches < 1 {
		o.MaxMatches = 1
	}
	return o
}

// Builder computes highlights for a slide's blocks.
type Builder struct {
	opts   Options
	logger *slog.Logger
}

// NewBuilder creates a Builder.
func NewBuilder(opts Options) *Builder {
	return &Builder{
		opts:   opts,
		logger: slog.With("component", "highlight"),
	}
}

// Options returns the builder's settings.
func (b *Builder) Options() Options { return b.opts }

// Build returns one highlight per spec, in spec order.
func (b *Builder) Build(words []model.WordTiming, specs []model.BlockSpec, totalFrames int) ([]model.Highlight, []model.Warning) {
	return b.BuildStream(align.NewStream(words), specs, totalFrames)
}

// BuildStream is Build over an already tokenized transcript.
//
// Each block keeps its own token cursor, advanced past every matched phrase, so
// phrases are found in spoken order. Tokens matched by a block are claimed for
// the rest of the slide: no later block may start a window on them. Blocks with
// SearchFromStart match every phrase from the first token and neither claim nor
// respect claims. If any phrase of a block cannot be found, or none of its
// phrases has a speakable token, the block's partial matches are dropped and it
// gets evenly staggered fallback timing inside its share of the slide.
func (b *Builder) BuildStream(s *align.Stream, specs []model.BlockSpec, totalFrames int) ([]model.Highlight, []model.Warning) {
	if len(specs) == 0 {
		return nil, nil
	}

	chunk := max(totalFrames/len(specs), 1)
	highlights := make([]model.Highlight, 0, len(specs))
	var warnings []model.Warning
	claimed := make(map[int]bool)

	for idx, spec := range specs {
		phrases := nonEmpty(spec.Phrases)
		segments, windows, missed := b.match(s, spec, phrases, claimed)

		if len(segments) == 0 || len(missed) > 0 {
			segments = b.fallback(phrases, idx, chunk, totalFrames)
			w := model.Warning{
				Kind:    model.WarnPhraseMatch,
				BlockID: spec.BlockID,
				Message: "block has no matchable phrases, using fallback timing",
			}
			if len(missed) > 0 {
				w.Message = fmt.Sprintf("no match for %d of %d phrases (%s), using fallback timing",
					len(missed), len(phrases), quoteAll(missed))
			}
			warnings = append(warnings, w)
		} else if !spec.SearchFromStart {
			for _, w := range windows {
				for i := w.Start; i <= w.End; i++ {
					claimed[i] = true
				}
			}
		}

		h := model.Highlight{
			BlockID:  spec.BlockID,
			Color:    spec.Color,
			Segments: segments,
		}
		if h.Color == "" {
			h.Color = b.opts.Color
		}
		h.StartFrame, h.EndFrame = bounds(segments)
		highlights = append(highlights, h)
	}
	return highlights, warnings
}

// match locates every phrase of a block. It returns the matched segments, their
// token windows and the phrases that could not be found.
func (b *Builder) match(s *align.Stream, spec model.BlockSpec, phrases []string, claimed map[int]bool) ([]model.Segment, []align.Window, []string) {
	segments := make([]model.Segment, 0, len(phrases))
	windows := make([]align.Window, 0, len(phrases))
	var missed []string
	cursor := 0

	for _, phrase := range phrases {
		tokens := align.Tokenize(phrase)
		if len(tokens) == 0 {
			// Pure punctuation says nothing we can hear
			continue
		}
		var (
			w  align.Window
			ok bool
		)
		if spec.SearchFromStart {
			w, ok = s.Match(tokens, 0, b.opts.MaxGap)
		} else {
			w, ok = b.unclaimed(s, tokens, cursor, claimed)
		}
		if !ok {
			missed = append(missed, phrase)
			continue
		}

		start := max(s.Word(w.Start).StartFrame-b.opts.LeadFrames, 0)
		end := max(s.Word(w.End).EndFrame+b.opts.TrailFrames, start)
		segments = append(segments, model.Segment{Text: phrase, StartFrame: start, EndFrame: end})
		windows = append(windows, w)
		logging.Trace(b.logger, "Phrase matched",
			"block", spec.BlockID,
			"phrase", phrase,
			"tokens", fmt.Sprintf("%d-%d", w.Start, w.End),
			"start", start,
			"end", end)

		if !spec.SearchFromStart {
			cursor = w.End + 1
		}
	}
	return segments, windows, missed
}

// unclaimed returns the first window at or after from that does not start on a
// token an earlier block claimed. Candidates are scanned MaxMatches at a time.
func (b *Builder) unclaimed(s *align.Stream, tokens []string, from int, claimed map[int]bool) (align.Window, bool) {
	for from < s.Len() {
		candidates := s.Matches(tokens, from, b.opts.MaxGap, b.opts.MaxMatches)
		if len(candidates) == 0 {
			break
		}
		for _, w := range candidates {
			if !claimed[w.Start] {
				return w, true
			}
		}
		from = candidates[len(candidates)-1].Start + 1
	}
	return align.Window{}, false
}

// fallback splits the block's share of the slide across its phrases, offsetting
// each by the stagger. The last segment always runs to the end of the share.
func (b *Builder) fallback(phrases []string, idx, chunk, totalFrames int) []model.Segment {
	start := idx * chunk
	end := min(start+chunk, totalFrames)
	count := max(len(phrases), 1)
	span := max((end-start)/count, 1)

	segments := make([]model.Segment, count)
	for i := range segments {
		segStart := start + i*span + i*b.opts.FallbackStagger
		segEnd := min(segStart+span, end)
		if i == count-1 {
			segEnd = end
		}
		text := ""
		if i < len(phrases) {
			text = phrases[i]
		}
		segments[i] = model.Segment{Text: text, StartFrame: segStart, EndFrame: max(segEnd, segStart)}
	}
	return segments
}

func bounds(segments []model.Segment) (int, int) {
	if len(segments) == 0 {
		return 0, 0
	}
	start, end := segments[0].StartFrame, segments[0].EndFrame
	for _, seg := range segments[1:] {
		start = min(start, seg.StartFrame)
		end = max(end, seg.EndFrame)
	}
	return start, end
}

func nonEmpty(phrases []string) []string {
	out := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func quoteAll(phrases []string) string {
	q := make([]string, len(phrases))
	for i, p := range phrases {
		if r := []rune(p); len(r) > 40 {
			p = string(r[:40]) + "..."
		}
		q[i] = fmt.Sprintf("%q", p)
	}
	return strings.Join(q, ", ")
}
