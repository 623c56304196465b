// Package timing loads TTS word timing records and converts them to frames.
package timing

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"slidechoreo/pkg/model"
)

// DefaultFPS is the renderer frame rate.
const DefaultFPS = 30

// defaultDurations is used when a timing record omits duration_sec.
var defaultDurations = map[model.SlideType]float64{
	model.SlideIntro:           6.0,
	model.SlideCase:            15.0,
	model.SlideQuestionSummary: 8.0,
	model.SlideFeedbackBlocks:  9.0,
	model.SlideThinkingSteps:   10.0,
}

// Load reads a timing record from disk. The raw bytes are returned alongside
// the record for change detection.
func Load(path string) (*model.TimingRecord, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read timing file: %w", err)
	}
	rec, err := Decode(data)
	if err != nil {
		return nil, nil, err
	}
	return rec, data, nil
}

// Decode parses a timing record.
func Decode(data []byte) (*model.TimingRecord, error) {
	var rec model.TimingRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse timing record: %w", err)
	}
	return &rec, nil
}

// SecondsToFrames converts seconds to the nearest frame, rounding halves to even.
func SecondsToFrames(seconds float64, fps int) int {
	return int(math.RoundToEven(seconds * float64(fps)))
}

// ToFrames converts raw words to frame timings, preserving input order.
// The result is never nil so it encodes as an empty JSON list.
func ToFrames(words []model.RawWord, fps int) []model.WordTiming {
	out := make([]model.WordTiming, 0, len(words))
	for _, w := range words {
		out = append(out, model.WordTiming{
			Text:           w.Text,
			StartFrame:     SecondsToFrames(w.StartSec, fps),
			EndFrame:       SecondsToFrames(w.EndSec, fps),
			DurationFrames: SecondsToFrames(w.DurationSec, fps),
		})
	}
	return out
}

// Duration returns the record's duration, or the slide type's default when absent.
func Duration(rec *model.TimingRecord, slide model.SlideType) float64 {
	if rec.DurationSec != nil {
		return *rec.DurationSec
	}
	if d, ok := defaultDurations[slide]; ok {
		return d
	}
	return 0
}
