// Package manifest maps timing files to the slide they narrate.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Narration is the audio part of a manifest event.
type Narration struct {
	Text      string   `json:"text"`
	AudioFile string   `json:"audio_file"`
	Keywords  []string `json:"keywords,omitempty"`
}

// Entry is one narrated slide of the manifest.
type Entry struct {
	QuestionID     string    `json:"question_id"`
	QuestionNumber int       `json:"question_number"`
	SlideType      string    `json:"slide_type"`
	SlideIndex     int       `json:"slide_index"`
	Narration      Narration `json:"narration"`
}

// Manifest is the ordered list of narrated slides.
type Manifest struct {
	Entries []Entry
}

// Load reads a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &Manifest{Entries: entries}, nil
}

// Stem returns a timing file's name without directory and extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Match returns the first entry whose audio file names stem. The stem matches
// when it is contained in the audio path, or equals the path with the "audio/"
// prefix and ".mp3" suffix removed.
func (m *Manifest) Match(stem string) (Entry, bool) {
	if stem == "" {
		return Entry{}, false
	}
	for _, e := range m.Entries {
		audio := e.Narration.AudioFile
		if strings.Contains(audio, stem) {
			return e, true
		}
		if strings.ReplaceAll(strings.ReplaceAll(audio, "audio/", ""), ".mp3", "") == stem {
			return e, true
		}
	}
	return Entry{}, false
}
