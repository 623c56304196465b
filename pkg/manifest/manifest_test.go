package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const manifestJSON = `[
	{"question_id": "", "slide_type": "intro", "narration": {"text": "Welcome", "audio_file": "audio/intro_welcome.mp3"}},
	{"question_id": "q1", "slide_type": "q_summary", "slide_index": 3, "narration": {"text": "...", "audio_file": "audio/q1_summary.mp3"}},
	{"question_id": "q1", "slide_type": "feedback_blocks", "narration": {"text": "...", "audio_file": "audio/q1_feedback.mp3"}},
	{"question_id": "q12", "slide_type": "feedback_blocks", "narration": {"text": "...", "audio_file": "audio/q12_feedback.mp3"}},
	{"question_id": "q3", "slide_type": "thinking_steps"}
]`

func TestMatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "narration_manifest.json")
	require.NoError(t, os.WriteFile(path, []byte(manifestJSON), 0o644))

	m, err := Load(path)
	require.NoError(t, err)
	require.Len(t, m.Entries, 5)

	tests := []struct {
		stem      string
		wantType  string
		wantQID   string
		wantFound bool
	}{
		{stem: "intro_welcome", wantType: "intro", wantFound: true},
		{stem: "q1_summary", wantType: "q_summary", wantQID: "q1", wantFound: true},
		{stem: "q12_feedback", wantType: "feedback_blocks", wantQID: "q12", wantFound: true},
		{stem: "q1_feedback", wantType: "feedback_blocks", wantQID: "q1", wantFound: true},
		{stem: "q3_thinking", wantFound: false},
		{stem: "", wantFound: false},
	}
	for _, tt := range tests {
		t.Run(tt.stem, func(t *testing.T) {
			e, ok := m.Match(tt.stem)
			assert.Equal(t, tt.wantFound, ok)
			if ok {
				assert.Equal(t, tt.wantType, e.SlideType)
				assert.Equal(t, tt.wantQID, e.QuestionID)
			}
		})
	}
}

func TestMatch_FirstWins(t *testing.T) {
	m := &Manifest{Entries: []Entry{
		{QuestionID: "a", Narration: Narration{AudioFile: "audio/q1_summary_long.mp3"}},
		{QuestionID: "b", Narration: Narration{AudioFile: "audio/q1_summary.mp3"}},
	}}
	e, ok := m.Match("q1_summary")
	require.True(t, ok)
	assert.Equal(t, "a", e.QuestionID)
}

func TestStem(t *testing.T) {
	assert.Equal(t, "q1_summary", Stem("/out/timings/q1_summary.json"))
	assert.Equal(t, "intro", Stem("intro"))
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not":"a list"}`), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}
