package model

// RawWord is one word of a TTS timing record, in seconds.
type RawWord struct {
	Text        string  `json:"text"`
	StartSec    float64 `json:"start_sec"`
	EndSec      float64 `json:"end_sec"`
	DurationSec float64 `json:"duration_sec"`
}

// TimingRecord is the per-slide word timing file produced by speech synthesis.
type TimingRecord struct {
	AudioFile   string    `json:"audio_file"`
	DurationSec *float64  `json:"duration_sec"` // nil when the synthesizer omitted it
	Words       []RawWord `json:"words"`
}

// WordTiming is a spoken word converted to frames.
type WordTiming struct {
	Text           string `json:"word"`
	StartFrame     int    `json:"startFrame"`
	EndFrame       int    `json:"endFrame"`
	DurationFrames int    `json:"durationFrames"`
}
