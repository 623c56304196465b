package model

// DefaultHighlightColor is used when a block does not name its own color.
const DefaultHighlightColor = "#E6A100"

// BlockSpec declares which phrases a visual block is expected to say, in order.
type BlockSpec struct {
	BlockID string
	Phrases []string
	Color   string
	// SearchFromStart matches every phrase against the whole transcript instead of
	// advancing a cursor past the previous match. Thinking-step columns need this
	// because their rows are not narrated top to bottom.
	SearchFromStart bool
}

// Segment is one phrase's realized timing within a block.
type Segment struct {
	Text       string `json:"text"`
	StartFrame int    `json:"startFrame"`
	EndFrame   int    `json:"endFrame"`
}

// Highlight is the frame window during which a block is emphasized.
type Highlight struct {
	BlockID    string    `json:"blockId"`
	StartFrame int       `json:"startFrame"`
	EndFrame   int       `json:"endFrame"`
	Color      string    `json:"color"`
	Segments   []Segment `json:"segments"`
}

// AnimationType is a renderer transition kind.
type AnimationType string

const (
	AnimFadeIn       AnimationType = "fadeIn"
	AnimSlideInLeft  AnimationType = "slideInLeft"
	AnimSlideInRight AnimationType = "slideInRight"
	AnimSlideInUp    AnimationType = "slideInUp"
	AnimScaleIn      AnimationType = "scaleIn"
	AnimCounter      AnimationType = "counterAnimation"
)

// Easing is a renderer easing curve.
type Easing string

const (
	EaseOut Easing = "easeOut"
	Linear  Easing = "linear"
)

// Animation is an entrance animation derived from a highlight.
type Animation struct {
	BlockID        string        `json:"blockId"`
	Type           AnimationType `json:"type"`
	StartFrame     int           `json:"startFrame"`
	DurationFrames int           `json:"durationFrames"`
	Easing         Easing        `json:"easing"`
	Stagger        *int          `json:"stagger,omitempty"` // Offset between repeated child elements
}

// Narration describes the audio track of a slide.
type Narration struct {
	AudioFile   string       `json:"audioFile"`
	StartFrame  int          `json:"startFrame"`
	EndFrame    int          `json:"endFrame"`
	DurationSec float64      `json:"durationSec"`
	WordTimings []WordTiming `json:"wordTimings"`
}

// Choreography is the per-slide output consumed by the renderer.
type Choreography struct {
	SlideType           string      `json:"slideType"`
	TotalDurationFrames int         `json:"totalDurationFrames"`
	ActualDurationSec   float64     `json:"actualDurationSec"`
	Animations          []Animation `json:"animations"`
	Highlights          []Highlight `json:"highlights,omitempty"`
	Narration           Narration   `json:"narration"`
}

// HighlightByID returns a pointer to the highlight for blockID, or nil.
func (c *Choreography) HighlightByID(blockID string) *Highlight {
	for i := range c.Highlights {
		if c.Highlights[i].BlockID == blockID {
			return &c.Highlights[i]
		}
	}
	return nil
}
