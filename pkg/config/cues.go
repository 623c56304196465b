package config

// SlideKey identifies a slide instance for cue lookups.
// An empty QuestionID addresses every question of that slide type.
type SlideKey struct {
	SlideType  string
	QuestionID string
}

// SlideOverride is one `slides:` entry in the config file.
type SlideOverride struct {
	SlideType  string     `yaml:"slide_type"`
	QuestionID string     `yaml:"question_id,omitempty"`
	Cues       CuePhrases `yaml:"cues"`
}

// Key returns the typed lookup key for the entry.
func (o SlideOverride) Key() SlideKey {
	return SlideKey{SlideType: o.SlideType, QuestionID: o.QuestionID}
}

// CuePhrases are spoken transition sentences used to correct block timing.
// Empty fields inherit from the less specific level.
type CuePhrases struct {
	FeedbackIntro     string   `yaml:"feedback_intro,omitempty"`
	FeedbackEnd       string   `yaml:"feedback_end,omitempty"`
	QuestionEnd       string   `yaml:"question_end,omitempty"`
	QuestionEndMaxGap *int     `yaml:"question_end_max_gap,omitempty"`
	RightIntro        []string `yaml:"right_intro,omitempty"`
	WrongIntro        []string `yaml:"wrong_intro,omitempty"`
	WrongBullet       string   `yaml:"wrong_bullet,omitempty"`
	ThoughtIntro      string   `yaml:"thought_intro,omitempty"`
	AdviceIntro       string   `yaml:"advice_intro,omitempty"`
	AdviceFromStart   *bool    `yaml:"advice_from_start,omitempty"`
}

// DefaultCues returns the built-in cue phrases.
func DefaultCues() CuePhrases {
	gap := 6
	fromStart := true
	return CuePhrases{
		FeedbackIntro:     "feedback summary",
		FeedbackEnd:       "So you started in the right direction, but did not complete the full tracing",
		QuestionEnd:       "You had to find where the price difference is coming from.",
		QuestionEndMaxGap: &gap,
		RightIntro:        []string{"let's start", "lets start"},
		WrongIntro:        []string{"now let's see what went wrong", "what went wrong"},
		WrongBullet:       "one",
		ThoughtIntro:      "How You Thought",
		AdviceIntro:       "Thinking Advice",
		AdviceFromStart:   &fromStart,
	}
}

// Merge returns base with every non-empty field of over applied on top.
func (base CuePhrases) Merge(over CuePhrases) CuePhrases {
	out := base
	if over.FeedbackIntro != "" {
		out.FeedbackIntro = over.FeedbackIntro
	}
	if over.FeedbackEnd != "" {
		out.FeedbackEnd = over.FeedbackEnd
	}
	if over.QuestionEnd != "" {
		out.QuestionEnd = over.QuestionEnd
	}
	if over.QuestionEndMaxGap != nil {
		out.QuestionEndMaxGap = over.QuestionEndMaxGap
	}
	if len(over.RightIntro) > 0 {
		out.RightIntro = over.RightIntro
	}
	if len(over.WrongIntro) > 0 {
		out.WrongIntro = over.WrongIntro
	}
	if over.WrongBullet != "" {
		out.WrongBullet = over.WrongBullet
	}
	if over.ThoughtIntro != "" {
		out.ThoughtIntro = over.ThoughtIntro
	}
	if over.AdviceIntro != "" {
		out.AdviceIntro = over.AdviceIntro
	}
	if over.AdviceFromStart != nil {
		out.AdviceFromStart = over.AdviceFromStart
	}
	return out
}

// QuestionGap returns the max gap used to locate the question end sentence.
func (c CuePhrases) QuestionGap() int {
	if c.QuestionEndMaxGap == nil {
		return 6
	}
	return *c.QuestionEndMaxGap
}

// AdviceStartsAtZero reports whether the advice column is shown from the first frame.
func (c CuePhrases) AdviceStartsAtZero() bool {
	return c.AdviceFromStart == nil || *c.AdviceFromStart
}

// CueTable resolves cue phrases by SlideKey.
type CueTable map[SlideKey]CuePhrases

// CueTable indexes the configured overrides. Later entries win over earlier ones.
func (c *Config) CueTable() CueTable {
	t := make(CueTable, len(c.Slides))
	for _, s := range c.Slides {
		k := s.Key()
		if prev, ok := t[k]; ok {
			t[k] = prev.Merge(s.Cues)
			continue
		}
		t[k] = s.Cues
	}
	return t
}

// Lookup merges defaults, the slide-type entry and the question-specific entry.
func (t CueTable) Lookup(key SlideKey) CuePhrases {
	out := DefaultCues()
	if global, ok := t[SlideKey{SlideType: key.SlideType}]; ok {
		out = out.Merge(global)
	}
	if key.QuestionID != "" {
		if specific, ok := t[key]; ok {
			out = out.Merge(specific)
		}
	}
	return out
}
