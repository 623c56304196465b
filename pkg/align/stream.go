package align

import "slidechoreo/pkg/model"

// Stream is the normalized token view of a transcript. Words whose text
// normalizes to nothing are dropped, but every token remembers its word.
type Stream struct {
	words   []model.WordTiming
	tokens  []string
	wordIdx []int
}

// NewStream tokenizes words in their original order.
func NewStream(words []model.WordTiming) *Stream {
	s := &Stream{
		words:   words,
		tokens:  make([]string, 0, len(words)),
		wordIdx: make([]int, 0, len(words)),
	}
	for i, w := range words {
		tok := Normalize(w.Text)
		if tok == "" {
			continue
		}
		s.tokens = append(s.tokens, tok)
		s.wordIdx = append(s.wordIdx, i)
	}
	return s
}

// Len returns the number of tokens.
func (s *Stream) Len() int { return len(s.tokens) }

// Tokens returns the token sequence. Callers must not modify it.
func (s *Stream) Tokens() []string { return s.tokens }

// Word returns the word timing a token came from.
func (s *Stream) Word(tokenIdx int) model.WordTiming {
	return s.words[s.wordIdx[tokenIdx]]
}

// Match finds the first window for phrase tokens at or after token index from.
func (s *Stream) Match(phrase []string, from, maxGap int) (Window, bool) {
	return FindWindow(s.tokens, phrase, from, maxGap)
}

// Matches finds up to maxMatches windows for phrase tokens.
func (s *Stream) Matches(phrase []string, from, maxGap, maxMatches int) []Window {
	return FindWindows(s.tokens, phrase, from, maxGap, maxMatches)
}

// From returns the sub-stream of words starting at or after frame.
func (s *Stream) From(frame int) *Stream {
	if frame <= 0 {
		return s
	}
	kept := make([]model.WordTiming, 0, len(s.words))
	for _, w := range s.words {
		if w.StartFrame >= frame {
			kept = append(kept, w)
		}
	}
	return NewStream(kept)
}

// PhraseStart returns the start frame of the first spoken occurrence of phrase.
func (s *Stream) PhraseStart(phrase string, maxGap int) (int, bool) {
	w, ok := s.Match(Tokenize(phrase), 0, maxGap)
	if !ok {
		return 0, false
	}
	return s.Word(w.Start).StartFrame, true
}

// PhraseEnd returns the end frame of the last word of the first occurrence of phrase.
func (s *Stream) PhraseEnd(phrase string, maxGap int) (int, bool) {
	w, ok := s.Match(Tokenize(phrase), 0, maxGap)
	if !ok {
		return 0, false
	}
	return s.Word(w.End).EndFrame, true
}

// FirstPhraseStart tries each phrase in order and returns the first one found.
func (s *Stream) FirstPhraseStart(phrases []string, maxGap int) (int, bool) {
	for _, p := range phrases {
		if f, ok := s.PhraseStart(p, maxGap); ok {
			return f, true
		}
	}
	return 0, false
}
