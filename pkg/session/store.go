// Package session provides read-only access to the authored session content.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"slidechoreo/pkg/model"
)

// Store is the session content loaded once per run. It is never mutated after
// construction and is safe for concurrent readers.
type Store struct {
	session model.Session
	byID    map[string]int
}

// New indexes a decoded session.
func New(s model.Session) *Store {
	st := &Store{session: s, byID: make(map[string]int, len(s.Questions))}
	for i, q := range s.Questions {
		if _, dup := st.byID[q.ID]; !dup {
			st.byID[q.ID] = i
		}
	}
	return st
}

// Load reads the session file. A missing file yields an empty store; every
// question lookup then reports a fallback.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Session file not found, continuing without session content", "path", path)
		return New(model.Session{}), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var s model.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}
	return New(s), nil
}

// Session returns the session header and questions.
func (s *Store) Session() model.Session { return s.session }

// Len returns the number of questions.
func (s *Store) Len() int { return len(s.session.Questions) }

// Question returns a copy of the question with id. An empty id or an unknown id
// falls back to the first question; the unknown id case is reported as a
// warning. It returns nil when the session has no questions.
func (s *Store) Question(id string) (*model.Question, []model.Warning) {
	qs := s.session.Questions
	if len(qs) == 0 {
		return nil, []model.Warning{{
			Kind:    model.WarnQuestionFallback,
			Message: fmt.Sprintf("session has no questions, %q choreographed without content", id),
		}}
	}
	if i, ok := s.byID[id]; ok && id != "" {
		q := qs[i]
		return &q, nil
	}

	q := qs[0]
	if id == "" {
		return &q, nil
	}
	return &q, []model.Warning{{
		Kind:    model.WarnQuestionFallback,
		Message: fmt.Sprintf("question %q not in session, using %q", id, q.ID),
	}}
}
