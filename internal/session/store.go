// Package session holds in-memory test sessions with time-based expiry.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pavelanni/testprep/internal/model"
)

// DefaultExpiry is how long a session lives when no duration is configured.
const DefaultExpiry = 30 * time.Minute

// Store maps session identifiers to test sessions for the process lifetime.
// Expired sessions are removed lazily on every Create and Get; there is no
// background sweeper, so a session can linger past its nominal expiry until
// the next store operation touches the map. All methods are safe for
// concurrent use.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*model.TestSession
	expiry   time.Duration
	now      func() time.Time
}

// New creates a Store with the given expiry window. A non-positive expiry
// falls back to DefaultExpiry.
func New(expiry time.Duration) *Store {
	return NewWithClock(expiry, time.Now)
}

// NewWithClock creates a Store with an injected clock, used by tests for
// deterministic expiry.
func NewWithClock(expiry time.Duration, now func() time.Time) *Store {
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	return &Store{
		sessions: make(map[string]*model.TestSession),
		expiry:   expiry,
		now:      now,
	}
}

// Create allocates a fresh identifier and stores a new session holding the
// given questions, all answers unset and submitted false.
func (s *Store) Create(cfg model.TestConfig, questions []model.Question) string {
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	s.sessions[id] = &model.TestSession{
		SessionID:   id,
		Config:      cfg,
		Questions:   questions,
		UserAnswers: make([]*string, len(questions)),
		CreatedAt:   s.now(),
	}
	return id
}

// Get returns a snapshot of the session for id, or nil when it is unknown or
// expired. An expired session is indistinguishable from one that never
// existed.
func (s *Store) Get(id string) *model.TestSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	sess, ok := s.sessions[id]
	if !ok {
		return nil
	}
	return snapshotLocked(sess)
}

// UpdateAnswer records an answer for the question at index. Re-answering
// before submission overwrites the slot. It reports false when the session is
// unknown or expired, already submitted, the index is out of range, or the
// answer is not one of that question's option strings.
func (s *Store) UpdateAnswer(id string, index int, answer string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	sess, ok := s.sessions[id]
	if !ok || sess.Submitted {
		return false
	}
	if index < 0 || index >= len(sess.Questions) {
		return false
	}
	valid := false
	for _, o := range sess.Questions[index].Options {
		if o == answer {
			valid = true
			break
		}
	}
	if !valid {
		return false
	}
	sess.UserAnswers[index] = &answer
	return true
}

// Submit flips the session to submitted and returns a snapshot for scoring.
// It returns nil when the session is unknown, expired or already submitted;
// of two concurrent submits exactly one succeeds.
func (s *Store) Submit(id string) *model.TestSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	sess, ok := s.sessions[id]
	if !ok || sess.Submitted {
		return nil
	}
	sess.Submitted = true
	return snapshotLocked(sess)
}

// sweepLocked removes every session older than the expiry window, submitted
// or not. Callers must hold mu.
func (s *Store) sweepLocked() {
	now := s.now()
	for id, sess := range s.sessions {
		if now.Sub(sess.CreatedAt) > s.expiry {
			delete(s.sessions, id)
		}
	}
}

// snapshotLocked copies a session so callers never share mutable state with
// the store. Callers must hold mu.
func snapshotLocked(sess *model.TestSession) *model.TestSession {
	cp := *sess
	cp.Questions = append([]model.Question(nil), sess.Questions...)
	cp.UserAnswers = append([]*string(nil), sess.UserAnswers...)
	return &cp
}
