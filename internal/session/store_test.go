package session

import (
	"sync"
	"testing"
	"time"

	"github.com/pavelanni/testprep/internal/model"
)

// fakeClock is a manually advanced clock for deterministic expiry tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestStore(t *testing.T) (*Store, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	return NewWithClock(30*time.Minute, clock.Now), clock
}

func testQuestions(count int) []model.Question {
	questions := make([]model.Question, count)
	for i := range questions {
		questions[i] = model.Question{
			Question:      "Q",
			Options:       []string{"A", "B", "C", "D"},
			CorrectAnswer: "A",
		}
	}
	return questions
}

func testConfig() model.TestConfig {
	return model.TestConfig{
		Domain:       model.DomainSchool,
		ClassLevel:   10,
		Subject:      "Mathematics",
		Topic:        "Algebra",
		NumQuestions: 5,
	}
}

func TestCreateAndGet(t *testing.T) {
	s, _ := newTestStore(t)

	id := s.Create(testConfig(), testQuestions(5))
	if id == "" {
		t.Fatal("expected non-empty session id")
	}

	sess := s.Get(id)
	if sess == nil {
		t.Fatal("expected session, got nil")
	}
	if sess.SessionID != id {
		t.Errorf("expected session id %q, got %q", id, sess.SessionID)
	}
	if sess.Submitted {
		t.Error("new session must not be submitted")
	}
	if len(sess.UserAnswers) != 5 {
		t.Fatalf("expected 5 answer slots, got %d", len(sess.UserAnswers))
	}
	for i, a := range sess.UserAnswers {
		if a != nil {
			t.Errorf("answer slot %d should be unset, got %q", i, *a)
		}
	}
}

func TestGetUnknownSession(t *testing.T) {
	s, _ := newTestStore(t)
	if sess := s.Get("no-such-id"); sess != nil {
		t.Errorf("expected nil, got %+v", sess)
	}
}

func TestUniqueIdentifiers(t *testing.T) {
	s, _ := newTestStore(t)
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := s.Create(testConfig(), testQuestions(5))
		if seen[id] {
			t.Fatalf("duplicate session id %q", id)
		}
		seen[id] = true
	}
}

func TestUpdateAnswer(t *testing.T) {
	s, _ := newTestStore(t)
	id := s.Create(testConfig(), testQuestions(5))

	tests := []struct {
		name   string
		id     string
		index  int
		answer string
		want   bool
	}{
		{"valid answer", id, 0, "B", true},
		{"re-answer same slot", id, 0, "C", true},
		{"last index", id, 4, "A", true},
		{"unknown session", "nope", 0, "A", false},
		{"negative index", id, -1, "A", false},
		{"index past end", id, 5, "A", false},
		{"answer not an option", id, 1, "E", false},
		{"answer differs by case", id, 1, "a", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.UpdateAnswer(tt.id, tt.index, tt.answer); got != tt.want {
				t.Errorf("UpdateAnswer() = %v, want %v", got, tt.want)
			}
		})
	}

	// Re-answering overwrote slot 0; the rejected answer left slot 1 unset.
	sess := s.Get(id)
	if sess.UserAnswers[0] == nil || *sess.UserAnswers[0] != "C" {
		t.Errorf("expected slot 0 = C, got %v", sess.UserAnswers[0])
	}
	if sess.UserAnswers[1] != nil {
		t.Errorf("expected slot 1 unset, got %q", *sess.UserAnswers[1])
	}
}

func TestSubmitOnce(t *testing.T) {
	s, _ := newTestStore(t)
	id := s.Create(testConfig(), testQuestions(5))

	sess := s.Submit(id)
	if sess == nil {
		t.Fatal("first submit should succeed")
	}
	if !sess.Submitted {
		t.Error("submitted session should carry the flag")
	}

	if again := s.Submit(id); again != nil {
		t.Error("second submit must fail")
	}

	// The session itself still exists until it expires.
	if got := s.Get(id); got == nil || !got.Submitted {
		t.Error("submitted session should still be readable")
	}

	// Answers are frozen after submission.
	if s.UpdateAnswer(id, 0, "A") {
		t.Error("UpdateAnswer must fail after submit")
	}
}

func TestSubmitUnknownSession(t *testing.T) {
	s, _ := newTestStore(t)
	if sess := s.Submit("nope"); sess != nil {
		t.Errorf("expected nil, got %+v", sess)
	}
}

func TestExpiry(t *testing.T) {
	s, clock := newTestStore(t)
	id := s.Create(testConfig(), testQuestions(5))

	clock.Advance(29 * time.Minute)
	if s.Get(id) == nil {
		t.Fatal("session should still be alive before expiry")
	}

	clock.Advance(2 * time.Minute)
	if s.Get(id) != nil {
		t.Error("session should be gone after expiry")
	}

	// Expired sessions are indistinguishable from never-created ones.
	if s.UpdateAnswer(id, 0, "A") {
		t.Error("UpdateAnswer must fail on expired session")
	}
	if s.Submit(id) != nil {
		t.Error("Submit must fail on expired session")
	}
}

func TestExpirySweepRemovesSubmitted(t *testing.T) {
	s, clock := newTestStore(t)
	id := s.Create(testConfig(), testQuestions(5))
	if s.Submit(id) == nil {
		t.Fatal("submit failed")
	}

	clock.Advance(31 * time.Minute)
	if s.Get(id) != nil {
		t.Error("submitted sessions expire like any other")
	}
}

func TestSweepOnCreate(t *testing.T) {
	s, clock := newTestStore(t)
	old := s.Create(testConfig(), testQuestions(5))

	clock.Advance(31 * time.Minute)
	fresh := s.Create(testConfig(), testQuestions(5))

	s.mu.Lock()
	_, oldAlive := s.sessions[old]
	_, freshAlive := s.sessions[fresh]
	s.mu.Unlock()

	if oldAlive {
		t.Error("create should have swept the expired session")
	}
	if !freshAlive {
		t.Error("fresh session should be present")
	}
}

func TestSnapshotIsolation(t *testing.T) {
	s, _ := newTestStore(t)
	id := s.Create(testConfig(), testQuestions(5))

	before := s.Get(id)
	if !s.UpdateAnswer(id, 0, "B") {
		t.Fatal("UpdateAnswer failed")
	}

	// The earlier snapshot must not observe the later mutation.
	if before.UserAnswers[0] != nil {
		t.Error("snapshot leaked store mutation")
	}
}

func TestConcurrentSubmit(t *testing.T) {
	s, _ := newTestStore(t)
	id := s.Create(testConfig(), testQuestions(5))

	const workers = 16
	var wg sync.WaitGroup
	wins := make(chan struct{}, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.Submit(id) != nil {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	won := 0
	for range wins {
		won++
	}
	if won != 1 {
		t.Errorf("expected exactly 1 successful submit, got %d", won)
	}
}
