package app

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"calquiz-service/internal/domain"
)

// DefaultMaxLives is the number of wrong answers a player may give per game.
const DefaultMaxLives = 3

// Session is one play-through: score, lives, current equation and accumulated answer time.
type Session struct {
	id        string
	maxLives  int
	generator *EquationGenerator
	now       func() time.Time

	mu            sync.RWMutex
	state         domain.SessionState
	score         int
	lives         int
	equation      domain.Equation
	feedback      string
	totalTime     int64
	questionStart time.Time
	subscribers   map[chan domain.SessionSnapshot]struct{}
}

// NewSession starts a game in the Playing state with a fresh equation.
func NewSession(id string, generator *EquationGenerator, maxLives int) *Session {
	return NewSessionWithClock(id, generator, maxLives, time.Now)
}

// NewSessionWithClock allows deterministic answer timing in tests.
func NewSessionWithClock(id string, generator *EquationGenerator, maxLives int, now func() time.Time) *Session {
	if maxLives <= 0 {
		maxLives = DefaultMaxLives
	}
	s := &Session{
		id:          id,
		maxLives:    maxLives,
		generator:   generator,
		now:         now,
		subscribers: make(map[chan domain.SessionSnapshot]struct{}),
	}
	s.resetLocked()
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Equation returns the current question. Presentation layers should only show Question.
func (s *Session) Equation() domain.Equation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.equation
}

// Snapshot returns the current render-ready state.
func (s *Session) Snapshot() domain.SessionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// SubmitAnswer evaluates raw input against the current equation.
// Unparseable input counts as a wrong answer.
func (s *Session) SubmitAnswer(raw string) (domain.AnswerOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != domain.StatePlaying {
		return domain.AnswerOutcome{}, domain.ErrGameOver
	}

	elapsed := int64(s.now().Sub(s.questionStart) / time.Second)
	effective := EffectiveTime(elapsed)
	s.totalTime += effective

	outcome := domain.AnswerOutcome{}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err == nil && value == s.equation.Answer {
		outcome.Correct = true
		outcome.Awarded = Score(effective)
		s.score += outcome.Awarded
		s.feedback = domain.FeedbackCorrect
		s.nextQuestionLocked()
	} else {
		s.lives--
		s.feedback = domain.FeedbackWrong
		if s.lives > 0 {
			s.nextQuestionLocked()
		} else {
			s.lives = 0
			s.state = domain.StateGameOver
			outcome.GameOver = true
		}
	}

	outcome.Feedback = s.feedback
	outcome.Snapshot = s.broadcastLocked()
	return outcome, nil
}

// Reset starts a new game on the same session.
func (s *Session) Reset() domain.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
	return s.broadcastLocked()
}

// Result returns the final score and accumulated time once the game is over.
func (s *Session) Result() (score int, totalTime int64, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != domain.StateGameOver {
		return 0, 0, domain.ErrGameInProgress
	}
	return s.score, s.totalTime, nil
}

// IsOver reports whether the session reached GameOver.
func (s *Session) IsOver() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == domain.StateGameOver
}

func (s *Session) resetLocked() {
	s.state = domain.StatePlaying
	s.score = 0
	s.lives = s.maxLives
	s.totalTime = 0
	s.feedback = ""
	s.nextQuestionLocked()
}

func (s *Session) nextQuestionLocked() {
	s.equation = s.generator.Generate()
	s.startQuestionLocked()
}

func (s *Session) startQuestionLocked() {
	s.questionStart = s.now()
}

func (s *Session) subscribe() (<-chan domain.SessionSnapshot, func()) {
	ch := make(chan domain.SessionSnapshot, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	initial := s.snapshotLocked()
	s.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) closeSubscribers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
}

func (s *Session) broadcastLocked() domain.SessionSnapshot {
	snap := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			// Slow subscriber: replace the oldest queued snapshot with the latest one.
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
	return snap
}

func (s *Session) snapshotLocked() domain.SessionSnapshot {
	return domain.SessionSnapshot{
		SessionID: s.id,
		State:     s.state,
		Question:  s.equation.Question,
		Score:     s.score,
		Lives:     s.lives,
		MaxLives:  s.maxLives,
		Feedback:  s.feedback,
		TotalTime: s.totalTime,
	}
}
