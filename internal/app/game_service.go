package app

import (
	"context"
	"time"

	"calquiz-service/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionRepository abstracts where live game sessions are kept (in-memory, Redis-marked, etc).
type SessionRepository interface {
	Put(session *Session)
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
}

// GameService is the boundary presentation layers drive: start, answer, summarize, record.
type GameService struct {
	sessions     SessionRepository
	leaderboard  Leaderboard
	log          *zap.Logger
	maxLives     int
	now          func() time.Time
	newID        func() string
	newGenerator func() *EquationGenerator
}

// Option customizes a GameService.
type Option func(*GameService)

// WithMaxLives sets the lives each new game starts with.
func WithMaxLives(n int) Option {
	return func(s *GameService) {
		if n > 0 {
			s.maxLives = n
		}
	}
}

// WithClock replaces the wall clock used for answer timing and record dates.
func WithClock(now func() time.Time) Option {
	return func(s *GameService) { s.now = now }
}

// WithIDFunc replaces the session id generator.
func WithIDFunc(fn func() string) Option {
	return func(s *GameService) { s.newID = fn }
}

// WithGeneratorFactory replaces how each session gets its equation generator.
// Every session owns its generator because *rand.Rand is not safe for concurrent use.
func WithGeneratorFactory(fn func() *EquationGenerator) Option {
	return func(s *GameService) { s.newGenerator = fn }
}

func NewGameService(sessions SessionRepository, leaderboard Leaderboard, log *zap.Logger, opts ...Option) *GameService {
	if log == nil {
		log = zap.NewNop()
	}
	s := &GameService{
		sessions:     sessions,
		leaderboard:  leaderboard,
		log:          log,
		maxLives:     DefaultMaxLives,
		now:          time.Now,
		newID:        uuid.NewString,
		newGenerator: NewSeededGenerator,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start creates a new session in the Playing state.
func (s *GameService) Start(_ context.Context) domain.SessionSnapshot {
	session := NewSessionWithClock(s.newID(), s.newGenerator(), s.maxLives, s.now)
	s.sessions.Put(session)
	s.log.Debug("session started", zap.String("session_id", session.ID()))
	return session.Snapshot()
}

// Equation returns the current equation of a session.
func (s *GameService) Equation(_ context.Context, sessionID string) (domain.Equation, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.Equation{}, domain.ErrSessionNotFound
	}
	return session.Equation(), nil
}

// Snapshot returns score, lives and feedback of a session.
func (s *GameService) Snapshot(_ context.Context, sessionID string) (domain.SessionSnapshot, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.SessionSnapshot{}, domain.ErrSessionNotFound
	}
	return session.Snapshot(), nil
}

// SubmitAnswer evaluates an answer; a wrong or unparseable answer costs a life.
func (s *GameService) SubmitAnswer(_ context.Context, sessionID, answer string) (domain.AnswerOutcome, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.AnswerOutcome{}, domain.ErrSessionNotFound
	}
	outcome, err := session.SubmitAnswer(answer)
	if err != nil {
		return domain.AnswerOutcome{}, err
	}
	if outcome.GameOver {
		s.log.Info("game over",
			zap.String("session_id", sessionID),
			zap.Int("score", outcome.Snapshot.Score),
			zap.Int64("total_time", outcome.Snapshot.TotalTime),
		)
	}
	return outcome, nil
}

// GameOverSummary returns the final score, accumulated time and the current best record.
func (s *GameService) GameOverSummary(ctx context.Context, sessionID string) (domain.GameOverSummary, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.GameOverSummary{}, domain.ErrSessionNotFound
	}
	score, totalTime, err := session.Result()
	if err != nil {
		return domain.GameOverSummary{}, err
	}
	summary := domain.GameOverSummary{Score: score, TotalTime: totalTime}
	best, found, err := s.leaderboard.Best(ctx)
	if err != nil {
		// The summary is still usable without the best record.
		s.log.Warn("load best record", zap.Error(err))
		return summary, nil
	}
	if found {
		summary.Best = &best
	}
	return summary, nil
}

// SubmitName records the finished game under name and starts a new game on the session.
// A blank name is rejected and leaves both the leaderboard and the session untouched.
func (s *GameService) SubmitName(ctx context.Context, sessionID, name string) (bool, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return false, domain.ErrSessionNotFound
	}
	score, totalTime, err := session.Result()
	if err != nil {
		return false, err
	}
	accepted, err := s.leaderboard.Submit(ctx, NewScoreRecord(name, score, totalTime, s.now()))
	if err != nil || !accepted {
		return false, err
	}
	session.Reset()
	return true, nil
}

// Restart begins a new game on an existing session regardless of its state.
func (s *GameService) Restart(_ context.Context, sessionID string) (domain.SessionSnapshot, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.SessionSnapshot{}, domain.ErrSessionNotFound
	}
	return session.Reset(), nil
}

// Subscribe returns a channel receiving a snapshot after every session transition.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *GameService) Subscribe(_ context.Context, sessionID string) (<-chan domain.SessionSnapshot, func(), error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := session.subscribe()
	return ch, cancel, nil
}

// Leave drops a session and closes its subscriptions.
func (s *GameService) Leave(_ context.Context, sessionID string) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return
	}
	session.closeSubscribers()
	s.sessions.Delete(sessionID)
}

// Leaderboard returns the persisted high-score list.
func (s *GameService) Leaderboard(ctx context.Context) ([]domain.ScoreRecord, error) {
	return s.leaderboard.Load(ctx)
}
