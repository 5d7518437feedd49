package app_test

import (
	"testing"
	"time"

	"calquiz-service/internal/app"
	"calquiz-service/internal/domain"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// newFixedSession builds a session whose every question is 3 + 4.
func newFixedSession(clock *fakeClock) *app.Session {
	gen := app.NewEquationGenerator(equationSource(eq(3, 4, domain.OpAdd)))
	return app.NewSessionWithClock("s1", gen, app.DefaultMaxLives, clock.Now)
}

func TestNewSessionStartsPlaying(t *testing.T) {
	s := newFixedSession(newFakeClock())

	snap := s.Snapshot()
	require.Equal(t, domain.StatePlaying, snap.State)
	require.Equal(t, 0, snap.Score)
	require.Equal(t, app.DefaultMaxLives, snap.Lives)
	require.Equal(t, "3 + 4 = ?", snap.Question)
	require.Empty(t, snap.Feedback)
	require.Zero(t, snap.TotalTime)
}

func TestCorrectAnswerWithinThreeSeconds(t *testing.T) {
	clock := newFakeClock()
	s := newFixedSession(clock)

	clock.Advance(3*time.Second + 700*time.Millisecond)
	out, err := s.SubmitAnswer("7")
	require.NoError(t, err)
	require.True(t, out.Correct)
	require.False(t, out.GameOver)
	require.Equal(t, 18, out.Awarded)
	require.Equal(t, domain.FeedbackCorrect, out.Feedback)
	require.Equal(t, 18, out.Snapshot.Score)
	require.Equal(t, app.DefaultMaxLives, out.Snapshot.Lives)
	require.Equal(t, int64(3), out.Snapshot.TotalTime)
}

func TestAnswerInputIsTrimmed(t *testing.T) {
	s := newFixedSession(newFakeClock())

	out, err := s.SubmitAnswer("  7\n")
	require.NoError(t, err)
	require.True(t, out.Correct)
	require.Equal(t, 20, out.Awarded)
}

func TestWrongAnswersEndGame(t *testing.T) {
	clock := newFakeClock()
	s := newFixedSession(clock)

	for i, input := range []string{"abc", "", "8"} {
		clock.Advance(2 * time.Second)
		out, err := s.SubmitAnswer(input)
		require.NoError(t, err)
		require.False(t, out.Correct)
		require.Equal(t, domain.FeedbackWrong, out.Feedback)
		require.Equal(t, app.DefaultMaxLives-i-1, out.Snapshot.Lives)
		require.Equal(t, i == 2, out.GameOver)
	}

	snap := s.Snapshot()
	require.Equal(t, domain.StateGameOver, snap.State)
	require.Equal(t, 0, snap.Lives)

	_, err := s.SubmitAnswer("x")
	require.ErrorIs(t, err, domain.ErrGameOver)
	require.Equal(t, 0, s.Snapshot().Lives)

	score, total, err := s.Result()
	require.NoError(t, err)
	require.Equal(t, 0, score)
	require.Equal(t, int64(6), total)
}

func TestAccumulatedTimeUsesClampedValue(t *testing.T) {
	clock := newFakeClock()
	s := newFixedSession(clock)

	clock.Advance(45 * time.Second)
	out, err := s.SubmitAnswer("1")
	require.NoError(t, err)
	require.False(t, out.Correct)
	require.Equal(t, int64(20), out.Snapshot.TotalTime)

	clock.Advance(31 * time.Second)
	out, err = s.SubmitAnswer("7")
	require.NoError(t, err)
	require.Equal(t, 10, out.Awarded)
	require.Equal(t, int64(40), out.Snapshot.TotalTime)
}

func TestCorrectAnswerNeverLowersScoreOrLives(t *testing.T) {
	clock := newFakeClock()
	s := newFixedSession(clock)

	for i := 0; i < 25; i++ {
		before := s.Snapshot()
		clock.Advance(time.Duration(i) * time.Second)
		out, err := s.SubmitAnswer("7")
		require.NoError(t, err)
		require.Greater(t, out.Snapshot.Score, before.Score)
		require.Equal(t, before.Lives, out.Snapshot.Lives)
	}
}

func TestResultRequiresGameOver(t *testing.T) {
	s := newFixedSession(newFakeClock())

	_, _, err := s.Result()
	require.ErrorIs(t, err, domain.ErrGameInProgress)
}

func TestResetRestoresInitialState(t *testing.T) {
	clock := newFakeClock()
	s := newFixedSession(clock)

	clock.Advance(time.Second)
	_, _ = s.SubmitAnswer("7")
	for i := 0; i < app.DefaultMaxLives; i++ {
		clock.Advance(5 * time.Second)
		_, _ = s.SubmitAnswer("0")
	}
	require.True(t, s.IsOver())

	snap := s.Reset()
	require.Equal(t, domain.StatePlaying, snap.State)
	require.Equal(t, 0, snap.Score)
	require.Equal(t, app.DefaultMaxLives, snap.Lives)
	require.Zero(t, snap.TotalTime)
	require.Empty(t, snap.Feedback)

	// the question timer restarts on reset
	clock.Advance(time.Second)
	out, err := s.SubmitAnswer("7")
	require.NoError(t, err)
	require.Equal(t, 19, out.Awarded)
}

func TestCustomMaxLives(t *testing.T) {
	gen := app.NewEquationGenerator(equationSource(eq(3, 4, domain.OpAdd)))
	s := app.NewSessionWithClock("s1", gen, 1, newFakeClock().Now)

	out, err := s.SubmitAnswer("nope")
	require.NoError(t, err)
	require.True(t, out.GameOver)
	require.Equal(t, 1, out.Snapshot.MaxLives)
}
