package domain

// SessionState is the phase of a single play-through.
type SessionState string

const (
	StatePlaying  SessionState = "playing"
	StateGameOver SessionState = "gameOver"
)

// Feedback strings shown after an answer.
const (
	FeedbackCorrect = "Correct!"
	FeedbackWrong   = "Wrong answer!"
)

// Operator is one of the four arithmetic operators an equation can use.
type Operator string

const (
	OpAdd Operator = "+"
	OpSub Operator = "-"
	OpMul Operator = "*"
	OpDiv Operator = "/"
)

// Equation is one generated question with its stored answer.
type Equation struct {
	Left     int
	Right    int
	Operator Operator
	Question string
	Answer   int
}

// ScoreRecord is one persisted leaderboard row.
type ScoreRecord struct {
	Name      string `json:"name"`
	Score     int    `json:"score"`
	Date      string `json:"date"`
	TotalTime int64  `json:"totalTime"`
}

// SessionSnapshot is the render-ready view of a session; the answer is never included.
type SessionSnapshot struct {
	SessionID string       `json:"sessionId"`
	State     SessionState `json:"state"`
	Question  string       `json:"question"`
	Score     int          `json:"score"`
	Lives     int          `json:"lives"`
	MaxLives  int          `json:"maxLives"`
	Feedback  string       `json:"feedback"`
	TotalTime int64        `json:"totalTime"`
}

// AnswerOutcome summarizes the result of one submitted answer.
type AnswerOutcome struct {
	Correct  bool            `json:"correct"`
	GameOver bool            `json:"gameOver"`
	Awarded  int             `json:"awarded"`
	Feedback string          `json:"feedback"`
	Snapshot SessionSnapshot `json:"snapshot"`
}

// GameOverSummary is what a finished session exposes for leaderboard submission.
type GameOverSummary struct {
	Score     int          `json:"score"`
	TotalTime int64        `json:"totalTime"`
	Best      *ScoreRecord `json:"best,omitempty"`
}
