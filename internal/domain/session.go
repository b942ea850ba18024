package domain

import "time"

// SessionLength is the number of questions in one quiz.
const SessionLength = 3

// Phase is the coarse state of a quiz session.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseLoading    Phase = "loading"
	PhasePresenting Phase = "presenting"
	PhaseFinished   Phase = "finished"
)

// AnswerState records the answer given to the current question, if any.
type AnswerState struct {
	Answered  bool   `json:"answered"`
	Selected  string `json:"selected,omitempty"`
	IsCorrect bool   `json:"isCorrect"`
}

// AnswerResult summarizes the outcome of a submission.
type AnswerResult struct {
	Selected         string `json:"selected"`
	Correct          bool   `json:"correct"`
	CorrectContainer string `json:"correctContainer"`
	Justification    string `json:"justification"`
	Score            int    `json:"score"`
}

// SessionSnapshot is a point-in-time, serializable view of a quiz session.
type SessionSnapshot struct {
	SessionID     string        `json:"sessionId"`
	Phase         Phase         `json:"phase"`
	Score         int           `json:"score"`
	QuestionIndex int           `json:"questionIndex"`
	SessionLength int           `json:"sessionLength"`
	Question      *QuizQuestion `json:"question,omitempty"`
	Answer        AnswerState   `json:"answer"`
	LastError     string        `json:"lastError,omitempty"`
	Options       []string      `json:"options"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}
