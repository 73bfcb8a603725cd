package models

import "database/sql"

// Quiz item types determine how correctness is evaluated.
const (
	ItemTypeIntonation    = "sq"     // statement vs. question
	ItemTypeChoice        = "choice" // pick the matching unit
	ItemTypeSameDifferent = "ox"     // same vs. different
)

// Intonation answers.
const (
	AnswerStatement = "S"
	AnswerQuestion  = "Q"
)

// Same/different answers.
const (
	AnswerSame      = "O"
	AnswerDifferent = "X"
)

// QuizItem is one question inside a quiz set. Prompt1/Prompt2 and
// Answer1/Answer2 reference learning units; AnswerSQ and AnswerOX carry the
// expected answer for intonation and same/different items respectively.
type QuizItem struct {
	ID       int64          `json:"id" db:"id"`
	SetID    int64          `json:"set_id" db:"set_id"`
	Type     string         `json:"type" db:"type"`
	Prompt1  sql.NullInt64  `json:"prompt1" db:"prompt1"`
	Prompt2  sql.NullInt64  `json:"prompt2" db:"prompt2"`
	Answer1  sql.NullInt64  `json:"answer1" db:"answer1"`
	Answer2  sql.NullInt64  `json:"answer2" db:"answer2"`
	AnswerSQ sql.NullString `json:"answer_sq" db:"answer_sq"`
	AnswerOX sql.NullString `json:"answer_ox" db:"answer_ox"`
}
