package models

import (
	"database/sql"
	"time"
)

// QuizAttempt is one learner's answer to one quiz item within a session.
type QuizAttempt struct {
	ID           int64          `json:"id" db:"id"`
	SessionID    int64          `json:"session_id" db:"session_id"`
	ItemID       int64          `json:"item_id" db:"item_id"`
	GivenAnswer  sql.NullString `json:"given_answer" db:"given_answer"`
	Correct      sql.NullBool   `json:"correct" db:"correct"`
	AttemptCount int            `json:"attempt_count" db:"attempt_count"`
	TimeSpent    int            `json:"time_spent" db:"time_spent"`
	StartedAt    sql.NullTime   `json:"started_at" db:"started_at"`
	EndedAt      sql.NullTime   `json:"ended_at" db:"ended_at"`
	AttemptAt    time.Time      `json:"attempt_at" db:"attempt_at"`
}
