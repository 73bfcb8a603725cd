package models

import (
	"database/sql"
	"time"
)

// QuizSession is one learner's run through one quiz set on one day.
// Sessions are created by the learner-facing quiz flow and are read-only
// inputs here.
type QuizSession struct {
	ID           int64        `json:"id" db:"id"`
	LearnerID    int64        `json:"learner_id" db:"learner_id"`
	SetID        int64        `json:"set_id" db:"set_id"`
	Done         bool         `json:"done" db:"done"`
	StartedAt    time.Time    `json:"started_at" db:"started_at"`
	EndedAt      sql.NullTime `json:"ended_at" db:"ended_at"`
	TimeSpent    int          `json:"time_spent" db:"time_spent"` // seconds
	TotalItems   int          `json:"total_items" db:"total_items"`
	CorrectItems int          `json:"correct_items" db:"correct_items"`
	AccuracyRate float64      `json:"accuracy_rate" db:"accuracy_rate"` // percentage, 2dp
}
