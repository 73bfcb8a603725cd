package models

import (
	"strings"
	"time"
)

// FeedbackRecord is the persisted daily output bundle: the three composed
// strings joined by newlines in Message, plus a short delimited tag list.
// The joined-text layout is a storage compatibility constraint and must not
// change. One record per (learner, date); forced re-runs overwrite in place.
type FeedbackRecord struct {
	ID           int64     `json:"id" db:"id"`
	LearnerID    int64     `json:"learner_id" db:"learner_id"`
	FeedbackDate string    `json:"feedback_date" db:"feedback_date"` // 2006-01-02
	Message      string    `json:"message" db:"message"`             // summary\npraise\nmotivation
	Tags         string    `json:"tags" db:"tags"`                   // comma/# delimited category labels
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// SplitMessage returns the summary, praise and motivation parts of Message.
// Missing parts come back empty.
func (r *FeedbackRecord) SplitMessage() (summary, praise, motivation string) {
	parts := strings.SplitN(r.Message, "\n", 3)
	switch len(parts) {
	case 3:
		motivation = parts[2]
		fallthrough
	case 2:
		praise = parts[1]
		fallthrough
	case 1:
		summary = parts[0]
	}
	return summary, praise, motivation
}
