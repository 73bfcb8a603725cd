package models

import "time"

// Learner represents a registered learner. The learner's stage is never
// stored here; it is derived from session history on every evaluation.
type Learner struct {
	ID        int64     `json:"id" db:"id"`
	AuthType  string    `json:"auth_type" db:"auth_type"` // google, kakao, apple etc.
	AuthRef   string    `json:"auth_ref" db:"auth_ref"`   // external auth ID
	Nickname  string    `json:"nickname" db:"nickname"`
	ChatID    int64     `json:"chat_id" db:"chat_id"` // Telegram chat for delivery, 0 when unset
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
