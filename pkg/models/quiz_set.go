package models

import "time"

// QuizSet is an ordered bundle of quiz items. Order defines the set's
// position in the global stage sequence: stage number = order.
type QuizSet struct {
	ID        int64     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Type      string    `json:"type" db:"type"`
	Order     int       `json:"order" db:"set_order"`
	ItemCount int       `json:"item_count" db:"item_count"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
