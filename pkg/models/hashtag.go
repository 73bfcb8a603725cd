package models

// Hashtag is a category tag attached to quiz sets and learning units.
type Hashtag struct {
	ID   int64  `json:"id" db:"id"`
	Code string `json:"code" db:"code"`
	Name string `json:"name" db:"name"`
}

// StageProgress is the per-set correct-answer tally used to derive the
// learner's current stage.
type StageProgress struct {
	Order        int `json:"order" db:"set_order"`
	CorrectTotal int `json:"correct_total" db:"correct_total"`
}

// CategoryStat aggregates one day's accuracy for a single hashtag category.
// FirstOrder is the earliest stage order the category appears at and breaks
// accuracy ties.
type CategoryStat struct {
	Name       string `json:"name" db:"name"`
	FirstOrder int    `json:"first_order" db:"first_order"`
	Total      int    `json:"total" db:"total"`
	Correct    int    `json:"correct" db:"correct"`
}
