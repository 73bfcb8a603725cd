package models

// Unit kinds form a small closed set.
const (
	UnitKindStatement = "statement"
	UnitKindQuestion  = "question"
	UnitKindWord      = "word"
	UnitKindSentence  = "sentence"
	UnitKindSame      = "same"
	UnitKindDifferent = "different"
)

// LearningUnit is a single audio/text stimulus referenced by quiz items.
type LearningUnit struct {
	ID        int64  `json:"id" db:"id"`
	Kind      string `json:"kind" db:"kind"`
	Text      string `json:"text" db:"text"`
	URLNormal string `json:"url_normal" db:"url_normal"` // normal-speed audio
	URLSlow   string `json:"url_slow" db:"url_slow"`     // slow-speed audio
	Remark    string `json:"remark" db:"remark"`
}
