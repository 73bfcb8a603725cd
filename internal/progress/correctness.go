package progress

import (
	"strconv"
	"strings"

	"github.com/example/lingofeed/pkg/models"
)

// EvaluateItem reports whether the given answer is correct for the item,
// according to the item's type.
//
// Same/different items are judged against the item's recorded
// classification (AnswerOX), never by comparing the prompt unit ids
// positionally; the seeded content is known to carry pairs whose ids
// disagree with the intended classification.
func EvaluateItem(item *models.QuizItem, given string) bool {
	answer := strings.ToUpper(strings.TrimSpace(given))
	if answer == "" {
		return false
	}

	switch item.Type {
	case models.ItemTypeIntonation:
		if !item.AnswerSQ.Valid {
			return false
		}
		switch answer {
		case "STATEMENT":
			answer = models.AnswerStatement
		case "QUESTION":
			answer = models.AnswerQuestion
		}
		return answer == strings.ToUpper(item.AnswerSQ.String)

	case models.ItemTypeSameDifferent:
		if !item.AnswerOX.Valid {
			return false
		}
		switch answer {
		case "SAME":
			answer = models.AnswerSame
		case "DIFFERENT":
			answer = models.AnswerDifferent
		}
		return answer == strings.ToUpper(item.AnswerOX.String)

	case models.ItemTypeChoice:
		id, err := strconv.ParseInt(answer, 10, 64)
		if err != nil {
			return false
		}
		if item.Answer1.Valid && item.Answer1.Int64 == id {
			return true
		}
		return item.Answer2.Valid && item.Answer2.Int64 == id
	}
	return false
}
