// Package quiz assembles quiz sets from seeded learning units. Generation
// happens at content-loading time; learners only ever see persisted sets.
package quiz

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"time"

	"github.com/example/lingofeed/internal/database"
	"github.com/example/lingofeed/pkg/models"
)

// DefaultItemCount is the standard number of items in one quiz set.
const DefaultItemCount = 70

// Generator builds and persists quiz sets.
type Generator struct {
	sets *database.QuizSetRepository
	rnd  *rand.Rand
}

// NewGenerator creates a generator with a time-seeded source.
func NewGenerator() *Generator {
	return &Generator{
		sets: database.NewQuizSetRepository(),
		rnd:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateSet builds a quiz set at the given stage order from the unit pool
// and persists it with its items and hashtag links.
func (g *Generator) CreateSet(ctx context.Context, title string, order int, units []models.LearningUnit, tagIDs []int64, itemCount int) (*models.QuizSet, error) {
	if itemCount < 1 {
		itemCount = DefaultItemCount
	}

	items, err := buildItems(g.rnd, units, itemCount)
	if err != nil {
		return nil, err
	}

	set := &models.QuizSet{
		Title:     title,
		Type:      "listening",
		Order:     order,
		ItemCount: len(items),
	}
	if err := g.sets.Create(ctx, set); err != nil {
		return nil, err
	}

	for i := range items {
		items[i].SetID = set.ID
		if err := g.sets.CreateItem(ctx, &items[i]); err != nil {
			return nil, err
		}
	}
	for _, tagID := range tagIDs {
		if err := g.sets.LinkHashtag(ctx, set.ID, tagID); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// buildItems assembles itemCount items from the pool, cycling through the
// item types the pool can support.
func buildItems(rnd *rand.Rand, units []models.LearningUnit, itemCount int) ([]models.QuizItem, error) {
	var sentencePool, anyPool []models.LearningUnit
	for _, u := range units {
		switch u.Kind {
		case models.UnitKindStatement, models.UnitKindQuestion:
			sentencePool = append(sentencePool, u)
		}
		anyPool = append(anyPool, u)
	}

	var builders []func() models.QuizItem
	if len(sentencePool) > 0 {
		builders = append(builders, func() models.QuizItem {
			return intonationItem(rnd, sentencePool)
		})
	}
	if len(anyPool) > 0 {
		builders = append(builders, func() models.QuizItem {
			return choiceItem(rnd, anyPool)
		})
	}
	if len(anyPool) > 1 {
		builders = append(builders, func() models.QuizItem {
			return sameDifferentItem(rnd, anyPool)
		})
	}
	if len(builders) == 0 {
		return nil, fmt.Errorf("unit pool cannot support any item type")
	}

	items := make([]models.QuizItem, 0, itemCount)
	for i := 0; i < itemCount; i++ {
		items = append(items, builders[i%len(builders)]())
	}
	return items, nil
}

// intonationItem asks whether the heard sentence is a statement or a
// question.
func intonationItem(rnd *rand.Rand, pool []models.LearningUnit) models.QuizItem {
	u := pool[rnd.Intn(len(pool))]
	answer := models.AnswerStatement
	if u.Kind == models.UnitKindQuestion {
		answer = models.AnswerQuestion
	}
	return models.QuizItem{
		Type:     models.ItemTypeIntonation,
		Prompt1:  nullID(u.ID),
		AnswerSQ: nullString(answer),
	}
}

// choiceItem asks which unit was heard; the prompt unit's id is the only
// accepted answer.
func choiceItem(rnd *rand.Rand, pool []models.LearningUnit) models.QuizItem {
	u := pool[rnd.Intn(len(pool))]
	return models.QuizItem{
		Type:    models.ItemTypeChoice,
		Prompt1: nullID(u.ID),
		Answer1: nullID(u.ID),
	}
}

// sameDifferentItem plays two units; the recorded classification follows
// text equality, so two recordings of the same text count as same.
func sameDifferentItem(rnd *rand.Rand, pool []models.LearningUnit) models.QuizItem {
	a := pool[rnd.Intn(len(pool))]
	b := a
	if rnd.Intn(2) == 1 {
		b = pool[rnd.Intn(len(pool))]
	}
	answer := models.AnswerDifferent
	if a.Text == b.Text {
		answer = models.AnswerSame
	}
	return models.QuizItem{
		Type:     models.ItemTypeSameDifferent,
		Prompt1:  nullID(a.ID),
		Prompt2:  nullID(b.ID),
		AnswerOX: nullString(answer),
	}
}

func nullID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: true}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}
