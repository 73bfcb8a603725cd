package quiz

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/lingofeed/internal/progress"
	"github.com/example/lingofeed/pkg/models"
)

func unitPool() []models.LearningUnit {
	return []models.LearningUnit{
		{ID: 1, Kind: models.UnitKindStatement, Text: "밥 먹었어"},
		{ID: 2, Kind: models.UnitKindQuestion, Text: "밥 먹었어?"},
		{ID: 3, Kind: models.UnitKindWord, Text: "사과"},
		{ID: 4, Kind: models.UnitKindWord, Text: "사과"}, // second recording
		{ID: 5, Kind: models.UnitKindSentence, Text: "물 좀 주세요"},
	}
}

func TestBuildItemsCountAndTypes(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))

	items, err := buildItems(rnd, unitPool(), 70)
	require.NoError(t, err)
	require.Len(t, items, 70)

	seen := map[string]int{}
	for _, item := range items {
		seen[item.Type]++
	}
	assert.Positive(t, seen[models.ItemTypeIntonation])
	assert.Positive(t, seen[models.ItemTypeChoice])
	assert.Positive(t, seen[models.ItemTypeSameDifferent])
}

func TestBuildItemsAnswersAreConsistent(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	pool := unitPool()
	byID := map[int64]models.LearningUnit{}
	for _, u := range pool {
		byID[u.ID] = u
	}

	items, err := buildItems(rnd, pool, 40)
	require.NoError(t, err)

	for _, item := range items {
		switch item.Type {
		case models.ItemTypeIntonation:
			require.True(t, item.AnswerSQ.Valid)
			u := byID[item.Prompt1.Int64]
			want := models.AnswerStatement
			if u.Kind == models.UnitKindQuestion {
				want = models.AnswerQuestion
			}
			assert.Equal(t, want, item.AnswerSQ.String)

		case models.ItemTypeChoice:
			require.True(t, item.Answer1.Valid)
			assert.Equal(t, item.Prompt1.Int64, item.Answer1.Int64)

		case models.ItemTypeSameDifferent:
			require.True(t, item.AnswerOX.Valid)
			a, b := byID[item.Prompt1.Int64], byID[item.Prompt2.Int64]
			want := models.AnswerDifferent
			if a.Text == b.Text {
				want = models.AnswerSame
			}
			assert.Equal(t, want, item.AnswerOX.String)
		}
	}
}

func TestBuildItemsMatchEvaluation(t *testing.T) {
	// Generated items must grade correctly through the evaluator.
	rnd := rand.New(rand.NewSource(3))
	items, err := buildItems(rnd, unitPool(), 20)
	require.NoError(t, err)

	for i := range items {
		item := &items[i]
		switch item.Type {
		case models.ItemTypeIntonation:
			assert.True(t, progress.EvaluateItem(item, item.AnswerSQ.String))
		case models.ItemTypeSameDifferent:
			assert.True(t, progress.EvaluateItem(item, item.AnswerOX.String))
		}
	}
}

func TestBuildItemsEmptyPool(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	_, err := buildItems(rnd, nil, 10)
	assert.Error(t, err)
}
