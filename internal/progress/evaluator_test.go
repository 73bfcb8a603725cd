package progress

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/lingofeed/pkg/models"
)

type fakeStore struct {
	sessions []models.QuizSession
	stages   []models.StageProgress
	stats    []models.CategoryStat
	err      error
}

func (f *fakeStore) SessionsInRange(ctx context.Context, learnerID int64, start, end time.Time) ([]models.QuizSession, error) {
	return f.sessions, f.err
}

func (f *fakeStore) StageProgress(ctx context.Context, learnerID int64) ([]models.StageProgress, error) {
	return f.stages, f.err
}

func (f *fakeStore) CategoryStats(ctx context.Context, learnerID int64, start, end time.Time) ([]models.CategoryStat, error) {
	return f.stats, f.err
}

func endedSession(setID int64, total, correct int) models.QuizSession {
	return models.QuizSession{
		SetID:        setID,
		TotalItems:   total,
		CorrectItems: correct,
		EndedAt:      sql.NullTime{Time: time.Now(), Valid: true},
	}
}

func TestGrowthPhase(t *testing.T) {
	tests := []struct {
		stage int
		want  Phase
	}{
		{0, PhaseSeed},
		{1, PhaseSeed},
		{2, PhaseSprout},
		{4, PhaseSprout},
		{5, PhaseGrowing},
		{7, PhaseGrowing},
		{8, PhaseFruit},
		{100, PhaseFruit},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GrowthPhase(tt.stage), "stage %d", tt.stage)
	}
}

func TestGrowthPhaseMonotonic(t *testing.T) {
	order := map[Phase]int{PhaseSeed: 0, PhaseSprout: 1, PhaseGrowing: 2, PhaseFruit: 3}
	prev := GrowthPhase(1)
	for stage := 2; stage <= 20; stage++ {
		cur := GrowthPhase(stage)
		assert.GreaterOrEqual(t, order[cur], order[prev], "stage %d", stage)
		prev = cur
	}
}

func TestPhaseLabels(t *testing.T) {
	for _, p := range []Phase{PhaseSeed, PhaseSprout, PhaseGrowing, PhaseFruit} {
		assert.NotEmpty(t, p.Label())
	}
}

func TestAccuracy(t *testing.T) {
	assert.Equal(t, 80.0, Accuracy(12, 15))
	assert.Equal(t, 66.67, Accuracy(2, 3))
	assert.Equal(t, 0.0, Accuracy(0, 0))
	assert.Equal(t, 100.0, Accuracy(5, 5))
}

func TestEvaluateNoActivity(t *testing.T) {
	e := NewEvaluator(&fakeStore{}, time.UTC, 0)

	_, err := e.Evaluate(context.Background(), 1, time.Now())
	assert.ErrorIs(t, err, ErrNoActivity)
}

func TestEvaluateDailyMetrics(t *testing.T) {
	store := &fakeStore{
		sessions: []models.QuizSession{
			endedSession(1, 10, 8),
			endedSession(2, 5, 4),
			{SetID: 2, TotalItems: 3, CorrectItems: 1}, // abandoned mid-set
		},
		stages: []models.StageProgress{
			{Order: 1, CorrectTotal: 55},
			{Order: 2, CorrectTotal: 13},
		},
		stats: []models.CategoryStat{
			{Name: "인사", FirstOrder: 1, Total: 10, Correct: 8},
			{Name: "쇼핑", FirstOrder: 2, Total: 8, Correct: 5},
		},
	}
	e := NewEvaluator(store, time.UTC, 0)

	snap, err := e.Evaluate(context.Background(), 7, time.Date(2026, 8, 31, 15, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, int64(7), snap.LearnerID)
	assert.Equal(t, "2026-08-31", snap.Date)
	assert.Equal(t, 18, snap.DailyTotalItems)
	assert.Equal(t, 13, snap.DailyCorrectItems)
	assert.Equal(t, 72.22, snap.DailyAccuracy)
	assert.Equal(t, 2, snap.CompletedSets)
	assert.Equal(t, 2, snap.DistinctSets)
	assert.Equal(t, 1, snap.TotalCompletedSets)
	assert.Equal(t, 2, snap.CurrentStage)
	assert.Equal(t, PhaseSprout, snap.GrowthPhase)
	assert.Equal(t, "인사", snap.BestCategory)
	assert.Equal(t, 80.0, snap.BestCategoryAccuracy)
}

func TestCurrentStage(t *testing.T) {
	e := NewEvaluator(&fakeStore{}, time.UTC, 50)

	tests := []struct {
		name string
		rows []models.StageProgress
		want int
	}{
		{"no history", nil, 1},
		{"first incomplete", []models.StageProgress{{Order: 1, CorrectTotal: 20}}, 1},
		{"gap stays at earliest incomplete", []models.StageProgress{
			{Order: 1, CorrectTotal: 50},
			{Order: 2, CorrectTotal: 10},
			{Order: 3, CorrectTotal: 60},
		}, 2},
		{"all complete moves past last", []models.StageProgress{
			{Order: 1, CorrectTotal: 50},
			{Order: 2, CorrectTotal: 52},
		}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.currentStage(tt.rows))
		})
	}
}

func TestBestCategoryTieBreaksToEarlierStage(t *testing.T) {
	name, acc := bestCategory([]models.CategoryStat{
		{Name: "인사", FirstOrder: 1, Total: 10, Correct: 8},
		{Name: "쇼핑", FirstOrder: 3, Total: 5, Correct: 4},
	})
	assert.Equal(t, "인사", name)
	assert.Equal(t, 80.0, acc)
}

func TestBestCategorySkipsEmptyStats(t *testing.T) {
	name, acc := bestCategory([]models.CategoryStat{
		{Name: "인사", FirstOrder: 1, Total: 0, Correct: 0},
	})
	assert.Equal(t, "", name)
	assert.Equal(t, 0.0, acc)
}

func TestEvaluatePropagatesStoreErrors(t *testing.T) {
	store := &fakeStore{err: errors.New("db down")}
	e := NewEvaluator(store, time.UTC, 0)

	_, err := e.Evaluate(context.Background(), 1, time.Now())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoActivity)
}

func TestDayWindowUsesEvaluatorTimezone(t *testing.T) {
	seoul, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)
	e := NewEvaluator(&fakeStore{}, seoul, 0)

	// 16:30 UTC on Aug 31 is already Sep 1 in Seoul.
	start, end := e.DayWindow(time.Date(2026, 8, 31, 16, 30, 0, 0, time.UTC))
	assert.Equal(t, "2026-09-01", start.Format("2006-01-02"))
	assert.Equal(t, 24*time.Hour, end.Sub(start))
}
