// Package progress derives a learner's stage, growth phase and daily
// accuracy metrics from quiz session history. The stage is always derived
// on demand; nothing here is cached or stored back.
package progress

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/example/lingofeed/pkg/models"
)

// ErrNoActivity is returned when a learner has no quiz sessions on the
// evaluated date. It is an expected outcome, not a system fault.
var ErrNoActivity = errors.New("no learning activity for date")

// DefaultStageTarget is the cumulative correct-answer count that completes
// a stage (out of the 70-item stage budget).
const DefaultStageTarget = 50

// Phase is the coarse user-facing grouping of stages.
type Phase string

// Growth phases, in order.
const (
	PhaseSeed    Phase = "seed"
	PhaseSprout  Phase = "sprout"
	PhaseGrowing Phase = "growing_plant"
	PhaseFruit   Phase = "fruit"
)

// Label returns the learner-facing Korean name of the phase.
func (p Phase) Label() string {
	switch p {
	case PhaseSeed:
		return "씨앗"
	case PhaseSprout:
		return "새싹"
	case PhaseGrowing:
		return "성장한 식물"
	default:
		return "열매"
	}
}

// GrowthPhase maps a stage number to its growth phase. The mapping is total
// and monotonic: stage 1 is a seed, 2-4 a sprout, 5-7 a growing plant, 8
// and above a fruit. Stages below 1 clamp to seed.
func GrowthPhase(stage int) Phase {
	switch {
	case stage <= 1:
		return PhaseSeed
	case stage <= 4:
		return PhaseSprout
	case stage <= 7:
		return PhaseGrowing
	default:
		return PhaseFruit
	}
}

// Snapshot is the result of evaluating one learner for one date.
type Snapshot struct {
	LearnerID            int64   `json:"learner_id"`
	Date                 string  `json:"date"`
	DailyTotalItems      int     `json:"daily_total_items"`
	DailyCorrectItems    int     `json:"daily_correct_items"`
	DailyAccuracy        float64 `json:"daily_accuracy"` // percentage, two decimals
	CompletedSets        int     `json:"completed_sets"` // day, sessions with an end time
	DistinctSets         int     `json:"distinct_sets"`  // day
	TotalCompletedSets   int     `json:"total_completed_sets"` // all time
	BestCategory         string  `json:"best_category"`
	BestCategoryAccuracy float64 `json:"best_category_accuracy"`
	CurrentStage         int     `json:"current_stage"`
	GrowthPhase          Phase   `json:"growth_phase"`
}

// Store is the read access the evaluator needs. All queries are pure reads.
type Store interface {
	SessionsInRange(ctx context.Context, learnerID int64, start, end time.Time) ([]models.QuizSession, error)
	StageProgress(ctx context.Context, learnerID int64) ([]models.StageProgress, error)
	CategoryStats(ctx context.Context, learnerID int64, start, end time.Time) ([]models.CategoryStat, error)
}

// Evaluator computes progress snapshots.
type Evaluator struct {
	store       Store
	loc         *time.Location
	stageTarget int
}

// NewEvaluator creates an evaluator. Day boundaries are computed in loc;
// stageTarget below 1 falls back to the default policy.
func NewEvaluator(store Store, loc *time.Location, stageTarget int) *Evaluator {
	if loc == nil {
		loc = time.UTC
	}
	if stageTarget < 1 {
		stageTarget = DefaultStageTarget
	}
	return &Evaluator{store: store, loc: loc, stageTarget: stageTarget}
}

// Evaluate derives the learner's snapshot for the given date. Daily metrics
// come from that date's sessions only; the current stage comes from
// all-time history. Returns ErrNoActivity when the learner has no sessions
// on the date.
func (e *Evaluator) Evaluate(ctx context.Context, learnerID int64, day time.Time) (*Snapshot, error) {
	start, end := e.DayWindow(day)

	sessions, err := e.store.SessionsInRange(ctx, learnerID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions for learner %d: %w", learnerID, err)
	}
	if len(sessions) == 0 {
		return nil, ErrNoActivity
	}

	snap := &Snapshot{
		LearnerID: learnerID,
		Date:      start.Format("2006-01-02"),
	}

	distinct := make(map[int64]struct{})
	for _, s := range sessions {
		snap.DailyTotalItems += s.TotalItems
		snap.DailyCorrectItems += s.CorrectItems
		if s.EndedAt.Valid {
			snap.CompletedSets++
		}
		distinct[s.SetID] = struct{}{}
	}
	snap.DistinctSets = len(distinct)
	snap.DailyAccuracy = Accuracy(snap.DailyCorrectItems, snap.DailyTotalItems)

	rows, err := e.store.StageProgress(ctx, learnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load stage progress for learner %d: %w", learnerID, err)
	}
	snap.CurrentStage = e.currentStage(rows)
	snap.GrowthPhase = GrowthPhase(snap.CurrentStage)
	for _, row := range rows {
		if row.CorrectTotal >= e.stageTarget {
			snap.TotalCompletedSets++
		}
	}

	stats, err := e.store.CategoryStats(ctx, learnerID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load category stats for learner %d: %w", learnerID, err)
	}
	snap.BestCategory, snap.BestCategoryAccuracy = bestCategory(stats)

	return snap, nil
}

// DayWindow returns the [start, end) instants covering the date in the
// evaluator's timezone.
func (e *Evaluator) DayWindow(day time.Time) (time.Time, time.Time) {
	d := day.In(e.loc)
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, e.loc)
	return start, start.AddDate(0, 0, 1)
}

// currentStage is the smallest stage order whose cumulative correct count
// has not reached the completion target. When every stage is complete the
// learner is past the last one; with no stages at all, stage 1.
func (e *Evaluator) currentStage(rows []models.StageProgress) int {
	if len(rows) == 0 {
		return 1
	}
	for _, row := range rows {
		if row.CorrectTotal < e.stageTarget {
			return row.Order
		}
	}
	return rows[len(rows)-1].Order + 1
}

// bestCategory picks the category with the highest same-day accuracy among
// categories with at least one attempt. Stats arrive ordered by stage
// order, so a strict comparison breaks ties toward the earlier stage.
func bestCategory(stats []models.CategoryStat) (string, float64) {
	name := ""
	best := 0.0
	for _, s := range stats {
		if s.Total == 0 {
			continue
		}
		acc := Accuracy(s.Correct, s.Total)
		if name == "" || acc > best {
			name = s.Name
			best = acc
		}
	}
	return name, best
}

// Accuracy returns correct/total as a percentage rounded to two decimals,
// 0 when total is 0.
func Accuracy(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(correct)/float64(total)*100*100) / 100
}
