// Package batch runs the daily feedback generation over every learner who
// practiced on the target date. Learners are processed in fixed-size
// chunks with a bounded number of concurrent workers; one learner's
// failure never aborts the rest of the run.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/example/lingofeed/internal/feedback"
	"github.com/example/lingofeed/internal/progress"
	"github.com/example/lingofeed/pkg/models"
)

// Default orchestrator knobs.
const (
	DefaultChunkSize   = 50
	DefaultConcurrency = 5
)

// LearnerSource lists learners with quiz activity in a time window.
type LearnerSource interface {
	ActiveLearnerIDs(ctx context.Context, start, end time.Time) ([]int64, error)
}

// FeedbackStore persists feedback records.
type FeedbackStore interface {
	ExistsForDate(ctx context.Context, learnerID int64, date string) (bool, error)
	Save(ctx context.Context, record *models.FeedbackRecord) error
	Replace(ctx context.Context, record *models.FeedbackRecord) error
}

// Evaluator derives a learner's progress snapshot for a date.
type Evaluator interface {
	Evaluate(ctx context.Context, learnerID int64, day time.Time) (*progress.Snapshot, error)
	DayWindow(day time.Time) (time.Time, time.Time)
}

// Composer renders feedback text from a snapshot.
type Composer interface {
	Compose(ctx context.Context, snap *progress.Snapshot) (feedback.Text, error)
}

// Notifier delivers composed feedback to the learner. Delivery failures
// are logged, not counted against the run.
type Notifier interface {
	NotifyFeedback(ctx context.Context, learnerID int64, text feedback.Text) error
}

// LearnerError records one learner's failure within a run.
type LearnerError struct {
	LearnerID int64  `json:"learner_id"`
	Message   string `json:"message"`
}

// Report summarizes one batch run.
type Report struct {
	Date       string         `json:"date"`
	Force      bool           `json:"force"`
	Total      int            `json:"total"`
	Processed  int            `json:"processed"`
	Skipped    int            `json:"skipped"`
	Failed     int            `json:"failed"`
	Errors     []LearnerError `json:"errors,omitempty"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
}

// Orchestrator coordinates the daily feedback batch.
type Orchestrator struct {
	learners    LearnerSource
	store       FeedbackStore
	evaluator   Evaluator
	composer    Composer
	notifier    Notifier
	chunkSize   int
	concurrency int

	mu         sync.Mutex
	lastReport *Report
}

// NewOrchestrator creates an orchestrator. notifier may be nil; chunkSize
// and concurrency below 1 fall back to the defaults.
func NewOrchestrator(learners LearnerSource, store FeedbackStore, evaluator Evaluator, composer Composer, notifier Notifier, chunkSize, concurrency int) *Orchestrator {
	if chunkSize < 1 {
		chunkSize = DefaultChunkSize
	}
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	return &Orchestrator{
		learners:    learners,
		store:       store,
		evaluator:   evaluator,
		composer:    composer,
		notifier:    notifier,
		chunkSize:   chunkSize,
		concurrency: concurrency,
	}
}

// Run generates feedback for every learner active on the given date.
// Learners that already have a record for the date are skipped unless
// force is set, in which case their record is regenerated in place.
func (o *Orchestrator) Run(ctx context.Context, day time.Time, force bool) (*Report, error) {
	start, end := o.evaluator.DayWindow(day)
	date := start.Format("2006-01-02")

	ids, err := o.learners.ActiveLearnerIDs(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list active learners for %s: %w", date, err)
	}

	report := &Report{
		Date:      date,
		Force:     force,
		Total:     len(ids),
		StartedAt: time.Now(),
	}
	log.Printf("Feedback batch for %s: %d active learners (force=%v)", date, len(ids), force)

	var resMu sync.Mutex
	sem := make(chan struct{}, o.concurrency)

	for chunkStart := 0; chunkStart < len(ids); chunkStart += o.chunkSize {
		chunkEnd := chunkStart + o.chunkSize
		if chunkEnd > len(ids) {
			chunkEnd = len(ids)
		}
		chunk := ids[chunkStart:chunkEnd]

		var wg sync.WaitGroup
		for _, id := range chunk {
			wg.Add(1)
			sem <- struct{}{}
			go func(learnerID int64) {
				defer wg.Done()
				defer func() { <-sem }()

				outcome, err := o.processLearner(ctx, learnerID, day, date, force)
				resMu.Lock()
				defer resMu.Unlock()
				switch {
				case err != nil:
					report.Failed++
					report.Errors = append(report.Errors, LearnerError{LearnerID: learnerID, Message: err.Error()})
					log.Printf("Feedback for learner %d on %s failed: %v", learnerID, date, err)
				case outcome == outcomeProcessed:
					report.Processed++
				default:
					report.Skipped++
				}
			}(id)
		}
		wg.Wait()
		log.Printf("Feedback batch for %s: chunk %d-%d done", date, chunkStart+1, chunkEnd)
	}

	report.FinishedAt = time.Now()
	log.Printf("Feedback batch for %s finished: %d processed, %d skipped, %d failed",
		date, report.Processed, report.Skipped, report.Failed)

	o.mu.Lock()
	o.lastReport = report
	o.mu.Unlock()
	return report, nil
}

type outcome int

const (
	outcomeProcessed outcome = iota
	outcomeSkippedExisting
	outcomeSkippedNoActivity
)

func (o *Orchestrator) processLearner(ctx context.Context, learnerID int64, day time.Time, date string, force bool) (result outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while processing learner %d: %v", learnerID, r)
		}
	}()

	exists, err := o.store.ExistsForDate(ctx, learnerID, date)
	if err != nil {
		return 0, fmt.Errorf("failed to check existing feedback: %w", err)
	}
	if exists && !force {
		return outcomeSkippedExisting, nil
	}

	snap, err := o.evaluator.Evaluate(ctx, learnerID, day)
	if err != nil {
		if errors.Is(err, progress.ErrNoActivity) {
			return outcomeSkippedNoActivity, nil
		}
		return 0, err
	}

	text, err := o.composer.Compose(ctx, snap)
	if err != nil {
		return 0, fmt.Errorf("failed to compose feedback: %w", err)
	}

	record := &models.FeedbackRecord{
		LearnerID:    learnerID,
		FeedbackDate: date,
		Message:      text.Join(),
		Tags:         recordTags(snap),
	}
	if exists {
		err = o.store.Replace(ctx, record)
	} else {
		err = o.store.Save(ctx, record)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to store feedback: %w", err)
	}

	if o.notifier != nil {
		if err := o.notifier.NotifyFeedback(ctx, learnerID, text); err != nil {
			log.Printf("Feedback delivery to learner %d failed: %v", learnerID, err)
		}
	}
	return outcomeProcessed, nil
}

// recordTags builds the stored tag string: the best category as a hashtag
// when the learner has one.
func recordTags(snap *progress.Snapshot) string {
	if snap.BestCategory == "" {
		return ""
	}
	return "#" + snap.BestCategory
}

// GenerateFor runs feedback generation for a single learner outside a
// batch run. Returns false without error when an existing record is kept;
// a day without activity surfaces progress.ErrNoActivity so callers can
// tell the two apart.
func (o *Orchestrator) GenerateFor(ctx context.Context, learnerID int64, day time.Time, force bool) (bool, error) {
	start, _ := o.evaluator.DayWindow(day)
	date := start.Format("2006-01-02")

	result, err := o.processLearner(ctx, learnerID, day, date, force)
	if err != nil {
		return false, err
	}
	switch result {
	case outcomeProcessed:
		return true, nil
	case outcomeSkippedNoActivity:
		return false, progress.ErrNoActivity
	default:
		return false, nil
	}
}

// LastReport returns the most recent run's report, nil before any run.
func (o *Orchestrator) LastReport() *Report {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastReport
}
