// Package api exposes the operational HTTP surface: feedback lookup,
// manual generation and batch job control.
package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/example/lingofeed/internal/batch"
	"github.com/example/lingofeed/internal/progress"
	"github.com/example/lingofeed/internal/scheduler"
	"github.com/example/lingofeed/pkg/models"
)

// FeedbackReader reads persisted feedback records.
type FeedbackReader interface {
	LatestForLearner(ctx context.Context, learnerID int64) (*models.FeedbackRecord, error)
	ForDate(ctx context.Context, learnerID int64, date string) (*models.FeedbackRecord, error)
	Recent(ctx context.Context, limit int) ([]models.FeedbackRecord, error)
}

// BatchRunner runs feedback generation and reports on past runs.
type BatchRunner interface {
	GenerateFor(ctx context.Context, learnerID int64, day time.Time, force bool) (bool, error)
	LastReport() *batch.Report
}

// JobControl triggers and inspects scheduled jobs.
type JobControl interface {
	TriggerNow(id string) error
	Status() []scheduler.JobStatus
}

// SnapshotSource derives progress snapshots on demand.
type SnapshotSource interface {
	Evaluate(ctx context.Context, learnerID int64, day time.Time) (*progress.Snapshot, error)
}

// Server is the HTTP server with its dependencies.
type Server struct {
	feedback  FeedbackReader
	runner    BatchRunner
	jobs      JobControl
	snapshots SnapshotSource
	loc       *time.Location
	srv       *http.Server
}

// NewServer creates the server listening on the given port.
func NewServer(port string, feedback FeedbackReader, runner BatchRunner, jobs JobControl, snapshots SnapshotSource, loc *time.Location) *Server {
	if loc == nil {
		loc = time.UTC
	}
	s := &Server{
		feedback:  feedback,
		runner:    runner,
		jobs:      jobs,
		snapshots: snapshots,
		loc:       loc,
	}
	s.srv = &http.Server{
		Addr:         ":" + port,
		Handler:      s.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

// Router builds the route table.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.handleHealth).Methods("GET")

	r.HandleFunc("/feedback/generate", s.handleGenerate).Methods("POST")
	r.HandleFunc("/feedback/recent", s.handleRecent).Methods("GET")
	r.HandleFunc("/feedback/learner/{id:[0-9]+}/latest", s.handleLatest).Methods("GET")
	r.HandleFunc("/feedback/learner/{id:[0-9]+}/date/{date}", s.handleForDate).Methods("GET")

	r.HandleFunc("/progress/learner/{id:[0-9]+}", s.handleSnapshot).Methods("GET")

	r.HandleFunc("/batch/trigger/{job}", s.handleTrigger).Methods("POST")
	r.HandleFunc("/batch/status", s.handleJobStatus).Methods("GET")
	r.HandleFunc("/batch/report", s.handleReport).Methods("GET")

	return r
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	log.Printf("HTTP API listening on %s", s.srv.Addr)
	err := s.srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
