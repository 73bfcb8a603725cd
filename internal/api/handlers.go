package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/example/lingofeed/internal/database"
	"github.com/example/lingofeed/internal/progress"
	"github.com/example/lingofeed/internal/scheduler"
	"github.com/example/lingofeed/pkg/models"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type generateRequest struct {
	LearnerID int64  `json:"learner_id"`
	Date      string `json:"date,omitempty"` // 2006-01-02, defaults to today
	Force     bool   `json:"force,omitempty"`
}

type generateResponse struct {
	LearnerID int64  `json:"learner_id"`
	Date      string `json:"date"`
	Generated bool   `json:"generated"`
}

// handleGenerate runs feedback generation for one learner synchronously.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.LearnerID < 1 {
		writeError(w, http.StatusBadRequest, "learner_id is required")
		return
	}

	day := time.Now().In(s.loc)
	if req.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", req.Date, s.loc)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be formatted 2006-01-02")
			return
		}
		day = parsed
	}

	generated, err := s.runner.GenerateFor(r.Context(), req.LearnerID, day, req.Force)
	if errors.Is(err, progress.ErrNoActivity) {
		writeError(w, http.StatusNotFound, "no learning activity for date")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, generateResponse{
		LearnerID: req.LearnerID,
		Date:      day.Format("2006-01-02"),
		Generated: generated,
	})
}

// feedbackView is the API shape of a record: the stored message split back
// into its three parts.
type feedbackView struct {
	ID         int64  `json:"id"`
	LearnerID  int64  `json:"learner_id"`
	Date       string `json:"date"`
	Summary    string `json:"summary"`
	Praise     string `json:"praise"`
	Motivation string `json:"motivation"`
	Tags       string `json:"tags"`
	CreatedAt  string `json:"created_at"`
}

func viewOf(rec *models.FeedbackRecord) feedbackView {
	summary, praise, motivation := rec.SplitMessage()
	return feedbackView{
		ID:         rec.ID,
		LearnerID:  rec.LearnerID,
		Date:       rec.FeedbackDate,
		Summary:    summary,
		Praise:     praise,
		Motivation: motivation,
		Tags:       rec.Tags,
		CreatedAt:  rec.CreatedAt.Format(time.RFC3339),
	}
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	learnerID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid learner id")
		return
	}

	rec, err := s.feedback.LatestForLearner(r.Context(), learnerID)
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no feedback for learner")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, viewOf(rec))
}

func (s *Server) handleForDate(w http.ResponseWriter, r *http.Request) {
	learnerID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid learner id")
		return
	}
	date := mux.Vars(r)["date"]
	if _, err := time.Parse("2006-01-02", date); err != nil {
		writeError(w, http.StatusBadRequest, "date must be formatted 2006-01-02")
		return
	}

	rec, err := s.feedback.ForDate(r.Context(), learnerID, date)
	if errors.Is(err, database.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no feedback for date")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, viewOf(rec))
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	recs, err := s.feedback.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	views := make([]feedbackView, 0, len(recs))
	for i := range recs {
		views = append(views, viewOf(&recs[i]))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	learnerID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid learner id")
		return
	}

	day := time.Now().In(s.loc)
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, s.loc)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be formatted 2006-01-02")
			return
		}
		day = parsed
	}

	snap, err := s.snapshots.Evaluate(r.Context(), learnerID, day)
	if errors.Is(err, progress.ErrNoActivity) {
		writeError(w, http.StatusNotFound, "no learning activity for date")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// handleTrigger starts a job in the background. The report endpoint has
// the outcome once the run finishes.
func (s *Server) handleTrigger(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["job"]

	err := s.jobs.TriggerNow(jobID)
	if errors.Is(err, scheduler.ErrUnknownJob) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if errors.Is(err, scheduler.ErrAlreadyRunning) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"job": jobID, "status": "started"})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.jobs.Status())
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	report := s.runner.LastReport()
	if report == nil {
		writeError(w, http.StatusNotFound, "no batch run yet")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}
