// Package scheduler manages the recurring batch jobs. Each job fires once
// a day at a configured local time; a job never runs concurrently with
// itself, whether fired by the clock or triggered by hand.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
)

// Scheduler errors.
var (
	ErrUnknownJob     = errors.New("unknown job")
	ErrAlreadyRunning = errors.New("job is already running")
	ErrDuplicateJob   = errors.New("job id already registered")
)

// JobFunc is the work a scheduled job performs.
type JobFunc func(ctx context.Context) error

// TriggerSpec describes when a job fires.
type TriggerSpec struct {
	Hour     int
	Minute   int
	Timezone string // IANA name, e.g. "Asia/Seoul"
	Enabled  bool
}

type job struct {
	id      string
	spec    TriggerSpec
	loc     *time.Location
	run     JobFunc
	running bool
	lastRun time.Time
	lastErr string
}

// JobStatus is a point-in-time view of one registered job.
type JobStatus struct {
	ID        string     `json:"id"`
	Enabled   bool       `json:"enabled"`
	Schedule  string     `json:"schedule"`
	Timezone  string     `json:"timezone"`
	Running   bool       `json:"running"`
	LastRun   *time.Time `json:"last_run,omitempty"`
	LastError string     `json:"last_error,omitempty"`
	NextFire  *time.Time `json:"next_fire,omitempty"`
}

// Scheduler owns the registered jobs and their gocron timers. gocron
// carries one timezone per scheduler, so timers are grouped by zone.
type Scheduler struct {
	mu      sync.Mutex
	jobs    map[string]*job
	order   []string
	timers  map[string]*gocron.Scheduler
	started bool
}

// New creates an empty scheduler.
func New() *Scheduler {
	return &Scheduler{
		jobs:   make(map[string]*job),
		timers: make(map[string]*gocron.Scheduler),
	}
}

// Register adds a job. Must be called before Start.
func (s *Scheduler) Register(id string, spec TriggerSpec, run JobFunc) error {
	if spec.Hour < 0 || spec.Hour > 23 || spec.Minute < 0 || spec.Minute > 59 {
		return fmt.Errorf("invalid trigger time %02d:%02d for job %s", spec.Hour, spec.Minute, id)
	}
	loc, err := time.LoadLocation(spec.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q for job %s: %v", spec.Timezone, id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[id]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateJob, id)
	}
	s.jobs[id] = &job{id: id, spec: spec, loc: loc, run: run}
	s.order = append(s.order, id)
	return nil
}

// Start wires enabled jobs into their timers and begins firing them.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true

	for _, id := range s.order {
		j := s.jobs[id]
		if !j.spec.Enabled {
			log.Printf("Job %s is disabled, not scheduling", id)
			continue
		}
		timer, ok := s.timers[j.spec.Timezone]
		if !ok {
			timer = gocron.NewScheduler(j.loc)
			s.timers[j.spec.Timezone] = timer
		}
		at := fmt.Sprintf("%02d:%02d", j.spec.Hour, j.spec.Minute)
		jobID := id
		timer.Every(1).Day().At(at).Do(func() { s.fire(jobID) })
		log.Printf("Job %s scheduled daily at %s %s", id, at, j.spec.Timezone)
	}

	for _, timer := range s.timers {
		timer.StartAsync()
	}
}

// Stop halts all timers. Jobs already running finish on their own.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, timer := range s.timers {
		timer.Stop()
	}
}

// fire is the scheduled entry point. An overlapping fire is dropped, not
// queued: the next day's fire will pick up the work.
func (s *Scheduler) fire(id string) {
	if err := s.TriggerNow(id); errors.Is(err, ErrAlreadyRunning) {
		log.Printf("Job %s still running from a previous fire, dropping this one", id)
	} else if err != nil {
		log.Printf("Job %s could not fire: %v", id, err)
	}
}

// TriggerNow starts the job immediately in the background. Returns
// ErrAlreadyRunning when an execution is in flight and ErrUnknownJob for
// an unregistered id.
func (s *Scheduler) TriggerNow(id string) error {
	s.mu.Lock()
	j, ok := s.jobs[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownJob, id)
	}
	if j.running {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrAlreadyRunning, id)
	}
	j.running = true
	s.mu.Unlock()

	go s.execute(j)
	return nil
}

func (s *Scheduler) execute(j *job) {
	started := time.Now()
	log.Printf("Job %s starting", j.id)

	err := runSafely(j.run)

	s.mu.Lock()
	j.running = false
	j.lastRun = started
	if err != nil {
		j.lastErr = err.Error()
	} else {
		j.lastErr = ""
	}
	s.mu.Unlock()

	if err != nil {
		log.Printf("Job %s failed after %s: %v", j.id, time.Since(started).Round(time.Millisecond), err)
		return
	}
	log.Printf("Job %s finished in %s", j.id, time.Since(started).Round(time.Millisecond))
}

func runSafely(run JobFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return run(context.Background())
}

// Running reports whether the job is currently executing.
func (s *Scheduler) Running(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownJob, id)
	}
	return j.running, nil
}

// Status reports every registered job in registration order.
func (s *Scheduler) Status() []JobStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	statuses := make([]JobStatus, 0, len(s.order))
	for _, id := range s.order {
		j := s.jobs[id]
		st := JobStatus{
			ID:        id,
			Enabled:   j.spec.Enabled,
			Schedule:  fmt.Sprintf("%02d:%02d", j.spec.Hour, j.spec.Minute),
			Timezone:  j.spec.Timezone,
			Running:   j.running,
			LastError: j.lastErr,
		}
		if !j.lastRun.IsZero() {
			t := j.lastRun
			st.LastRun = &t
		}
		if j.spec.Enabled {
			next := NextFire(now, j.spec, j.loc)
			st.NextFire = &next
		}
		statuses = append(statuses, st)
	}
	return statuses
}

// NextFire returns the first instant strictly after now at which the spec
// fires in the given location.
func NextFire(now time.Time, spec TriggerSpec, loc *time.Location) time.Time {
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), spec.Hour, spec.Minute, 0, 0, loc)
	if !next.After(local) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
