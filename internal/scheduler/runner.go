package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/aatumaykin/reportbot/internal/logger"
	"github.com/aatumaykin/reportbot/internal/report"
	"github.com/aatumaykin/reportbot/internal/store"
)

// ReportService is the slice of the report pipeline the runner invokes.
type ReportService interface {
	GenerateAndSend(ctx context.Context, date string) (report.Result, error)
}

// EntryOutcome reports what happened to one schedule entry during a
// due-check pass.
type EntryOutcome struct {
	Name    string `json:"name"`
	Outcome string `json:"outcome"`
}

// Runner ticks once a minute and dispatches due schedule entries
// sequentially. Entries are isolated: one failed dispatch never blocks the
// others, and LastRun is only advanced on success so a failed entry stays
// eligible.
type Runner struct {
	repo    store.ScheduleRepository
	service ReportService
	logger  *logger.Logger
	cron    *cron.Cron

	notifyCh chan struct{}
	ctx      context.Context
	cancel   context.CancelFunc
	started  bool
	mu       sync.Mutex
}

// NewRunner creates a runner over the given repository and report service.
func NewRunner(repo store.ScheduleRepository, service ReportService, log *logger.Logger) *Runner {
	return &Runner{
		repo:     repo,
		service:  service,
		logger:   log,
		cron:     cron.New(),
		notifyCh: make(chan struct{}, 1),
	}
}

// Start begins the minute tick. It returns immediately; ticking stops when
// ctx is cancelled or Stop is called.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return fmt.Errorf("runner already started")
	}

	r.ctx, r.cancel = context.WithCancel(ctx)
	r.started = true

	if _, err := r.cron.AddFunc("* * * * *", func() {
		r.RunDueSchedules(r.ctx, time.Now())
	}); err != nil {
		return fmt.Errorf("registering due-check job: %w", err)
	}

	r.cron.Start()
	go r.notifyLoop()

	r.logger.Info("schedule runner started")
	return nil
}

// Stop halts the tick and waits for an in-flight pass to finish.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.started {
		return
	}

	if r.cancel != nil {
		r.cancel()
	}
	<-r.cron.Stop().Done()
	r.started = false

	r.logger.Info("schedule runner stopped")
}

// Notify triggers an immediate due-check. Non-blocking if one is already
// pending.
func (r *Runner) Notify() {
	select {
	case r.notifyCh <- struct{}{}:
	default:
	}
}

func (r *Runner) notifyLoop() {
	for {
		select {
		case <-r.ctx.Done():
			return
		case <-r.notifyCh:
			r.RunDueSchedules(r.ctx, time.Now())
		}
	}
}

// RunDueSchedules performs one due-check pass at the given moment and
// returns the outcome per matched entry.
func (r *Runner) RunDueSchedules(ctx context.Context, now time.Time) []EntryOutcome {
	entries, err := r.repo.List(ctx)
	if err != nil {
		r.logger.Error("failed to load schedules", err)
		return nil
	}

	due, ranToday := EvaluateDue(now, entries)

	var outcomes []EntryOutcome

	for _, entry := range ranToday {
		r.logger.Info("schedule already ran today",
			logger.Field{Key: "schedule", Value: entry.Name})
		outcomes = append(outcomes, EntryOutcome{Name: entry.Name, Outcome: "already ran today"})
	}

	for _, entry := range due {
		outcomes = append(outcomes, r.dispatch(ctx, entry, now))
	}

	return outcomes
}

// dispatch runs the report pipeline for one entry. LastRun moves forward
// only when the pipeline succeeds.
func (r *Runner) dispatch(ctx context.Context, entry store.ScheduleEntry, now time.Time) EntryOutcome {
	r.logger.Info("running scheduled report",
		logger.Field{Key: "schedule", Value: entry.Name})

	result, err := r.service.GenerateAndSend(ctx, "")
	if err != nil {
		r.logger.Error("scheduled report failed", err,
			logger.Field{Key: "schedule", Value: entry.Name})
		return EntryOutcome{Name: entry.Name, Outcome: "failed: " + result.Message}
	}

	if err := r.repo.UpdateLastRun(ctx, entry.ID, now); err != nil {
		// The report went out; the entry may fire again if the invoker
		// hits the same minute before persistence recovers.
		r.logger.Error("failed to persist last_run", err,
			logger.Field{Key: "schedule", Value: entry.Name})
	}

	r.logger.Info("scheduled report sent",
		logger.Field{Key: "schedule", Value: entry.Name})
	return EntryOutcome{Name: entry.Name, Outcome: "sent"}
}
