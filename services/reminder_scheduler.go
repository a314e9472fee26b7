// services/reminder_scheduler.go
package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	ModeInterval = "interval"
	ModeDaily    = "daily"
	ModeHourly   = "hourly"
)

// PassRunner is what the scheduler drives once per tick.
type PassRunner interface {
	CheckAndSendReminders(ctx context.Context) CheckResult
}

// SchedulerStatus is an in-memory, process-lifetime snapshot. Restarts reset
// it; the reminder log is what prevents duplicate sends across restarts.
type SchedulerStatus struct {
	IsRunning     bool         `json:"isRunning"`
	LastRunTime   *time.Time   `json:"lastRunTime"`
	NextRunTime   *time.Time   `json:"nextRunTime"`
	LastRunResult *CheckResult `json:"lastRunResult"`
	TotalRuns     int64        `json:"totalRuns"`
}

type SchedulerConfig struct {
	Enabled         bool   `json:"enabled"`
	Mode            string `json:"mode"`
	IntervalMinutes int    `json:"intervalMinutes"`
}

// ReminderScheduler owns a single background loop that computes its own next
// wake time from a cron schedule and invokes the runner, never concurrently.
// Construct one at process start and inject it where needed.
type ReminderScheduler struct {
	runner PassRunner
	clock  Clock
	logger *zap.Logger

	// single-flight guard around a pass
	inFlight atomic.Bool

	mu       sync.Mutex
	enabled  bool
	mode     string
	interval int // minutes, interval mode only
	schedule cron.Schedule
	stopCh   chan struct{}
	status   SchedulerStatus
}

func NewReminderScheduler(runner PassRunner, clock Clock, logger *zap.Logger) *ReminderScheduler {
	return &ReminderScheduler{
		runner: runner,
		clock:  clock,
		logger: logger,
	}
}

// Start arms the scheduler with a fixed interval and fires one pass
// immediately. Starting an already-started scheduler is a no-op.
func (s *ReminderScheduler) Start(intervalMinutes int) error {
	if intervalMinutes <= 0 {
		return fmt.Errorf("interval must be positive, got %d", intervalMinutes)
	}
	return s.start(ModeInterval, intervalMinutes,
		cron.Every(time.Duration(intervalMinutes)*time.Minute))
}

// StartMode arms the scheduler on a boundary cadence: daily at midnight or
// at the top of every hour.
func (s *ReminderScheduler) StartMode(mode string) error {
	var spec string
	switch mode {
	case ModeDaily:
		spec = "0 0 * * *"
	case ModeHourly:
		spec = "0 * * * *"
	default:
		return fmt.Errorf("unknown scheduler mode %q", mode)
	}
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return err
	}
	return s.start(mode, 0, schedule)
}

func (s *ReminderScheduler) start(mode string, intervalMinutes int, schedule cron.Schedule) error {
	s.mu.Lock()
	if s.enabled {
		s.mu.Unlock()
		s.logger.Info("scheduler already running, ignoring start")
		return nil
	}
	s.enabled = true
	s.mode = mode
	s.interval = intervalMinutes
	s.schedule = schedule
	s.stopCh = make(chan struct{})
	next := schedule.Next(s.clock.Now())
	s.status.NextRunTime = &next
	stop := s.stopCh
	s.mu.Unlock()

	s.logger.Info("reminder scheduler started",
		zap.String("mode", mode),
		zap.Int("intervalMinutes", intervalMinutes),
		zap.Time("nextRun", next),
	)

	// fire-on-start, synchronously, before the loop arms
	s.runOnce()

	go s.loop(stop)
	return nil
}

// Stop cancels future ticks. An in-flight pass runs to completion.
func (s *ReminderScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled {
		return
	}
	s.enabled = false
	close(s.stopCh)
	s.stopCh = nil
	s.status.NextRunTime = nil
	s.logger.Info("reminder scheduler stopped")
}

// Status returns a copy; callers never see live state.
func (s *ReminderScheduler) Status() SchedulerStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.status
	if s.status.LastRunTime != nil {
		t := *s.status.LastRunTime
		snapshot.LastRunTime = &t
	}
	if s.status.NextRunTime != nil {
		t := *s.status.NextRunTime
		snapshot.NextRunTime = &t
	}
	if s.status.LastRunResult != nil {
		r := *s.status.LastRunResult
		snapshot.LastRunResult = &r
	}
	return snapshot
}

func (s *ReminderScheduler) Config() SchedulerConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SchedulerConfig{
		Enabled:         s.enabled,
		Mode:            s.mode,
		IntervalMinutes: s.interval,
	}
}

func (s *ReminderScheduler) IsActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled && s.stopCh != nil
}

// RunNow triggers a single pass outside the timer, honoring the same
// single-flight guard. Used by the manual trigger endpoint.
func (s *ReminderScheduler) RunNow() {
	s.runOnce()
}

func (s *ReminderScheduler) loop(stop chan struct{}) {
	for {
		s.mu.Lock()
		if !s.enabled {
			s.mu.Unlock()
			return
		}
		now := s.clock.Now()
		next := s.schedule.Next(now)
		t := next
		s.status.NextRunTime = &t
		s.mu.Unlock()

		wait := next.Sub(now)
		if wait < 0 {
			wait = 0
		}
		timer := time.NewTimer(wait)

		select {
		case <-stop:
			timer.Stop()
			return
		case <-timer.C:
			s.runOnce()
		}
	}
}

func (s *ReminderScheduler) runOnce() {
	if !s.inFlight.CompareAndSwap(false, true) {
		s.logger.Warn("previous reminder pass still running, skipping this tick")
		return
	}
	defer s.inFlight.Store(false)

	started := s.clock.Now()
	s.mu.Lock()
	s.status.IsRunning = true
	s.mu.Unlock()

	var result CheckResult
	func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("reminder pass panicked", zap.Any("panic", r))
				result = CheckResult{
					Success: false,
					Errors:  1,
					Message: fmt.Sprintf("reminder pass panicked: %v", r),
				}
			}
		}()
		result = s.runner.CheckAndSendReminders(context.Background())
	}()

	s.mu.Lock()
	s.status.IsRunning = false
	s.status.LastRunTime = &started
	res := result
	s.status.LastRunResult = &res
	s.status.TotalRuns++
	s.mu.Unlock()
}
