// Package scheduler triggers feed refreshes on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"jobmatch-workers/internal/common/logger"
)

// RefreshFunc runs one refresh cycle.
type RefreshFunc func(ctx context.Context) error

// Scheduler wraps robfig/cron and owns the refresh loop.
type Scheduler struct {
	cron       *cron.Cron
	spec       string
	runOnStart bool
	refresh    RefreshFunc
	logger     logger.Logger

	wg sync.WaitGroup
}

// New creates a Scheduler for a standard five-field cron spec such as
// "0 8,20 * * *".
func New(spec string, runOnStart bool, refresh RefreshFunc, log logger.Logger) *Scheduler {
	log = log.WithFields(map[string]interface{}{"component": "scheduler"})
	cl := cronLogger{log: log}
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(
				cron.Recover(cl),
				cron.SkipIfStillRunning(cl),
			),
		),
		spec:       spec,
		runOnStart: runOnStart,
		refresh:    refresh,
		logger:     log,
	}
}

// Start registers the refresh job and starts the cron loop. When runOnStart
// is set one refresh also runs immediately in the background.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.run(ctx, "cron") }); err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started", map[string]interface{}{"spec": s.spec})

	if s.runOnStart {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.run(ctx, "startup")
		}()
	}
	return nil
}

// Stop stops the cron loop and waits for running refreshes to return.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.wg.Wait()
	s.logger.Info("scheduler stopped", nil)
}

func (s *Scheduler) run(ctx context.Context, trigger string) {
	if ctx.Err() != nil {
		return
	}
	if err := s.refresh(ctx); err != nil {
		s.logger.Error("scheduled refresh failed", map[string]interface{}{
			"trigger": trigger,
			"error":   err.Error(),
		})
		return
	}
	s.logger.Debug("scheduled refresh done", map[string]interface{}{"trigger": trigger})
}

// cronLogger routes robfig/cron's internal logging (panic recovery, skipped
// runs) through logger.Logger.
type cronLogger struct {
	log logger.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.log.Debug(msg, kvFields(keysAndValues))
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := kvFields(keysAndValues)
	if err != nil {
		fields["error"] = err.Error()
	}
	c.log.Error(msg, fields)
}

func kvFields(kv []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(kv)/2+1)
	for i := 0; i+1 < len(kv); i += 2 {
		fields[fmt.Sprint(kv[i])] = kv[i+1]
	}
	if len(kv)%2 == 1 {
		fields["extra"] = kv[len(kv)-1]
	}
	return fields
}
