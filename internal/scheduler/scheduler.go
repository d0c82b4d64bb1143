// Package scheduler runs the periodic risk refresh for active loans.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Refresher re-runs the risk-analysis pass over every active loan and reports
// how many loans were refreshed.
type Refresher interface {
	RefreshActive(ctx context.Context) (int, error)
}

type Scheduler struct {
	cron *cron.Cron
	log  logrus.FieldLogger
}

// New registers the refresh job on spec (standard five-field cron syntax or a
// descriptor such as "@hourly"). Runs never overlap.
func New(spec string, r Refresher, log logrus.FieldLogger) (*Scheduler, error) {
	log = log.WithField("component", "scheduler")
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	s := &Scheduler{cron: c, log: log}
	if _, err := c.AddFunc(spec, func() { s.run(r) }); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) run(r Refresher) {
	start := time.Now()
	n, err := r.RefreshActive(context.Background())
	fields := logrus.Fields{
		"event":       "risk_refresh",
		"loans":       n,
		"duration_ms": time.Since(start).Milliseconds(),
	}
	if err != nil {
		s.log.WithFields(fields).WithError(err).Error("scheduled risk refresh failed")
		return
	}
	s.log.WithFields(fields).Info("scheduled risk refresh complete")
}

func (s *Scheduler) Start() { s.cron.Start() }

// Stop halts scheduling and waits for a running job until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}
