package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/smallbiznis/scholara/internal/config"
	"github.com/smallbiznis/scholara/internal/latefee"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	Cfg   config.Config
	Sweep *latefee.Sweep
}

// Scheduler owns the cron runner that triggers the late-fee sweep. The sweep
// itself keeps no schedule state; it only runs when invoked.
type Scheduler struct {
	cron *cron.Cron
	log  *zap.Logger
}

func New(p Params) (*Scheduler, error) {
	log := p.Log.Named("scheduler")
	runner := cron.New()

	spec := p.Cfg.Billing.SweepSpec
	if spec == "" {
		spec = "0 2 * * *"
	}
	sweep := p.Sweep
	_, err := runner.AddFunc(spec, func() {
		if _, err := sweep.Run(context.Background()); err != nil {
			log.Error("late fee sweep run failed", zap.Error(err))
		}
	})
	if err != nil {
		return nil, err
	}

	return &Scheduler{cron: runner, log: log}, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started")
}

// Stop halts the cron runner and waits for any in-flight run to finish.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop().Done()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
