package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"krisha_importer/config"
	"krisha_importer/workers"
)

// Scheduler runs periodic queue drains on a cron expression, on top of the
// worker's own interval polling. Useful for forcing a drain at quiet hours
// when the queue backlog is allowed to grow during the day.
type Scheduler struct {
	cfg    *config.Config
	worker *workers.ImportWorker
	cron   *cron.Cron
}

func New(cfg *config.Config, worker *workers.ImportWorker) *Scheduler {
	return &Scheduler{
		cfg:    cfg,
		worker: worker,
		cron:   cron.New(),
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	if s.cfg.ImportCron == "" {
		return nil
	}

	log.Printf("starting scheduler with cron: %s", s.cfg.ImportCron)
	_, err := s.cron.AddFunc(s.cfg.ImportCron, func() {
		s.worker.Drain(ctx, s.cfg.QueueBatchSize)
	})
	if err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", s.cfg.ImportCron, err)
	}
	s.cron.Start()
	return nil
}

func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
