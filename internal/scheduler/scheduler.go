// Package scheduler re-asserts the Telegram webhook registration on a
// fixed cadence; the platform occasionally drops registrations and a
// silent drop would otherwise go unnoticed until the next config change.
package scheduler

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	cron      *cron.Cron
	refreshFn func() bool
}

func New(refreshFn func() bool) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithLocation(time.UTC)),
		refreshFn: refreshFn,
	}
}

func (s *Scheduler) Start() error {
	// Hourly keep-alive; best-effort, failures only logged
	_, err := s.cron.AddFunc("0 * * * *", func() {
		if !s.refreshFn() {
			log.Printf("scheduler: webhook refresh failed")
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("📅 Scheduler started - webhook registration refreshed hourly")
	return nil
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	log.Printf("📅 Scheduler stopped")
}
