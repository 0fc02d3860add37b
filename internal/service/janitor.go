package service

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Janitor periodically prunes expired sessions.
type Janitor struct {
	scheduler *gocron.Scheduler
	registry  *Registry
	minutes   int
}

func NewJanitor(r *Registry, everyMinutes int) *Janitor {
	if everyMinutes <= 0 {
		everyMinutes = 1
	}
	return &Janitor{
		scheduler: gocron.NewScheduler(time.UTC),
		registry:  r,
		minutes:   everyMinutes,
	}
}

// Start schedules the prune job and starts the underlying scheduler.
func (j *Janitor) Start() error {
	_, err := j.scheduler.Every(j.minutes).Minutes().Do(j.run)
	if err != nil {
		return err
	}
	j.scheduler.StartAsync()
	return nil
}

func (j *Janitor) run() {
	if n := j.registry.Prune(time.Now()); n > 0 {
		log.Printf("janitor: pruned %d idle sessions, %d left", n, j.registry.Len())
	}
}

func (j *Janitor) Stop() {
	if j.scheduler != nil {
		j.scheduler.Stop()
	}
}
