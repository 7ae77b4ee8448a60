package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/azure/mentions-sentiment-report/internal/config"
	"github.com/azure/mentions-sentiment-report/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// runTimeout bounds each run; three 15-minute rate-limit waits fit inside it
const runTimeout = 50 * time.Minute

// Runner produces one report
type Runner interface {
	RunReport(ctx context.Context) (*models.Report, error)
}

// Service handles scheduling of report runs
type Service struct {
	config *config.Config
	runner Runner
	cron   *cron.Cron

	// tracks triggered runs so Stop can wait for them
	wg sync.WaitGroup
}

// CronExpression returns the 6-field schedule for "daily" or "weekly"
func CronExpression(schedule string) string {
	switch schedule {
	case "weekly":
		// Monday at 9 AM
		return "0 0 9 * * MON"
	default:
		// Every day at 9 AM
		return "0 0 9 * * *"
	}
}

// NewService creates a new scheduler service in the configured time zone
func NewService(cfg *config.Config, runner Runner) (*Service, error) {
	location, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.TimeZone, err)
	}

	return &Service{
		config: cfg,
		runner: runner,
		cron:   cron.New(cron.WithSeconds(), cron.WithLocation(location)),
	}, nil
}

// Start begins the scheduled runs
func (s *Service) Start() error {
	expression := CronExpression(s.config.ReportSchedule)

	_, err := s.cron.AddFunc(expression, s.runOnce)
	if err != nil {
		return err
	}

	s.cron.Start()
	logrus.Infof("Scheduler started with %s schedule (%s)", s.config.ReportSchedule, expression)
	return nil
}

// Trigger starts an unscheduled run in the background. Stop waits for it.
func (s *Service) Trigger() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runOnce()
	}()
}

func (s *Service) runOnce() {
	logrus.Info("Starting report run")

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	if _, err := s.runner.RunReport(ctx); err != nil {
		logrus.Errorf("Report run failed: %v", err)
	}
}

// Entries returns the number of registered jobs
func (s *Service) Entries() int {
	return len(s.cron.Entries())
}

// Stop stops the scheduler and waits for scheduled and triggered runs to finish
func (s *Service) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	s.wg.Wait()
	logrus.Info("Scheduler stopped")
}
