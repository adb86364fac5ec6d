package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/aeroagri/internal/config"
	"github.com/mamadbah2/aeroagri/internal/domain/models"
)

// Snapshotter computes and persists a balance snapshot.
type Snapshotter interface {
	Snapshot(ctx context.Context, label string, r models.DateRange) (models.ReportSnapshot, error)
}

// Exporter publishes a snapshot outside the store.
type Exporter interface {
	Export(ctx context.Context, snap models.ReportSnapshot) error
}

// Notifier announces a snapshot to the manager.
type Notifier interface {
	NotifySnapshot(ctx context.Context, snap models.ReportSnapshot) error
}

// Scheduler runs the periodic balance report.
type Scheduler struct {
	cron     *cron.Cron
	schedule string
	loc      *time.Location
	reports  Snapshotter
	exporter Exporter
	notifier Notifier
	now      func() time.Time
	logger   *zap.Logger
}

// NewScheduler creates a scheduler in the configured timezone. exporter and
// notifier may be nil when the integration is disabled.
func NewScheduler(cfg config.ReportingConfig, reports Snapshotter, exporter Exporter, notifier Notifier, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		schedule: cfg.CronSchedule,
		loc:      loc,
		reports:  reports,
		exporter: exporter,
		notifier: notifier,
		now:      time.Now,
		logger:   logger,
	}, nil
}

// Start registers the report job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.runScheduled); err != nil {
		return fmt.Errorf("schedule balance report %q: %w", s.schedule, err)
	}
	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule), zap.String("timezone", s.loc.String()))
	s.cron.Start()
	return nil
}

// Stop stops the cron loop. The returned context is done once a running job
// finishes.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("stopping scheduler")
	return s.cron.Stop()
}

func (s *Scheduler) runScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.RunReport(ctx); err != nil {
		s.logger.Error("balance report failed", zap.Error(err))
	}
}

// RunReport snapshots the month-to-date balance, then exports and announces
// it. Export and notification failures do not undo the snapshot.
func (s *Scheduler) RunReport(ctx context.Context) error {
	now := s.now().In(s.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	r := models.DayRange(models.MonthRange(now).Start, today)
	label := "Balanço parcial até " + today.Format(models.DisplayDateLayout)

	s.logger.Info("generating balance report", zap.String("label", label))
	snap, err := s.reports.Snapshot(ctx, label, r)
	if err != nil {
		return fmt.Errorf("snapshot balance: %w", err)
	}

	var errs []error
	if s.exporter != nil {
		if err := s.exporter.Export(ctx, snap); err != nil {
			errs = append(errs, fmt.Errorf("export snapshot: %w", err))
		}
	}
	if s.notifier != nil {
		if err := s.notifier.NotifySnapshot(ctx, snap); err != nil {
			errs = append(errs, fmt.Errorf("notify snapshot: %w", err))
		}
	}
	if len(errs) == 0 {
		s.logger.Info("balance report delivered", zap.String("label", label))
	}
	return errors.Join(errs...)
}
