package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/octobees/whatsapp-leads/api/internal/service/funnel"
)

// DailyResetSpec runs at local midnight.
const DailyResetSpec = "0 0 * * *"

const resetTimeout = 2 * time.Minute

// DailyResetter starts a new counting day for the distribution list.
type DailyResetter interface {
	ResetDaily(ctx context.Context) (int64, error)
}

// CronManager runs the scheduled jobs in the tenant's local time.
type CronManager struct {
	cron     *cron.Cron
	resetter DailyResetter
	location *time.Location
	logger   *slog.Logger
}

// NewCronManager creates a cron manager whose schedules are read at the given offset.
func NewCronManager(resetter DailyResetter, offset funnel.Offset, logger *slog.Logger) *CronManager {
	if logger == nil {
		logger = slog.Default()
	}
	location := offset.Location()
	return &CronManager{
		cron:     cron.New(cron.WithLocation(location)),
		resetter: resetter,
		location: location,
		logger:   logger,
	}
}

// SetupJobs registers every scheduled job.
func (cm *CronManager) SetupJobs() error {
	_, err := cm.cron.AddFunc(DailyResetSpec, cm.ResetDistribution)
	return err
}

// ResetDistribution zeroes the per-day lead counters.
func (cm *CronManager) ResetDistribution() {
	ctx, cancel := context.WithTimeout(context.Background(), resetTimeout)
	defer cancel()

	reset, err := cm.resetter.ResetDaily(ctx)
	if err != nil {
		cm.logger.Error("daily distribution reset failed", "error", err)
		return
	}
	cm.logger.Info("daily distribution reset", "contacts", reset)
}

// Entries returns the number of registered jobs.
func (cm *CronManager) Entries() int {
	return len(cm.cron.Entries())
}

// Next returns when the first registered job runs next, relative to now.
func (cm *CronManager) Next(now time.Time) time.Time {
	entries := cm.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Schedule.Next(now.In(cm.location))
}

// Start runs the scheduler in its own goroutine.
func (cm *CronManager) Start() {
	cm.cron.Start()
}

// Stop halts the scheduler and waits for running jobs.
func (cm *CronManager) Stop() {
	<-cm.cron.Stop().Done()
}
