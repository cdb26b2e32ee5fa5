package balance

import (
	"context"
	"reflect"
	"time"

	"fxbalance/internal/adapters"
	"fxbalance/internal/domain"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const amountLogInterval = time.Minute

// Scheduler drives the periodic background work: the rate refresh loop and
// the amount report log. Singleton mode keeps each job non-reentrant, so at
// most one refresh is in flight at any time.
type Scheduler struct {
	engine          adapters.BalanceService
	refreshInterval time.Duration
	log             logrus.FieldLogger
	// -----
	sched gocron.Scheduler

	// written only by the amount-log job, which gocron runs serialized
	lastReport *domain.AmountsReport
}

func (s *Scheduler) Start(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	s.sched = scheduler

	refreshJob := func(jobCtx context.Context) {
		execID := uuid.NewString()
		s.log.Debugf("Refreshing exchange rates; execID: %s", execID)
		s.engine.RefreshRates(jobCtx, false)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(s.refreshInterval),
		gocron.NewTask(refreshJob),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(amountLogInterval),
		gocron.NewTask(s.logAmountsIfChanged),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}

	scheduler.Start()

	// Stop scheduler when the provided context is canceled.
	go func() {
		<-ctx.Done()
		if sdErr := s.Shutdown(); sdErr != nil {
			s.log.Errorf("Scheduler shutdown error: %v", sdErr)
		}
	}()
	return nil
}

// logAmountsIfChanged emits the current amounts report, but only when it
// differs from the previously logged one.
func (s *Scheduler) logAmountsIfChanged(ctx context.Context) {
	report, err := s.engine.GetTotals(ctx)
	if err != nil {
		s.log.WithError(err).Error("Periodic amount log failed")
		return
	}

	if s.lastReport != nil && reflect.DeepEqual(*s.lastReport, report) {
		return
	}
	s.lastReport = &report

	s.log.WithFields(logrus.Fields{
		"currencies": report.Currencies,
		"rates":      report.Rates,
		"totals":     report.Totals,
	}).Info("Current amounts")
}

func (s *Scheduler) Shutdown() error {
	if s.sched == nil {
		return nil
	}
	err := s.sched.Shutdown()
	s.sched = nil
	return err
}

func NewScheduler(engine adapters.BalanceService, refreshInterval time.Duration, log logrus.FieldLogger) *Scheduler {
	if refreshInterval <= 0 {
		refreshInterval = 10 * time.Minute
	}
	return &Scheduler{engine: engine, refreshInterval: refreshInterval, log: log}
}
