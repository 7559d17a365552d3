package sched

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/config"
	"github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/domain"
	"github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/infra/metrics"
	"github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/usecase"
)

// PollWorker drives poll runs on a schedule: a cron spec when configured,
// a fixed interval otherwise.
type PollWorker struct {
	cronSpec string
	interval time.Duration
	pollUC   usecase.PollUseCase
	log      *zerolog.Logger
}

func NewPollWorker(cfg config.SchedulerConfig, pollUC usecase.PollUseCase, logger *zerolog.Logger) *PollWorker {
	compLog := logger.With().Str("component", "PollWorker").Logger()
	return &PollWorker{
		cronSpec: cfg.Cron,
		interval: cfg.Interval,
		pollUC:   pollUC,
		log:      &compLog,
	}
}

func (w *PollWorker) Run(ctx context.Context) error {
	if w.cronSpec != "" {
		return w.runCron(ctx)
	}
	return w.runTicker(ctx)
}

func (w *PollWorker) runTicker(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("Starting poll worker")
	// Run once on startup, then on every tick
	w.poll(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping poll worker")
			return ctx.Err()
		case <-ticker.C:
			w.poll(ctx)
		}
	}
}

func (w *PollWorker) runCron(ctx context.Context) error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	c := cron.New(cron.WithParser(parser))
	if _, err := c.AddFunc(w.cronSpec, func() { w.poll(ctx) }); err != nil {
		return fmt.Errorf("bad cron spec %q: %w", w.cronSpec, err)
	}
	w.log.Info().Str("cron", w.cronSpec).Msg("Starting poll worker")
	c.Start()

	<-ctx.Done()
	w.log.Info().Msg("Stopping poll worker")
	// Stop schedules no new jobs; wait for an in-flight run to end.
	<-c.Stop().Done()
	return ctx.Err()
}

func (w *PollWorker) poll(ctx context.Context) {
	report, err := w.pollUC.RunOnce(ctx)
	switch {
	case errors.Is(err, domain.ErrRunInProgress):
		metrics.IncPollRun("skipped")
		w.log.Debug().Msg("previous run still in progress, skipped")
		return
	case err != nil:
		metrics.IncPollRun("failed")
		w.log.Error().Err(err).Msg("poll run failed")
	case report.Baselined:
		metrics.IncPollRun("baselined")
	default:
		metrics.IncPollRun("completed")
	}
	if report == nil {
		return
	}
	metrics.AddNewRecords(report.New)
	if report.Marker != nil {
		metrics.SetMarkerAgeSeconds(time.Since(report.Marker.AdvancedAt).Seconds())
	}
}
