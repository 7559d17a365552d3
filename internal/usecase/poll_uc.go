// File: internal/usecase/poll_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/domain"
	"github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/domain/model"
	"github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/domain/ports/adapter"
	"github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/domain/ports/repository"
	"github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/infra/logging"
)

// FirstRunPolicy decides what happens when no marker exists yet.
type FirstRunPolicy string

const (
	// FirstRunBaselineOnly records the newest fetched recall as the marker
	// and sends nothing. Default.
	FirstRunBaselineOnly FirstRunPolicy = "baseline-only"
	// FirstRunNotifyAll treats every fetched recall as new.
	FirstRunNotifyAll FirstRunPolicy = "notify-all"
)

// Compile-time check
var _ PollUseCase = (*pollUC)(nil)

type PollUseCase interface {
	// RunOnce executes one fetch -> filter -> dispatch cycle. It returns
	// domain.ErrRunInProgress without touching anything when another run
	// holds the lock. On a partial failure the report carries how far the
	// run got alongside the error.
	RunOnce(ctx context.Context) (*RunReport, error)
}

// RunReport summarizes a single poll run.
type RunReport struct {
	RunID     string        `json:"run_id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Fetched   int           `json:"fetched"`
	New       int           `json:"new"`
	Sent      int           `json:"sent"`
	Baselined bool          `json:"baselined"`
	Marker    *model.Marker `json:"marker,omitempty"`
}

// PollOptions tunes a poll run.
type PollOptions struct {
	SourceLimit    int
	FirstRunPolicy FirstRunPolicy
	Retry          RetryPolicy
	LockKey        string
	LockTTL        time.Duration
	RatePerSec     float64
}

type pollUC struct {
	source   adapter.RecallSource
	notifier adapter.ChatNotifier
	markers  repository.MarkerRepository
	locks    repository.RunLocker

	limit    int
	firstRun FirstRunPolicy
	retry    RetryPolicy
	lockKey  string
	lockTTL  time.Duration
	pace     *rate.Limiter
	log      *zerolog.Logger
}

func NewPollUseCase(
	source adapter.RecallSource,
	notifier adapter.ChatNotifier,
	markers repository.MarkerRepository,
	locks repository.RunLocker,
	opts PollOptions,
	logger *zerolog.Logger,
) *pollUC {
	if opts.SourceLimit <= 0 || opts.SourceLimit > 100 {
		opts.SourceLimit = 20
	}
	if opts.FirstRunPolicy == "" {
		opts.FirstRunPolicy = FirstRunBaselineOnly
	}
	if opts.LockKey == "" {
		opts.LockKey = "recallbot:poll:lock"
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = 2 * time.Minute
	}
	if opts.RatePerSec <= 0 {
		opts.RatePerSec = 1
	}
	pollLog := logger.With().Str("component", "PollUseCase").Logger()
	return &pollUC{
		source:   source,
		notifier: notifier,
		markers:  markers,
		locks:    locks,
		limit:    opts.SourceLimit,
		firstRun: opts.FirstRunPolicy,
		retry:    opts.Retry.Normalize(),
		lockKey:  opts.LockKey,
		lockTTL:  opts.LockTTL,
		pace:     rate.NewLimiter(rate.Limit(opts.RatePerSec), 1),
		log:      &pollLog,
	}
}

func (u *pollUC) RunOnce(ctx context.Context) (*RunReport, error) {
	defer logging.TraceDuration(u.log, "PollUC.RunOnce")()

	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	log := u.log.With().Str("run_id", runID).Logger()
	started := time.Now()

	token, err := u.locks.TryLock(ctx, u.lockKey, u.lockTTL)
	if err != nil {
		if errors.Is(err, domain.ErrRunInProgress) {
			log.Debug().Msg("run lock held by another instance, skipping")
		}
		return nil, err
	}
	defer func() {
		// Release with a fresh context so a cancelled run still unlocks;
		// the TTL is the backstop if this fails too.
		uctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if uerr := u.locks.Unlock(uctx, u.lockKey, token); uerr != nil {
			log.Warn().Err(uerr).Msg("failed to release run lock")
		}
	}()

	marker, err := u.markers.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load marker: %w", err)
	}

	var records []*model.RecallRecord
	err = u.retry.Do(ctx, func(ctx context.Context) error {
		var ferr error
		records, ferr = u.source.FetchRecent(ctx, u.limit)
		return ferr
	})
	if err != nil {
		log.Error().Err(err).Msg("fetch failed, marker untouched")
		return nil, err
	}

	report := &RunReport{RunID: runID, StartedAt: started, Fetched: len(records), Marker: marker}

	if marker == nil && u.firstRun == FirstRunBaselineOnly {
		return u.baseline(ctx, &log, report, records, started)
	}

	fresh := SelectNew(records, marker)
	report.New = len(fresh)
	if len(fresh) == 0 {
		report.Duration = time.Since(started)
		log.Info().Int("fetched", report.Fetched).Msg("no new recalls")
		return report, nil
	}
	log.Info().Int("fetched", report.Fetched).Int("new", report.New).Msg("dispatching new recalls")

	prev := marker
	for _, rec := range fresh {
		if err := u.pace.Wait(ctx); err != nil {
			report.Duration = time.Since(started)
			return report, err
		}

		msg := model.FormatRecall(rec)
		err := u.retry.Do(ctx, func(ctx context.Context) error {
			return u.notifier.Post(ctx, msg)
		})
		if err != nil {
			report.Duration = time.Since(started)
			log.Error().Err(err).Str("recall_id", rec.ID).Int("sent", report.Sent).
				Msg("dispatch failed, aborting run")
			return report, err
		}

		next := model.MarkerFromRecord(rec, time.Now())
		if err := u.markers.Advance(ctx, prev, next); err != nil {
			report.Duration = time.Since(started)
			log.Error().Err(err).Str("recall_id", rec.ID).Msg("marker advance refused, aborting run")
			return report, err
		}
		prev = next
		report.Sent++
		report.Marker = next
		log.Info().Str("recall_id", rec.ID).Time("report_date", rec.ReportDate).Msg("recall alert delivered")
	}

	report.Duration = time.Since(started)
	log.Info().Int("sent", report.Sent).Str("marker_id", prev.ID).Msg("run complete")
	return report, nil
}

// baseline handles the very first run under FirstRunBaselineOnly: remember
// the newest recall, notify nobody.
func (u *pollUC) baseline(ctx context.Context, log *zerolog.Logger, report *RunReport, records []*model.RecallRecord, started time.Time) (*RunReport, error) {
	newest := NewestRecord(records)
	if newest == nil {
		report.Duration = time.Since(started)
		log.Info().Msg("first run: empty feed, nothing to baseline")
		return report, nil
	}
	next := model.MarkerFromRecord(newest, time.Now())
	if err := u.markers.Advance(ctx, nil, next); err != nil {
		report.Duration = time.Since(started)
		log.Error().Err(err).Msg("baseline marker write refused")
		return report, err
	}
	report.Baselined = true
	report.Marker = next
	report.Duration = time.Since(started)
	log.Info().Str("marker_id", next.ID).Time("report_date", next.ReportDate).
		Msg("first run: baseline marker set, no notifications sent")
	return report, nil
}
