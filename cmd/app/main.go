// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/config"
	"github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/domain/ports/adapter"
	"github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/infra/adapters/openfda"
	slackAdapter "github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/infra/adapters/slack"
	teleAdapter "github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/infra/adapters/telegram"
	httpapi "github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/infra/api"
	"github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/infra/logging"
	"github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/infra/metrics"
	red "github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/infra/redis"
	"github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/infra/sched"
	"github.com/NewsAppsUMD/bot-update-Reem-O-Saleh/internal/usecase"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs)")
	once := flag.Bool("once", false, "run a single poll and exit")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] Enabled")
	}

	// ---- Metrics ----
	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- Redis (marker store + run lock) ----
	redisClient, err := red.NewClient(ctx, &cfg.Marker.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redisClient.Close()
	markerRepo := red.NewMarkerRepo(redisClient, cfg.Marker.Key)
	locker := red.NewLocker(redisClient)

	// ---- Recall source ----
	source, err := openfda.NewClient(&cfg.Source)
	if err != nil {
		log.Fatalf("openfda: %v", err)
	}
	if err := source.Verify(ctx); err != nil {
		logger.Warn().Err(err).Msg("recall feed verification failed")
	}

	// ---- Notifier ----
	var notifier adapter.ChatNotifier
	var credential string
	switch strings.ToLower(cfg.Chat.Platform) {
	case "slack":
		notifier, err = slackAdapter.NewNotifier(&cfg.Chat.Slack, cfg.Chat.Timeout)
		credential = cfg.Chat.Slack.Token
	case "telegram":
		notifier, err = teleAdapter.NewNotifier(&cfg.Chat.Telegram)
		credential = cfg.Chat.Telegram.Token
	default:
		log.Fatalf("chat: unsupported platform %q", cfg.Chat.Platform)
	}
	if err != nil {
		log.Fatalf("%s notifier: %v", cfg.Chat.Platform, err)
	}
	logger.Info().
		Str("platform", notifier.Name()).
		Str("credential", logging.Redact(credential, cfg.Runtime.Dev)).
		Msg("notifier ready")

	// ---- Use case ----
	pollUC := usecase.NewPollUseCase(source, notifier, markerRepo, locker, usecase.PollOptions{
		SourceLimit:    cfg.Source.Limit,
		FirstRunPolicy: usecase.FirstRunPolicy(cfg.Run.FirstRunPolicy),
		Retry: usecase.RetryPolicy{
			MaxAttempts: cfg.Run.RetryMaxAttempts,
			BaseDelay:   cfg.Run.RetryBaseDelay,
			MaxDelay:    cfg.Run.RetryMaxDelay,
		},
		LockKey:    cfg.Run.LockKey,
		LockTTL:    cfg.Run.LockTTL,
		RatePerSec: cfg.Chat.RatePerSec,
	}, logger)

	// ---- One-shot mode (external schedulers call this from cron) ----
	if *once {
		report, err := pollUC.RunOnce(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("poll run failed")
			os.Exit(1)
		}
		logger.Info().
			Int("fetched", report.Fetched).
			Int("new", report.New).
			Int("sent", report.Sent).
			Bool("baselined", report.Baselined).
			Msg("poll run finished")
		return
	}

	// ---- HTTP ops server ----
	router := chi.NewRouter()
	apiSrv := httpapi.NewServer(pollUC, markerRepo, redisClient, cfg.Admin.APIKey, logger)
	apiSrv.Register(router)
	handler := httpapi.Chain(router,
		httpapi.TraceID(logger),
		httpapi.RequestLog(logger),
		httpapi.Recover(logger),
	)
	server := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Admin.Port), Handler: handler}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Poll worker ----
	worker := sched.NewPollWorker(cfg.Scheduler, pollUC, logger)
	go func() { _ = worker.Run(ctx) }()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = server.Shutdown(shutdownCtx)
}
