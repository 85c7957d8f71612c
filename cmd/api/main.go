package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/BruksfildServices01/horacerta/internal/audit"
	"github.com/BruksfildServices01/horacerta/internal/config"
	dbpkg "github.com/BruksfildServices01/horacerta/internal/db"
	"github.com/BruksfildServices01/horacerta/internal/infra/lock"
	"github.com/BruksfildServices01/horacerta/internal/infra/mercadopago"
	"github.com/BruksfildServices01/horacerta/internal/notify"
	"github.com/BruksfildServices01/horacerta/internal/routes"
	ucAppointment "github.com/BruksfildServices01/horacerta/internal/usecase/appointment"
	ucChat "github.com/BruksfildServices01/horacerta/internal/usecase/chat"
	"github.com/BruksfildServices01/horacerta/internal/whatsapp"
	"github.com/BruksfildServices01/horacerta/pkg/logging"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		logger.Error("database unavailable", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	messenger, err := whatsapp.New(whatsapp.Config{
		BaseURL:      cfg.WhatsAPIURL,
		ClientToken:  cfg.WhatsAPIKey,
		DelaySeconds: cfg.WhatsDelaySeconds,
		Logger:       logger.With("component", "whatsapp"),
	})
	if err != nil {
		logger.Error("whatsapp client", "error", err)
		os.Exit(1)
	}

	gateway, err := mercadopago.New(mercadopago.Config{
		AccessToken:     cfg.MercadoPagoAccessToken,
		NotificationURL: cfg.MercadoPagoNotificationURL,
		BackURL:         cfg.PlatformSiteURL,
	})
	if err != nil {
		logger.Error("mercadopago client", "error", err)
		os.Exit(1)
	}

	dispatcher := audit.NewDispatcher(audit.New(db), logger.With("component", "audit"))
	defer dispatcher.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	jobs := routes.RegisterRoutes(r, routes.Deps{
		DB:        db,
		Config:    cfg,
		Logger:    logger,
		Messenger: messenger,
		Gateway:   gateway,
		Locker:    newLocker(cfg, logger),
		Mailer:    newMailer(ctx, cfg, logger),
		Audit:     dispatcher,
		Registry:  registry,
	})

	go runMaterializer(ctx, jobs.Materialize, cfg.MaterializeInterval, logger)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server running", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	logger.Info("server stopped")
}

// newLocker serialises chat events across instances when Redis is
// configured; a single instance can use the in-process locker.
func newLocker(cfg *config.Config, logger *logging.Logger) ucChat.Locker {
	if cfg.RedisAddr == "" {
		logger.Warn("REDIS_ADDR not set, using in-process chat lock")
		return lock.NewMemoryLocker()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	return lock.NewRedisLocker(client, "horacerta:lock:", cfg.ChatLockTTL)
}

func newMailer(ctx context.Context, cfg *config.Config, logger *logging.Logger) notify.EmailSender {
	if cfg.SESFromEmail == "" {
		return notify.NopSender{}
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.AWSRegion)}
	// explicit keys win over the default chain
	if cfg.AWSAccessKeyID != "" && cfg.AWSSecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		logger.Warn("aws config unavailable, emails disabled", "error", err)
		return notify.NopSender{}
	}
	return notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
		FromEmail: cfg.SESFromEmail,
		FromName:  cfg.SESFromName,
	}, logger.With("component", "email"))
}

func runMaterializer(
	ctx context.Context,
	uc *ucAppointment.MaterializeSubscriptions,
	every time.Duration,
	logger *logging.Logger,
) {
	if every <= 0 {
		return
	}

	run := func() {
		report, err := uc.Execute(ctx)
		if err != nil {
			logger.Error("materialize subscriptions", "error", err)
			return
		}
		logger.Info("materialize subscriptions",
			"created", report.Created,
			"skipped", report.Skipped,
			"failed", report.Failed,
		)
	}

	run()

	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			run()
		}
	}
}
