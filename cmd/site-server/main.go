// cmd/site-server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"leadflow/internal/api"
	awsclient "leadflow/internal/common/aws"
	"leadflow/internal/common/camunda"
	"leadflow/internal/common/config"
	"leadflow/internal/common/database"
	"leadflow/internal/common/logger"
	"leadflow/internal/common/observability"
	"leadflow/internal/common/zoho"
	"leadflow/internal/leadcapture"
	leadregister "leadflow/internal/workers/crm/lead-register"
	estimateimpact "leadflow/internal/workers/roi/estimate-impact"
)

// startupBackOff is the retry policy for dependencies probed at boot.
func startupBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = 45 * time.Second
	return b
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting site server",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var checks []api.ReadinessCheck

	// --- Redis (optional: estimates are computed directly without it) ---
	var redis *database.RedisClient
	if cfg.Database.Redis.Enabled {
		redis, err = database.ConnectRedis(ctx, cfg.Database.Redis, startupBackOff(), log)
		if err != nil {
			zapLog.Warn("Redis unavailable, ROI cache disabled", zap.Error(err))
			redis = nil
		} else {
			defer redis.Close()
			checks = append(checks, api.ReadinessCheck{Name: "redis", Check: redis.Ping})
			zapLog.Info("Redis connected successfully")
		}
	}

	// --- PostgreSQL (required for lead registration) ---
	var leadStore leadregister.LeadStore
	if cfg.Database.Postgres.Enabled {
		pg, err := database.ConnectPostgres(ctx, cfg.Database.Postgres, startupBackOff(), log)
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()

		store := leadregister.NewPostgresStore(pg.GetDB())
		if err := store.EnsureSchema(ctx); err != nil {
			zapLog.Fatal("lead_submissions migration failed", zap.Error(err))
		}
		leadStore = store
		checks = append(checks, api.ReadinessCheck{Name: "postgres", Check: pg.Ping})
		zapLog.Info("PostgreSQL connected successfully")
	} else {
		zapLog.Warn("PostgreSQL disabled, lead registration will be rejected")
	}

	// --- Zeebe ---
	var zeebe *camunda.Client
	if cfg.Camunda.Enabled {
		err = backoff.RetryNotify(func() error {
			var err error
			zeebe, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
				GatewayAddress:         cfg.Camunda.BrokerAddress,
				UsePlaintextConnection: true,
				ConnectionTimeout:      10 * time.Second,
				RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
			})
			return err
		}, backoff.WithContext(startupBackOff(), ctx), func(err error, wait time.Duration) {
			zapLog.Warn("Zeebe not ready, retrying", zap.Error(err), zap.Duration("wait", wait))
		})
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		defer zeebe.Close()
		checks = append(checks, api.ReadinessCheck{Name: "zeebe", Check: zeebe.HealthCheck})
		zapLog.Info("Zeebe client connected successfully")
	}

	// --- Integrations ---
	var crm leadregister.CRM
	if z := cfg.Integrations.Zoho; z.Enabled {
		crm = zoho.NewCRMClient(z.APIKey, z.AuthToken,
			zoho.WithBaseURL(z.BaseURL),
			zoho.WithTimeout(config.GetDuration(z.Timeout)),
		)
	}

	var mailer leadregister.Mailer
	if cfg.Integrations.AWS.SES.Enabled {
		sesClient, err := awsclient.NewSESClient(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			zapLog.Fatal("ses client init failed", zap.Error(err))
		}
		mailer = sesClient
	}

	var publisher leadregister.Publisher
	if cfg.Integrations.AWS.SNS.Enabled {
		snsClient, err := awsclient.NewSNSClient(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			zapLog.Fatal("sns client init failed", zap.Error(err))
		}
		publisher = snsClient
	}

	zapLog.Info("External service clients initialized",
		zap.Bool("zoho", crm != nil),
		zap.Bool("ses", mailer != nil),
		zap.Bool("sns", publisher != nil),
	)

	// --- Workers ---
	roiHandler, err := estimateimpact.NewHandler(estimateimpact.HandlerOptions{
		AppConfig:     cfg,
		Camunda:       zeebe,
		Logger:        log,
		Observability: obs,
		Dependencies:  estimateimpact.ServiceDependencies{Redis: redis},
	})
	if err != nil {
		zapLog.Fatal("failed to create roi-estimate-impact handler", zap.Error(err))
	}

	leadHandler, err := leadregister.NewHandler(leadregister.HandlerOptions{
		AppConfig:     cfg,
		Camunda:       zeebe,
		Logger:        log,
		Observability: obs,
		Dependencies: leadregister.ServiceDependencies{
			Store:     leadStore,
			CRM:       crm,
			Mailer:    mailer,
			Publisher: publisher,
		},
	})
	if err != nil {
		zapLog.Fatal("failed to create crm-lead-register handler", zap.Error(err))
	}

	if zeebe != nil {
		if err := roiHandler.Register(); err != nil {
			zapLog.Fatal("failed to register roi-estimate-impact", zap.Error(err))
		}
		if err := leadHandler.Register(); err != nil {
			zapLog.Fatal("failed to register crm-lead-register", zap.Error(err))
		}
		zapLog.Info("Workers registered successfully")
	}

	// --- Lead-capture sessions ---
	lc := cfg.LeadCapture
	sessions := leadcapture.NewManager(
		leadcapture.FromAppConfig(lc),
		time.Duration(lc.SessionTTL)*time.Second,
		nil,
		leadcapture.RealClock(),
		log,
	)
	sweepDone := make(chan struct{})
	go func() {
		sessions.Run(ctx, time.Duration(lc.SweepInterval)*time.Second)
		close(sweepDone)
	}()

	// --- HTTP ---
	deps := api.Dependencies{
		Logger:        log,
		Observability: obs,
		Estimator:     roiHandler.Service(),
		Leads:         leadHandler.Service(),
		Sessions:      sessions,
		Checks:        checks,
	}
	if zeebe != nil {
		deps.Workflow = zeebe
	}
	server := api.NewServer(cfg, deps)
	httpServer := server.HTTPServer()

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("HTTP server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zapLog.Info("Shutting down site server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.HTTP.ShutdownTimeout))
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("HTTP shutdown failed", zap.Error(err))
	}
	server.Close()
	roiHandler.Close(shutdownCtx)
	leadHandler.Close(shutdownCtx)
	<-sweepDone

	zapLog.Info("Site server stopped")
}
