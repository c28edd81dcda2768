package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	otpadapter "github.com/ericfisherdev/govenmo/internal/adapter/driven/otp"
	sqliteadapter "github.com/ericfisherdev/govenmo/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/govenmo/internal/adapter/driven/venmo"
	"github.com/ericfisherdev/govenmo/internal/adapter/driving/cli"
	"github.com/ericfisherdev/govenmo/internal/application"
	"github.com/ericfisherdev/govenmo/internal/config"
	"github.com/ericfisherdev/govenmo/internal/domain/port/driven"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration.
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open the session store. Without a key there is nothing it could hold.
	var store driven.SessionStore
	if cfg.HasSecretKey() {
		db, err := sqliteadapter.Open(ctx, cfg.DBPath)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := db.Close(); closeErr != nil {
				slog.Error("error closing database", "error", closeErr)
			}
		}()
		slog.Debug("database opened", "path", cfg.DBPath)
		store = sqliteadapter.NewSessionRepo(db, cfg.SecretKey)
	} else {
		slog.Debug("VENMO_SECRET_KEY not set, sessions will not be stored")
	}

	// 4. Create the API transport with request metrics.
	transport := venmo.NewTransport(cfg.AccessToken, cfg.HTTPTimeout)
	registry := prometheus.NewRegistry()
	metrics, err := venmo.NewMetrics(registry)
	if err != nil {
		return err
	}
	transport.Instrument(metrics)
	if cfg.MetricsFile != "" {
		defer func() {
			if err := prometheus.WriteToTextfile(cfg.MetricsFile, registry); err != nil {
				slog.Error("error writing metrics", "path", cfg.MetricsFile, "error", err)
			}
		}()
	}

	// 5. Pick where one-time passwords come from.
	var otpSource driven.OTPSource
	if cfg.OTPFile != "" {
		otpSource = &otpadapter.File{Path: cfg.OTPFile}
	} else {
		console := otpadapter.NewConsole(os.Stdin, os.Stderr)
		defer func() { _ = console.Close() }()
		otpSource = console
	}

	// 6. Wire services and run the command.
	sessions := application.NewSessionService(venmo.NewLoginGateway(transport, otpSource, cfg.TrustDevice), store)
	app := &cli.App{
		Client:   venmo.NewClient(transport),
		Sessions: sessions,
		Account:  cfg.Account,
		DeviceID: cfg.DeviceID,
		Password: cfg.Password,
	}

	return cli.NewRootCommand(app).ExecuteContext(ctx)
}
