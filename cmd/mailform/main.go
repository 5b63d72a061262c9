// Command mailform runs the email dispatcher: POST /api/send in front of
// Resend, AWS SES or a log-only provider.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/dmitrymomot/mailform/internal/config"
	"github.com/dmitrymomot/mailform/internal/dispatch"
	"github.com/dmitrymomot/mailform/internal/server"
	"github.com/dmitrymomot/mailform/middlewares"
	"github.com/dmitrymomot/mailform/pkg/logger"
	"github.com/dmitrymomot/mailform/pkg/mailer"
	"github.com/dmitrymomot/mailform/pkg/mailer/logsender"
	"github.com/dmitrymomot/mailform/pkg/mailer/resend"
	"github.com/dmitrymomot/mailform/pkg/mailer/ses"
)

func main() {
	configPath := flag.String("config", os.Getenv("MAILFORM_CONFIG"), "path to YAML configuration file (optional)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("mailform stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.New(cfg.Log, middlewares.RequestIDExtractor())

	provider, checks, err := newProvider(context.Background(), cfg, log)
	if err != nil {
		return err
	}
	log.Info("starting mailform",
		slog.String("address", cfg.HTTP.Address),
		slog.String("provider", provider.Name()),
		slog.String("default_from", cfg.Mailer.DefaultFrom),
	)

	app := server.New(
		server.WithLogger(log),
		server.WithErrorHandler(server.JSONErrorHandler(dispatch.MessageFailed)),
		server.WithNotFoundHandler(func(server.Context) error {
			return server.ErrNotFound("not found")
		}),
		server.WithMethodNotAllowedHandler(func(server.Context) error {
			return server.ErrMethodNotAllowed("method not allowed")
		}),
		server.WithMiddleware(
			middlewares.CORS(cfg.HTTP.AllowedOrigins...),
			middlewares.RequestID(),
			middlewares.Logging(),
			middlewares.Recover(),
			middlewares.BodyLimit(cfg.Mailer.MaxUploadBytes),
		),
		server.WithHealthChecks(checks...),
		server.WithHandlers(dispatch.New(provider,
			dispatch.WithDefaultFrom(cfg.Mailer.DefaultFrom),
		)),
	)

	return app.Run(cfg.HTTP.Address,
		server.Logger(log),
		server.ShutdownTimeout(cfg.HTTP.ShutdownTimeout),
		server.ShutdownHook(logger.Flush),
	)
}

// newProvider builds the configured provider plus its readiness checks.
func newProvider(ctx context.Context, cfg *config.Config, log *slog.Logger) (mailer.Provider, []server.HealthOption, error) {
	switch cfg.Mailer.Provider {
	case config.ProviderResend:
		s := resend.New(cfg.Resend)
		return s, []server.HealthOption{server.WithReadinessCheck("mailer", s.Healthcheck)}, nil

	case config.ProviderSES:
		s, err := ses.New(ctx, cfg.SES)
		if err != nil {
			return nil, nil, err
		}
		return s, nil, nil

	case config.ProviderLog:
		log.Warn("using log provider, emails are not delivered")
		return logsender.New(log.With(slog.String("component", "logsender"))), nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown mailer provider %q", cfg.Mailer.Provider)
	}
}
