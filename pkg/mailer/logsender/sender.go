// Package logsender provides a mailer.Provider that only logs messages.
// It is meant for local development where no provider credentials exist.
package logsender

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/mailform/pkg/mailer"
)

// Sender writes every message to a logger and reports it as accepted.
type Sender struct {
	logger *slog.Logger
}

// New creates a log-only sender.
func New(logger *slog.Logger) *Sender {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sender{logger: logger}
}

// Name implements mailer.Provider.
func (s *Sender) Name() string {
	return "log"
}

// Send implements mailer.Provider.
func (s *Sender) Send(ctx context.Context, req *mailer.SendRequest) (*mailer.SendResponse, error) {
	id := uuid.NewString()

	attachments := make([]slog.Attr, 0, len(req.Attachments))
	for _, a := range req.Attachments {
		attachments = append(attachments, slog.Int64(a.Filename, a.Size()))
	}

	s.logger.InfoContext(ctx, "email accepted",
		slog.String("id", id),
		slog.String("from", req.From),
		slog.Any("to", req.To),
		slog.String("subject", req.Subject),
		slog.Int("html_bytes", len(req.HTML)),
		slog.Any("attachments", slog.GroupValue(attachments...)),
	)

	return &mailer.SendResponse{ID: id}, nil
}
