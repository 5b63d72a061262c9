package resend

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/resend/resend-go/v3"

	"github.com/dmitrymomot/mailform/pkg/mailer"
)

// Sender implements mailer.Provider using the Resend API.
type Sender struct {
	client *resend.Client
	config Config
}

// New creates a new Resend sender.
func New(cfg Config) *Sender {
	return &Sender{
		client: resend.NewClient(cfg.APIKey),
		config: cfg,
	}
}

// NewWithHTTPClient creates a Resend sender that issues requests through httpClient.
func NewWithHTTPClient(cfg Config, httpClient *http.Client) *Sender {
	return &Sender{
		client: resend.NewCustomClient(httpClient, cfg.APIKey),
		config: cfg,
	}
}

// Name implements mailer.Provider.
func (s *Sender) Name() string {
	return "resend"
}

// Send implements mailer.Provider.
func (s *Sender) Send(ctx context.Context, req *mailer.SendRequest) (*mailer.SendResponse, error) {
	params := &resend.SendEmailRequest{
		From:    req.From,
		To:      req.To,
		Subject: req.Subject,
		Html:    req.HTML,
	}

	// Leave Attachments nil when empty so the field is omitted.
	if len(req.Attachments) > 0 {
		attachments, err := convertAttachments(req.Attachments)
		if err != nil {
			return nil, err
		}
		params.Attachments = attachments
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return nil, classifyError(err)
	}

	return &mailer.SendResponse{ID: sent.Id}, nil
}

// Healthcheck reports whether the sender has credentials.
func (s *Sender) Healthcheck(context.Context) error {
	if s.config.APIKey == "" {
		return fmt.Errorf("%w: resend api key is empty", mailer.ErrNotConfigured)
	}
	return nil
}

func convertAttachments(attachments []mailer.Attachment) ([]*resend.Attachment, error) {
	result := make([]*resend.Attachment, len(attachments))
	for i, a := range attachments {
		content, err := a.Bytes()
		if err != nil {
			return nil, err
		}
		result[i] = &resend.Attachment{
			Filename:    a.Filename,
			Content:     content,
			ContentType: a.ContentType,
		}
	}
	return result, nil
}

// apiErrorPrefix is how the SDK prefixes messages decoded from API error bodies.
const apiErrorPrefix = "[ERROR]:"

// classifyError separates API rejections from local, transport and context
// failures. Only rejections become *mailer.ProviderError; everything else
// stays untyped so callers never forward its details.
func classifyError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("resend: %w", err)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("resend: request failed: %w", err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("resend: network error: %w", err)
	}

	// Local request building failures share the API prefix.
	if errors.Is(err, resend.ErrFailedToCreateEmailsSendRequest) {
		return fmt.Errorf("resend: build request: %w", err)
	}

	var rateErr *resend.RateLimitError
	if errors.As(err, &rateErr) {
		return &mailer.ProviderError{
			Name:       "rate_limit_exceeded",
			Message:    rateErr.Message,
			StatusCode: http.StatusTooManyRequests,
		}
	}

	// The SDK flattens 4xx/5xx bodies into "[ERROR]: <message>", dropping
	// name and statusCode.
	if msg, ok := strings.CutPrefix(err.Error(), apiErrorPrefix); ok {
		return &mailer.ProviderError{Message: strings.TrimSpace(msg)}
	}

	// Malformed success bodies and other decode failures.
	return fmt.Errorf("resend: unexpected response: %w", err)
}
