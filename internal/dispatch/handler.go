package dispatch

import (
	"cmp"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/mailform/internal/server"
	"github.com/dmitrymomot/mailform/pkg/mailer"
)

// Endpoint is the route the composer posts to.
const Endpoint = "/api/send"

// Multipart field names.
const (
	FieldTo          = "to"
	FieldSubject     = "subject"
	FieldBody        = "body"
	FieldFrom        = "from"
	FieldAttachments = "attachments"
)

// MessageFailed is the only detail clients get about unexpected failures.
const MessageFailed = "Failed to send email"

// MessageNoRecipient answers a request whose "to" holds no address.
const MessageNoRecipient = "at least one recipient is required"

const defaultMaxMemory int64 = 32 << 20

var errEmptyResponse = errors.New("dispatch: provider returned no response")

// Handler serves POST /api/send: it turns a multipart submission into a
// mailer.SendRequest, calls the provider once and reports the outcome as JSON.
type Handler struct {
	provider  mailer.Provider
	from      string
	maxMemory int64
}

// Option configures a Handler.
type Option func(*Handler)

// WithDefaultFrom sets the sender used when the form carries none.
func WithDefaultFrom(addr string) Option {
	return func(h *Handler) {
		if addr = strings.TrimSpace(addr); addr != "" {
			h.from = addr
		}
	}
}

// WithMaxMemory sets how many bytes of file parts are kept in memory while
// parsing; the rest spills to temporary files.
func WithMaxMemory(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxMemory = n
		}
	}
}

// New creates a dispatch handler over provider.
func New(provider mailer.Provider, opts ...Option) *Handler {
	h := &Handler{
		provider:  provider,
		from:      mailer.DefaultSender,
		maxMemory: defaultMaxMemory,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes implements server.Handler.
func (h *Handler) Routes(r server.Router) {
	r.POST(Endpoint, h.send)
}

type dataResponse struct {
	Data *mailer.SendResponse `json:"data"`
}

type providerErrorResponse struct {
	Error *mailer.ProviderError `json:"error"`
}

func (h *Handler) send(c server.Context) error {
	req, err := h.decode(c)
	if err != nil {
		return server.ErrInternal(MessageFailed, server.WithError(err))
	}
	if err := req.Validate(); err != nil {
		return server.ErrBadRequest(MessageNoRecipient, server.WithError(err))
	}

	c.LogDebug("dispatching email",
		slog.String("provider", h.provider.Name()),
		slog.Int("recipients", len(req.To)),
		slog.Int("attachments", len(req.Attachments)),
	)
	resp, err := h.provider.Send(c, req)

	switch result := mailer.Outcome(resp, err).(type) {
	case mailer.Success:
		c.LogInfo("email sent",
			slog.String("provider", h.provider.Name()),
			slog.String("id", result.ID),
			slog.Int("recipients", len(req.To)),
			slog.Int("attachments", len(req.Attachments)),
		)
		return c.JSON(http.StatusOK, dataResponse{Data: resp})

	case mailer.Failure:
		if pe, ok := mailer.AsProviderError(err); ok {
			c.LogWarn("provider rejected email",
				slog.String("provider", h.provider.Name()),
				slog.String("reason", result.Reason),
				slog.Int("status_code", pe.StatusCode),
			)
			return c.JSON(http.StatusInternalServerError, providerErrorResponse{Error: pe})
		}
	}

	return server.ErrInternal(MessageFailed, server.WithError(cmp.Or(err, errEmptyResponse)))
}
