package composer

import (
	"log/slog"
	"net/http"
	"strings"
)

// DefaultEndpoint is the dispatcher route relative to the base URL.
const DefaultEndpoint = "/api/send"

// LinkPrompt asks the user for a link target. ok is false on cancel.
type LinkPrompt func() (url string, ok bool)

// Option configures a Composer.
type Option func(*Composer)

// WithHTTPClient sets the client used for submissions.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Composer) {
		if client != nil {
			c.client = client
		}
	}
}

// WithBaseURL sets the dispatcher origin, e.g. "http://localhost:8080".
func WithBaseURL(base string) Option {
	return func(c *Composer) {
		c.endpoint = strings.TrimRight(base, "/") + DefaultEndpoint
	}
}

// WithEndpoint sets the full dispatcher URL.
func WithEndpoint(url string) Option {
	return func(c *Composer) {
		c.endpoint = url
	}
}

// WithLinkPrompt sets the prompt used by the create-link command.
// Without one, create-link is a no-op.
func WithLinkPrompt(p LinkPrompt) Option {
	return func(c *Composer) {
		c.prompt = p
	}
}

// WithLogger sets the logger for submission diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Composer) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithFrom overrides the initial sender address.
func WithFrom(from string) Option {
	return func(c *Composer) {
		c.from = from
	}
}
