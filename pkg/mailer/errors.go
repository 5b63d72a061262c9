package mailer

import (
	"errors"
	"fmt"
)

var (
	// ErrNoRecipient indicates no recipient was specified.
	ErrNoRecipient = errors.New("email must have at least one recipient")

	// ErrInvalidAddress indicates a sender or recipient that is not a single
	// RFC 5322 address.
	ErrInvalidAddress = errors.New("invalid email address")

	// ErrInvalidAttachment indicates attachment content is not valid base64.
	ErrInvalidAttachment = errors.New("invalid attachment content")

	// ErrSendFailed indicates email sending failed.
	ErrSendFailed = errors.New("failed to send email")

	// ErrNotConfigured indicates a provider is missing credentials.
	ErrNotConfigured = errors.New("mailer provider is not configured")
)

// ProviderError is a rejection reported by the email provider itself
// (invalid sender domain, malformed recipient, quota and similar).
// It is forwarded to callers verbatim.
type ProviderError struct {
	Name       string `json:"name,omitempty"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode,omitempty"`
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("provider error: %s: %s", e.Name, e.Message)
	}
	return "provider error: " + e.Message
}

// AsProviderError extracts a ProviderError from an error chain.
func AsProviderError(err error) (*ProviderError, bool) {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
