package mailer

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// DefaultSender is the sender address used when a request carries none.
const DefaultSender = "info@ejm.services"

// SendRequest is a fully-normalized message ready to hand to a Provider.
// Attachments is nil when there are none so the field is omitted on the wire;
// some providers treat an empty list differently from an absent one.
type SendRequest struct {
	From        string       `json:"from"`
	Subject     string       `json:"subject"`
	HTML        string       `json:"html"`
	To          []string     `json:"to"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Attachment is a file attachment with its content already base64-encoded.
type Attachment struct {
	Filename    string `json:"filename"`
	Content     string `json:"content"` // Standard base64 of the raw bytes
	ContentType string `json:"-"`       // Detected MIME type, provider hint only
}

// NewAttachment encodes raw file bytes into an Attachment.
func NewAttachment(filename string, data []byte) Attachment {
	return Attachment{
		Filename:    filename,
		Content:     base64.StdEncoding.EncodeToString(data),
		ContentType: DetectContentType(filename, data),
	}
}

// Bytes decodes the attachment content back into raw bytes.
func (a Attachment) Bytes() ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(a.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidAttachment, a.Filename, err)
	}
	return data, nil
}

// Size returns the decoded size in bytes.
func (a Attachment) Size() int64 {
	n := base64.StdEncoding.DecodedLen(len(a.Content))
	n -= len(a.Content) - len(strings.TrimRight(a.Content, "="))
	return int64(n)
}

// SendResponse is the provider's success payload.
type SendResponse struct {
	ID string `json:"id"`
}

// Result is the outcome of one send attempt: either Success or Failure, never both.
type Result interface {
	isResult()
}

// Success reports a message accepted by the provider.
type Success struct {
	ID string
}

// Failure reports a rejected or failed send with a human-readable reason.
type Failure struct {
	Reason string
}

func (Success) isResult() {}
func (Failure) isResult() {}

// Validate reports ErrNoRecipient when the request has no recipient.
func (r *SendRequest) Validate() error {
	if len(r.To) == 0 {
		return ErrNoRecipient
	}
	return nil
}

// Outcome folds a provider call into a Result. Provider rejections keep
// their message; any other error collapses to ErrSendFailed's text.
func Outcome(resp *SendResponse, err error) Result {
	if err == nil && resp != nil {
		return Success{ID: resp.ID}
	}
	if pe, ok := AsProviderError(err); ok {
		return Failure{Reason: pe.Message}
	}
	return Failure{Reason: ErrSendFailed.Error()}
}
