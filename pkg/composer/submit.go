package composer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/dmitrymomot/mailform/pkg/mailer"
)

// Multipart field names understood by the dispatcher.
const (
	FieldTo          = "to"
	FieldSubject     = "subject"
	FieldBody        = "body"
	FieldFrom        = "from"
	FieldAttachments = "attachments"
)

const maxResponseBytes = 1 << 20

// draft is the snapshot of the form taken when a submission starts.
type draft struct {
	from    string
	to      string
	subject string
	body    string
	files   []FileHandle
}

// Submit sends the draft to the dispatcher and records the outcome in Status.
// It returns ErrIncompleteDraft without any I/O when recipients or subject are
// blank. On success the recipients, subject, body and files are cleared.
// The lock is not held during the round trip, so edits stay possible.
func (c *Composer) Submit(ctx context.Context) (err error) {
	c.mu.Lock()
	if !c.canSubmit() {
		c.mu.Unlock()
		return ErrIncompleteDraft
	}
	c.status = Status{State: Sending}
	c.sending = true
	d := draft{
		from:    c.from,
		to:      c.to,
		subject: c.subject,
		body:    c.body,
		files:   append([]FileHandle(nil), c.files...),
	}
	c.mu.Unlock()

	var status Status
	defer func() {
		if r := recover(); r != nil {
			c.logger.ErrorContext(ctx, "email submission panicked", slog.Any("panic", r))
			status = failed(MessageUnreachable)
			err = fmt.Errorf("%w: panic: %v", ErrUnreachable, r)
		}
		c.finish(status)
	}()

	status, err = c.send(ctx, d)
	return err
}

func (c *Composer) finish(status Status) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = status
	c.sending = false
	if status.State == Succeeded {
		c.reset()
	}
}

func (c *Composer) send(ctx context.Context, d draft) (Status, error) {
	body, contentType, err := encode(d)
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to encode email", slog.Any("error", err))
		return failed(MessageUnreachable), fmt.Errorf("%w: %w", ErrUnreachable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return failed(MessageUnreachable), fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to reach dispatcher", slog.Any("error", err))
		return failed(MessageUnreachable), fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	var payload response
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		c.logger.ErrorContext(ctx, "failed to decode dispatcher response",
			slog.Int("status", resp.StatusCode),
			slog.Any("error", err),
		)
		return failed(MessageUnreachable), fmt.Errorf("%w: decode response: %w", ErrUnreachable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reason := payload.reason()
		c.logger.WarnContext(ctx, "email rejected",
			slog.Int("status", resp.StatusCode),
			slog.String("reason", reason),
		)
		st := failed(reason)
		return st, fmt.Errorf("%w: %s", ErrRejected, st.Message)
	}

	c.logger.InfoContext(ctx, "email sent", slog.String("id", payload.id()))
	return succeeded(), nil
}

// encode builds the multipart payload. Zero-size files are skipped.
func encode(d draft) (io.Reader, string, error) {
	from := d.from
	if strings.TrimSpace(from) == "" {
		from = mailer.DefaultSender
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := [][2]string{
		{FieldTo, d.to},
		{FieldSubject, d.subject},
		{FieldBody, d.body},
		{FieldFrom, from},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}

	for _, f := range d.files {
		if f.Size() == 0 {
			continue
		}
		data, err := readAll(f)
		if err != nil {
			return nil, "", fmt.Errorf("read %q: %w", f.Name(), err)
		}
		part, err := w.CreatePart(filePartHeader(f.Name(), mailer.DetectContentType(f.Name(), data)))
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(data); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func filePartHeader(filename, contentType string) textproto.MIMEHeader {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		FieldAttachments, quoteEscaper.Replace(filename)))
	h.Set("Content-Type", contentType)
	return h
}

// response is the dispatcher envelope: {"data": ...} or {"error": ...}.
type response struct {
	Data  json.RawMessage `json:"data"`
	Error json.RawMessage `json:"error"`
}

// reason extracts a human-readable failure reason. The error is either a
// plain string or a provider error object carrying a message.
func (r response) reason() string {
	if len(r.Error) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(r.Error, &s); err == nil {
		return s
	}
	var pe mailer.ProviderError
	if err := json.Unmarshal(r.Error, &pe); err == nil {
		return pe.Message
	}
	return ""
}

func (r response) id() string {
	var sr mailer.SendResponse
	if err := json.Unmarshal(r.Data, &sr); err != nil {
		return ""
	}
	return sr.ID
}
