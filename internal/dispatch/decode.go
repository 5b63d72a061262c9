package dispatch

import (
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/dmitrymomot/mailform/internal/server"
	"github.com/dmitrymomot/mailform/pkg/mailer"
)

// ParseRecipients splits a comma-separated address list. Pieces are trimmed
// and empty ones dropped; order and duplicates are kept. Addresses are not
// validated here, the provider does that.
func ParseRecipients(raw string) []string {
	var out []string
	for piece := range strings.SplitSeq(raw, ",") {
		if piece = strings.TrimSpace(piece); piece != "" {
			out = append(out, piece)
		}
	}
	return out
}

func (h *Handler) decode(c server.Context) (*mailer.SendRequest, error) {
	form, err := c.MultipartForm(h.maxMemory)
	if err != nil {
		return nil, fmt.Errorf("dispatch: parse form: %w", err)
	}
	defer func() { _ = form.RemoveAll() }()

	value := func(key string) string {
		if v := form.Value[key]; len(v) > 0 {
			return v[0]
		}
		return ""
	}

	attachments, err := readAttachments(form.File[FieldAttachments])
	if err != nil {
		return nil, err
	}

	from := strings.TrimSpace(value(FieldFrom))
	if from == "" {
		from = h.from
	}

	return &mailer.SendRequest{
		From:        from,
		To:          ParseRecipients(value(FieldTo)),
		Subject:     value(FieldSubject),
		HTML:        value(FieldBody),
		Attachments: attachments,
	}, nil
}

// readAttachments reads every non-empty file part in submission order.
// The result is nil when nothing is left so the field is omitted downstream.
func readAttachments(files []*multipart.FileHeader) ([]mailer.Attachment, error) {
	var out []mailer.Attachment
	for _, fh := range files {
		if fh.Size == 0 {
			continue
		}
		data, err := readFile(fh)
		if err != nil {
			return nil, fmt.Errorf("dispatch: read attachment %q: %w", fh.Filename, err)
		}
		out = append(out, mailer.NewAttachment(fh.Filename, data))
	}
	return out, nil
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
