package logsender_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailform/pkg/mailer"
	"github.com/dmitrymomot/mailform/pkg/mailer/logsender"
)

func TestSender_Send(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	sender := logsender.New(slog.New(slog.NewJSONHandler(&buf, nil)))

	resp, err := sender.Send(context.Background(), &mailer.SendRequest{
		From:        mailer.DefaultSender,
		To:          []string{"a@x.com"},
		Subject:     "Hi",
		HTML:        "<b>hello</b>",
		Attachments: []mailer.Attachment{mailer.NewAttachment("a.txt", []byte("12345"))},
	})
	require.NoError(t, err)

	_, err = uuid.Parse(resp.ID)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "email accepted", entry["msg"])
	assert.Equal(t, resp.ID, entry["id"])
	assert.Equal(t, "Hi", entry["subject"])
	assert.Equal(t, map[string]any{"a.txt": float64(5)}, entry["attachments"])
	assert.Equal(t, "log", sender.Name())
}
