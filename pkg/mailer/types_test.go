package mailer

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAttachment_RoundTrip(t *testing.T) {
	t.Parallel()

	inputs := [][]byte{
		{0x00},
		[]byte("hello"),
		[]byte("ab"),
		{0xff, 0xfe, 0x00, 0x10, 0x80},
		make([]byte, 4096),
	}

	for _, data := range inputs {
		a := NewAttachment("file.bin", data)

		decoded, err := a.Bytes()
		require.NoError(t, err)
		require.Equal(t, data, decoded)
		require.Equal(t, int64(len(data)), a.Size())
		require.Equal(t, "file.bin", a.Filename)
	}
}

func TestAttachment_Bytes_InvalidContent(t *testing.T) {
	t.Parallel()

	_, err := Attachment{Filename: "x", Content: "not base64!"}.Bytes()
	require.ErrorIs(t, err, ErrInvalidAttachment)
}

func TestSendRequest_JSON_OmitsEmptyAttachments(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(&SendRequest{
		From:    DefaultSender,
		To:      []string{"a@x.com"},
		Subject: "Hi",
		HTML:    "<b>hello</b>",
	})
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.NotContains(t, fields, "attachments")
	assert.Equal(t, "info@ejm.services", fields["from"])
	assert.Equal(t, "<b>hello</b>", fields["html"])
}

func TestSendRequest_JSON_AttachmentShape(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(&SendRequest{
		From:        DefaultSender,
		To:          []string{"a@x.com"},
		Attachments: []Attachment{NewAttachment("a.txt", []byte("hi"))},
	})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"attachments":[{"filename":"a.txt","content":"aGk="}]`)
}

func TestProviderError(t *testing.T) {
	t.Parallel()

	var err error = &ProviderError{Message: "invalid domain"}
	pe, ok := AsProviderError(err)
	require.True(t, ok)
	assert.Equal(t, "provider error: invalid domain", pe.Error())

	data, err := json.Marshal(pe)
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"invalid domain"}`, string(data))

	named := &ProviderError{Name: "validation_error", Message: "bad", StatusCode: 422}
	assert.Equal(t, "provider error: validation_error: bad", named.Error())

	_, ok = AsProviderError(ErrSendFailed)
	assert.False(t, ok)
}

func TestOutcome(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		resp *SendResponse
		err  error
		want Result
	}{
		{"accepted", &SendResponse{ID: "49a3"}, nil, Success{ID: "49a3"}},
		{"provider rejection", nil, fmt.Errorf("resend: %w", &ProviderError{Message: "invalid domain"}), Failure{Reason: "invalid domain"}},
		{"transport failure", nil, errors.New("dial tcp: refused"), Failure{Reason: "failed to send email"}},
		{"nil response", nil, nil, Failure{Reason: "failed to send email"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Outcome(tt.resp, tt.err))
		})
	}
}

func TestSendRequest_Validate(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, (&SendRequest{}).Validate(), ErrNoRecipient)
	require.NoError(t, (&SendRequest{To: []string{"a@example.com"}}).Validate())
}

func TestDetectContentType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		filename string
		data     []byte
		want     string
	}{
		{"png magic", "image.bin", []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), "image/png"},
		{"pdf magic", "doc", []byte("%PDF-1.7\n"), "application/pdf"},
		{"json by extension", "data.json", []byte(`{"a":1}`), "application/json"},
		{"plain text", "notes", []byte("just words"), "text/plain"},
		{"empty unknown", "blob", nil, MIMEOctetStream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, DetectContentType(tt.filename, tt.data))
		})
	}
}
