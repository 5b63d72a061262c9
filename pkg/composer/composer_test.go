package composer_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailform/pkg/composer"
	"github.com/dmitrymomot/mailform/pkg/mailer"
	"github.com/dmitrymomot/mailform/pkg/richtext"
)

type capturedFile struct {
	name        string
	contentType string
	data        string
}

type capture struct {
	mu     sync.Mutex
	fields map[string]string
	files  []capturedFile
	hits   atomic.Int32
}

func (c *capture) record(r *http.Request) error {
	c.hits.Add(1)
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.fields = map[string]string{}
	for k, v := range r.MultipartForm.Value {
		c.fields[k] = v[0]
	}
	c.files = nil
	for _, fh := range r.MultipartForm.File["attachments"] {
		f, err := fh.Open()
		if err != nil {
			return err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return err
		}
		c.files = append(c.files, capturedFile{
			name:        fh.Filename,
			contentType: fh.Header.Get("Content-Type"),
			data:        string(data),
		})
	}
	return nil
}

func newServer(t *testing.T, status int, body string) (*httptest.Server, *capture) {
	t.Helper()

	c := &capture{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != composer.DefaultEndpoint {
			http.NotFound(w, r)
			return
		}
		if err := c.record(r); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, c
}

type closingFile struct {
	composer.FileHandle
	closed atomic.Bool
}

func (f *closingFile) Close() error {
	f.closed.Store(true)
	return nil
}

func filled(c *composer.Composer) {
	c.SetTo("a@x.com, b@y.com")
	c.SetSubject("Hi")
	c.Edit(func(ed *richtext.Editor) { ed.InsertText("hello") })
}

func TestComposer_Defaults(t *testing.T) {
	t.Parallel()

	c := composer.New()
	assert.Equal(t, "info@ejm.services", c.From())
	assert.Empty(t, c.To())
	assert.Empty(t, c.Subject())
	assert.Empty(t, c.Body())
	assert.Equal(t, composer.Idle, c.Status().State)
	assert.False(t, c.Sending())
	assert.False(t, c.CanSubmit())
	assert.Equal(t, "Send Email", c.SubmitLabel())
}

func TestComposer_Submit_IncompleteDraft(t *testing.T) {
	t.Parallel()

	srv, rec := newServer(t, http.StatusOK, `{"data":{"id":"1"}}`)

	tests := []struct {
		name    string
		to      string
		subject string
	}{
		{"nothing", "", ""},
		{"no subject", "a@x.com", ""},
		{"blank recipients", "   ", "Hi"},
		{"blank subject", "a@x.com", " \t"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := composer.New(composer.WithBaseURL(srv.URL))
			c.SetTo(tt.to)
			c.SetSubject(tt.subject)

			assert.False(t, c.CanSubmit())
			require.ErrorIs(t, c.Submit(context.Background()), composer.ErrIncompleteDraft)
			assert.Equal(t, composer.Idle, c.Status().State)
		})
	}
	assert.Zero(t, rec.hits.Load())
}

func TestComposer_Submit_Success(t *testing.T) {
	t.Parallel()

	srv, rec := newServer(t, http.StatusOK, `{"data":{"id":"email_123"}}`)
	c := composer.New(composer.WithBaseURL(srv.URL))
	filled(c)

	pdf := &closingFile{FileHandle: composer.BytesFile("report.pdf", []byte("%PDF-1.7\n"))}
	c.SetFiles(
		composer.BytesFile("notes.txt", []byte("plain notes")),
		composer.BytesFile("empty.txt", nil),
		pdf,
	)

	require.NoError(t, c.Submit(context.Background()))

	assert.Equal(t, composer.Status{State: composer.Succeeded, Message: "Email sent successfully!"}, c.Status())
	assert.False(t, c.Sending())

	assert.Equal(t, map[string]string{
		"to":      "a@x.com, b@y.com",
		"subject": "Hi",
		"body":    "<p>hello</p>",
		"from":    "info@ejm.services",
	}, rec.fields)
	require.Len(t, rec.files, 2)
	assert.Equal(t, "notes.txt", rec.files[0].name)
	assert.Equal(t, "plain notes", rec.files[0].data)
	assert.Equal(t, "report.pdf", rec.files[1].name)
	assert.Equal(t, "application/pdf", rec.files[1].contentType)

	// Everything but the sender resets.
	assert.Empty(t, c.To())
	assert.Empty(t, c.Subject())
	assert.Empty(t, c.Body())
	assert.True(t, c.Document().IsEmpty())
	assert.Empty(t, c.Files())
	assert.True(t, pdf.closed.Load())
	assert.Equal(t, "info@ejm.services", c.From())
}

func TestComposer_Submit_BlankSenderUsesDefault(t *testing.T) {
	t.Parallel()

	srv, rec := newServer(t, http.StatusOK, `{"data":{"id":"1"}}`)
	c := composer.New(composer.WithBaseURL(srv.URL))
	filled(c)
	c.SetFrom("  ")

	require.NoError(t, c.Submit(context.Background()))
	assert.Equal(t, mailer.DefaultSender, rec.fields["from"])
	assert.Equal(t, "  ", c.From())
}

func TestComposer_Submit_Rejected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{"provider error", `{"error":{"name":"validation_error","message":"invalid domain","statusCode":422}}`, "invalid domain"},
		{"string error", `{"error":"Failed to send email"}`, "Failed to send email"},
		{"custom string", `{"error":"at least one recipient is required"}`, "at least one recipient is required"},
		{"object without message", `{"error":{}}`, "Failed to send email"},
		{"no error field", `{}`, "Failed to send email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv, _ := newServer(t, http.StatusInternalServerError, tt.body)
			c := composer.New(composer.WithBaseURL(srv.URL))
			filled(c)

			err := c.Submit(context.Background())
			require.ErrorIs(t, err, composer.ErrRejected)
			assert.Equal(t, composer.Status{State: composer.Failed, Message: tt.want}, c.Status())
			assert.False(t, c.Sending())

			// The draft survives a failure.
			assert.Equal(t, "Hi", c.Subject())
			assert.Equal(t, "<p>hello</p>", c.Body())
		})
	}
}

func TestComposer_Submit_Unreachable(t *testing.T) {
	t.Parallel()

	t.Run("undecodable response", func(t *testing.T) {
		t.Parallel()

		srv, _ := newServer(t, http.StatusOK, "<html>oops</html>")
		c := composer.New(composer.WithBaseURL(srv.URL))
		filled(c)

		require.ErrorIs(t, c.Submit(context.Background()), composer.ErrUnreachable)
		assert.Equal(t, "An error occurred while sending the email", c.Status().Message)
		assert.Equal(t, "Hi", c.Subject())
	})

	t.Run("server down", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		c := composer.New(composer.WithBaseURL(url))
		filled(c)

		require.ErrorIs(t, c.Submit(context.Background()), composer.ErrUnreachable)
		assert.Equal(t, composer.Failed, c.Status().State)
		assert.Equal(t, composer.MessageUnreachable, c.Status().Message)
		assert.False(t, c.Sending())
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		srv, rec := newServer(t, http.StatusOK, `{"data":{"id":"1"}}`)
		c := composer.New(composer.WithBaseURL(srv.URL))
		filled(c)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		require.ErrorIs(t, c.Submit(ctx), composer.ErrUnreachable)
		assert.Equal(t, composer.MessageUnreachable, c.Status().Message)
		assert.Zero(t, rec.hits.Load())
	})

	t.Run("unreadable file", func(t *testing.T) {
		t.Parallel()

		srv, rec := newServer(t, http.StatusOK, `{"data":{"id":"1"}}`)
		c := composer.New(composer.WithBaseURL(srv.URL))
		filled(c)
		c.SetFiles(brokenFile{})

		require.ErrorIs(t, c.Submit(context.Background()), composer.ErrUnreachable)
		assert.Equal(t, composer.MessageUnreachable, c.Status().Message)
		assert.Zero(t, rec.hits.Load())
	})
}

type brokenFile struct{}

func (brokenFile) Name() string { return "broken.bin" }
func (brokenFile) Size() int64  { return 10 }
func (brokenFile) Open() (io.ReadCloser, error) {
	return nil, io.ErrUnexpectedEOF
}

type panicFile struct{ brokenFile }

func (panicFile) Open() (io.ReadCloser, error) { panic("boom") }

func TestComposer_Submit_PanicClearsSending(t *testing.T) {
	t.Parallel()

	srv, _ := newServer(t, http.StatusOK, `{"data":{"id":"1"}}`)
	c := composer.New(composer.WithBaseURL(srv.URL))
	filled(c)
	c.SetFiles(panicFile{})

	require.ErrorIs(t, c.Submit(context.Background()), composer.ErrUnreachable)
	assert.False(t, c.Sending())
	assert.Equal(t, composer.MessageUnreachable, c.Status().Message)
}

func TestComposer_SetFilesReleasesPrevious(t *testing.T) {
	t.Parallel()

	first := &closingFile{FileHandle: composer.BytesFile("a.txt", []byte("a"))}
	c := composer.New()
	c.SetFiles(first)
	assert.False(t, first.closed.Load())

	c.SetFiles(composer.BytesFile("b.txt", []byte("b")))
	assert.True(t, first.closed.Load())
	require.Len(t, c.Files(), 1)
	assert.Equal(t, "b.txt", c.Files()[0].Name())
}

func TestComposer_SetBody(t *testing.T) {
	t.Parallel()

	c := composer.New()
	c.Edit(func(ed *richtext.Editor) {
		ed.InsertText("hello world")
		require.NoError(t, ed.Select(richtext.Pos{Offset: 2}, richtext.Pos{Offset: 2}))
	})

	// Same serialization: caret stays put.
	c.SetBody("<p>hello world</p>")
	c.Edit(func(ed *richtext.Editor) {
		assert.Equal(t, richtext.Pos{Offset: 2}, ed.Selection().Start)
	})

	c.SetBody("<p>other</p>")
	assert.Equal(t, "<p>other</p>", c.Body())

	c.SetBody("")
	assert.Empty(t, c.Body())
	assert.True(t, c.Document().IsEmpty())
}

func TestComposer_ExecKeepsBodyInSync(t *testing.T) {
	t.Parallel()

	c := composer.New()
	c.Edit(func(ed *richtext.Editor) {
		ed.InsertText("hello")
		ed.SelectAll()
	})

	require.NoError(t, c.Exec(richtext.CommandBold))
	assert.Equal(t, "<p><b>hello</b></p>", c.Body())

	require.NoError(t, c.Exec(richtext.CommandBulletedList))
	assert.Equal(t, "<ul><li><b>hello</b></li></ul>", c.Body())

	require.ErrorIs(t, c.Exec("strike"), richtext.ErrUnknownCommand)
}

func TestComposer_CreateLink(t *testing.T) {
	t.Parallel()

	answers := []struct {
		url string
		ok  bool
	}{
		{"", false},
		{"   ", true},
		{"https://x.com", true},
	}
	var calls int
	prompt := func() (string, bool) {
		a := answers[calls]
		calls++
		return a.url, a.ok
	}

	c := composer.New(composer.WithLinkPrompt(prompt))
	c.Edit(func(ed *richtext.Editor) {
		ed.InsertText("site")
		ed.SelectAll()
	})

	require.NoError(t, c.Exec(richtext.CommandCreateLink))
	assert.Equal(t, "<p>site</p>", c.Body())

	require.NoError(t, c.Exec(richtext.CommandCreateLink))
	assert.Equal(t, "<p>site</p>", c.Body())

	require.NoError(t, c.Exec(richtext.CommandCreateLink))
	assert.Equal(t, `<p><a href="https://x.com">site</a></p>`, c.Body())
	assert.Equal(t, 3, calls)
}

func TestComposer_CreateLinkWithoutPrompt(t *testing.T) {
	t.Parallel()

	c := composer.New()
	c.Edit(func(ed *richtext.Editor) {
		ed.InsertText("site")
		ed.SelectAll()
	})

	require.NoError(t, c.Exec(richtext.CommandCreateLink))
	assert.Equal(t, "<p>site</p>", c.Body())
}

func TestComposer_Views(t *testing.T) {
	t.Parallel()

	render := func(t *testing.T, fn func(context.Context, io.Writer) error) string {
		t.Helper()
		var sb strings.Builder
		require.NoError(t, fn(context.Background(), &sb))
		return sb.String()
	}

	srv, _ := newServer(t, http.StatusInternalServerError, `{"error":"<b>bad</b>"}`)
	c := composer.New(composer.WithBaseURL(srv.URL))

	assert.Equal(t, `<div class="preview"><em>(empty)</em></div>`, render(t, c.Preview().Render))
	assert.Empty(t, render(t, c.Banner().Render))

	filled(c)
	assert.Equal(t, `<div class="preview"><p>hello</p></div>`, render(t, c.Preview().Render))

	require.Error(t, c.Submit(context.Background()))
	assert.Equal(t, `<div class="alert alert-error" role="status">&lt;b&gt;bad&lt;/b&gt;</div>`,
		render(t, c.Banner().Render))
}
