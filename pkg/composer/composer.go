package composer

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/dmitrymomot/mailform/pkg/logger"
	"github.com/dmitrymomot/mailform/pkg/mailer"
	"github.com/dmitrymomot/mailform/pkg/richtext"
)

// Composer holds the state of one compose session.
// All methods are safe for concurrent use.
type Composer struct {
	client   *http.Client
	logger   *slog.Logger
	editor   *richtext.Editor
	prompt   LinkPrompt
	endpoint string
	from     string
	to       string
	subject  string
	body     string
	files    []FileHandle
	status   Status
	mu       sync.Mutex
	sending  bool
}

// New creates a Composer with an empty draft and the default sender.
func New(opts ...Option) *Composer {
	c := &Composer{
		client:   http.DefaultClient,
		logger:   logger.NewNope(),
		editor:   richtext.NewEditor(),
		endpoint: DefaultEndpoint,
		from:     mailer.DefaultSender,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// From returns the sender field.
func (c *Composer) From() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.from
}

// SetFrom updates the sender field.
func (c *Composer) SetFrom(v string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.from = v
}

// To returns the raw, comma-separated recipients field.
func (c *Composer) To() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.to
}

// SetTo updates the recipients field.
func (c *Composer) SetTo(v string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.to = v
}

// Subject returns the subject field.
func (c *Composer) Subject() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subject
}

// SetSubject updates the subject field.
func (c *Composer) SetSubject(v string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subject = v
}

// Body returns the serialized body. It always matches the editor document.
func (c *Composer) Body() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.body
}

// SetBody loads html into the editor unless it already serializes to it,
// in which case the document and caret stay as they are.
func (c *Composer) SetBody(html string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if html == c.editor.HTML() {
		return
	}
	c.editor.SetHTML(html)
	c.body = c.editor.HTML()
}

// Edit runs fn against the editor and re-serializes the body afterwards.
func (c *Composer) Edit(fn func(ed *richtext.Editor)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.editor)
	c.body = c.editor.HTML()
}

// Document returns a copy of the body document.
func (c *Composer) Document() richtext.Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editor.Document()
}

// Exec applies a toolbar command to the current selection.
// create-link asks the configured prompt for a URL first; a cancelled or
// empty answer leaves everything unchanged.
func (c *Composer) Exec(cmd richtext.Command) error {
	var value string
	if cmd == richtext.CommandCreateLink {
		if c.prompt == nil {
			return nil
		}
		url, ok := c.prompt()
		url = strings.TrimSpace(url)
		if !ok || url == "" {
			return nil
		}
		value = url
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editor.Exec(cmd, value); err != nil {
		return err
	}
	c.body = c.editor.HTML()
	return nil
}

// SetFiles replaces the attachment selection, releasing the previous one.
func (c *Composer) SetFiles(files ...FileHandle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	release(c.files)
	c.files = append([]FileHandle(nil), files...)
}

// Files returns the current attachment selection in pick order.
func (c *Composer) Files() []FileHandle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]FileHandle(nil), c.files...)
}

// Status returns the outcome of the latest submission.
func (c *Composer) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Sending reports whether a submission is in flight.
func (c *Composer) Sending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sending
}

// CanSubmit reports whether recipients and subject are filled in.
func (c *Composer) CanSubmit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canSubmit()
}

func (c *Composer) canSubmit() bool {
	return strings.TrimSpace(c.to) != "" && strings.TrimSpace(c.subject) != ""
}

// reset clears everything a successful send consumes. The sender stays.
func (c *Composer) reset() {
	c.to = ""
	c.subject = ""
	c.editor.Reset()
	c.body = c.editor.HTML()
	release(c.files)
	c.files = nil
}
