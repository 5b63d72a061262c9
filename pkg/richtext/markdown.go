package richtext

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
)

var md = goldmark.New()

// PasteMarkdown converts markdown to HTML and pastes it at the caret.
// Raw HTML inside the markdown is not trusted and is dropped by the converter.
func (e *Editor) PasteMarkdown(src string) error {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return fmt.Errorf("richtext: convert markdown: %w", err)
	}
	e.PasteHTML(buf.String())
	return nil
}
