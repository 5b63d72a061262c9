package composer

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Preview renders the body as the recipient will see it.
// An empty body renders the placeholder.
func (c *Composer) Preview() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		body := c.Body()
		if body == "" {
			body = MessageEmptyPreview
		}
		_, err := io.WriteString(w, `<div class="preview">`+body+`</div>`)
		return err
	})
}

// Banner renders the outcome of the latest submission.
// Nothing is rendered while idle or sending.
func (c *Composer) Banner() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		st := c.Status()
		var class string
		switch st.State {
		case Succeeded:
			class = "alert alert-success"
		case Failed:
			class = "alert alert-error"
		default:
			return nil
		}
		_, err := io.WriteString(w, `<div class="`+class+`" role="status">`+
			templ.EscapeString(st.Message)+`</div>`)
		return err
	})
}

// SubmitLabel is the text of the send button.
func (c *Composer) SubmitLabel() string {
	if c.Sending() {
		return "Sending..."
	}
	return "Send Email"
}
