package richtext

import (
	"html"
	"strings"
	"unicode/utf8"
)

// Style is a set of inline formatting flags.
type Style uint8

// Inline style flags.
const (
	Bold Style = 1 << iota
	Italic
	Underline
)

// Has reports whether all flags in f are set.
func (s Style) Has(f Style) bool { return s&f == f }

// BlockKind identifies how a block is rendered.
type BlockKind uint8

// Block kinds.
const (
	Paragraph BlockKind = iota
	BulletItem
	NumberedItem
)

// IsList reports whether the block kind is a list item.
func (k BlockKind) IsList() bool { return k == BulletItem || k == NumberedItem }

// Run is a span of text sharing the same style and link target.
type Run struct {
	Text  string
	Link  string
	Style Style
}

func (r Run) len() int { return utf8.RuneCountInString(r.Text) }

func (r Run) sameFormat(o Run) bool { return r.Style == o.Style && r.Link == o.Link }

// Block is a paragraph or list item made of inline runs.
type Block struct {
	Runs []Run
	Kind BlockKind
}

// Len returns the block length in runes.
func (b Block) Len() int {
	n := 0
	for _, r := range b.Runs {
		n += r.len()
	}
	return n
}

// Text returns the block's plain text.
func (b Block) Text() string {
	var sb strings.Builder
	for _, r := range b.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

func (b Block) clone() Block {
	return Block{Kind: b.Kind, Runs: append([]Run(nil), b.Runs...)}
}

// normalize drops empty runs and merges neighbours with identical formatting.
func (b *Block) normalize() {
	out := b.Runs[:0]
	for _, r := range b.Runs {
		if r.Text == "" {
			continue
		}
		if n := len(out); n > 0 && out[n-1].sameFormat(r) {
			out[n-1].Text += r.Text
			continue
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		out = nil
	}
	b.Runs = out
}

// splitAt ensures a run boundary at rune offset off and returns the index of
// the first run starting at off (len(Runs) when off is the block end).
func (b *Block) splitAt(off int) int {
	pos := 0
	for i, r := range b.Runs {
		n := r.len()
		switch {
		case off == pos:
			return i
		case off < pos+n:
			runes := []rune(r.Text)
			left, right := r, r
			left.Text = string(runes[:off-pos])
			right.Text = string(runes[off-pos:])
			b.Runs = append(b.Runs[:i], append([]Run{left, right}, b.Runs[i+1:]...)...)
			return i + 1
		}
		pos += n
	}
	return len(b.Runs)
}

// Document is the body of an email: an ordered list of blocks.
// A document always holds at least one block.
type Document struct {
	Blocks []Block
}

// NewDocument returns an empty document holding a single empty paragraph.
func NewDocument() Document {
	return Document{Blocks: []Block{{Kind: Paragraph}}}
}

// IsEmpty reports whether the document has no content.
func (d Document) IsEmpty() bool {
	return len(d.Blocks) == 0 ||
		(len(d.Blocks) == 1 && d.Blocks[0].Kind == Paragraph && d.Blocks[0].Len() == 0)
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	out := Document{Blocks: make([]Block, len(d.Blocks))}
	for i, b := range d.Blocks {
		out.Blocks[i] = b.clone()
	}
	return out
}

// HTML serializes the document. An empty document serializes to "".
// Consecutive list items of the same kind share one <ul> or <ol>.
func (d Document) HTML() string {
	if d.IsEmpty() {
		return ""
	}

	var sb strings.Builder
	var openList BlockKind
	inList := false

	for _, b := range d.Blocks {
		if inList && b.Kind != openList {
			sb.WriteString(closeListTag(openList))
			inList = false
		}
		if b.Kind.IsList() && !inList {
			sb.WriteString(openListTag(b.Kind))
			openList, inList = b.Kind, true
		}

		tag := "p"
		if b.Kind.IsList() {
			tag = "li"
		}
		sb.WriteString("<" + tag + ">")
		if b.Len() == 0 {
			sb.WriteString("<br>")
		} else {
			writeRuns(&sb, b.Runs)
		}
		sb.WriteString("</" + tag + ">")
	}
	if inList {
		sb.WriteString(closeListTag(openList))
	}

	return sb.String()
}

func openListTag(k BlockKind) string {
	if k == NumberedItem {
		return "<ol>"
	}
	return "<ul>"
}

func closeListTag(k BlockKind) string {
	if k == NumberedItem {
		return "</ol>"
	}
	return "</ul>"
}

// writeRuns emits runs with links outermost so adjacent runs sharing a link
// render as a single anchor.
func writeRuns(sb *strings.Builder, runs []Run) {
	for i := 0; i < len(runs); {
		link := runs[i].Link
		j := i
		for j < len(runs) && runs[j].Link == link {
			j++
		}
		if link != "" {
			sb.WriteString(`<a href="` + html.EscapeString(link) + `">`)
		}
		for _, r := range runs[i:j] {
			writeStyled(sb, r)
		}
		if link != "" {
			sb.WriteString("</a>")
		}
		i = j
	}
}

func writeStyled(sb *strings.Builder, r Run) {
	if r.Style.Has(Bold) {
		sb.WriteString("<b>")
	}
	if r.Style.Has(Italic) {
		sb.WriteString("<i>")
	}
	if r.Style.Has(Underline) {
		sb.WriteString("<u>")
	}
	sb.WriteString(html.EscapeString(r.Text))
	if r.Style.Has(Underline) {
		sb.WriteString("</u>")
	}
	if r.Style.Has(Italic) {
		sb.WriteString("</i>")
	}
	if r.Style.Has(Bold) {
		sb.WriteString("</b>")
	}
}
