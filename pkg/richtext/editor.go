package richtext

import "strings"

// Pos addresses a caret position: a block index and a rune offset inside it.
type Pos struct {
	Block  int
	Offset int
}

// before reports whether p sorts before o.
func (p Pos) before(o Pos) bool {
	return p.Block < o.Block || (p.Block == o.Block && p.Offset < o.Offset)
}

// Selection is an ordered range of the document. Start == End is a caret.
type Selection struct {
	Start Pos
	End   Pos
}

// Collapsed reports whether the selection is a bare caret.
func (s Selection) Collapsed() bool { return s.Start == s.End }

// Editor is an editing surface over a Document.
// It is not safe for concurrent use; callers serialize access.
type Editor struct {
	typing *Run // formatting for the next insertion at a collapsed caret
	doc    Document
	sel    Selection
}

// NewEditor returns an editor over an empty document.
func NewEditor() *Editor {
	return &Editor{doc: NewDocument()}
}

// Document returns a copy of the current document.
func (e *Editor) Document() Document { return e.doc.Clone() }

// HTML serializes the current document.
func (e *Editor) HTML() string { return e.doc.HTML() }

// Selection returns the current selection.
func (e *Editor) Selection() Selection { return e.sel }

// Select sets the selection. Positions may be given in either order.
func (e *Editor) Select(a, b Pos) error {
	if !e.valid(a) || !e.valid(b) {
		return ErrInvalidPosition
	}
	if b.before(a) {
		a, b = b, a
	}
	e.sel = Selection{Start: a, End: b}
	e.typing = nil
	return nil
}

// SelectAll selects the whole document.
func (e *Editor) SelectAll() {
	e.sel = Selection{End: e.endPos()}
	e.typing = nil
}

// MoveToEnd collapses the caret at the end of the document.
func (e *Editor) MoveToEnd() {
	end := e.endPos()
	e.sel = Selection{Start: end, End: end}
	e.typing = nil
}

// SetHTML replaces the whole document and puts the caret at its end.
func (e *Editor) SetHTML(s string) {
	e.doc = ParseHTML(s)
	e.MoveToEnd()
}

// Reset clears the document.
func (e *Editor) Reset() {
	e.doc = NewDocument()
	e.MoveToEnd()
}

// InsertText types s at the caret, replacing any selection.
// Newlines start new blocks of the current kind.
func (e *Editor) InsertText(s string) {
	if s == "" {
		return
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")

	e.deleteSelection()
	format := e.formatAtCaret()
	kind := e.doc.Blocks[e.sel.Start.Block].Kind

	lines := strings.Split(s, "\n")
	frag := make([]Block, len(lines))
	for i, line := range lines {
		frag[i] = Block{Kind: kind}
		if line != "" {
			run := format
			run.Text = line
			frag[i].Runs = []Run{run}
		}
	}
	e.insertFragment(frag)
}

// InsertParagraph splits the block at the caret (the Enter key).
// On an empty list item it leaves the list instead.
func (e *Editor) InsertParagraph() {
	e.deleteSelection()
	cur := &e.doc.Blocks[e.sel.Start.Block]
	if cur.Kind.IsList() && cur.Len() == 0 {
		cur.Kind = Paragraph
		return
	}
	e.insertFragment([]Block{{Kind: cur.Kind}, {Kind: cur.Kind}})
}

// DeleteBackward removes the selection, or the rune before the caret
// (the Backspace key). At a block start it joins with the previous block.
func (e *Editor) DeleteBackward() {
	if !e.sel.Collapsed() {
		e.deleteSelection()
		return
	}
	caret := e.sel.Start
	switch {
	case caret.Offset > 0:
		e.deleteRange(Pos{Block: caret.Block, Offset: caret.Offset - 1}, caret)
	case e.doc.Blocks[caret.Block].Kind.IsList():
		e.doc.Blocks[caret.Block].Kind = Paragraph
	case caret.Block > 0:
		prev := caret.Block - 1
		e.deleteRange(Pos{Block: prev, Offset: e.doc.Blocks[prev].Len()}, caret)
	}
}

// PasteHTML inserts an HTML fragment at the caret, replacing any selection.
// The fragment is sanitized to the editor's vocabulary first.
func (e *Editor) PasteHTML(s string) {
	frag := ParseHTML(s)
	if frag.IsEmpty() {
		return
	}
	e.deleteSelection()
	e.insertFragment(frag.Blocks)
}

func (e *Editor) valid(p Pos) bool {
	return p.Block >= 0 && p.Block < len(e.doc.Blocks) &&
		p.Offset >= 0 && p.Offset <= e.doc.Blocks[p.Block].Len()
}

func (e *Editor) endPos() Pos {
	last := len(e.doc.Blocks) - 1
	return Pos{Block: last, Offset: e.doc.Blocks[last].Len()}
}

func (e *Editor) collapse(p Pos) {
	e.sel = Selection{Start: p, End: p}
}

// formatAtCaret returns the style and link that typed text inherits.
// Text continues the style of the preceding run; it only joins a link when the
// caret sits strictly inside it.
func (e *Editor) formatAtCaret() Run {
	if e.typing != nil {
		return *e.typing
	}
	b := e.doc.Blocks[e.sel.Start.Block]
	off := e.sel.Start.Offset

	var before, after *Run
	pos := 0
	for i := range b.Runs {
		n := b.Runs[i].len()
		if pos < off && off <= pos+n {
			before = &b.Runs[i]
		}
		if pos <= off && off < pos+n {
			after = &b.Runs[i]
		}
		pos += n
	}

	var format Run
	switch {
	case before != nil:
		format.Style = before.Style
		if after != nil && after.Link == before.Link {
			format.Link = before.Link
		}
	case after != nil:
		format.Style = after.Style
	}
	return format
}

func (e *Editor) deleteSelection() {
	if e.sel.Collapsed() {
		return
	}
	e.deleteRange(e.sel.Start, e.sel.End)
}

// deleteRange removes [from, to) and joins the boundary blocks.
func (e *Editor) deleteRange(from, to Pos) {
	first := &e.doc.Blocks[from.Block]
	i := first.splitAt(from.Offset)
	head := append([]Run(nil), first.Runs[:i]...)

	last := &e.doc.Blocks[to.Block]
	j := last.splitAt(to.Offset)
	tail := append([]Run(nil), last.Runs[j:]...)

	merged := Block{Kind: first.Kind, Runs: append(head, tail...)}
	merged.normalize()

	blocks := append([]Block(nil), e.doc.Blocks[:from.Block]...)
	blocks = append(blocks, merged)
	blocks = append(blocks, e.doc.Blocks[to.Block+1:]...)
	e.doc.Blocks = blocks
	e.collapse(from)
	e.typing = nil
}

// insertFragment inserts blocks at the collapsed caret. The first fragment
// block joins the text before the caret; the last one absorbs the text after.
func (e *Editor) insertFragment(frag []Block) {
	caret := e.sel.Start
	cur := &e.doc.Blocks[caret.Block]
	i := cur.splitAt(caret.Offset)
	left := append([]Run(nil), cur.Runs[:i]...)
	right := append([]Run(nil), cur.Runs[i:]...)

	// An empty block takes the shape of what is pasted into it.
	kind := cur.Kind
	if cur.Len() == 0 {
		kind = frag[0].Kind
	}

	var replaced []Block
	var end Pos
	if len(frag) == 1 {
		b := Block{Kind: kind, Runs: append(append(left, frag[0].Runs...), right...)}
		replaced = []Block{b}
		end = Pos{Block: caret.Block, Offset: caret.Offset + frag[0].Len()}
	} else {
		firstBlock := Block{Kind: kind, Runs: append(left, frag[0].Runs...)}
		lastFrag := frag[len(frag)-1]
		lastBlock := Block{Kind: lastFrag.Kind, Runs: append(append([]Run(nil), lastFrag.Runs...), right...)}

		replaced = append(replaced, firstBlock)
		for _, b := range frag[1 : len(frag)-1] {
			replaced = append(replaced, b.clone())
		}
		replaced = append(replaced, lastBlock)
		end = Pos{Block: caret.Block + len(frag) - 1, Offset: lastFrag.Len()}
	}

	for k := range replaced {
		replaced[k].normalize()
	}

	blocks := append([]Block(nil), e.doc.Blocks[:caret.Block]...)
	blocks = append(blocks, replaced...)
	blocks = append(blocks, e.doc.Blocks[caret.Block+1:]...)
	e.doc.Blocks = blocks
	e.collapse(end)
	e.typing = nil
}
