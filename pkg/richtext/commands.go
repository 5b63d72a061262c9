package richtext

import "strings"

// Command names a toolbar action.
type Command string

// Supported toolbar commands.
const (
	CommandBold            Command = "bold"
	CommandItalic          Command = "italic"
	CommandUnderline       Command = "underline"
	CommandBulletedList    Command = "bulleted-list"
	CommandNumberedList    Command = "numbered-list"
	CommandCreateLink      Command = "create-link"
	CommandClearFormatting Command = "clear-formatting"
)

var commands = []Command{
	CommandBold,
	CommandItalic,
	CommandUnderline,
	CommandBulletedList,
	CommandNumberedList,
	CommandCreateLink,
	CommandClearFormatting,
}

// Commands returns the toolbar commands in display order.
func Commands() []Command {
	return append([]Command(nil), commands...)
}

// ParseCommand resolves a command name.
func ParseCommand(s string) (Command, error) {
	name := Command(strings.ToLower(strings.TrimSpace(s)))
	for _, c := range commands {
		if c == name {
			return c, nil
		}
	}
	return "", ErrUnknownCommand
}

// Exec applies cmd to the current selection.
// Only CommandCreateLink reads value; an empty value leaves the document untouched.
func (e *Editor) Exec(cmd Command, value string) error {
	switch cmd {
	case CommandBold:
		e.toggleStyle(Bold)
	case CommandItalic:
		e.toggleStyle(Italic)
	case CommandUnderline:
		e.toggleStyle(Underline)
	case CommandBulletedList:
		e.toggleList(BulletItem)
	case CommandNumberedList:
		e.toggleList(NumberedItem)
	case CommandCreateLink:
		e.createLink(strings.TrimSpace(value))
	case CommandClearFormatting:
		e.clearFormatting()
	default:
		return ErrUnknownCommand
	}
	return nil
}

// toggleStyle removes f when every selected character already has it and
// adds it otherwise. At a collapsed caret it affects the next typed text.
func (e *Editor) toggleStyle(f Style) {
	if e.sel.Collapsed() {
		format := e.formatAtCaret()
		format.Style ^= f
		e.typing = &format
		return
	}

	on := !e.rangeHas(f)
	e.applyRange(func(r *Run) {
		if on {
			r.Style |= f
		} else {
			r.Style &^= f
		}
	})
}

// toggleList turns the touched blocks into list items of kind, or back into
// paragraphs when they all already are.
func (e *Editor) toggleList(kind BlockKind) {
	target := kind
	all := true
	for i := e.sel.Start.Block; i <= e.sel.End.Block; i++ {
		if e.doc.Blocks[i].Kind != kind {
			all = false
			break
		}
	}
	if all {
		target = Paragraph
	}
	for i := e.sel.Start.Block; i <= e.sel.End.Block; i++ {
		e.doc.Blocks[i].Kind = target
	}
}

func (e *Editor) createLink(url string) {
	if url == "" {
		return
	}
	if e.sel.Collapsed() {
		format := e.formatAtCaret()
		e.insertFragment([]Block{{Runs: []Run{{Text: url, Style: format.Style, Link: url}}}})
		return
	}
	e.applyRange(func(r *Run) { r.Link = url })
}

// clearFormatting drops inline styles. Links and list structure stay.
func (e *Editor) clearFormatting() {
	if e.sel.Collapsed() {
		format := e.formatAtCaret()
		format.Style = 0
		e.typing = &format
		return
	}
	e.applyRange(func(r *Run) { r.Style = 0 })
}

// rangeHas reports whether every non-empty run inside the selection carries f.
func (e *Editor) rangeHas(f Style) bool {
	seen := false
	for b := e.sel.Start.Block; b <= e.sel.End.Block; b++ {
		start, end := e.blockSpan(b)
		pos := 0
		for _, r := range e.doc.Blocks[b].Runs {
			n := r.len()
			if pos < end && pos+n > start {
				if !r.Style.Has(f) {
					return false
				}
				seen = true
			}
			pos += n
		}
	}
	return seen
}

// applyRange calls fn for every run inside the selection, splitting runs at
// the selection edges. Offsets are preserved so the selection stays valid.
func (e *Editor) applyRange(fn func(r *Run)) {
	for b := e.sel.Start.Block; b <= e.sel.End.Block; b++ {
		start, end := e.blockSpan(b)
		block := &e.doc.Blocks[b]
		i := block.splitAt(start)
		j := block.splitAt(end)
		for k := i; k < j; k++ {
			fn(&block.Runs[k])
		}
		block.normalize()
	}
	e.typing = nil
}

// blockSpan returns the selected rune range inside block b.
func (e *Editor) blockSpan(b int) (start, end int) {
	end = e.doc.Blocks[b].Len()
	if b == e.sel.Start.Block {
		start = e.sel.Start.Offset
	}
	if b == e.sel.End.Block {
		end = e.sel.End.Offset
	}
	return start, end
}
