package richtext

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	pastePolicy     *bluemonday.Policy
	pastePolicyOnce sync.Once
)

// policy limits incoming markup to what the document model can represent.
// Everything else (scripts, styles, office markup, event handlers) is dropped
// while the text inside harmless wrappers is kept.
func policy() *bluemonday.Policy {
	pastePolicyOnce.Do(func() {
		p := bluemonday.NewPolicy()
		p.AllowStandardURLs()
		p.AllowElements(
			"p", "div", "br",
			"h1", "h2", "h3", "h4", "h5", "h6",
			"blockquote", "pre",
			"b", "strong", "i", "em", "u",
			"ul", "ol", "li",
		)
		p.AllowAttrs("href").OnElements("a")
		pastePolicy = p
	})
	return pastePolicy
}

// Sanitize reduces arbitrary HTML to the editor's vocabulary.
func Sanitize(s string) string {
	return policy().Sanitize(s)
}

// ParseHTML builds a document from an HTML fragment.
// Input is sanitized first; unsupported markup degrades to plain text.
// ParseHTML(d.HTML()) reproduces d for any normalized document d.
func ParseHTML(s string) Document {
	s = Sanitize(s)
	if strings.TrimSpace(s) == "" {
		return NewDocument()
	}

	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(s), body)
	if err != nil {
		return Document{Blocks: []Block{{Kind: Paragraph, Runs: []Run{{Text: s}}}}}
	}

	// ParseFragment detaches the nodes; reattach so sibling checks work.
	for _, n := range nodes {
		body.AppendChild(n)
	}

	p := &parser{}
	p.walkChildren(body, 0, "")
	p.closeBlock()

	if len(p.blocks) == 0 {
		return NewDocument()
	}
	for i := range p.blocks {
		p.blocks[i].normalize()
	}
	return Document{Blocks: p.blocks}
}

type parser struct {
	cur    *Block
	blocks []Block
	lists  []BlockKind
}

func (p *parser) openBlock(kind BlockKind) {
	p.closeBlock()
	p.cur = &Block{Kind: kind}
}

func (p *parser) closeBlock() {
	if p.cur != nil {
		p.blocks = append(p.blocks, *p.cur)
		p.cur = nil
	}
}

func (p *parser) listKind() BlockKind {
	if len(p.lists) == 0 {
		return BulletItem
	}
	return p.lists[len(p.lists)-1]
}

func (p *parser) text(s string, style Style, link string) {
	s = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ").Replace(s)
	if p.cur == nil {
		// Whitespace between block elements is layout, not content.
		if strings.TrimSpace(s) == "" {
			return
		}
		p.cur = &Block{Kind: Paragraph}
	}
	p.cur.Runs = append(p.cur.Runs, Run{Text: s, Style: style, Link: link})
}

func (p *parser) walk(n *html.Node, style Style, link string) {
	switch n.Type {
	case html.TextNode:
		p.text(n.Data, style, link)
		return
	case html.ElementNode:
	default:
		p.walkChildren(n, style, link)
		return
	}

	switch n.DataAtom {
	case atom.B, atom.Strong:
		p.walkChildren(n, style|Bold, link)
	case atom.I, atom.Em:
		p.walkChildren(n, style|Italic, link)
	case atom.U:
		p.walkChildren(n, style|Underline, link)
	case atom.A:
		p.walkChildren(n, style, attr(n, "href"))
	case atom.Ul, atom.Ol:
		kind := BulletItem
		if n.DataAtom == atom.Ol {
			kind = NumberedItem
		}
		p.closeBlock()
		p.lists = append(p.lists, kind)
		p.walkChildren(n, style, link)
		p.lists = p.lists[:len(p.lists)-1]
		p.closeBlock()
	case atom.Li:
		p.openBlock(p.listKind())
		p.walkChildren(n, style, link)
		p.closeBlock()
	case atom.P, atom.Div, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Blockquote, atom.Pre:
		p.openBlock(Paragraph)
		p.walkChildren(n, style, link)
		p.closeBlock()
	case atom.Br:
		// A trailing <br> only keeps an otherwise empty block visible.
		if isLastChild(n) {
			if p.cur == nil {
				p.cur = &Block{Kind: Paragraph}
			}
			return
		}
		kind := Paragraph
		if p.cur != nil {
			kind = p.cur.Kind
		}
		p.openBlock(kind)
	default:
		p.walkChildren(n, style, link)
	}
}

func (p *parser) walkChildren(n *html.Node, style Style, link string) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.walk(c, style, link)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func isLastChild(n *html.Node) bool {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.TextNode && strings.TrimSpace(s.Data) == "" {
			continue
		}
		return false
	}
	return true
}
