// Package richtext implements the email body editor: a small document model of
// paragraphs and list items made of styled text runs, an Editor that applies
// typing, paste and toolbar commands to it, and a stable HTML serialization.
//
// The model only knows bold, italic, underline, links, bulleted lists and
// numbered lists. Anything richer that arrives through paste is reduced to that
// vocabulary with a bluemonday policy before parsing.
//
//	ed := richtext.NewEditor()
//	ed.InsertText("Hello ")
//	_ = ed.Exec(richtext.CommandBold, "")
//	ed.InsertText("world")
//	ed.HTML() // <p>Hello <b>world</b></p>
package richtext
