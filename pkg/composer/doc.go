// Package composer is the client side of mailform: it keeps the state of one
// compose session, encodes it as multipart/form-data and posts it to the
// dispatcher endpoint.
//
// The body is edited through a richtext.Editor. Every edit re-serializes the
// document, so Body always equals the HTML that will be sent and previewed.
//
//	c := composer.New(composer.WithBaseURL("http://localhost:8080"))
//	c.SetTo("a@example.com, b@example.com")
//	c.SetSubject("Hello")
//	c.Edit(func(ed *richtext.Editor) { ed.InsertText("Hi there") })
//	c.SetFiles(composer.BytesFile("notes.txt", data))
//
//	if err := c.Submit(ctx); err != nil {
//		log.Println(c.Status().Message)
//	}
//
// Submit reports its outcome through Status. On success the recipients,
// subject, body and file selection are cleared while the sender is kept.
package composer
