// Package dispatch implements the send endpoint.
//
// POST /api/send takes multipart/form-data with the fields to, subject, body,
// from (optional) and any number of attachments file parts, and answers:
//
//	200 {"data": {"id": "..."}}
//	400 {"error": "at least one recipient is required"}
//	500 {"error": {"name": "...", "message": "...", "statusCode": 422}}   provider rejection
//	500 {"error": "Failed to send email"}                                 anything else
//
// Which provider-error fields are set depends on the provider. SES fills name
// and message, plus statusCode when known. The Resend SDK flattens 400/422
// bodies into a bare message, so Resend rejections carry only message,
// except rate limiting (429), which also carries name and statusCode.
//
// The body is forwarded as-is; recipients are split on commas and trimmed.
// Empty file parts are dropped. The provider is called exactly once.
//
// Register it with an app that renders errors through
// server.JSONErrorHandler(dispatch.MessageFailed) so failures from the
// middleware chain (panics, oversized bodies) get the same generic body.
package dispatch
