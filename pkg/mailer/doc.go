// Package mailer defines the boundary between the dispatch endpoint and
// transactional email providers.
//
// # Architecture
//
//   - Provider: interface that email delivery services implement
//   - SendRequest: normalized message (sender, recipients, subject, HTML, attachments)
//   - ProviderError: typed rejection reported by the provider, forwarded verbatim
//   - Result: Success or Failure; Outcome folds a provider call into one
//
// Built-in providers live in subpackages:
//
//   - resend: Resend HTTP API
//   - ses: AWS SES v2
//   - logsender: writes messages to a slog.Logger (local development)
//
// # Usage
//
//	provider := resend.New(resend.Config{APIKey: os.Getenv("RESEND_API_KEY")})
//
//	resp, err := provider.Send(ctx, &mailer.SendRequest{
//		From:    mailer.DefaultSender,
//		To:      []string{"user@example.com"},
//		Subject: "Hello",
//		HTML:    "<b>hello</b>",
//	})
//	if pe, ok := mailer.AsProviderError(err); ok {
//		// rejected by the provider: pe.Message
//	}
//
// # Attachments
//
// Attachment content is carried base64-encoded, exactly as it goes over the
// wire. Use NewAttachment to encode raw bytes and Attachment.Bytes to decode.
// A request without attachments must leave the slice nil.
//
// # Custom Providers
//
// Implement the Provider interface, or wrap a function with ProviderFunc:
//
//	p := mailer.ProviderFunc(func(ctx context.Context, req *mailer.SendRequest) (*mailer.SendResponse, error) {
//		return &mailer.SendResponse{ID: "local"}, nil
//	})
package mailer
