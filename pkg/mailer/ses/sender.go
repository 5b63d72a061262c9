// Package ses implements mailer.Provider on top of AWS SES v2.
package ses

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/mail"
	"net/textproto"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	sesv2 "github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/aws/smithy-go"

	"github.com/dmitrymomot/mailform/pkg/mailer"
)

// SendEmailAPI is the subset of the SES v2 client used by Sender.
type SendEmailAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// Sender implements mailer.Provider using the AWS SES v2 API.
type Sender struct {
	client SendEmailAPI
}

// New loads AWS configuration and creates a new SES sender.
func New(ctx context.Context, cfg Config) (*Sender, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("ses: failed to load AWS config: %w", err)
	}

	return &Sender{client: sesv2.NewFromConfig(awsCfg)}, nil
}

// NewWithClient creates a Sender over an existing SES client.
func NewWithClient(client SendEmailAPI) *Sender {
	return &Sender{client: client}
}

// Name implements mailer.Provider.
func (s *Sender) Name() string {
	return "ses"
}

// Send implements mailer.Provider.
// Messages with attachments go out as raw MIME; the rest use simple content.
// The SDK retryer is disabled: each request is attempted exactly once.
func (s *Sender) Send(ctx context.Context, req *mailer.SendRequest) (*mailer.SendResponse, error) {
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(req.From),
		Destination:      &types.Destination{ToAddresses: req.To},
	}

	if len(req.Attachments) > 0 {
		raw, err := buildRawMessage(req)
		if err != nil {
			return nil, fmt.Errorf("ses: failed to build raw message: %w", err)
		}
		input.Content = &types.EmailContent{Raw: &types.RawMessage{Data: raw}}
	} else {
		input.Content = &types.EmailContent{Simple: &types.Message{
			Subject: &types.Content{Data: aws.String(req.Subject), Charset: aws.String("UTF-8")},
			Body: &types.Body{
				Html: &types.Content{Data: aws.String(req.HTML), Charset: aws.String("UTF-8")},
			},
		}}
	}

	out, err := s.client.SendEmail(ctx, input, func(o *sesv2.Options) {
		o.RetryMaxAttempts = 1
	})
	if err != nil {
		return nil, classifyError(err)
	}

	return &mailer.SendResponse{ID: aws.ToString(out.MessageId)}, nil
}

// classifyError turns SES API errors into provider rejections.
// Client-side faults (signing, network, context) stay untyped.
func classifyError(err error) error {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("ses: %w", err)
	}

	pe := &mailer.ProviderError{
		Name:    apiErr.ErrorCode(),
		Message: apiErr.ErrorMessage(),
	}
	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		pe.StatusCode = respErr.HTTPStatusCode()
	}
	return pe
}

// buildRawMessage constructs a multipart/mixed MIME message for emails with attachments.
func buildRawMessage(req *mailer.SendRequest) ([]byte, error) {
	from, err := formatAddress(req.From)
	if err != nil {
		return nil, err
	}
	to := make([]string, len(req.To))
	for i, addr := range req.To {
		if to[i], err = formatAddress(addr); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer

	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", req.Subject))
	buf.WriteString("MIME-Version: 1.0\r\n")

	writer := multipart.NewWriter(&buf)
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", writer.Boundary())

	bodyHeader := make(textproto.MIMEHeader)
	bodyHeader.Set("Content-Type", "text/html; charset=UTF-8")
	part, err := writer.CreatePart(bodyHeader)
	if err != nil {
		return nil, fmt.Errorf("create body part: %w", err)
	}
	if _, err := part.Write([]byte(req.HTML)); err != nil {
		return nil, fmt.Errorf("write body part: %w", err)
	}

	for _, att := range req.Attachments {
		contentType := att.ContentType
		if contentType == "" {
			contentType = mailer.MIMEOctetStream
		}

		attHeader := make(textproto.MIMEHeader)
		attHeader.Set("Content-Type", contentType)
		attHeader.Set("Content-Transfer-Encoding", "base64")
		attHeader.Set("Content-Disposition", contentDisposition(att.Filename))

		part, err := writer.CreatePart(attHeader)
		if err != nil {
			return nil, fmt.Errorf("create attachment part: %w", err)
		}
		// Content is already base64; only RFC 2045 line wrapping is needed.
		if _, err := part.Write([]byte(wrapLines(att.Content, 76))); err != nil {
			return nil, fmt.Errorf("write attachment part: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// formatAddress parses a single address and renders it for a header line.
// Anything that would not survive as one header value is rejected.
func formatAddress(s string) (string, error) {
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return "", fmt.Errorf("%w %q: %w", mailer.ErrInvalidAddress, s, err)
	}
	if addr.Name == "" {
		return addr.Address, nil
	}
	return addr.String(), nil
}

// contentDisposition renders an attachment disposition, using RFC 2231
// encoding for non-ASCII filenames.
func contentDisposition(filename string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return "attachment"
}

func wrapLines(s string, width int) string {
	if len(s) <= width {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + len(s)/width*2)
	for i := 0; i < len(s); i += width {
		end := min(i+width, len(s))
		if i > 0 {
			b.WriteString("\r\n")
		}
		b.WriteString(s[i:end])
	}
	return b.String()
}
