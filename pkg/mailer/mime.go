package mailer

import (
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

// MIME type constants.
const (
	MIMEOctetStream    = "application/octet-stream"
	mimeDetectionBytes = 512 // http.DetectContentType requires up to 512 bytes
)

// DetectContentType detects the MIME type of attachment content from magic bytes.
// When the bytes are inconclusive, the filename extension decides.
// Returns "application/octet-stream" if neither yields a type.
func DetectContentType(filename string, data []byte) string {
	sniff := data
	if len(sniff) > mimeDetectionBytes {
		sniff = sniff[:mimeDetectionBytes]
	}

	detected := MIMEOctetStream
	if len(sniff) > 0 {
		detected = normalizeMIME(http.DetectContentType(sniff))
	}

	// Sniffing can't tell CSV from plain text or docx from zip.
	if detected == MIMEOctetStream || detected == "text/plain" || detected == "application/zip" {
		if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); byExt != "" {
			return normalizeMIME(byExt)
		}
	}

	return detected
}

// normalizeMIME extracts the base MIME type, removing parameters like charset.
// Returns the lowercase MIME type.
func normalizeMIME(mimeType string) string {
	mimeType, _, _ = strings.Cut(mimeType, ";")
	return strings.TrimSpace(strings.ToLower(mimeType))
}
