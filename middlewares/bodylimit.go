package middlewares

import (
	"net/http"

	"github.com/dmitrymomot/mailform/internal/server"
)

// DefaultBodyLimit caps request bodies at 25 MiB.
const DefaultBodyLimit int64 = 25 << 20

// BodyLimit caps the request body at limit bytes. Reading past the cap fails
// with *http.MaxBytesError, which the handler reports as an ordinary failure.
// A limit <= 0 uses DefaultBodyLimit.
func BodyLimit(limit int64) server.Middleware {
	if limit <= 0 {
		limit = DefaultBodyLimit
	}

	return func(next server.HandlerFunc) server.HandlerFunc {
		return func(c server.Context) error {
			r := c.Request()
			if r.Body != nil && r.Body != http.NoBody {
				r.Body = http.MaxBytesReader(c.Response(), r.Body, limit)
			}
			return next(c)
		}
	}
}
