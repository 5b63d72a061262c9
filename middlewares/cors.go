package middlewares

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/mailform/internal/server"
)

// DefaultCORSMaxAge is the default preflight cache duration.
const DefaultCORSMaxAge = 12 * time.Hour

// CORS lets a composer served from another origin post to the dispatcher.
// Only the listed origins are allowed; "*" allows any. Preflight requests are
// answered with 204 and never reach the handlers. With no origins the
// middleware passes everything through untouched.
func CORS(origins ...string) server.Middleware {
	wildcard := slices.Contains(origins, "*")
	methods := strings.Join([]string{http.MethodGet, http.MethodPost, http.MethodOptions}, ", ")
	maxAge := strconv.Itoa(int(DefaultCORSMaxAge.Seconds()))

	return func(next server.HandlerFunc) server.HandlerFunc {
		return func(c server.Context) error {
			origin := c.Header("Origin")
			if origin == "" || !(wildcard || slices.Contains(origins, origin)) {
				return next(c)
			}

			h := c.Response().Header()
			h.Add("Vary", "Origin")
			if wildcard {
				h.Set("Access-Control-Allow-Origin", "*")
			} else {
				h.Set("Access-Control-Allow-Origin", origin)
			}
			h.Set("Access-Control-Expose-Headers", "X-Request-ID")

			if c.Request().Method != http.MethodOptions {
				return next(c)
			}

			h.Add("Vary", "Access-Control-Request-Method")
			h.Set("Access-Control-Allow-Methods", methods)
			h.Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
			h.Set("Access-Control-Max-Age", maxAge)
			return c.NoContent(http.StatusNoContent)
		}
	}
}
