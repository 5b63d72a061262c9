package server

// Handler declares routes on a router.
//
// Example:
//
//	type SendHandler struct {
//	    provider mailer.Provider
//	}
//
//	func (h *SendHandler) Routes(r server.Router) {
//	    r.POST("/api/send", h.send)
//	}
type Handler interface {
	Routes(r Router)
}

// HandlerFunc is the signature for route handlers.
// Returning a non-nil error hands it to the app's ErrorHandler.
type HandlerFunc func(c Context) error

// Middleware wraps a HandlerFunc to add cross-cutting concerns.
//
// Example:
//
//	func NoStore(next server.HandlerFunc) server.HandlerFunc {
//	    return func(c server.Context) error {
//	        c.SetHeader("Cache-Control", "no-store")
//	        return next(c)
//	    }
//	}
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler renders errors returned from handlers.
type ErrorHandler func(Context, error) error
