// Package server is the HTTP application layer of mailform.
//
// It wraps a chi router behind a few small abstractions:
//
//   - App: routing, middleware, error handling and graceful shutdown
//   - Context: request/response access; it is also a context.Context
//   - Router and Handler: handlers declare their own routes
//   - HandlerFunc: returns an error instead of writing failures itself
//   - Middleware: wraps HandlerFuncs
//   - ErrorHandler: renders errors returned by handlers
//
// # Errors
//
// Handlers return errors. HTTPError carries a status and a user-facing
// message; JSONErrorHandler renders it as {"error": message}. Any other error
// becomes a 500 with a fixed fallback message so internal details never reach
// the client:
//
//	func (h *Handler) send(c server.Context) error {
//	    if len(to) == 0 {
//	        return server.ErrBadRequest("at least one recipient is required")
//	    }
//	    ...
//	}
//
// # Health
//
// WithHealthChecks registers /health/live (always OK) and /health/ready, which
// runs every named CheckFunc concurrently under a timeout and answers 503 if
// any of them fails. Both endpoints answer JSON when asked via Accept or
// ?format=json.
//
// # Running
//
// App.Run listens, serves and blocks until SIGINT/SIGTERM, then shuts the
// server down and runs the registered shutdown hooks within ShutdownTimeout.
package server
