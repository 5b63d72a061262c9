// Package logger builds the process-wide slog logger.
//
// Logs are JSON on stdout. Request-scoped values such as the request id are
// added by ContextExtractors on every call, so handlers only need to log with
// the request context:
//
//	log := logger.New(logger.Config{Level: "debug"}, middlewares.RequestIDExtractor())
//	log.InfoContext(ctx, "email accepted", slog.String("id", id))
//	// {"level":"INFO","msg":"email accepted","id":"...","request_id":"..."}
//
// # Sentry
//
// With a DSN configured, warnings and errors are also sent to Sentry: errors
// create issues, warnings are stored as log entries. If Sentry fails to start
// the logger keeps writing to stdout. Register Flush as a shutdown hook so
// buffered events are delivered before exit.
package logger
