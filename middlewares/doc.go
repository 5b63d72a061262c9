// Package middlewares provides the HTTP middleware stack of the dispatcher.
//
//	app := server.New(
//	    server.WithLogger(log),
//	    server.WithErrorHandler(server.JSONErrorHandler("Failed to send email")),
//	    server.WithMiddleware(
//	        middlewares.CORS(cfg.HTTP.AllowedOrigins...), // answer preflight first
//	        middlewares.RequestID(),                      // id for every later log line
//	        middlewares.Logging(),
//	        middlewares.Recover(),
//	        middlewares.BodyLimit(cfg.Mailer.MaxUploadBytes),
//	    ),
//	)
//
// Create the logger with RequestIDExtractor so request_id lands in every entry
// written with the request context.
//
// Recover converts panics into *PanicError. It is returned like any other
// handler error, so the JSON error handler answers with the generic 500 body.
package middlewares
