// Package logger builds the slog loggers used by courier apps.
//
// Loggers write JSON to stdout. Context extractors add request-scoped
// attributes, such as a request ID, to every record logged with a context:
//
//	log := logger.New(middlewares.RequestIDExtractor())
//	log.InfoContext(r.Context(), "welcome mail queued")
//	// {"level":"INFO","msg":"welcome mail queued","request_id":"..."}
//
// NewWithSentry also forwards warnings and errors to Sentry when
// SENTRY_DSN is set and falls back to stdout only otherwise. Register Flush
// as a shutdown hook so buffered events are delivered before exit:
//
//	app.Run(":8080", courier.ShutdownHook(logger.Flush))
package logger
