// Package middlewares provides HTTP middleware for courier applications.
//
// RequestID tags every request with an ID, and RequestIDExtractor adds it to
// log entries written with the request context:
//
//	app := courier.New(
//	    courier.WithLogger("web", middlewares.RequestIDExtractor()),
//	    courier.WithMiddleware(middlewares.RequestID()),
//	)
package middlewares
