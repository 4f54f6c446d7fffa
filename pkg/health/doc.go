// Package health serves liveness and readiness endpoints.
//
// Readiness runs named checks in parallel under a shared timeout. The mail
// extension contributes a "mail" check that dials the configured SMTP server;
// suppressed and API-based transports always report healthy.
//
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//	    "mail": ext.Healthcheck(),
//	}))
//
// Endpoints answer in plain text ("OK" or "Service Unavailable"). Send
// Accept: application/json or ?format=json for a per-check report:
//
//	{"status":"unhealthy","checks":{"mail":{"status":"unhealthy","error":"..."}}}
package health
