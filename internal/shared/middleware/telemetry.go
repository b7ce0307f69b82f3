package middleware

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Telemetry wraps an http.Handler with OpenTelemetry instrumentation:
// a server span per request plus the standard HTTP metrics.
func Telemetry(next http.Handler) http.Handler {
	return otelhttp.NewMiddleware("teller-api")(next)
}
