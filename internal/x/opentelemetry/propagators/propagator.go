package propagators

import (
	"go.opentelemetry.io/contrib/propagators/autoprop"
	"go.opentelemetry.io/otel/propagation"
)

// New builds the propagator chain from the OTEL_PROPAGATORS environment
// variable, defaulting to tracecontext and baggage. B3 propagation, as
// used by the platform's backend services, is available via the b3 and
// b3multi entries.
func New() propagation.TextMapPropagator {
	return autoprop.NewTextMapPropagator()
}
