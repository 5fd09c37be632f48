package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/VerteraIO/hostpulse/internal/agent/collector"
	"github.com/VerteraIO/hostpulse/internal/metrics"
)

// Identity handles GET / and GET /api/v1/identity.
// Resolution failures answer 500; an open resolver breaker answers 503.
func (a *API) Identity(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, err := a.Hosts.Identity(r.Context())
	elapsed := time.Since(start)

	switch {
	case errors.Is(err, collector.ErrResolverUnavailable):
		a.Metrics.ObserveIdentity(metrics.ResultResolverUnavailable, elapsed)
		a.Logger.Warn("identity lookup rejected", "error", err)
		w.Header().Set("Retry-After", "30")
		writeError(w, http.StatusServiceUnavailable, "resolver_unavailable", err.Error())
		return
	case err != nil:
		a.Metrics.ObserveIdentity(metrics.ResultResolutionFailed, elapsed)
		a.Logger.Error("identity lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "resolution_failed", err.Error())
		return
	}

	a.Metrics.ObserveIdentity(metrics.ResultOK, elapsed)
	writeJSON(w, http.StatusOK, id)
}
