package v1_test

import (
	"context"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/VerteraIO/hostpulse/internal/agent/collector"
	"github.com/VerteraIO/hostpulse/internal/agent/executor"
	"github.com/VerteraIO/hostpulse/internal/controlplane/tasks"
	v1 "github.com/VerteraIO/hostpulse/internal/http/v1"
	"github.com/VerteraIO/hostpulse/internal/metrics"
)

type stubHosts struct {
	id  collector.Identity
	err error
}

func (s stubHosts) Identity(ctx context.Context) (collector.Identity, error) {
	return s.id, s.err
}

// drawSequence hands out the given draws in order, repeating the last one.
type drawSequence struct {
	draws []float64
	i     int
}

func (d *drawSequence) Float64() float64 {
	v := d.draws[d.i]
	if d.i < len(d.draws)-1 {
		d.i++
	}
	return v
}

func newTestAPI(hosts v1.IdentitySource, draws ...float64) *v1.API {
	if len(draws) == 0 {
		draws = []float64{0.5}
	}
	src := &drawSequence{draws: draws}
	return &v1.API{
		Hosts: hosts,
		Runs:  tasks.NewManager(),
		NewRunner: func(logger *slog.Logger) v1.Runner {
			return executor.NewFlakyTask(logger, src, executor.DefaultThreshold)
		},
		Metrics: metrics.New(prometheus.NewRegistry()),
		Logger:  slog.New(slog.DiscardHandler),
	}
}

func newTestServer(t *testing.T, api *v1.API) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	r.Mount("/api/v1", v1.Router(api))
	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts
}
