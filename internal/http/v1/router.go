package v1

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"

	openapi "github.com/VerteraIO/hostpulse/api/openapi"
	"github.com/VerteraIO/hostpulse/internal/agent/collector"
	"github.com/VerteraIO/hostpulse/internal/agent/executor"
	"github.com/VerteraIO/hostpulse/internal/controlplane/tasks"
	"github.com/VerteraIO/hostpulse/internal/metrics"
)

// IdentitySource resolves the serving host's identity. *collector.HostCollector satisfies it.
type IdentitySource interface {
	Identity(ctx context.Context) (collector.Identity, error)
}

// Runner is a flaky task that reports the value it drew.
type Runner interface {
	executor.Executor
	LastDraw() float64
}

// API carries the dependencies of the v1 handlers.
type API struct {
	Hosts     IdentitySource
	Runs      *tasks.Manager
	NewRunner func(logger *slog.Logger) Runner
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
	// RunSecret enables bearer-token checks on POST /runs when non-empty.
	RunSecret []byte
}

// Router returns the chi.Router for REST API v1.
func Router(api *API) chi.Router {
	if api.Logger == nil {
		api.Logger = slog.New(slog.DiscardHandler)
	}
	r := chi.NewRouter()

	// Docs (Swagger UI) and OpenAPI document under the versioned prefix
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/api/v1/openapi.yaml"),
	))
	r.Get("/openapi.yaml", serveOpenAPIStaticAsset)

	r.Get("/identity", api.Identity)

	r.Route("/runs", func(runs chi.Router) {
		runs.With(requireRunToken(api.RunSecret)).Post("/", api.createRun)
		runs.Get("/", api.listRuns)
		runs.Get("/{runId}", api.getRun)
	})

	return r
}

func serveOpenAPIStaticAsset(w http.ResponseWriter, r *http.Request) {
	data, err := openapi.FS.ReadFile("v1/hostpulse.yaml")
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to read openapi document: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
	_, _ = w.Write(data)
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorBody{Error: code, Message: msg})
}
