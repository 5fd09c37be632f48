package httpserver

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	v1 "github.com/VerteraIO/hostpulse/internal/http/v1"
)

// Options configures the root router.
type Options struct {
	API            *v1.API
	Gatherer       prometheus.Gatherer // nil disables /metrics
	Logger         *slog.Logger
	RequestTimeout time.Duration
	CORSOrigins    []string // empty disables CORS handling
}

// NewServer builds the root router: the host identity at /, metrics, and the
// versioned API under /api/{version}.
func NewServer(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.API.Logger == nil {
		opts.API.Logger = logger
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORSOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
			ExposedHeaders: []string{"Location"},
			MaxAge:         600,
		}))
	}

	r.Get("/", opts.API.Identity)
	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	// Root-level docs: redirect to Swagger UI for v1
	r.Get("/docs", serveRootDocs)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not_found","message":"Use / or a versioned path like /api/v1/...","supported":["v1"]}`))
	})

	r.Route("/api", func(api chi.Router) {
		api.Mount("/v1", v1.Router(opts.API))
	})

	return r
}

func serveRootDocs(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/api/v1/docs/index.html", http.StatusFound)
}
