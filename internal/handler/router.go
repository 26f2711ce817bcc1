package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/careercompass/backend/internal/handler/chat"
	"github.com/careercompass/backend/internal/handler/ws"
	middlewarePkg "github.com/careercompass/backend/internal/middleware"
	"github.com/careercompass/backend/internal/service/session"
	"github.com/careercompass/backend/pkg/utils"
)

// Options carries everything the router wires into handlers. Processor may
// be nil when the chatbot is not configured; Gatherer may be nil to disable
// /metrics.
type Options struct {
	Processor chat.Processor
	Sessions  session.Store
	Cookie    chat.CookieOptions
	Gatherer  prometheus.Gatherer
	Logger    *zap.Logger
}

// NewRouter wires HTTP routes to core services.
func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.RequestLogger(opts.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	chatHandler := chat.New(opts.Processor, opts.Sessions, opts.Cookie, opts.Logger)
	wsHandler := ws.New(opts.Processor, opts.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if opts.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(api chi.Router) {
		chatHandler.RegisterRoutes(api)
		wsHandler.RegisterRoutes(api)
	})

	return r
}
