package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/go-chi/jwtauth"

	"github.com/fastprodman/golfwager/internal/infra/logging"
)

type RouterConfig struct {
	TokenAuth *jwtauth.JWTAuth
	// RateLimitPerMinute caps requests per client IP; 0 disables it.
	RateLimitPerMinute int
	AllowedOrigins     []string
}

// NewRouter registers every API endpoint behind the shared middleware stack.
func NewRouter(svc Services, cfg RouterConfig) http.Handler {
	h := NewHandler(svc)
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.AccessLog)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	if cfg.RateLimitPerMinute > 0 {
		r.Use(httprate.LimitByIP(cfg.RateLimitPerMinute, time.Minute))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(cfg.TokenAuth))
		r.Use(requireUser)

		r.Route("/me", func(r chi.Router) {
			r.Post("/", h.RegisterHandler)
			r.Get("/", h.GetMeHandler)
			r.Patch("/", h.UpdateMeHandler)
		})

		r.Route("/wallet", func(r chi.Router) {
			r.Get("/", h.GetBalanceHandler)
			r.Post("/deposit", h.DepositHandler)
			r.Post("/withdraw", h.WithdrawHandler)
			r.Get("/transactions", h.ListTransactionsHandler)
			r.Get("/stats", h.StatsHandler)
		})

		r.Route("/matches", func(r chi.Router) {
			r.Post("/", h.CreateMatchHandler)
			r.Get("/", h.ListMatchesHandler)

			r.Route("/{matchId}", func(r chi.Router) {
				r.Get("/", h.GetMatchHandler)
				r.Post("/join", h.JoinMatchHandler)
				r.Put("/holes/{hole}/score", h.SubmitScoreHandler)
				r.Post("/holes/{hole}/confirm", h.ConfirmScoreHandler)
				r.Get("/standings", h.StandingsHandler)
				r.Get("/live", h.LiveHandler)
			})
		})
	})

	return r
}
