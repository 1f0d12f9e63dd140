package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"banktech/internal/config"
	"banktech/internal/middleware"
	"banktech/internal/models"
	"banktech/internal/websocket"
)

type Handler struct {
	cfg      config.Config
	logger   *zap.Logger
	users    UserStore
	service  BankingService
	reporter Reporter
	hub      *websocket.Hub
	limiter  *middleware.ClientLimiter
}

func New(cfg config.Config, logger *zap.Logger, users UserStore, service BankingService, reporter Reporter, hub *websocket.Hub) *Handler {
	return &Handler{
		cfg:      cfg,
		logger:   logger,
		users:    users,
		service:  service,
		reporter: reporter,
		hub:      hub,
		limiter:  middleware.NewClientLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
	}
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestLogger(h.logger))
	router.Use(middleware.Recovery)
	router.Use(middleware.Metrics)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   splitOrigins(h.cfg.AllowedOrigins),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authenticated := middleware.Auth(h.cfg.JWTSecret)
	limited := middleware.RateLimit(h.limiter)
	managerOnly := middleware.RequireRole(models.RoleManager)

	router.Route("/auth", func(r chi.Router) {
		r.With(limited).Post("/login", h.Login)
		r.With(authenticated).Get("/me", h.Me)
	})

	router.Group(func(r chi.Router) {
		r.Use(authenticated)

		r.Get("/accounts", h.ListAccounts)
		r.With(limited).Post("/accounts", h.CreateAccount)
		r.Get("/accounts/{number}", h.GetAccount)
		r.Get("/accounts/{number}/statement", h.Statement)
		r.Get("/accounts/{number}/statement.csv", h.StatementCSV)

		r.Route("/transactions", func(r chi.Router) {
			r.With(limited).Post("/deposit", h.Deposit)
			r.With(limited).Post("/withdraw", h.Withdraw)
			r.With(limited).Post("/transfer", h.Transfer)
			r.With(managerOnly).Get("/", h.ListTransactions)
		})

		r.With(managerOnly).Get("/users", h.ListUsers)
		r.With(managerOnly, limited).Post("/users", h.CreateUser)
		r.With(managerOnly).Get("/reports/summary", h.Summary)
	})

	router.Get("/ws/balances", h.WSBalances)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.Handle("/metrics", promhttp.Handler())
	return router
}

func splitOrigins(raw string) []string {
	origins := []string{}
	for _, origin := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
