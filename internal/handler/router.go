/*
Package handler provides the HTTP handlers and routing setup for the lobby server.

This file defines the main Router, applying logging, CORS, metrics, and
IP-based rate limiting before delegating to the API and websocket handlers.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"lobbyd/internal/pkg/limiter"
	"lobbyd/internal/pkg/logx"
	"lobbyd/internal/pkg/metrics"
	"lobbyd/internal/pkg/resp"
)

const (
	SignUpRate   = 0.05
	SignUpBurst  = 2
	SignInRate   = 0.2
	SignInBurst  = 5
	CreateRate   = 0.1
	CreateBurst  = 3
	UpgradeRate  = 0.5
	UpgradeBurst = 5
)

// Router sets up the chi routing table for the application.
func Router(deps *AppDeps) http.Handler {
	signUpLimiter := limiter.NewIPRateLimiter(rate.Limit(SignUpRate), SignUpBurst)
	signInLimiter := limiter.NewIPRateLimiter(rate.Limit(SignInRate), SignInBurst)
	createLimiter := limiter.NewIPRateLimiter(rate.Limit(CreateRate), CreateBurst)
	upgradeLimiter := limiter.NewIPRateLimiter(rate.Limit(UpgradeRate), UpgradeBurst)

	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	wsUpgrader := websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.Environment == "development" {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.Environment == "development" {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(metrics.Middleware)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		data := map[string]string{
			"status":  "ok",
			"service": "lobbyd",
		}
		resp.RespondSuccess(w, r, data)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Post("/sign-up", signUpLimiter.Middleware(HandleSignUp(deps)).ServeHTTP)
	r.Post("/sign-in", signInLimiter.Middleware(HandleSignIn(deps)).ServeHTTP)

	r.Get("/rooms", HandleListRooms(deps))

	r.Group(func(api chi.Router) {
		api.Use(deps.Auth.RequireAuth)

		rateLimitedCreate := createLimiter.Middleware(HandleCreateRoom(deps))
		api.Post("/rooms", rateLimitedCreate.ServeHTTP)
		api.Post("/rooms/join", HandleJoinRoom(deps))
	})

	r.Get("/ws", HandleWebSocket(wsUpgrader, upgradeLimiter, deps))

	return r
}
