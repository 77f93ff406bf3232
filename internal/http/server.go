package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/brusiqueira9/expense-guru/internal/auth"
	"github.com/brusiqueira9/expense-guru/internal/cache"
	"github.com/brusiqueira9/expense-guru/internal/config"
	"github.com/brusiqueira9/expense-guru/internal/core"
	"github.com/brusiqueira9/expense-guru/internal/log"
	"github.com/brusiqueira9/expense-guru/internal/services"
	"github.com/brusiqueira9/expense-guru/internal/storage"
)

// Server is the HTTP API. It embeds http.Server so callers use the usual
// ListenAndServe and Shutdown.
type Server struct {
	http.Server

	logger       *log.Logger
	authService  *auth.Service
	users        *storage.SQLiteRepository
	transactions *services.TransactionService
	goals        *services.GoalService
	limiter      *rateLimiter

	summaryCache *cache.LRUCache[core.Summary]
	listCache    *cache.LRUCache[[]core.Transaction]
	cacheManager *cache.Manager
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(cfg *config.Config, logger *log.Logger, authService *auth.Service, users *storage.SQLiteRepository, transactions *services.TransactionService, goals *services.GoalService) *Server {
	s := &Server{
		logger:       logger.WithComponent(log.ComponentHTTP),
		authService:  authService,
		users:        users,
		transactions: transactions,
		goals:        goals,
		limiter:      newRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		summaryCache: cache.NewLRUCache[core.Summary](100, 5*time.Minute),
		listCache:    cache.NewLRUCache[[]core.Transaction](200, 5*time.Minute),
		cacheManager: cache.NewManager(),
	}

	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.Register(s.listCache)
	s.cacheManager.StartCleanup(time.Minute)

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(log.Middleware(s.logger))
	r.Use(securityHeaders)
	r.Use(s.limiter.middleware)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/refresh", s.handleRefresh)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Post("/auth/logout", s.handleLogout)

			r.Get("/transactions", s.handleListTransactions)
			r.Post("/transactions", s.handleCreateTransaction)
			r.Get("/transactions/{id}", s.handleGetTransaction)
			r.Delete("/transactions/{id}", s.handleDeleteTransaction)
			r.Get("/transactions/summary", s.handleSummary)

			r.Get("/categories", s.handleListCategories)
			r.Post("/categories", s.handleCreateCategory)

			r.Get("/goals", s.handleListGoals)
			r.Post("/goals", s.handleCreateGoal)
			r.Get("/goals/{id}", s.handleGetGoal)
			r.Put("/goals/{id}", s.handleUpdateGoal)
			r.Delete("/goals/{id}", s.handleDeleteGoal)
			r.Post("/goals/{id}/contribute", s.handleContribute)
		})
	})

	s.Server = http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Shutdown stops the listener and the background cleanup loops.
func (s *Server) Shutdown(ctx context.Context) error {
	s.cacheManager.Stop()
	s.limiter.stop()
	return s.Server.Shutdown(ctx)
}

// invalidateUserCaches drops cached views after any write for the user.
func (s *Server) invalidateUserCaches(userID string) {
	s.summaryCache.DeletePrefix(userID + ":")
	s.listCache.DeletePrefix(userID + ":")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
