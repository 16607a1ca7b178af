package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/napatsiri/go-biolink/pkg/adapters/notify"
	"github.com/napatsiri/go-biolink/pkg/config"
	"github.com/napatsiri/go-biolink/pkg/ports"
)

// NewRouter creates and configures the main application router
func NewRouter(
	cfg *config.Config,
	entries ports.EntryService,
	profiles ports.ProfileService,
	market ports.MarketService,
	accounts ports.AccountService,
	hub *notify.Hub,
	logger *zap.Logger,
) http.Handler {
	// Initialize Handlers
	eh := NewEntryHandler(entries)
	ph := NewProfileHandler(profiles)
	mh := NewMarketHandler(market)
	wh := NewWSHandler(hub, logger)

	// Initialize Middleware
	mw := NewMiddleware(cfg)

	// Initialize Auth Handler
	authHandler := NewAuthHandler(cfg, accounts, logger)

	// Setup Router
	mux := http.NewServeMux()

	// Public Routes
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		res := map[string]string{
			"message": "ok",
		}
		_ = json.NewEncoder(w).Encode(&res)
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /u/{username}", ph.GetPublicPage)
	mux.HandleFunc("GET /api/v1/marketplace", mh.Listings)
	mux.HandleFunc("GET /api/v1/templates", ph.Templates)
	mux.HandleFunc("POST /api/v1/auth/signup", authHandler.Signup)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.LoginPassword)
	mux.HandleFunc("GET /auth/google/login", authHandler.Login)
	mux.HandleFunc("GET /auth/google/callback", authHandler.Callback)
	mux.HandleFunc("GET /auth/logout", authHandler.Logout)

	// Protected Routes (API & Dashboard)
	protectedMux := http.NewServeMux()
	protectedMux.HandleFunc("GET /api/v1/entries", eh.List)
	protectedMux.HandleFunc("POST /api/v1/entries", eh.Create)
	protectedMux.HandleFunc("PUT /api/v1/entries/reorder", eh.Reorder)
	protectedMux.HandleFunc("PATCH /api/v1/entries/{id}", eh.Update)
	protectedMux.HandleFunc("DELETE /api/v1/entries/{id}", eh.Delete)

	protectedMux.HandleFunc("GET /api/v1/profile", ph.Get)
	protectedMux.HandleFunc("PUT /api/v1/profile", ph.Update)
	protectedMux.HandleFunc("PUT /api/v1/profile/template", ph.SetTemplate)

	protectedMux.HandleFunc("GET /api/v1/social-links", ph.ListSocialLinks)
	protectedMux.HandleFunc("POST /api/v1/social-links", ph.AddSocialLink)
	protectedMux.HandleFunc("PUT /api/v1/social-links/{id}", ph.UpdateSocialLink)
	protectedMux.HandleFunc("DELETE /api/v1/social-links/{id}", ph.RemoveSocialLink)

	protectedMux.HandleFunc("POST /api/v1/feedback", mh.SubmitFeedback)
	protectedMux.HandleFunc("GET /api/v1/subscribe", wh.Subscribe)

	// Apply Middleware to Protected Routes. The public /api/v1/ endpoints
	// above are registered on the outer mux, which wins on the longer
	// pattern, so only the rest falls through to the protected mux.
	mux.Handle("/api/v1/", mw.AuthMiddleware(protectedMux))

	return mux
}
