package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/napatsiri/go-biolink/pkg/adapters/handler"
	"github.com/napatsiri/go-biolink/pkg/adapters/notify"
	"github.com/napatsiri/go-biolink/pkg/adapters/repository/sqlite"
	"github.com/napatsiri/go-biolink/pkg/config"
	"github.com/napatsiri/go-biolink/pkg/core/services"
)

var mux http.Handler

func init() {
	cfg := config.Load()

	// Note: On Vercel, db.sqlite is ephemeral unless using a remote SQL/Turso URL in DATABASE_URL
	repo, err := sqlite.NewSQLiteRepository(cfg.DatabaseURL)
	if err != nil {
		// Log but don't fatal, let internal error happen on request if crucial
		panic(err)
	}

	logger := zap.NewNop()
	hub := notify.NewHub(logger)
	entryService := services.NewEntryService(repo, hub)
	profileService := services.NewProfileService(repo, repo, hub)
	marketService := services.NewMarketService(repo)
	accountService := services.NewAccountService(repo)
	mux = handler.NewRouter(cfg, entryService, profileService, marketService, accountService, hub, logger)
}

// Handler is the entrypoint for Vercel
func Handler(w http.ResponseWriter, r *http.Request) {
	mux.ServeHTTP(w, r)
}
