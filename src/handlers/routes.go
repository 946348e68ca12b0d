package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"golang.org/x/time/rate"

	"github.com/username/tradejournal/src/config"
	"github.com/username/tradejournal/src/logger"
)

// NewRouter wires the API routes and the global middleware.
func NewRouter(cfg *config.AppConfig, importHandler *ImportHandler, tradeHandler *TradeHandler) http.Handler {
	apiRouter := http.NewServeMux()
	apiRouter.HandleFunc("POST /api/imports/preview", importHandler.HandlePreview)
	apiRouter.HandleFunc("POST /api/imports", importHandler.HandleCommit)
	apiRouter.HandleFunc("GET /api/imports/latest", importHandler.HandleGetLatest)
	apiRouter.HandleFunc("GET /api/imports/{id}", importHandler.HandleGetJob)
	apiRouter.HandleFunc("DELETE /api/imports/{id}/trades", importHandler.HandleDeleteImportTrades)
	apiRouter.HandleFunc("GET /api/trades", tradeHandler.HandleListTrades)
	apiRouter.HandleFunc("GET /api/trades/export", tradeHandler.HandleExportTrades)

	rootMux := http.NewServeMux()
	rootMux.Handle("/api/", AccountMiddleware(cfg.DefaultAccountID)(apiRouter))
	rootMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" && r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"message": "Trade journal import API is running"})
			return
		}
		if !strings.HasPrefix(r.URL.Path, "/api/") {
			logger.L.Warn("Root level path not found", "method", r.Method, "path", r.URL.Path)
		}
		http.NotFound(w, r)
	})

	limiter := rate.NewLimiter(rate.Every(cfg.RateLimitInterval), cfg.RateLimitBurst)
	return Chain(rootMux,
		RequestLogger,
		CORSMiddleware(cfg.AllowedOrigins),
		RateLimitMiddleware(limiter),
	)
}
