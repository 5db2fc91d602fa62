package server

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/lukas-walker/solarkalender/internal/handler/health"
)

func addRoutes(r chi.Router, logger *slog.Logger, gen Generator, checks map[string]health.Checker, opts Options) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Solarkalender API", "/openapi.json", "/docs"))
	r.Get("/health", handleHealth())
	r.Mount("/healthz", health.NewHandler(logger, checks).Routes())
	r.Get("/favicon.ico", handleFavicon())

	r.Post("/generate", handleGenerate(logger, gen, opts.MaxRangeDays))

	if opts.StaticDir == "" {
		return
	}
	if info, err := os.Stat(opts.StaticDir); err != nil || !info.IsDir() {
		logger.Warn("static dir not found, UI disabled", "dir", opts.StaticDir)
		return
	}
	logger.Info("serving UI", "dir", opts.StaticDir)
	r.Get("/", handleIndex(opts.StaticDir))
	r.Get("/static/*", handleStatic(opts.StaticDir))
}
