package api

import (
	"chebyshev-board/internal/api/handlers"
	"chebyshev-board/internal/i18n"
	"chebyshev-board/internal/ports"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterDeps carries the adapters and settings the HTTP handlers depend on.
// Store, Cache and Generator may be nil.
type RouterDeps struct {
	Store      ports.WaypointStore
	Cache      ports.ExplanationCache
	Generator  ports.ExplanationGenerator
	Translator *i18n.Translator

	BoardSize      int
	ExplanationTTL time.Duration
	Concurrency    int
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		requestIDMiddleware,
		loggingMiddleware,
		middleware.Recoverer,
	)
	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	boardHandler := &handlers.BoardHandler{
		Store:      deps.Store,
		Translator: deps.Translator,
		BoardSize:  deps.BoardSize,
	}
	explanationHandler := &handlers.ExplanationHandler{
		Cache:       deps.Cache,
		Generator:   deps.Generator,
		Translator:  deps.Translator,
		TTL:         deps.ExplanationTTL,
		Concurrency: deps.Concurrency,
	}
	languageHandler := &handlers.LanguageHandler{Translator: deps.Translator}

	r.Get("/health", handlers.Health)
	r.Get("/languages", languageHandler.List)
	r.Route("/board", func(r chi.Router) {
		r.Post("/analyze", boardHandler.Analyze)
		r.Get("/last", boardHandler.Last)
	})
	r.Post("/explanations", explanationHandler.Explain)

	return r
}
