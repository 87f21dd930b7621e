package server

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(s.device)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Get("/books", s.handleBooks)
			r.Get("/sorts", s.handleSorts)

			r.Get("/stack", s.handleStack)
			r.Put("/stack", s.handleUpdateStack)
			r.Get("/stack.svg", s.handleStackSVG)

			r.Get("/focus", s.handleFocus)
			r.Delete("/focus", s.handleClearFocus)
			r.Put("/focus/{id}", s.handleSetFocus)
			r.Post("/focus/{id}/click", s.handleClick)
		})
	})
	return r
}
