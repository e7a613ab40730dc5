package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/chatkit/core/guard"
)

// Router assembles the /api/auth surface: public auth endpoints plus the
// guarded group behind the session guard middleware.
func Router(h *Handler, g *guard.Guard, log *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/signup", h.Signup)
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)

		r.Group(func(r chi.Router) {
			r.Use(g.Middleware(log))
			r.Get("/check", h.Check)
			r.Put("/update-profile", h.UpdateProfile)
		})
	})

	return r
}
