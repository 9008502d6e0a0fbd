package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abdev500/lendahand/internal/lifecycle"
	"github.com/abdev500/lendahand/internal/middleware"
)

// SetupRouter настраивает маршруты API сервиса краудфандинга.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.GzipMiddleware)
	r.Use(middleware.Logger(h.logger))

	r.Route("/api", func(r chi.Router) {
		r.Route("/user", func(r chi.Router) {
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
			r.Post("/password-reset", h.RequestPasswordReset)
			r.Post("/password-reset/confirm", h.ConfirmPasswordReset)

			r.Group(func(r chi.Router) {
				r.Use(h.authMiddleware.Middleware)

				r.Get("/me", h.Me)
				r.Post("/logout", h.Logout)
				r.Get("/campaigns", h.ListOwnCampaigns)
				r.Get("/stripe/status", h.StripeStatus)
				r.Post("/stripe/onboard", h.StripeOnboard)
			})
		})

		r.Route("/campaigns", func(r chi.Router) {
			// Каталог и страница кампании открыты, но авторизованный
			// наблюдатель получает расширенные права.
			r.Group(func(r chi.Router) {
				r.Use(h.authMiddleware.Optional)

				r.Get("/", h.ListCampaigns)
				r.Get("/{campaignID}", h.GetCampaign)
				r.Get("/{campaignID}/donations", h.ListDonations)
			})

			// Пожертвования анонимны, учётная запись не требуется.
			r.Post("/{campaignID}/donations/checkout", h.CreateDonationCheckout)
			r.Post("/{campaignID}/donations/confirm", h.ConfirmDonation)

			r.Group(func(r chi.Router) {
				r.Use(h.authMiddleware.Middleware)

				r.Post("/", h.CreateCampaign)
				r.Put("/{campaignID}", h.UpdateCampaign)
				r.Get("/{campaignID}/history", h.ModerationHistory)

				r.Post("/{campaignID}/submit", h.campaignAction(lifecycle.ActionSubmit))
				r.Post("/{campaignID}/cancel", h.campaignAction(lifecycle.ActionCancel))
				r.Post("/{campaignID}/suspend", h.campaignAction(lifecycle.ActionSuspend))
				r.Post("/{campaignID}/resume", h.campaignAction(lifecycle.ActionResume))
				r.Post("/{campaignID}/approve", h.campaignAction(lifecycle.ActionApprove))
				r.Post("/{campaignID}/reject", h.campaignAction(lifecycle.ActionReject))
			})
		})

		r.Route("/moderation", func(r chi.Router) {
			r.Use(h.authMiddleware.Middleware)

			r.Get("/campaigns", h.ModerationQueue)
		})

		r.Route("/news", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(h.authMiddleware.Optional)

				r.Get("/", h.ListNews)
				r.Get("/{newsID}", h.GetNews)
			})

			r.Group(func(r chi.Router) {
				r.Use(h.authMiddleware.Middleware)

				r.Post("/", h.CreateNews)
				r.Put("/{newsID}", h.UpdateNews)
				r.Delete("/{newsID}", h.DeleteNews)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
	})

	return r
}
