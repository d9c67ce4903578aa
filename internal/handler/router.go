package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	custommiddleware "github.com/swiperight/swiperight-system/internal/middleware"
)

// SetupRouter настраивает HTTP-маршруты и middleware сервиса SwipeRight.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.Logger(h.logger))

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/oauth", h.OAuth)
		r.Get("/verify", h.Verify)
		r.Post("/forgot-password", h.ForgotPassword)
		r.Post("/reset-password", h.ResetPassword)
	})

	r.Route("/api/cards", func(r chi.Router) {
		r.Get("/", h.ListCards)
		r.Get("/search", h.SearchCards)
		r.Post("/add", h.AddCard)
		r.Get("/comprehensive", h.ComprehensiveCards)
		r.Get("/comprehensive/{cardID}", h.GetCard)

		r.Group(func(r chi.Router) {
			r.Use(h.authMiddleware.OptionalMiddleware)

			r.Get("/recommend", h.Recommend)
		})

		r.Group(func(r chi.Router) {
			r.Use(h.authMiddleware.Middleware)

			r.Get("/portfolio", h.GetPortfolio)
			r.Post("/portfolio", h.AddToPortfolio)
			r.Put("/portfolio/{portfolioID}", h.UpdatePortfolioEntry)
			r.Delete("/portfolio/{portfolioID}", h.RemoveFromPortfolio)

			r.Get("/merchant-offers", h.GetOffers)
			r.Get("/merchant-offers/relevant", h.GetRelevantOffers)
			r.Post("/merchant-offers/sync", h.SyncOffers)
			r.Post("/merchant-offers/{offerID}/activate", h.ActivateOffer)
			r.Post("/merchant-offers/{offerID}/use", h.UseOffer)
		})
	})

	r.Post("/api/ai/chat", h.Chat)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
