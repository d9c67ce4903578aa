package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/swiperight/swiperight-system/internal/middleware"
	"github.com/swiperight/swiperight-system/internal/model"
)

type recommendationResponse struct {
	Card              cardResponse         `json:"card"`
	RelevantCategory  cardCategoryResponse `json:"relevantCategory"`
	IsInPortfolio     bool                 `json:"isInPortfolio"`
	PortfolioNickname *string              `json:"portfolioNickname,omitempty"`
	RelevantOffers    []offerResponse      `json:"relevantOffers"`
}

type recommendResponse struct {
	Cards                    []recommendationResponse `json:"cards"`
	PortfolioRecommendations []recommendationResponse `json:"portfolioRecommendations"`
	Category                 string                   `json:"category"`
}

// Recommend подбирает лучшие карты для категории трат. Аутентификация
// необязательна: с токеном ответ дополняется данными портфеля и предложениями.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	var userID *int64
	if id, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		userID = &id
	}

	all, owned, err := h.service.RecommendCards(r.Context(), userID, category)
	if err != nil {
		h.logger.Error("recommend cards error", zap.Error(err), zap.String("category", category))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, recommendResponse{
		Cards:                    toRecommendationResponses(all),
		PortfolioRecommendations: toRecommendationResponses(owned),
		Category:                 category,
	})
}

func toRecommendationResponses(recs []model.Recommendation) []recommendationResponse {
	resp := make([]recommendationResponse, 0, len(recs))
	for _, rec := range recs {
		resp = append(resp, recommendationResponse{
			Card:              toCardResponse(rec.Card),
			RelevantCategory:  toCategoryResponse(rec.RelevantCategory),
			IsInPortfolio:     rec.IsInPortfolio,
			PortfolioNickname: rec.PortfolioNickname,
			RelevantOffers:    toOfferResponses(rec.RelevantOffers),
		})
	}
	return resp
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
}

// Chat отвечает на вопрос пользователя о стратегии использования карт.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if req.Message == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	h.writeJSON(w, http.StatusOK, chatResponse{Response: h.service.Chat(r.Context(), req.Message)})
}
