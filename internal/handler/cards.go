package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/swiperight/swiperight-system/internal/model"
	"github.com/swiperight/swiperight-system/internal/repository"
	"github.com/swiperight/swiperight-system/internal/service"
)

// ListCards возвращает весь каталог карт.
func (h *Handler) ListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.service.ListCards(r.Context())
	if err != nil {
		h.logger.Error("list cards error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, struct {
		Cards []cardResponse `json:"cards"`
	}{Cards: toCardResponses(cards)})
}

// SearchCards возвращает карты по подстроке имени или эмитента.
func (h *Handler) SearchCards(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		query = r.URL.Query().Get("q")
	}

	cards, err := h.service.SearchCards(r.Context(), query)
	if err != nil {
		h.logger.Error("search cards error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, struct {
		Cards []cardResponse `json:"cards"`
	}{Cards: toCardResponses(cards)})
}

type addCardRequest struct {
	Name   string  `json:"name"`
	Issuer *string `json:"issuer,omitempty"`
}

type addCardResponse struct {
	Card  cardResponse `json:"card"`
	IsNew bool         `json:"isNew"`
}

// AddCard возвращает карту каталога по имени, создавая её при отсутствии.
func (h *Handler) AddCard(w http.ResponseWriter, r *http.Request) {
	var req addCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	card, isNew, err := h.service.LookupOrCreateCard(r.Context(), req.Name, req.Issuer)
	if err != nil {
		if errors.Is(err, service.ErrCardNameRequired) {
			http.Error(w, "Card name is required", http.StatusBadRequest)
			return
		}
		h.logger.Error("add card error", zap.Error(err), zap.String("name", req.Name))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, addCardResponse{Card: toCardResponse(*card), IsNew: isNew})
}

type comprehensiveResponse struct {
	Cards        []cardResponse `json:"cards"`
	TotalCount   int            `json:"totalCount"`
	PopularCards []cardResponse `json:"popularCards"`
}

// ComprehensiveCards возвращает страницу каталога по набору независимых фильтров.
func (h *Handler) ComprehensiveCards(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := model.CardFilter{
		Query:    q.Get("query"),
		Issuer:   q.Get("issuer"),
		Network:  q.Get("network"),
		Category: q.Get("category"),
	}

	if v := q.Get("maxAnnualFee"); v != "" {
		fee, err := strconv.ParseFloat(v, 64)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		filter.MaxAnnualFee = &fee
	}
	if v := q.Get("minCashback"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		filter.MinCashback = &rate
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		filter.Limit = limit
	}
	if v := q.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		filter.Offset = offset
	}

	cards, total, popular, err := h.service.ComprehensiveCards(r.Context(), filter)
	if err != nil {
		h.logger.Error("comprehensive cards error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, comprehensiveResponse{
		Cards:        toCardResponses(cards),
		TotalCount:   total,
		PopularCards: toCardResponses(popular),
	})
}

// GetCard возвращает карту каталога по идентификатору.
func (h *Handler) GetCard(w http.ResponseWriter, r *http.Request) {
	cardID, err := strconv.ParseInt(chi.URLParam(r, "cardID"), 10, 64)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	card, err := h.service.GetCard(r.Context(), cardID)
	if err != nil {
		if errors.Is(err, repository.ErrCardNotFound) {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}
		h.logger.Error("get card error", zap.Error(err), zap.Int64("cardID", cardID))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, struct {
		Card cardResponse `json:"card"`
	}{Card: toCardResponse(*card)})
}
