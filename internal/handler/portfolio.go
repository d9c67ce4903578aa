package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/swiperight/swiperight-system/internal/middleware"
	"github.com/swiperight/swiperight-system/internal/repository"
)

// GetPortfolio возвращает портфель текущего пользователя.
func (h *Handler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	entries, err := h.service.Portfolio(r.Context(), userID)
	if err != nil {
		h.logger.Error("get portfolio error", zap.Error(err), zap.Int64("userID", userID))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	resp := make([]portfolioEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, toPortfolioEntryResponse(e))
	}

	h.writeJSON(w, http.StatusOK, struct {
		Portfolio []portfolioEntryResponse `json:"portfolio"`
	}{Portfolio: resp})
}

type addPortfolioRequest struct {
	CardID      int64    `json:"cardId"`
	Nickname    *string  `json:"nickname,omitempty"`
	CreditLimit *float64 `json:"creditLimit,omitempty"`
}

// AddToPortfolio добавляет карту каталога в портфель текущего пользователя.
func (h *Handler) AddToPortfolio(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var req addPortfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if req.CardID <= 0 {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	entry, err := h.service.AddToPortfolio(r.Context(), userID, req.CardID, req.Nickname, req.CreditLimit)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrCardNotFound):
			http.Error(w, "Card not found", http.StatusNotFound)
		case errors.Is(err, repository.ErrPortfolioExists):
			http.Error(w, "Card is already in portfolio", http.StatusConflict)
		default:
			h.logger.Error("add to portfolio error", zap.Error(err), zap.Int64("userID", userID), zap.Int64("cardID", req.CardID))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
		return
	}

	h.writeJSON(w, http.StatusOK, struct {
		Entry portfolioEntryResponse `json:"entry"`
	}{Entry: toPortfolioEntryResponse(*entry)})
}

type updatePortfolioRequest struct {
	Nickname       *string  `json:"nickname,omitempty"`
	CreditLimit    *float64 `json:"creditLimit,omitempty"`
	CurrentBalance *float64 `json:"currentBalance,omitempty"`
	IsActive       *bool    `json:"isActive,omitempty"`
}

// UpdatePortfolioEntry выполняет частичное обновление записи портфеля.
func (h *Handler) UpdatePortfolioEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	entryID, err := strconv.ParseInt(chi.URLParam(r, "portfolioID"), 10, 64)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	var req updatePortfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	entry, err := h.service.UpdatePortfolioEntry(r.Context(), userID, entryID, req.Nickname, req.CreditLimit, req.CurrentBalance, req.IsActive)
	if err != nil {
		if errors.Is(err, repository.ErrPortfolioNotFound) {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}
		h.logger.Error("update portfolio error", zap.Error(err), zap.Int64("userID", userID), zap.Int64("entryID", entryID))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, struct {
		Entry portfolioEntryResponse `json:"entry"`
	}{Entry: toPortfolioEntryResponse(*entry)})
}

// RemoveFromPortfolio удаляет запись из портфеля текущего пользователя.
func (h *Handler) RemoveFromPortfolio(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	entryID, err := strconv.ParseInt(chi.URLParam(r, "portfolioID"), 10, 64)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if err := h.service.RemoveFromPortfolio(r.Context(), userID, entryID); err != nil {
		if errors.Is(err, repository.ErrPortfolioNotFound) {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}
		h.logger.Error("remove from portfolio error", zap.Error(err), zap.Int64("userID", userID), zap.Int64("entryID", entryID))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
	}{Success: true})
}
