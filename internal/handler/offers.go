package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/swiperight/swiperight-system/internal/middleware"
	"github.com/swiperight/swiperight-system/internal/model"
	"github.com/swiperight/swiperight-system/internal/repository"
)

// GetOffers возвращает действующие предложения мерчантов текущего пользователя.
func (h *Handler) GetOffers(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	offers, err := h.service.ActiveOffers(r.Context(), userID)
	if err != nil {
		h.logger.Error("get offers error", zap.Error(err), zap.Int64("userID", userID))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, struct {
		Offers []offerResponse `json:"offers"`
	}{Offers: toOfferResponses(offers)})
}

// GetRelevantOffers возвращает предложения, подходящие под категорию трат.
func (h *Handler) GetRelevantOffers(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	category := r.URL.Query().Get("category")
	if category == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	offers, err := h.service.RelevantOffers(r.Context(), userID, category)
	if err != nil {
		h.logger.Error("get relevant offers error", zap.Error(err), zap.Int64("userID", userID))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, struct {
		Offers []offerResponse `json:"offers"`
	}{Offers: toOfferResponses(offers)})
}

type syncOfferRequest struct {
	CardID           int64    `json:"cardId"`
	MerchantName     string   `json:"merchantName"`
	OfferDescription string   `json:"offerDescription"`
	CashbackRate     *float64 `json:"cashbackRate,omitempty"`
	CashbackAmount   *float64 `json:"cashbackAmount,omitempty"`
	MinimumSpend     *float64 `json:"minimumSpend,omitempty"`
	MaximumCashback  *float64 `json:"maximumCashback,omitempty"`
	OfferType        *string  `json:"offerType,omitempty"`
	StartDate        *string  `json:"startDate,omitempty"`
	EndDate          *string  `json:"endDate,omitempty"`
	IsActivated      *bool    `json:"isActivated,omitempty"`
}

type syncOffersRequest struct {
	Offers []syncOfferRequest `json:"offers"`
}

type syncOffersResponse struct {
	Synced  int `json:"synced"`
	Updated int `json:"updated"`
}

// SyncOffers принимает пакет предложений мерчантов из расширения браузера.
func (h *Handler) SyncOffers(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var req syncOffersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	batch := make([]model.OfferUpsert, 0, len(req.Offers))
	for _, o := range req.Offers {
		if o.CardID <= 0 || o.MerchantName == "" || o.OfferDescription == "" {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		upsert := model.OfferUpsert{
			CardID:           o.CardID,
			MerchantName:     o.MerchantName,
			OfferDescription: o.OfferDescription,
			CashbackRate:     o.CashbackRate,
			CashbackAmount:   o.CashbackAmount,
			MinimumSpend:     o.MinimumSpend,
			MaximumCashback:  o.MaximumCashback,
			OfferType:        o.OfferType,
			IsActivated:      o.IsActivated,
		}
		if o.StartDate != nil {
			d, err := time.Parse(dateLayout, *o.StartDate)
			if err != nil {
				http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
				return
			}
			upsert.StartDate = &d
		}
		if o.EndDate != nil {
			d, err := time.Parse(dateLayout, *o.EndDate)
			if err != nil {
				http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
				return
			}
			upsert.EndDate = &d
		}

		batch = append(batch, upsert)
	}

	auditData, err := json.Marshal(req.Offers)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	synced, updated, err := h.service.SyncOffers(r.Context(), userID, batch, auditData)
	if err != nil {
		h.logger.Error("sync offers error", zap.Error(err), zap.Int64("userID", userID))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, syncOffersResponse{Synced: synced, Updated: updated})
}

// ActivateOffer помечает предложение активированным.
func (h *Handler) ActivateOffer(w http.ResponseWriter, r *http.Request) {
	h.offerAction(w, r, h.service.ActivateOffer)
}

// UseOffer помечает предложение использованным.
func (h *Handler) UseOffer(w http.ResponseWriter, r *http.Request) {
	h.offerAction(w, r, h.service.UseOffer)
}

func (h *Handler) offerAction(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, userID, offerID int64) error) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	offerID, err := strconv.ParseInt(chi.URLParam(r, "offerID"), 10, 64)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if err := action(r.Context(), userID, offerID); err != nil {
		if errors.Is(err, repository.ErrOfferNotFound) {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}
		h.logger.Error("offer action error", zap.Error(err), zap.Int64("userID", userID), zap.Int64("offerID", offerID))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
	}{Success: true})
}
