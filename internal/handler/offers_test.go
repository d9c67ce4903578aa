package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/swiperight/swiperight-system/internal/repository"
)

func TestSyncOffers_Counts(t *testing.T) {
	svc := &stubService{synced: 2, updated: 1}
	h := newTestHandler(t, svc)
	router := h.SetupRouter()

	body, _ := json.Marshal(syncOffersRequest{
		Offers: []syncOfferRequest{
			{CardID: 1, MerchantName: "Amazon", OfferDescription: "5% back"},
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/cards/merchant-offers/sync", bytes.NewReader(body))
	req.Header.Set("Authorization", bearerToken(t, 1))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp syncOffersResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Synced != 2 || resp.Updated != 1 {
		t.Fatalf("synced = %d, updated = %d, want 2 and 1", resp.Synced, resp.Updated)
	}
}

func TestSyncOffers_MissingMerchant(t *testing.T) {
	h := newTestHandler(t, &stubService{})
	router := h.SetupRouter()

	body, _ := json.Marshal(syncOffersRequest{
		Offers: []syncOfferRequest{
			{CardID: 1, OfferDescription: "5% back"},
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/cards/merchant-offers/sync", bytes.NewReader(body))
	req.Header.Set("Authorization", bearerToken(t, 1))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestSyncOffers_BadDate(t *testing.T) {
	h := newTestHandler(t, &stubService{})
	router := h.SetupRouter()

	end := "not-a-date"
	body, _ := json.Marshal(syncOffersRequest{
		Offers: []syncOfferRequest{
			{CardID: 1, MerchantName: "Amazon", OfferDescription: "5% back", EndDate: &end},
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/cards/merchant-offers/sync", bytes.NewReader(body))
	req.Header.Set("Authorization", bearerToken(t, 1))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestActivateOffer_NotFound(t *testing.T) {
	svc := &stubService{activateErr: repository.ErrOfferNotFound}
	h := newTestHandler(t, svc)
	router := h.SetupRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/cards/merchant-offers/42/activate", nil)
	req.Header.Set("Authorization", bearerToken(t, 1))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestUseOffer_OK(t *testing.T) {
	h := newTestHandler(t, &stubService{})
	router := h.SetupRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/cards/merchant-offers/42/use", nil)
	req.Header.Set("Authorization", bearerToken(t, 1))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), `"success":true`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestGetRelevantOffers_RequiresCategory(t *testing.T) {
	h := newTestHandler(t, &stubService{})
	router := h.SetupRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/cards/merchant-offers/relevant", nil)
	req.Header.Set("Authorization", bearerToken(t, 1))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
