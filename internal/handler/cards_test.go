package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/swiperight/swiperight-system/internal/model"
	"github.com/swiperight/swiperight-system/internal/repository"
	"github.com/swiperight/swiperight-system/internal/service"
)

func TestAddCard_EmptyName(t *testing.T) {
	svc := &stubService{lookupErr: service.ErrCardNameRequired}
	h := newTestHandler(t, svc)

	body, _ := json.Marshal(addCardRequest{Name: "   "})

	req := httptest.NewRequest(http.MethodPost, "/api/cards/add", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.AddCard(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestAddCard_ReturnsIsNew(t *testing.T) {
	svc := &stubService{
		lookupCard: &model.Card{
			ID:     5,
			Name:   "Citi Double Cash",
			Issuer: "Citi",
			Categories: []model.CardCategory{
				{ID: 1, Category: "Other", CashbackRate: 1},
			},
		},
		lookupIsNew: true,
	}
	h := newTestHandler(t, svc)

	body, _ := json.Marshal(addCardRequest{Name: "Citi Double Cash"})

	req := httptest.NewRequest(http.MethodPost, "/api/cards/add", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.AddCard(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp addCardResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.IsNew {
		t.Fatal("expected isNew = true")
	}
	if resp.Card.ID != 5 || len(resp.Card.Categories) != 1 {
		t.Fatalf("unexpected card: %+v", resp.Card)
	}
}

func TestGetCard_NotFound(t *testing.T) {
	svc := &stubService{getCardErr: repository.ErrCardNotFound}
	h := newTestHandler(t, svc)

	router := h.SetupRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/cards/comprehensive/99", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestComprehensiveCards_BadLimit(t *testing.T) {
	h := newTestHandler(t, &stubService{})

	req := httptest.NewRequest(http.MethodGet, "/api/cards/comprehensive?limit=abc", nil)
	rec := httptest.NewRecorder()

	h.ComprehensiveCards(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestComprehensiveCards_Response(t *testing.T) {
	svc := &stubService{
		filterCards: []model.Card{{ID: 1, Name: "Card A"}},
		filterTotal: 37,
		filterPopular: []model.Card{
			{ID: 2, Name: "Card B", IsPopular: true},
		},
	}
	h := newTestHandler(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/cards/comprehensive?issuer=Chase&maxAnnualFee=95", nil)
	rec := httptest.NewRecorder()

	h.ComprehensiveCards(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp comprehensiveResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TotalCount != 37 {
		t.Fatalf("totalCount = %d, want 37", resp.TotalCount)
	}
	if len(resp.Cards) != 1 || len(resp.PopularCards) != 1 {
		t.Fatalf("unexpected lists: %d cards, %d popular", len(resp.Cards), len(resp.PopularCards))
	}
}

func TestListCards_EmptyCatalog(t *testing.T) {
	h := newTestHandler(t, &stubService{})

	req := httptest.NewRequest(http.MethodGet, "/api/cards/", nil)
	rec := httptest.NewRecorder()

	h.ListCards(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if body := rec.Body.String(); !strings.Contains(body, `"cards":[]`) {
		t.Fatalf("expected empty cards array, got %s", body)
	}
}
