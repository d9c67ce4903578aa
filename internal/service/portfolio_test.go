package service

import (
	"context"
	"errors"
	"testing"

	"github.com/swiperight/swiperight-system/internal/model"
	"github.com/swiperight/swiperight-system/internal/repository"
)

func TestAddToPortfolio_UnknownCard(t *testing.T) {
	svc := newTestService(&stubRepo{cardExists: false})

	_, err := svc.AddToPortfolio(context.Background(), 1, 99, nil, nil)
	if !errors.Is(err, repository.ErrCardNotFound) {
		t.Fatalf("expected ErrCardNotFound, got %v", err)
	}
}

func TestAddToPortfolio_Duplicate(t *testing.T) {
	svc := newTestService(&stubRepo{cardExists: true, portfolioEntryExists: true})

	_, err := svc.AddToPortfolio(context.Background(), 1, 7, nil, nil)
	if !errors.Is(err, repository.ErrPortfolioExists) {
		t.Fatalf("expected ErrPortfolioExists, got %v", err)
	}
}

func TestAddToPortfolio_OK(t *testing.T) {
	entry := &model.PortfolioEntry{ID: 3, UserID: 1, Card: model.Card{ID: 7, Name: "Card"}}
	svc := newTestService(&stubRepo{cardExists: true, addedEntry: entry})

	got, err := svc.AddToPortfolio(context.Background(), 1, 7, nil, nil)
	if err != nil {
		t.Fatalf("AddToPortfolio error: %v", err)
	}
	if got.ID != 3 || got.Card.ID != 7 {
		t.Fatalf("unexpected entry: %+v", got)
	}
}
