package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/swiperight/swiperight-system/internal/model"
	"github.com/swiperight/swiperight-system/internal/repository"
)

const defaultPageSize = 20

// LookupOrCreateCard возвращает карту каталога по имени, создавая её при
// отсутствии. Второй результат сообщает, была ли карта создана этим вызовом.
func (s *Service) LookupOrCreateCard(ctx context.Context, name string, providedIssuer *string) (*model.Card, bool, error) {
	cardName := strings.TrimSpace(name)
	if cardName == "" {
		return nil, false, ErrCardNameRequired
	}

	card, err := s.repo.GetCardByName(ctx, cardName)
	if err == nil {
		if card.ImageURL == "" {
			card.ImageURL = fallbackImageURL(card.Name, card.Issuer)
		}
		return card, false, nil
	}
	if !errors.Is(err, repository.ErrCardNotFound) {
		return nil, false, err
	}

	newCard, categories := s.buildNewCard(ctx, cardName, providedIssuer)

	created, err := s.repo.CreateCard(ctx, newCard, categories)
	if err != nil {
		return nil, false, err
	}

	return created, true, nil
}

// buildNewCard собирает данные новой карты: сначала пробует внешний справочник,
// при недоступности выводит эмитента и платёжную систему из названия.
func (s *Service) buildNewCard(ctx context.Context, cardName string, providedIssuer *string) (model.Card, []model.CardCategory) {
	issuer, network := inferCardDetails(cardName, providedIssuer)

	card := model.Card{
		Name:     cardName,
		Issuer:   issuer,
		Network:  network,
		ImageURL: fallbackImageURL(cardName, issuer),
	}
	categories := []model.CardCategory{
		{Category: "Other", CashbackRate: 1.0},
	}

	meta, found, err := s.cardClient.Lookup(ctx, cardName)
	if err != nil || !found {
		return card, categories
	}

	card.Issuer = meta.Issuer
	card.Network = meta.Network
	card.AnnualFee = meta.AnnualFee
	card.Features = meta.Features
	card.WelcomeBonus = meta.WelcomeBonus
	card.CreditRange = meta.CreditRange
	card.ApplyURL = meta.ApplyURL
	if meta.ImageURL != "" {
		card.ImageURL = meta.ImageURL
	}

	if len(meta.Categories) > 0 {
		categories = categories[:0]
		for _, mc := range meta.Categories {
			cc := model.CardCategory{
				Category:     mc.Category,
				CashbackRate: mc.CashbackRate,
				IsRotating:   mc.IsRotating,
			}
			if mc.ValidUntil != nil {
				if d, err := time.Parse("2006-01-02", *mc.ValidUntil); err == nil {
					cc.ValidUntil = &d
				}
			}
			categories = append(categories, cc)
		}
	}

	return card, categories
}

// ListCards возвращает весь каталог карт.
func (s *Service) ListCards(ctx context.Context) ([]model.Card, error) {
	return s.repo.ListCards(ctx)
}

// SearchCards возвращает карты по подстроке имени или эмитента.
func (s *Service) SearchCards(ctx context.Context, query string) ([]model.Card, error) {
	return s.repo.SearchCards(ctx, query)
}

// GetCard возвращает карту каталога по идентификатору.
func (s *Service) GetCard(ctx context.Context, id int64) (*model.Card, error) {
	return s.repo.GetCardByID(ctx, id)
}

// ComprehensiveCards возвращает страницу каталога по фильтрам, общее число
// подходящих карт и отдельный список популярных карт.
func (s *Service) ComprehensiveCards(ctx context.Context, f model.CardFilter) ([]model.Card, int, []model.Card, error) {
	if f.Limit <= 0 {
		f.Limit = defaultPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	cards, total, err := s.repo.FilterCards(ctx, f)
	if err != nil {
		return nil, 0, nil, err
	}

	popular, err := s.repo.PopularCards(ctx)
	if err != nil {
		return nil, 0, nil, err
	}

	return cards, total, popular, nil
}

// inferCardDetails выводит эмитента и платёжную систему из названия карты.
// Явно переданный эмитент служит запасным значением, когда эвристика молчит.
func inferCardDetails(cardName string, providedIssuer *string) (string, string) {
	name := strings.ToLower(cardName)

	issuer := "Unknown"
	if providedIssuer != nil && *providedIssuer != "" {
		issuer = *providedIssuer
	}
	network := "Visa"

	switch {
	case strings.Contains(name, "chase"):
		issuer = "Chase"
	case strings.Contains(name, "amex"), strings.Contains(name, "american express"):
		issuer = "American Express"
		network = "American Express"
	case strings.Contains(name, "capital one"):
		issuer = "Capital One"
	case strings.Contains(name, "citi"):
		issuer = "Citi"
		network = "Mastercard"
	case strings.Contains(name, "discover"):
		issuer = "Discover"
		network = "Discover"
	case strings.Contains(name, "wells fargo"):
		issuer = "Wells Fargo"
	case strings.Contains(name, "bank of america"), strings.Contains(name, "boa"):
		issuer = "Bank of America"
	case strings.Contains(name, "us bank"):
		issuer = "US Bank"
	case strings.Contains(name, "barclays"):
		issuer = "Barclays"
	case strings.Contains(name, "synchrony"):
		issuer = "Synchrony"
	}

	return issuer, network
}

func fallbackImageURL(cardName, issuer string) string {
	return fmt.Sprintf("https://via.placeholder.com/300x190/1f2937/ffffff?text=%s+%s",
		url.QueryEscape(issuer), url.QueryEscape(cardName))
}
