package service

import (
	"context"
	"strings"

	"github.com/swiperight/swiperight-system/internal/model"
)

// RecommendCards подбирает лучшие карты для категории трат. Возвращает два
// списка по убыванию релевантной ставки: все подходящие карты и подмножество
// из портфеля пользователя. Для анонимного запроса userID равен nil.
func (s *Service) RecommendCards(ctx context.Context, userID *int64, category string) ([]model.Recommendation, []model.Recommendation, error) {
	all := []model.Recommendation{}
	owned := []model.Recommendation{}

	term := strings.TrimSpace(category)
	if term == "" {
		return all, owned, nil
	}

	matches, err := s.repo.GetCategoryMatches(ctx, term)
	if err != nil {
		return nil, nil, err
	}
	if len(matches) == 0 {
		return all, owned, nil
	}

	// Строки отсортированы по убыванию ставки: первая встреченная категория
	// карты и есть её релевантная категория, порядок карт сохраняется.
	var orderedIDs []int64
	relevant := make(map[int64]model.CardCategory)
	for _, m := range matches {
		if _, seen := relevant[m.CardID]; seen {
			continue
		}
		relevant[m.CardID] = m.Category
		orderedIDs = append(orderedIDs, m.CardID)
	}

	cards, err := s.repo.GetCardsByIDs(ctx, orderedIDs)
	if err != nil {
		return nil, nil, err
	}
	cardByID := make(map[int64]model.Card, len(cards))
	for _, c := range cards {
		cardByID[c.ID] = c
	}

	nicknames := make(map[int64]*string)
	offersByCard := make(map[int64][]model.MerchantOffer)
	if userID != nil {
		refs, err := s.repo.ActivePortfolio(ctx, *userID)
		if err != nil {
			return nil, nil, err
		}
		for _, ref := range refs {
			nicknames[ref.CardID] = ref.Nickname
		}

		offers, err := s.repo.ListRelevantOffers(ctx, *userID, term)
		if err != nil {
			return nil, nil, err
		}
		for _, o := range offers {
			offersByCard[o.CardID] = append(offersByCard[o.CardID], o)
		}
	}

	for _, id := range orderedIDs {
		card, ok := cardByID[id]
		if !ok || len(card.Categories) == 0 {
			continue
		}

		rec := model.Recommendation{
			Card:             card,
			RelevantCategory: relevant[id],
			RelevantOffers:   offersByCard[id],
		}
		if nickname, inPortfolio := nicknames[id]; inPortfolio {
			rec.IsInPortfolio = true
			rec.PortfolioNickname = nickname
		}

		all = append(all, rec)
		if rec.IsInPortfolio {
			owned = append(owned, rec)
		}
	}

	return all, owned, nil
}
