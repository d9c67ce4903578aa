package service

import (
	"context"

	"github.com/swiperight/swiperight-system/internal/model"
)

// ActiveOffers возвращает действующие предложения мерчантов пользователя.
func (s *Service) ActiveOffers(ctx context.Context, userID int64) ([]model.MerchantOffer, error) {
	return s.repo.ListActiveOffers(ctx, userID)
}

// RelevantOffers возвращает действующие предложения, подходящие под категорию трат.
func (s *Service) RelevantOffers(ctx context.Context, userID int64, category string) ([]model.MerchantOffer, error) {
	return s.repo.ListRelevantOffers(ctx, userID, category)
}

// SyncOffers принимает пакет предложений из расширения браузера: существующие
// записи обновляются по частям, новые вставляются. Сырой пакет сохраняется для
// аудита. Возвращает число вставленных и обновлённых записей.
func (s *Service) SyncOffers(ctx context.Context, userID int64, offers []model.OfferUpsert, auditData []byte) (int, int, error) {
	if err := s.repo.SaveOfferSyncAudit(ctx, userID, auditData); err != nil {
		return 0, 0, err
	}

	var synced, updated int
	for _, offer := range offers {
		existingID, err := s.repo.FindOfferID(ctx, userID, offer)
		if err != nil {
			return synced, updated, err
		}

		if existingID != 0 {
			if err := s.repo.UpdateOffer(ctx, existingID, offer); err != nil {
				return synced, updated, err
			}
			updated++
			continue
		}

		if err := s.repo.InsertOffer(ctx, userID, offer); err != nil {
			return synced, updated, err
		}
		synced++
	}

	return synced, updated, nil
}

// ActivateOffer помечает предложение активированным.
func (s *Service) ActivateOffer(ctx context.Context, userID, offerID int64) error {
	return s.repo.ActivateOffer(ctx, userID, offerID)
}

// UseOffer помечает предложение использованным.
func (s *Service) UseOffer(ctx context.Context, userID, offerID int64) error {
	return s.repo.MarkOfferUsed(ctx, userID, offerID)
}
