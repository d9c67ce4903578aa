package service

import (
	"context"

	"github.com/swiperight/swiperight-system/internal/model"
	"github.com/swiperight/swiperight-system/internal/repository"
)

// Portfolio возвращает записи портфеля пользователя, новые первыми.
func (s *Service) Portfolio(ctx context.Context, userID int64) ([]model.PortfolioEntry, error) {
	return s.repo.ListPortfolio(ctx, userID)
}

// AddToPortfolio добавляет карту каталога в портфель пользователя.
// Несуществующая карта возвращает ErrCardNotFound, дубликат — ErrPortfolioExists.
func (s *Service) AddToPortfolio(ctx context.Context, userID, cardID int64, nickname *string, creditLimit *float64) (*model.PortfolioEntry, error) {
	exists, err := s.repo.CardExists(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, repository.ErrCardNotFound
	}

	inPortfolio, err := s.repo.PortfolioEntryExists(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}
	if inPortfolio {
		return nil, repository.ErrPortfolioExists
	}

	return s.repo.AddPortfolioEntry(ctx, userID, cardID, nickname, creditLimit)
}

// UpdatePortfolioEntry выполняет частичное обновление записи портфеля; nil-поля
// сохраняют прежние значения.
func (s *Service) UpdatePortfolioEntry(ctx context.Context, userID, entryID int64, nickname *string, creditLimit, currentBalance *float64, isActive *bool) (*model.PortfolioEntry, error) {
	return s.repo.UpdatePortfolioEntry(ctx, userID, entryID, nickname, creditLimit, currentBalance, isActive)
}

// RemoveFromPortfolio удаляет запись портфеля, принадлежащую пользователю.
func (s *Service) RemoveFromPortfolio(ctx context.Context, userID, entryID int64) error {
	return s.repo.DeletePortfolioEntry(ctx, userID, entryID)
}
