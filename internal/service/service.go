// Package service реализует бизнес-логику сервиса SwipeRight.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/swiperight/swiperight-system/internal/auth"
	"github.com/swiperight/swiperight-system/internal/cardmeta"
	"github.com/swiperight/swiperight-system/internal/chat"
	"github.com/swiperight/swiperight-system/internal/model"
	"github.com/swiperight/swiperight-system/internal/repository"
)

// Ошибки бизнес-уровня, которые обработчики транслируют в HTTP-статусы.
var (
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrProviderMismatch   = errors.New("account uses social sign-in")
	ErrEmailTaken         = errors.New("email already registered")
	ErrBadProvider        = errors.New("unsupported auth provider")
	ErrResetTokenInvalid  = errors.New("invalid or expired reset token")
	ErrCardNameRequired   = errors.New("card name is required")
)

// Repository описывает контракт доступа к данным, используемый сервисом.
type Repository interface {
	Close() error

	CreateUser(ctx context.Context, email string, passwordHash []byte, firstName, lastName *string) (*model.User, error)
	CreateOAuthUser(ctx context.Context, email string, provider model.AuthProvider, providerID string, name, picture *string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByProvider(ctx context.Context, provider model.AuthProvider, providerID string) (*model.User, error)
	UpdateOAuthProfile(ctx context.Context, userID int64, name, picture *string) (*model.User, error)
	TouchLastLogin(ctx context.Context, userID int64) error
	UpdatePassword(ctx context.Context, userID int64, passwordHash []byte) error
	CreateResetToken(ctx context.Context, userID int64, token string, expiresAt time.Time) error
	GetResetToken(ctx context.Context, token string) (*repository.ResetToken, error)
	MarkResetTokenUsed(ctx context.Context, token string) error

	GetCardByName(ctx context.Context, name string) (*model.Card, error)
	GetCardByID(ctx context.Context, id int64) (*model.Card, error)
	CreateCard(ctx context.Context, card model.Card, categories []model.CardCategory) (*model.Card, error)
	ListCards(ctx context.Context) ([]model.Card, error)
	SearchCards(ctx context.Context, query string) ([]model.Card, error)
	FilterCards(ctx context.Context, f model.CardFilter) ([]model.Card, int, error)
	PopularCards(ctx context.Context) ([]model.Card, error)
	CardExists(ctx context.Context, id int64) (bool, error)
	GetCategoryMatches(ctx context.Context, term string) ([]repository.CategoryMatch, error)
	GetCardsByIDs(ctx context.Context, ids []int64) ([]model.Card, error)

	ListPortfolio(ctx context.Context, userID int64) ([]model.PortfolioEntry, error)
	PortfolioEntryExists(ctx context.Context, userID, cardID int64) (bool, error)
	AddPortfolioEntry(ctx context.Context, userID, cardID int64, nickname *string, creditLimit *float64) (*model.PortfolioEntry, error)
	UpdatePortfolioEntry(ctx context.Context, userID, entryID int64, nickname *string, creditLimit, currentBalance *float64, isActive *bool) (*model.PortfolioEntry, error)
	DeletePortfolioEntry(ctx context.Context, userID, entryID int64) error
	ActivePortfolio(ctx context.Context, userID int64) ([]repository.PortfolioCardRef, error)

	ListActiveOffers(ctx context.Context, userID int64) ([]model.MerchantOffer, error)
	ListRelevantOffers(ctx context.Context, userID int64, term string) ([]model.MerchantOffer, error)
	SaveOfferSyncAudit(ctx context.Context, userID int64, syncData []byte) error
	FindOfferID(ctx context.Context, userID int64, u model.OfferUpsert) (int64, error)
	UpdateOffer(ctx context.Context, offerID int64, u model.OfferUpsert) error
	InsertOffer(ctx context.Context, userID int64, u model.OfferUpsert) error
	ActivateOffer(ctx context.Context, userID, offerID int64) error
	MarkOfferUsed(ctx context.Context, userID, offerID int64) error
}

// Service содержит бизнес-логику сервиса SwipeRight.
type Service struct {
	repo       Repository
	tokens     *auth.TokenService
	chatClient *chat.Client
	cardClient *cardmeta.Client
}

// NewService создаёт сервис с указанным репозиторием, сервисом токенов и
// клиентами внешних API. Клиенты могут быть nil: соответствующие операции
// деградируют до запасного поведения.
func NewService(repo Repository, tokens *auth.TokenService, chatClient *chat.Client, cardClient *cardmeta.Client) *Service {
	return &Service{
		repo:       repo,
		tokens:     tokens,
		chatClient: chatClient,
		cardClient: cardClient,
	}
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}
