package handler

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/swiperight/swiperight-system/internal/auth"
	"github.com/swiperight/swiperight-system/internal/middleware"
	"github.com/swiperight/swiperight-system/internal/model"
)

type stubService struct {
	registerUser *model.User
	registerErr  error

	loginUser *model.User
	loginErr  error

	oauthUser *model.User
	oauthErr  error

	verifyUser *model.User
	verifyErr  error

	forgotErr error
	resetErr  error

	lookupCard  *model.Card
	lookupIsNew bool
	lookupErr   error

	listCards []model.Card
	listErr   error

	searchCards []model.Card

	getCard    *model.Card
	getCardErr error

	filterCards   []model.Card
	filterTotal   int
	filterPopular []model.Card

	portfolio    []model.PortfolioEntry
	portfolioErr error

	addedEntry  *model.PortfolioEntry
	addEntryErr error

	updatedEntry   *model.PortfolioEntry
	updateEntryErr error

	removeErr error

	offers      []model.MerchantOffer
	offersErr   error
	synced      int
	updated     int
	syncErr     error
	activateErr error
	useErr      error

	recommendAll   []model.Recommendation
	recommendOwned []model.Recommendation
	recommendErr   error
	recommendSeen  *int64

	chatReply string
}

func (s *stubService) Register(ctx context.Context, email, password string, firstName, lastName *string) (*model.User, string, error) {
	return s.registerUser, "test-token", s.registerErr
}

func (s *stubService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	return s.loginUser, "test-token", s.loginErr
}

func (s *stubService) OAuthLogin(ctx context.Context, provider model.AuthProvider, providerID, email string, name, picture *string) (*model.User, string, error) {
	return s.oauthUser, "test-token", s.oauthErr
}

func (s *stubService) VerifyToken(ctx context.Context, token string) (*model.User, error) {
	return s.verifyUser, s.verifyErr
}

func (s *stubService) ForgotPassword(ctx context.Context, email string) error { return s.forgotErr }

func (s *stubService) ResetPassword(ctx context.Context, token, newPassword string) error {
	return s.resetErr
}

func (s *stubService) LookupOrCreateCard(ctx context.Context, name string, providedIssuer *string) (*model.Card, bool, error) {
	return s.lookupCard, s.lookupIsNew, s.lookupErr
}

func (s *stubService) ListCards(ctx context.Context) ([]model.Card, error) {
	return s.listCards, s.listErr
}

func (s *stubService) SearchCards(ctx context.Context, query string) ([]model.Card, error) {
	return s.searchCards, nil
}

func (s *stubService) GetCard(ctx context.Context, id int64) (*model.Card, error) {
	return s.getCard, s.getCardErr
}

func (s *stubService) ComprehensiveCards(ctx context.Context, f model.CardFilter) ([]model.Card, int, []model.Card, error) {
	return s.filterCards, s.filterTotal, s.filterPopular, nil
}

func (s *stubService) Portfolio(ctx context.Context, userID int64) ([]model.PortfolioEntry, error) {
	return s.portfolio, s.portfolioErr
}

func (s *stubService) AddToPortfolio(ctx context.Context, userID, cardID int64, nickname *string, creditLimit *float64) (*model.PortfolioEntry, error) {
	return s.addedEntry, s.addEntryErr
}

func (s *stubService) UpdatePortfolioEntry(ctx context.Context, userID, entryID int64, nickname *string, creditLimit, currentBalance *float64, isActive *bool) (*model.PortfolioEntry, error) {
	return s.updatedEntry, s.updateEntryErr
}

func (s *stubService) RemoveFromPortfolio(ctx context.Context, userID, entryID int64) error {
	return s.removeErr
}

func (s *stubService) ActiveOffers(ctx context.Context, userID int64) ([]model.MerchantOffer, error) {
	return s.offers, s.offersErr
}

func (s *stubService) RelevantOffers(ctx context.Context, userID int64, category string) ([]model.MerchantOffer, error) {
	return s.offers, s.offersErr
}

func (s *stubService) SyncOffers(ctx context.Context, userID int64, offers []model.OfferUpsert, auditData []byte) (int, int, error) {
	return s.synced, s.updated, s.syncErr
}

func (s *stubService) ActivateOffer(ctx context.Context, userID, offerID int64) error {
	return s.activateErr
}

func (s *stubService) UseOffer(ctx context.Context, userID, offerID int64) error { return s.useErr }

func (s *stubService) RecommendCards(ctx context.Context, userID *int64, category string) ([]model.Recommendation, []model.Recommendation, error) {
	s.recommendSeen = userID
	return s.recommendAll, s.recommendOwned, s.recommendErr
}

func (s *stubService) Chat(ctx context.Context, message string) string { return s.chatReply }

func newTestHandler(t *testing.T, svc Service) *Handler {
	t.Helper()

	logger, err := zap.NewDevelopment()
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	authMw := middleware.NewAuthMiddleware(auth.NewTokenService("test-secret"))

	return NewHandler(svc, logger, authMw)
}

func testUser() *model.User {
	return &model.User{
		ID:           1,
		Email:        "user@example.com",
		AuthProvider: model.AuthProviderEmail,
		CreatedAt:    time.Now(),
	}
}

func bearerToken(t *testing.T, userID int64) string {
	t.Helper()

	token, err := auth.NewTokenService("test-secret").GenerateToken(userID)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}
	return "Bearer " + token
}
