// Package handler содержит HTTP-обработчики API сервиса SwipeRight.
package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/swiperight/swiperight-system/internal/middleware"
	"github.com/swiperight/swiperight-system/internal/model"
)

const dateLayout = "2006-01-02"

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	Register(ctx context.Context, email, password string, firstName, lastName *string) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	OAuthLogin(ctx context.Context, provider model.AuthProvider, providerID, email string, name, picture *string) (*model.User, string, error)
	VerifyToken(ctx context.Context, token string) (*model.User, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error

	LookupOrCreateCard(ctx context.Context, name string, providedIssuer *string) (*model.Card, bool, error)
	ListCards(ctx context.Context) ([]model.Card, error)
	SearchCards(ctx context.Context, query string) ([]model.Card, error)
	GetCard(ctx context.Context, id int64) (*model.Card, error)
	ComprehensiveCards(ctx context.Context, f model.CardFilter) ([]model.Card, int, []model.Card, error)

	Portfolio(ctx context.Context, userID int64) ([]model.PortfolioEntry, error)
	AddToPortfolio(ctx context.Context, userID, cardID int64, nickname *string, creditLimit *float64) (*model.PortfolioEntry, error)
	UpdatePortfolioEntry(ctx context.Context, userID, entryID int64, nickname *string, creditLimit, currentBalance *float64, isActive *bool) (*model.PortfolioEntry, error)
	RemoveFromPortfolio(ctx context.Context, userID, entryID int64) error

	ActiveOffers(ctx context.Context, userID int64) ([]model.MerchantOffer, error)
	RelevantOffers(ctx context.Context, userID int64, category string) ([]model.MerchantOffer, error)
	SyncOffers(ctx context.Context, userID int64, offers []model.OfferUpsert, auditData []byte) (int, int, error)
	ActivateOffer(ctx context.Context, userID, offerID int64) error
	UseOffer(ctx context.Context, userID, offerID int64) error

	RecommendCards(ctx context.Context, userID *int64, category string) ([]model.Recommendation, []model.Recommendation, error)
	Chat(ctx context.Context, message string) string
}

// Handler реализует HTTP-обработчики API сервиса SwipeRight.
type Handler struct {
	service        Service
	logger         *zap.Logger
	authMiddleware *middleware.AuthMiddleware
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{
		service:        s,
		logger:         logger,
		authMiddleware: auth,
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response error", zap.Error(err))
	}
}

type userResponse struct {
	ID                int64   `json:"id"`
	Email             string  `json:"email"`
	FirstName         *string `json:"firstName,omitempty"`
	LastName          *string `json:"lastName,omitempty"`
	Name              *string `json:"name,omitempty"`
	ProfilePictureURL *string `json:"profilePictureUrl,omitempty"`
	AuthProvider      string  `json:"authProvider"`
	EmailVerified     bool    `json:"emailVerified"`
	CreatedAt         string  `json:"createdAt"`
	LastLogin         *string `json:"lastLogin,omitempty"`
}

type cardCategoryResponse struct {
	ID           int64   `json:"id"`
	Category     string  `json:"category"`
	CashbackRate float64 `json:"cashbackRate"`
	IsRotating   bool    `json:"isRotating"`
	ValidUntil   *string `json:"validUntil,omitempty"`
}

type cardResponse struct {
	ID           int64                  `json:"id"`
	Name         string                 `json:"name"`
	Issuer       string                 `json:"issuer"`
	Network      string                 `json:"network"`
	ImageURL     string                 `json:"imageUrl"`
	AnnualFee    float64                `json:"annualFee"`
	Features     []string               `json:"features"`
	WelcomeBonus *string                `json:"welcomeBonus,omitempty"`
	CreditRange  string                 `json:"creditRange"`
	ApplyURL     *string                `json:"applyUrl,omitempty"`
	IsPopular    bool                   `json:"isPopular"`
	Rating       float64                `json:"rating"`
	ReviewCount  int                    `json:"reviewCount"`
	Categories   []cardCategoryResponse `json:"categories"`
}

type portfolioEntryResponse struct {
	ID             int64        `json:"id"`
	Card           cardResponse `json:"card"`
	Nickname       *string      `json:"nickname,omitempty"`
	CreditLimit    *float64     `json:"creditLimit,omitempty"`
	CurrentBalance float64      `json:"currentBalance"`
	IsActive       bool         `json:"isActive"`
	AddedAt        string       `json:"addedAt"`
}

type offerResponse struct {
	ID               int64    `json:"id"`
	CardID           int64    `json:"cardId"`
	CardName         string   `json:"cardName"`
	MerchantName     string   `json:"merchantName"`
	OfferDescription string   `json:"offerDescription"`
	CashbackRate     *float64 `json:"cashbackRate,omitempty"`
	CashbackAmount   *float64 `json:"cashbackAmount,omitempty"`
	MinimumSpend     *float64 `json:"minimumSpend,omitempty"`
	MaximumCashback  *float64 `json:"maximumCashback,omitempty"`
	OfferType        string   `json:"offerType"`
	StartDate        *string  `json:"startDate,omitempty"`
	EndDate          *string  `json:"endDate,omitempty"`
	IsActivated      bool     `json:"isActivated"`
	IsUsed           bool     `json:"isUsed"`
	UsageCount       int      `json:"usageCount"`
	MaxUsage         int      `json:"maxUsage"`
}

func toUserResponse(u *model.User) userResponse {
	resp := userResponse{
		ID:                u.ID,
		Email:             u.Email,
		FirstName:         u.FirstName,
		LastName:          u.LastName,
		Name:              u.Name,
		ProfilePictureURL: u.ProfilePictureURL,
		AuthProvider:      string(u.AuthProvider),
		EmailVerified:     u.EmailVerified,
		CreatedAt:         u.CreatedAt.Format(time.RFC3339),
	}
	if u.LastLogin != nil {
		s := u.LastLogin.Format(time.RFC3339)
		resp.LastLogin = &s
	}
	return resp
}

func toCardResponse(c model.Card) cardResponse {
	categories := make([]cardCategoryResponse, 0, len(c.Categories))
	for _, cc := range c.Categories {
		categories = append(categories, toCategoryResponse(cc))
	}

	features := c.Features
	if features == nil {
		features = []string{}
	}

	return cardResponse{
		ID:           c.ID,
		Name:         c.Name,
		Issuer:       c.Issuer,
		Network:      c.Network,
		ImageURL:     c.ImageURL,
		AnnualFee:    c.AnnualFee,
		Features:     features,
		WelcomeBonus: c.WelcomeBonus,
		CreditRange:  c.CreditRange,
		ApplyURL:     c.ApplyURL,
		IsPopular:    c.IsPopular,
		Rating:       c.Rating,
		ReviewCount:  c.ReviewCount,
		Categories:   categories,
	}
}

func toCategoryResponse(cc model.CardCategory) cardCategoryResponse {
	resp := cardCategoryResponse{
		ID:           cc.ID,
		Category:     cc.Category,
		CashbackRate: cc.CashbackRate,
		IsRotating:   cc.IsRotating,
	}
	if cc.ValidUntil != nil {
		s := cc.ValidUntil.Format(dateLayout)
		resp.ValidUntil = &s
	}
	return resp
}

func toCardResponses(cards []model.Card) []cardResponse {
	resp := make([]cardResponse, 0, len(cards))
	for _, c := range cards {
		resp = append(resp, toCardResponse(c))
	}
	return resp
}

func toPortfolioEntryResponse(e model.PortfolioEntry) portfolioEntryResponse {
	return portfolioEntryResponse{
		ID:             e.ID,
		Card:           toCardResponse(e.Card),
		Nickname:       e.Nickname,
		CreditLimit:    e.CreditLimit,
		CurrentBalance: e.CurrentBalance,
		IsActive:       e.IsActive,
		AddedAt:        e.AddedAt.Format(time.RFC3339),
	}
}

func toOfferResponse(o model.MerchantOffer) offerResponse {
	resp := offerResponse{
		ID:               o.ID,
		CardID:           o.CardID,
		CardName:         o.CardName,
		MerchantName:     o.MerchantName,
		OfferDescription: o.OfferDescription,
		CashbackRate:     o.CashbackRate,
		CashbackAmount:   o.CashbackAmount,
		MinimumSpend:     o.MinimumSpend,
		MaximumCashback:  o.MaximumCashback,
		OfferType:        o.OfferType,
		IsActivated:      o.IsActivated,
		IsUsed:           o.IsUsed,
		UsageCount:       o.UsageCount,
		MaxUsage:         o.MaxUsage,
	}
	if o.StartDate != nil {
		s := o.StartDate.Format(dateLayout)
		resp.StartDate = &s
	}
	if o.EndDate != nil {
		s := o.EndDate.Format(dateLayout)
		resp.EndDate = &s
	}
	return resp
}

func toOfferResponses(offers []model.MerchantOffer) []offerResponse {
	resp := make([]offerResponse, 0, len(offers))
	for _, o := range offers {
		resp = append(resp, toOfferResponse(o))
	}
	return resp
}
