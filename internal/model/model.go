// Package model содержит доменные сущности сервиса SwipeRight.
package model

import "time"

// AuthProvider описывает способ аутентификации пользователя.
type AuthProvider string

const (
	AuthProviderEmail  AuthProvider = "email"
	AuthProviderGoogle AuthProvider = "google"
	AuthProviderApple  AuthProvider = "apple"
)

// User представляет зарегистрированного пользователя сервиса.
type User struct {
	ID                int64
	Email             string
	PasswordHash      []byte
	FirstName         *string
	LastName          *string
	Name              *string
	ProfilePictureURL *string
	AuthProvider      AuthProvider
	ProviderID        *string
	EmailVerified     bool
	CreatedAt         time.Time
	LastLogin         *time.Time
}

// Card описывает кредитную карту из каталога вместе с категориями кэшбэка.
type Card struct {
	ID           int64
	Name         string
	Issuer       string
	Network      string
	ImageURL     string
	AnnualFee    float64
	Features     []string
	WelcomeBonus *string
	CreditRange  string
	ApplyURL     *string
	IsPopular    bool
	Rating       float64
	ReviewCount  int
	Categories   []CardCategory
}

// CardCategory описывает категорию кэшбэка одной карты.
type CardCategory struct {
	ID           int64
	Category     string
	CashbackRate float64
	IsRotating   bool
	ValidUntil   *time.Time
}

// PortfolioEntry связывает пользователя с картой из каталога.
type PortfolioEntry struct {
	ID             int64
	UserID         int64
	Card           Card
	Nickname       *string
	CreditLimit    *float64
	CurrentBalance float64
	IsActive       bool
	AddedAt        time.Time
}

// MerchantOffer описывает промо-предложение мерчанта для пары пользователь+карта.
type MerchantOffer struct {
	ID               int64
	UserID           int64
	CardID           int64
	CardName         string
	MerchantName     string
	OfferDescription string
	CashbackRate     *float64
	CashbackAmount   *float64
	MinimumSpend     *float64
	MaximumCashback  *float64
	OfferType        string
	StartDate        *time.Time
	EndDate          *time.Time
	IsActivated      bool
	IsUsed           bool
	UsageCount       int
	MaxUsage         int
}

// OfferUpsert описывает одну запись пакета синхронизации предложений.
// Nil-поля при обновлении сохраняют прежнее значение.
type OfferUpsert struct {
	CardID           int64
	MerchantName     string
	OfferDescription string
	CashbackRate     *float64
	CashbackAmount   *float64
	MinimumSpend     *float64
	MaximumCashback  *float64
	OfferType        *string
	StartDate        *time.Time
	EndDate          *time.Time
	IsActivated      *bool
}

// Recommendation описывает рекомендацию карты для заданной категории трат.
type Recommendation struct {
	Card              Card
	RelevantCategory  CardCategory
	IsInPortfolio     bool
	PortfolioNickname *string
	RelevantOffers    []MerchantOffer
}

// CardFilter задаёт независимые необязательные фильтры расширенного поиска по каталогу.
type CardFilter struct {
	Query        string
	Issuer       string
	Network      string
	Category     string
	MinCashback  *float64
	MaxAnnualFee *float64
	Limit        int
	Offset       int
}
