// Package cardmeta предоставляет клиент внешнего справочника кредитных карт.
package cardmeta

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client инкапсулирует HTTP-взаимодействие со справочником карт.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// CardCategory описывает категорию кэшбэка в ответе справочника.
type CardCategory struct {
	Category     string  `json:"category"`
	CashbackRate float64 `json:"cashback_rate"`
	IsRotating   bool    `json:"is_rotating"`
	ValidUntil   *string `json:"valid_until,omitempty"`
}

// CardData описывает данные карты, полученные из справочника.
type CardData struct {
	Name         string         `json:"name"`
	Issuer       string         `json:"issuer"`
	Network      string         `json:"network"`
	ImageURL     string         `json:"image_url"`
	AnnualFee    float64        `json:"annual_fee"`
	Categories   []CardCategory `json:"categories"`
	Features     []string       `json:"features"`
	WelcomeBonus *string        `json:"welcome_bonus,omitempty"`
	CreditRange  string         `json:"credit_range"`
	ApplyURL     *string        `json:"apply_url,omitempty"`
}

type searchResponse struct {
	Cards []struct {
		ID string `json:"id"`
	} `json:"cards"`
}

// NewClient создаёт HTTP-клиент справочника карт по указанному адресу.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Lookup ищет карту по названию и возвращает её данные. Второй результат
// сообщает, была ли карта найдена; отсутствие совпадений не является ошибкой.
func (c *Client) Lookup(ctx context.Context, cardName string) (*CardData, bool, error) {
	if c == nil || c.baseURL == "" {
		return nil, false, fmt.Errorf("card metadata client not configured")
	}

	base := c.baseURL
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}

	searchURL := fmt.Sprintf("%s/v1/cards/search?q=%s", base, url.QueryEscape(cardName))

	var search searchResponse
	if err := c.getJSON(ctx, searchURL, &search); err != nil {
		return nil, false, err
	}

	if len(search.Cards) == 0 {
		return nil, false, nil
	}

	detailURL := fmt.Sprintf("%s/v1/cards/%s", base, url.PathEscape(search.Cards[0].ID))

	var detail CardData
	if err := c.getJSON(ctx, detailURL, &detail); err != nil {
		return nil, false, err
	}

	return &detail, true, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
