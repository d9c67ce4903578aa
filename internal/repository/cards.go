package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/swiperight/swiperight-system/internal/model"
)

const cardColumns = `c.id, c.name, c.issuer, c.network, c.image_url, c.annual_fee, c.features,
	 c.welcome_bonus, c.credit_range, c.apply_url, c.is_popular,
	 COALESCE(c.rating, 4.0), c.review_count`

func scanCard(row pgx.Row) (*model.Card, error) {
	var (
		c           model.Card
		featuresRaw []byte
	)
	err := row.Scan(
		&c.ID, &c.Name, &c.Issuer, &c.Network, &c.ImageURL, &c.AnnualFee, &featuresRaw,
		&c.WelcomeBonus, &c.CreditRange, &c.ApplyURL, &c.IsPopular,
		&c.Rating, &c.ReviewCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("scan card: %w", err)
	}

	if err := unmarshalFeatures(featuresRaw, &c); err != nil {
		return nil, err
	}

	return &c, nil
}

func unmarshalFeatures(raw []byte, c *model.Card) error {
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &c.Features); err != nil {
			return fmt.Errorf("unmarshal features: %w", err)
		}
	}
	if c.Features == nil {
		c.Features = []string{}
	}
	return nil
}

// GetCardCategories возвращает категории кэшбэка карты по убыванию ставки.
func (r *PostgresRepository) GetCardCategories(ctx context.Context, cardID int64) ([]model.CardCategory, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, category, cashback_rate, is_rotating, valid_until
		 FROM card_categories
		 WHERE card_id = $1
		 ORDER BY cashback_rate DESC`,
		cardID,
	)
	if err != nil {
		return nil, fmt.Errorf("select categories: %w", err)
	}
	defer rows.Close()

	var categories []model.CardCategory
	for rows.Next() {
		var cc model.CardCategory
		if err := rows.Scan(&cc.ID, &cc.Category, &cc.CashbackRate, &cc.IsRotating, &cc.ValidUntil); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, cc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return categories, nil
}

// attachCategories загружает категории всех перечисленных карт одним запросом.
func (r *PostgresRepository) attachCategories(ctx context.Context, cards []model.Card) error {
	if len(cards) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(cards))
	index := make(map[int64]*model.Card, len(cards))
	for i := range cards {
		ids = append(ids, cards[i].ID)
		index[cards[i].ID] = &cards[i]
	}

	rows, err := r.pool.Query(ctx,
		`SELECT card_id, id, category, cashback_rate, is_rotating, valid_until
		 FROM card_categories
		 WHERE card_id = ANY($1)
		 ORDER BY cashback_rate DESC`,
		ids,
	)
	if err != nil {
		return fmt.Errorf("select categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cardID int64
			cc     model.CardCategory
		)
		if err := rows.Scan(&cardID, &cc.ID, &cc.Category, &cc.CashbackRate, &cc.IsRotating, &cc.ValidUntil); err != nil {
			return fmt.Errorf("scan category: %w", err)
		}
		if card, ok := index[cardID]; ok {
			card.Categories = append(card.Categories, cc)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) collectCards(ctx context.Context, rows pgx.Rows) ([]model.Card, error) {
	defer rows.Close()

	var cards []model.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, *card)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	if err := r.attachCategories(ctx, cards); err != nil {
		return nil, err
	}

	return cards, nil
}

// GetCardByName возвращает карту по точному совпадению имени без учёта регистра.
func (r *PostgresRepository) GetCardByName(ctx context.Context, name string) (*model.Card, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+cardColumns+` FROM cards c WHERE LOWER(c.name) = LOWER($1)`,
		name,
	)

	card, err := scanCard(row)
	if err != nil {
		return nil, err
	}

	card.Categories, err = r.GetCardCategories(ctx, card.ID)
	if err != nil {
		return nil, err
	}

	return card, nil
}

// GetCardByID возвращает карту с категориями по идентификатору.
func (r *PostgresRepository) GetCardByID(ctx context.Context, id int64) (*model.Card, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+cardColumns+` FROM cards c WHERE c.id = $1`,
		id,
	)

	card, err := scanCard(row)
	if err != nil {
		return nil, err
	}

	card.Categories, err = r.GetCardCategories(ctx, card.ID)
	if err != nil {
		return nil, err
	}

	return card, nil
}

// CreateCard вставляет карту вместе с категориями в одной транзакции.
func (r *PostgresRepository) CreateCard(ctx context.Context, card model.Card, categories []model.CardCategory) (*model.Card, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	features := card.Features
	if features == nil {
		features = []string{}
	}
	featuresRaw, err := json.Marshal(features)
	if err != nil {
		return nil, fmt.Errorf("marshal features: %w", err)
	}

	var id int64
	err = tx.QueryRow(ctx,
		`INSERT INTO cards (name, issuer, network, image_url, annual_fee, features, welcome_bonus, credit_range, apply_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, 'Good to Excellent'), $9)
		 RETURNING id`,
		card.Name, card.Issuer, card.Network, card.ImageURL, card.AnnualFee,
		featuresRaw, card.WelcomeBonus, nullIfEmpty(card.CreditRange), card.ApplyURL,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert card: %w", err)
	}

	for _, cc := range categories {
		_, err = tx.Exec(ctx,
			`INSERT INTO card_categories (card_id, category, cashback_rate, is_rotating, valid_until)
			 VALUES ($1, $2, $3, $4, $5)`,
			id, cc.Category, cc.CashbackRate, cc.IsRotating, cc.ValidUntil,
		)
		if err != nil {
			return nil, fmt.Errorf("insert category: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return r.GetCardByID(ctx, id)
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ListCards возвращает все карты каталога с категориями, упорядоченные по имени.
func (r *PostgresRepository) ListCards(ctx context.Context) ([]model.Card, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+cardColumns+` FROM cards c ORDER BY c.name`,
	)
	if err != nil {
		return nil, fmt.Errorf("select cards: %w", err)
	}

	return r.collectCards(ctx, rows)
}

// SearchCards возвращает карты, имя или эмитент которых содержит подстроку запроса.
func (r *PostgresRepository) SearchCards(ctx context.Context, query string) ([]model.Card, error) {
	pattern := "%" + strings.ToLower(query) + "%"

	rows, err := r.pool.Query(ctx,
		`SELECT `+cardColumns+`
		 FROM cards c
		 WHERE LOWER(c.name) LIKE $1 OR LOWER(c.issuer) LIKE $1
		 ORDER BY c.name`,
		pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("select cards: %w", err)
	}

	return r.collectCards(ctx, rows)
}

// buildCardFilter собирает параметризованные условия WHERE расширенного поиска.
// Значения никогда не попадают в текст запроса, только в аргументы.
func buildCardFilter(f model.CardFilter) (string, []any) {
	var (
		conditions []string
		args       []any
	)

	next := func(v any) int {
		args = append(args, v)
		return len(args)
	}

	if f.Query != "" {
		n := next("%" + strings.ToLower(f.Query) + "%")
		conditions = append(conditions, fmt.Sprintf("(LOWER(c.name) LIKE $%d OR LOWER(c.issuer) LIKE $%d)", n, n))
	}
	if f.Issuer != "" {
		n := next(f.Issuer)
		conditions = append(conditions, fmt.Sprintf("c.issuer = $%d", n))
	}
	if f.Network != "" {
		n := next(f.Network)
		conditions = append(conditions, fmt.Sprintf("c.network = $%d", n))
	}
	if f.MaxAnnualFee != nil {
		n := next(*f.MaxAnnualFee)
		conditions = append(conditions, fmt.Sprintf("c.annual_fee <= $%d", n))
	}
	if f.Category != "" {
		n := next("%" + strings.ToLower(f.Category) + "%")
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM card_categories cc WHERE cc.card_id = c.id AND LOWER(cc.category) LIKE $%d)", n))
	}
	if f.MinCashback != nil {
		n := next(*f.MinCashback)
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM card_categories cc WHERE cc.card_id = c.id AND cc.cashback_rate >= $%d)", n))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

// FilterCards возвращает страницу каталога по фильтрам и общее число подходящих карт.
func (r *PostgresRepository) FilterCards(ctx context.Context, f model.CardFilter) ([]model.Card, int, error) {
	whereClause, args := buildCardFilter(f)

	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(DISTINCT c.id) FROM cards c `+whereClause,
		args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count cards: %w", err)
	}

	limitArg := len(args) + 1
	offsetArg := len(args) + 2
	args = append(args, f.Limit, f.Offset)

	rows, err := r.pool.Query(ctx,
		fmt.Sprintf(`SELECT %s
		 FROM cards c
		 %s
		 ORDER BY c.is_popular DESC, COALESCE(c.rating, 4.0) DESC, c.name ASC
		 LIMIT $%d OFFSET $%d`, cardColumns, whereClause, limitArg, offsetArg),
		args...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("select cards: %w", err)
	}

	cards, err := r.collectCards(ctx, rows)
	if err != nil {
		return nil, 0, err
	}

	return cards, total, nil
}

// PopularCards возвращает до шести популярных карт по рейтингу и числу отзывов.
func (r *PostgresRepository) PopularCards(ctx context.Context) ([]model.Card, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+cardColumns+`
		 FROM cards c
		 WHERE c.is_popular = TRUE
		 ORDER BY COALESCE(c.rating, 4.0) DESC, c.review_count DESC
		 LIMIT 6`,
	)
	if err != nil {
		return nil, fmt.Errorf("select popular cards: %w", err)
	}

	return r.collectCards(ctx, rows)
}

// CardExists проверяет наличие карты в каталоге.
func (r *PostgresRepository) CardExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM cards WHERE id = $1)`,
		id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check card exists: %w", err)
	}
	return exists, nil
}

// CategoryMatch описывает пару карта+категория, подходящую под поисковый термин.
type CategoryMatch struct {
	CardID   int64
	Category model.CardCategory
}

// GetCategoryMatches возвращает пары (карта, категория), где название категории
// содержит термин или равно сентинелу "all purchases", по убыванию ставки.
func (r *PostgresRepository) GetCategoryMatches(ctx context.Context, term string) ([]CategoryMatch, error) {
	pattern := "%" + strings.ToLower(term) + "%"

	rows, err := r.pool.Query(ctx,
		`SELECT cc.card_id, cc.id, cc.category, cc.cashback_rate, cc.is_rotating, cc.valid_until
		 FROM card_categories cc
		 JOIN cards c ON c.id = cc.card_id
		 WHERE LOWER(cc.category) LIKE $1 OR LOWER(cc.category) = 'all purchases'
		 ORDER BY cc.cashback_rate DESC, c.name`,
		pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("select category matches: %w", err)
	}
	defer rows.Close()

	var matches []CategoryMatch
	for rows.Next() {
		var m CategoryMatch
		if err := rows.Scan(&m.CardID, &m.Category.ID, &m.Category.Category,
			&m.Category.CashbackRate, &m.Category.IsRotating, &m.Category.ValidUntil); err != nil {
			return nil, fmt.Errorf("scan category match: %w", err)
		}
		matches = append(matches, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return matches, nil
}

// GetCardsByIDs возвращает карты с категориями по списку идентификаторов.
func (r *PostgresRepository) GetCardsByIDs(ctx context.Context, ids []int64) ([]model.Card, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+cardColumns+` FROM cards c WHERE c.id = ANY($1)`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("select cards: %w", err)
	}

	return r.collectCards(ctx, rows)
}
