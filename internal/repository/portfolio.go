package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/swiperight/swiperight-system/internal/model"
)

// ListPortfolio возвращает записи портфеля пользователя с полными данными карт,
// новые записи первыми.
func (r *PostgresRepository) ListPortfolio(ctx context.Context, userID int64) ([]model.PortfolioEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT up.id, up.user_id, up.nickname, up.credit_limit, up.current_balance,
		        up.is_active, up.added_at,
		        `+cardColumns+`
		 FROM user_portfolios up
		 JOIN cards c ON c.id = up.card_id
		 WHERE up.user_id = $1
		 ORDER BY up.added_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("select portfolio: %w", err)
	}
	defer rows.Close()

	var entries []model.PortfolioEntry
	for rows.Next() {
		var (
			e           model.PortfolioEntry
			featuresRaw []byte
		)
		err := rows.Scan(
			&e.ID, &e.UserID, &e.Nickname, &e.CreditLimit, &e.CurrentBalance,
			&e.IsActive, &e.AddedAt,
			&e.Card.ID, &e.Card.Name, &e.Card.Issuer, &e.Card.Network, &e.Card.ImageURL,
			&e.Card.AnnualFee, &featuresRaw, &e.Card.WelcomeBonus, &e.Card.CreditRange,
			&e.Card.ApplyURL, &e.Card.IsPopular, &e.Card.Rating, &e.Card.ReviewCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan portfolio entry: %w", err)
		}
		if err := unmarshalFeatures(featuresRaw, &e.Card); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	for i := range entries {
		entries[i].Card.Categories, err = r.GetCardCategories(ctx, entries[i].Card.ID)
		if err != nil {
			return nil, err
		}
	}

	return entries, nil
}

// PortfolioEntryExists проверяет, есть ли карта уже в портфеле пользователя.
func (r *PostgresRepository) PortfolioEntryExists(ctx context.Context, userID, cardID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM user_portfolios WHERE user_id = $1 AND card_id = $2)`,
		userID, cardID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check portfolio entry: %w", err)
	}
	return exists, nil
}

// AddPortfolioEntry добавляет карту в портфель пользователя. Дубликат пары
// (пользователь, карта) возвращает ErrPortfolioExists: уникальность гарантирует
// ограничение БД, а не предварительная проверка.
func (r *PostgresRepository) AddPortfolioEntry(ctx context.Context, userID, cardID int64, nickname *string, creditLimit *float64) (*model.PortfolioEntry, error) {
	var e model.PortfolioEntry
	err := r.pool.QueryRow(ctx,
		`INSERT INTO user_portfolios (user_id, card_id, nickname, credit_limit)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, user_id, nickname, credit_limit, current_balance, is_active, added_at`,
		userID, cardID, nickname, creditLimit,
	).Scan(&e.ID, &e.UserID, &e.Nickname, &e.CreditLimit, &e.CurrentBalance, &e.IsActive, &e.AddedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, ErrPortfolioExists
		}
		return nil, fmt.Errorf("insert portfolio entry: %w", err)
	}

	card, err := r.GetCardByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	e.Card = *card

	return &e, nil
}

// UpdatePortfolioEntry выполняет частичное обновление записи портфеля: nil-поля
// сохраняют прежние значения. Чужая или отсутствующая запись возвращает
// ErrPortfolioNotFound, не раскрывая её существование.
func (r *PostgresRepository) UpdatePortfolioEntry(ctx context.Context, userID, entryID int64, nickname *string, creditLimit, currentBalance *float64, isActive *bool) (*model.PortfolioEntry, error) {
	var (
		e      model.PortfolioEntry
		cardID int64
	)
	err := r.pool.QueryRow(ctx,
		`UPDATE user_portfolios
		 SET nickname = COALESCE($3, nickname),
		     credit_limit = COALESCE($4, credit_limit),
		     current_balance = COALESCE($5, current_balance),
		     is_active = COALESCE($6, is_active),
		     updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING id, user_id, card_id, nickname, credit_limit, current_balance, is_active, added_at`,
		entryID, userID, nickname, creditLimit, currentBalance, isActive,
	).Scan(&e.ID, &e.UserID, &cardID, &e.Nickname, &e.CreditLimit, &e.CurrentBalance, &e.IsActive, &e.AddedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPortfolioNotFound
		}
		return nil, fmt.Errorf("update portfolio entry: %w", err)
	}

	card, err := r.GetCardByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	e.Card = *card

	return &e, nil
}

// DeletePortfolioEntry удаляет запись портфеля, принадлежащую пользователю.
func (r *PostgresRepository) DeletePortfolioEntry(ctx context.Context, userID, entryID int64) error {
	cmdTag, err := r.pool.Exec(ctx,
		`DELETE FROM user_portfolios WHERE id = $1 AND user_id = $2`,
		entryID, userID,
	)
	if err != nil {
		return fmt.Errorf("delete portfolio entry: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrPortfolioNotFound
	}
	return nil
}

// PortfolioCardRef описывает активную карту портфеля для рекомендаций.
type PortfolioCardRef struct {
	CardID   int64
	Nickname *string
}

// ActivePortfolio возвращает активные карты портфеля пользователя.
func (r *PostgresRepository) ActivePortfolio(ctx context.Context, userID int64) ([]PortfolioCardRef, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT card_id, nickname FROM user_portfolios WHERE user_id = $1 AND is_active = TRUE`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("select active portfolio: %w", err)
	}
	defer rows.Close()

	var refs []PortfolioCardRef
	for rows.Next() {
		var ref PortfolioCardRef
		if err := rows.Scan(&ref.CardID, &ref.Nickname); err != nil {
			return nil, fmt.Errorf("scan portfolio ref: %w", err)
		}
		refs = append(refs, ref)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return refs, nil
}
