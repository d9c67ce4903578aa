package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/swiperight/swiperight-system/internal/model"
)

const offerColumns = `mo.id, mo.user_id, mo.card_id, c.name, mo.merchant_name, mo.offer_description,
	 mo.cashback_rate, mo.cashback_amount, mo.minimum_spend, mo.maximum_cashback,
	 mo.offer_type, mo.start_date, mo.end_date, mo.is_activated, mo.is_used,
	 mo.usage_count, mo.max_usage`

func collectOffers(rows pgx.Rows) ([]model.MerchantOffer, error) {
	defer rows.Close()

	var offers []model.MerchantOffer
	for rows.Next() {
		var o model.MerchantOffer
		err := rows.Scan(
			&o.ID, &o.UserID, &o.CardID, &o.CardName, &o.MerchantName, &o.OfferDescription,
			&o.CashbackRate, &o.CashbackAmount, &o.MinimumSpend, &o.MaximumCashback,
			&o.OfferType, &o.StartDate, &o.EndDate, &o.IsActivated, &o.IsUsed,
			&o.UsageCount, &o.MaxUsage,
		)
		if err != nil {
			return nil, fmt.Errorf("scan offer: %w", err)
		}
		offers = append(offers, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return offers, nil
}

// ListActiveOffers возвращает неиспользованные предложения пользователя, срок
// которых не истёк: активированные первыми, затем по сроку окончания и ставке.
func (r *PostgresRepository) ListActiveOffers(ctx context.Context, userID int64) ([]model.MerchantOffer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+offerColumns+`
		 FROM merchant_offers mo
		 JOIN cards c ON c.id = mo.card_id
		 WHERE mo.user_id = $1
		   AND (mo.end_date IS NULL OR mo.end_date >= CURRENT_DATE)
		   AND mo.is_used = FALSE
		 ORDER BY mo.is_activated DESC, mo.end_date ASC, mo.cashback_rate DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("select offers: %w", err)
	}

	return collectOffers(rows)
}

// ListRelevantOffers возвращает действующие предложения пользователя, у которых
// имя мерчанта или описание содержит поисковый термин.
func (r *PostgresRepository) ListRelevantOffers(ctx context.Context, userID int64, term string) ([]model.MerchantOffer, error) {
	pattern := "%" + strings.ToLower(term) + "%"

	rows, err := r.pool.Query(ctx,
		`SELECT `+offerColumns+`
		 FROM merchant_offers mo
		 JOIN cards c ON c.id = mo.card_id
		 WHERE mo.user_id = $1
		   AND (mo.end_date IS NULL OR mo.end_date >= CURRENT_DATE)
		   AND mo.is_used = FALSE
		   AND (LOWER(mo.merchant_name) LIKE $2 OR LOWER(mo.offer_description) LIKE $2)
		 ORDER BY mo.is_activated DESC, mo.cashback_rate DESC, mo.end_date ASC`,
		userID, pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("select relevant offers: %w", err)
	}

	return collectOffers(rows)
}

// SaveOfferSyncAudit сохраняет сырой пакет синхронизации для аудита.
func (r *PostgresRepository) SaveOfferSyncAudit(ctx context.Context, userID int64, syncData []byte) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO merchant_offer_sync (user_id, sync_data) VALUES ($1, $2)`,
		userID, syncData,
	)
	if err != nil {
		return fmt.Errorf("insert sync audit: %w", err)
	}
	return nil
}

// FindOfferID ищет предложение по ключу (пользователь, карта, мерчант, описание).
// Возвращает 0 без ошибки, если совпадения нет.
func (r *PostgresRepository) FindOfferID(ctx context.Context, userID int64, u model.OfferUpsert) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`SELECT id FROM merchant_offers
		 WHERE user_id = $1 AND card_id = $2 AND merchant_name = $3 AND offer_description = $4`,
		userID, u.CardID, u.MerchantName, u.OfferDescription,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("find offer: %w", err)
	}
	return id, nil
}

// UpdateOffer обновляет изменяемые поля предложения; nil-поля сохраняют прежние значения.
func (r *PostgresRepository) UpdateOffer(ctx context.Context, offerID int64, u model.OfferUpsert) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE merchant_offers
		 SET cashback_rate = COALESCE($2, cashback_rate),
		     cashback_amount = COALESCE($3, cashback_amount),
		     minimum_spend = COALESCE($4, minimum_spend),
		     maximum_cashback = COALESCE($5, maximum_cashback),
		     offer_type = COALESCE($6, offer_type),
		     start_date = COALESCE($7, start_date),
		     end_date = COALESCE($8, end_date),
		     is_activated = COALESCE($9, is_activated),
		     updated_at = NOW()
		 WHERE id = $1`,
		offerID, u.CashbackRate, u.CashbackAmount, u.MinimumSpend, u.MaximumCashback,
		u.OfferType, u.StartDate, u.EndDate, u.IsActivated,
	)
	if err != nil {
		return fmt.Errorf("update offer: %w", err)
	}
	return nil
}

// InsertOffer вставляет новое предложение с умолчаниями для незаполненных полей.
func (r *PostgresRepository) InsertOffer(ctx context.Context, userID int64, u model.OfferUpsert) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO merchant_offers (
		     user_id, card_id, merchant_name, offer_description,
		     cashback_rate, cashback_amount, minimum_spend, maximum_cashback,
		     offer_type, start_date, end_date, is_activated
		 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, COALESCE($9, 'cashback'), $10, $11, COALESCE($12, FALSE))`,
		userID, u.CardID, u.MerchantName, u.OfferDescription,
		u.CashbackRate, u.CashbackAmount, u.MinimumSpend, u.MaximumCashback,
		u.OfferType, u.StartDate, u.EndDate, u.IsActivated,
	)
	if err != nil {
		return fmt.Errorf("insert offer: %w", err)
	}
	return nil
}

// ActivateOffer помечает предложение активированным; использованные предложения недоступны.
func (r *PostgresRepository) ActivateOffer(ctx context.Context, userID, offerID int64) error {
	cmdTag, err := r.pool.Exec(ctx,
		`UPDATE merchant_offers
		 SET is_activated = TRUE, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2 AND is_used = FALSE`,
		offerID, userID,
	)
	if err != nil {
		return fmt.Errorf("activate offer: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrOfferNotFound
	}
	return nil
}

// MarkOfferUsed помечает предложение использованным и увеличивает счётчик использований.
func (r *PostgresRepository) MarkOfferUsed(ctx context.Context, userID, offerID int64) error {
	cmdTag, err := r.pool.Exec(ctx,
		`UPDATE merchant_offers
		 SET is_used = TRUE, usage_count = usage_count + 1, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2`,
		offerID, userID,
	)
	if err != nil {
		return fmt.Errorf("mark offer used: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrOfferNotFound
	}
	return nil
}
