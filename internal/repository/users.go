package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/swiperight/swiperight-system/internal/model"
)

const userColumns = `id, email, password_hash, first_name, last_name, name, profile_picture_url,
	 auth_provider, provider_id, email_verified, created_at, last_login`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Name,
		&u.ProfilePictureURL, &u.AuthProvider, &u.ProviderID, &u.EmailVerified,
		&u.CreatedAt, &u.LastLogin,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

// CreateUser создаёт нового пользователя с парольной аутентификацией.
// Email сохраняется в нижнем регистре; повторный email возвращает ErrUserExists.
func (r *PostgresRepository) CreateUser(ctx context.Context, email string, passwordHash []byte, firstName, lastName *string) (*model.User, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, first_name, last_name, auth_provider)
		 VALUES (LOWER($1), $2, $3, $4, 'email')
		 RETURNING `+userColumns,
		email, passwordHash, firstName, lastName,
	)

	u, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, fmt.Errorf("%w: %s", ErrUserExists, email)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// CreateOAuthUser создаёт нового пользователя, пришедшего от OAuth-провайдера.
func (r *PostgresRepository) CreateOAuthUser(ctx context.Context, email string, provider model.AuthProvider, providerID string, name, picture *string) (*model.User, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO users (email, auth_provider, provider_id, name, profile_picture_url, email_verified)
		 VALUES (LOWER($1), $2, $3, $4, $5, TRUE)
		 RETURNING `+userColumns,
		email, provider, providerID, name, picture,
	)

	u, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, fmt.Errorf("%w: %s", ErrUserExists, email)
		}
		return nil, fmt.Errorf("create oauth user: %w", err)
	}
	return u, nil
}

// GetUserByEmail возвращает пользователя по email без учёта регистра.
func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = LOWER($1)`,
		email,
	)
	return scanUser(row)
}

// GetUserByID возвращает пользователя по идентификатору.
func (r *PostgresRepository) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		id,
	)
	return scanUser(row)
}

// GetUserByProvider возвращает пользователя по паре (провайдер, внешний идентификатор).
func (r *PostgresRepository) GetUserByProvider(ctx context.Context, provider model.AuthProvider, providerID string) (*model.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE auth_provider = $1 AND provider_id = $2`,
		provider, providerID,
	)
	return scanUser(row)
}

// UpdateOAuthProfile обновляет только переданные поля профиля; nil сохраняет прежнее значение.
func (r *PostgresRepository) UpdateOAuthProfile(ctx context.Context, userID int64, name, picture *string) (*model.User, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE users
		 SET name = COALESCE($2, name),
		     profile_picture_url = COALESCE($3, profile_picture_url),
		     last_login = NOW()
		 WHERE id = $1
		 RETURNING `+userColumns,
		userID, name, picture,
	)
	return scanUser(row)
}

// TouchLastLogin обновляет время последнего входа пользователя.
func (r *PostgresRepository) TouchLastLogin(ctx context.Context, userID int64) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET last_login = NOW() WHERE id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	return nil
}

// UpdatePassword заменяет хэш пароля пользователя.
func (r *PostgresRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash []byte) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET password_hash = $2 WHERE id = $1`,
		userID, passwordHash,
	)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// ResetToken описывает сохранённый токен сброса пароля.
type ResetToken struct {
	UserID    int64
	Token     string
	ExpiresAt time.Time
	Used      bool
}

// CreateResetToken сохраняет токен сброса пароля с указанным сроком действия.
func (r *PostgresRepository) CreateResetToken(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO password_reset_tokens (user_id, token, expires_at) VALUES ($1, $2, $3)`,
		userID, token, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("create reset token: %w", err)
	}
	return nil
}

// GetResetToken возвращает сохранённый токен сброса пароля.
func (r *PostgresRepository) GetResetToken(ctx context.Context, token string) (*ResetToken, error) {
	var rt ResetToken
	err := r.pool.QueryRow(ctx,
		`SELECT user_id, token, expires_at, used FROM password_reset_tokens WHERE token = $1`,
		token,
	).Scan(&rt.UserID, &rt.Token, &rt.ExpiresAt, &rt.Used)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrResetTokenNotFound
		}
		return nil, fmt.Errorf("get reset token: %w", err)
	}
	return &rt, nil
}

// MarkResetTokenUsed помечает токен сброса пароля использованным.
func (r *PostgresRepository) MarkResetTokenUsed(ctx context.Context, token string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE password_reset_tokens SET used = TRUE WHERE token = $1`,
		token,
	)
	if err != nil {
		return fmt.Errorf("mark reset token used: %w", err)
	}
	return nil
}
