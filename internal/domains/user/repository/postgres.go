package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"furrymatch-backend/internal/domains/user"
	"furrymatch-backend/internal/infrastructure/database"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) user.Repository {
	return &postgresRepository{pool: pool}
}

const userColumns = `id, login, email, password_hash, first_name, last_name, activated, lang_key, created_at`

func (r *postgresRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (login, email, password_hash, first_name, last_name, activated, lang_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		u.Login, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Activated, u.LangKey,
	).Scan(&u.ID, &u.CreatedAt)

	switch {
	case err == nil:
		return nil
	case database.IsUniqueViolation(err, "login"):
		return user.ErrLoginAlreadyExists
	case database.IsUniqueViolation(err, "email"):
		return user.ErrEmailAlreadyExists
	default:
		return fmt.Errorf("insert user: %w", err)
	}
}

func (r *postgresRepository) FindByLogin(ctx context.Context, login string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE login = $1`

	var u user.User
	err := r.pool.QueryRow(ctx, query, login).Scan(
		&u.ID, &u.Login, &u.Email, &u.PasswordHash,
		&u.FirstName, &u.LastName, &u.Activated, &u.LangKey, &u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by login: %w", err)
	}
	return &u, nil
}

func (r *postgresRepository) ExistsByLogin(ctx context.Context, login string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE login = $1)`, login)
}

func (r *postgresRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE lower(email) = lower($1))`, email)
}

func (r *postgresRepository) exists(ctx context.Context, query string, arg string) (bool, error) {
	var ok bool
	if err := r.pool.QueryRow(ctx, query, arg).Scan(&ok); err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}
	return ok, nil
}

func (r *postgresRepository) DeleteByLogin(ctx context.Context, login string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE login = $1`, login)
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
