package postgres

import (
	"context"
	"errors"

	"github.com/anzzxx/E-lern-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository — справочник пользователей: резолв токена в профиль и
// проверка @упоминаний.
type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (domain.Identity, error) {
	var ident domain.Identity
	err := r.db.QueryRow(ctx,
		`SELECT id, username, COALESCE(avatar, '') FROM users WHERE id=$1`,
		id).Scan(&ident.UserID, &ident.Username, &ident.Avatar)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Identity{}, domain.ErrUserNotFound
		}
		return domain.Identity{}, err
	}
	return ident, nil
}

func (r *UserRepository) Exists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username=$1)`,
		username).Scan(&exists)
	return exists, err
}
