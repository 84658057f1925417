package repository

import (
	"context"
	"errors"

	"github.com/M-A-Yakout/Booking-Flight/internal/domain"
	apperrors "github.com/M-A-Yakout/Booking-Flight/pkg/app_errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository is the read-only user directory the booking flow consults.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Exists(ctx context.Context, username string) (bool, error)
}

type PGUserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) UserRepository {
	return &PGUserRepository{db: db}
}

func (r *PGUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT username, full_name, email, role, created_at FROM users WHERE username=$1`, username)
	var u domain.User
	if err := row.Scan(&u.Username, &u.FullName, &u.Email, &u.Role, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *PGUserRepository) Exists(ctx context.Context, username string) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username=$1)`, username).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

var _ UserRepository = (*PGUserRepository)(nil)
