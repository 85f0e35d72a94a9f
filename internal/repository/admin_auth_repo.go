package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"carrental/internal/db"

	"github.com/jmoiron/sqlx"
)

type AdminAuthRepository interface {
	GetByEmail(ctx context.Context, email string) (*db.Admin, error)
	CreateAdmin(ctx context.Context, email, passwordHash string) error
}

type adminAuthRepository struct {
	db *sqlx.DB
}

func NewAdminAuthRepository(conn *sqlx.DB) AdminAuthRepository {
	return &adminAuthRepository{db: conn}
}

func (r *adminAuthRepository) GetByEmail(ctx context.Context, email string) (*db.Admin, error) {
	var admin db.Admin
	err := r.db.GetContext(ctx, &admin, "SELECT id, email, password_hash FROM admins WHERE email = $1", email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &admin, nil
}

func (r *adminAuthRepository) CreateAdmin(ctx context.Context, email, passwordHash string) error {
	query := "INSERT INTO admins (email, password_hash) VALUES ($1, $2)"
	if _, err := r.db.ExecContext(ctx, query, email, passwordHash); err != nil {
		return fmt.Errorf("error creating admin: %w", translate(err))
	}
	return nil
}
