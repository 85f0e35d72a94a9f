package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"carrental/internal/db"

	"github.com/jmoiron/sqlx"
)

const userColumns = `id, username, password, email, phone, created_at`

type UserStore interface {
	Create(ctx context.Context, u *db.User) error
	// GetByID and GetByUsername return nil, nil when the user does not exist.
	GetByID(ctx context.Context, id int64) (*db.User, error)
	GetByUsername(ctx context.Context, username string) (*db.User, error)
	List(ctx context.Context) ([]db.User, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type UserRepository struct {
	DB *sqlx.DB
}

func NewUserRepository(conn *sqlx.DB) *UserRepository {
	return &UserRepository{DB: conn}
}

func (r *UserRepository) Create(ctx context.Context, u *db.User) error {
	query := `
		INSERT INTO users (username, password, email, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	err := r.DB.QueryRowxContext(ctx, query, u.Username, u.PasswordHash, u.Email, u.Phone).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating user: %w", translate(err))
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*db.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*db.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg interface{}) (*db.User, error) {
	var u db.User
	if err := r.DB.GetContext(ctx, &u, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying user: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]db.User, error) {
	var users []db.User
	if err := r.DB.SelectContext(ctx, &users, `SELECT `+userColumns+` FROM users ORDER BY id`); err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("error deleting user %d: %w", id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
