package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/user"
)

type userRow struct {
	ID              int64          `db:"user_id"`
	Username        string         `db:"username"`
	Name            string         `db:"name"`
	Address         sql.NullString `db:"address"`
	TelephoneNumber sql.NullString `db:"telephone_number"`
	CreatedAt       time.Time      `db:"created_at"`
}

func (r *userRow) toEntity() *user.User {
	return &user.User{
		ID: r.ID, Username: r.Username, Name: r.Name,
		Address: r.Address.String, TelephoneNumber: r.TelephoneNumber.String,
		CreatedAt: r.CreatedAt,
	}
}

type UserRepository struct{ db *sqlx.DB }

func NewUserRepository(db *sqlx.DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	query := `INSERT INTO users (user_id, username, name, address, telephone_number, created_at) VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.db.ExecContext(ctx, query, u.ID, u.Username, u.Name, nullString(u.Address), nullString(u.TelephoneNumber), u.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return user.ErrUsernameTaken
		}
		return translateError(err, "会員登録に失敗")
	}
	return nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	var row userRow
	query := `SELECT user_id, username, name, address, telephone_number, created_at FROM users WHERE username = $1`
	if err := r.db.GetContext(ctx, &row, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, translateError(err, "会員取得に失敗")
	}
	return row.toEntity(), nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

var _ user.Repository = (*UserRepository)(nil)
