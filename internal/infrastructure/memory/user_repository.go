package memory

import (
	"context"

	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/user"
)

// UserRepository はインメモリの会員ストア
type UserRepository struct{ db *Database }

func NewUserRepository(db *Database) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, exists := r.db.users[u.Username]; exists {
		return user.ErrUsernameTaken
	}
	copied := *u
	r.db.users[u.Username] = &copied
	return nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	u, ok := r.db.users[username]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

var _ user.Repository = (*UserRepository)(nil)
