package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/user"
)

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(NewDatabase())

	u := user.NewUser("alice", "Alice", "Main St", "0123456789")
	u.ID = 1000
	require.NoError(t, repo.Create(ctx, u))

	got, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), got.ID)
	assert.Equal(t, "Alice", got.Name)

	// 返り値を変更してもストアには影響しない
	got.Name = "changed"
	again, _ := repo.GetByUsername(ctx, "alice")
	assert.Equal(t, "Alice", again.Name)

	dup := user.NewUser("alice", "Other", "", "")
	dup.ID = 1001
	assert.ErrorIs(t, repo.Create(ctx, dup), user.ErrUsernameTaken)

	_, err = repo.GetByUsername(ctx, "bob")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
