package user

import "context"

// Repository は会員リポジトリのインターフェース
type Repository interface {
	// Create は採番済みの会員を登録する（ユーザー名の一意性はストア側の制約で保証）
	Create(ctx context.Context, u *User) error
	// GetByUsername はユーザー名から会員を取得する
	GetByUsername(ctx context.Context, username string) (*User, error)
}
