package application

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/sequence"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/user"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/pkg/logger"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/pkg/metrics"
)

type AccountService struct {
	userRepo user.Repository
	ids      sequence.Generator
}

func NewAccountService(ur user.Repository, ids sequence.Generator) *AccountService {
	return &AccountService{userRepo: ur, ids: ids}
}

type RegisterInput struct {
	Username        string
	Name            string
	Address         string
	TelephoneNumber string
}

// Register は会員番号を払い出して会員を登録する
// ユーザー名の一意性は最終的にストアの制約で保証される
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*user.User, error) {
	u := user.NewUser(input.Username, input.Name, input.Address, input.TelephoneNumber)
	if err := u.Validate(); err != nil {
		return nil, err
	}

	// 採番前に重複を弾き、番号の無駄な消費を減らす
	if _, err := s.userRepo.GetByUsername(ctx, u.Username); err == nil {
		return nil, user.ErrUsernameTaken
	} else if !errors.Is(err, user.ErrUserNotFound) {
		return nil, fmt.Errorf("会員取得に失敗: %w", err)
	}

	id, err := s.ids.Next(ctx, sequence.DomainUser)
	if err != nil {
		if errors.Is(err, sequence.ErrCapacityExhausted) {
			logger.Error("会員番号の採番範囲を使い切りました", zap.Error(err))
		}
		return nil, fmt.Errorf("会員番号の採番に失敗: %w", err)
	}
	metrics.Get().IncIdentifierIssued(string(sequence.DomainUser))
	u.ID = id

	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}
	logger.Info("会員を登録しました", zap.Int64("user_id", u.ID), zap.String("username", u.Username))
	return u, nil
}

// Login は会員の存在確認を行う。未登録は false でエラーにはしない
func (s *AccountService) Login(ctx context.Context, username string) (bool, error) {
	if _, err := s.userRepo.GetByUsername(ctx, username); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("会員取得に失敗: %w", err)
	}
	return true, nil
}
