package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/sequence"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/transaction"
)

// SequenceGenerator は INCR で払い出し回数を数え、設定から値を求める
// 複数プロセスから同じ Redis を共有しても値は重複しない
type SequenceGenerator struct {
	client   redis.Cmdable
	settings map[sequence.Domain]sequence.Settings
}

// NewSequenceGenerator は新しい SequenceGenerator を作成する
func NewSequenceGenerator(client redis.Cmdable, settings map[sequence.Domain]sequence.Settings) (*SequenceGenerator, error) {
	for d, s := range settings {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if err := s.Validate(); err != nil {
			return nil, err
		}
	}
	return &SequenceGenerator{client: client, settings: settings}, nil
}

func (g *SequenceGenerator) Next(ctx context.Context, d sequence.Domain) (int64, error) {
	s, ok := g.settings[d]
	if !ok {
		return 0, sequence.ErrUnknownDomain
	}
	n, err := g.client.Incr(ctx, sequenceKey(d)).Result()
	if err != nil {
		return 0, fmt.Errorf("%s の採番に失敗: %w: %v", d, transaction.ErrStoreUnavailable, err)
	}
	return s.Nth(n)
}

// EnsureFloor は払い出し済みの最大値 last より後から払い出すよう、カウンタを初期化する
// Redis の再起動やフラッシュでキーが消えていた場合に、既存の番号との重複を防ぐ
// キーが残っていれば何もしない
func (g *SequenceGenerator) EnsureFloor(ctx context.Context, d sequence.Domain, last int64) error {
	s, ok := g.settings[d]
	if !ok {
		return sequence.ErrUnknownDomain
	}
	if last < s.Start {
		return nil
	}
	// last 以下の値を払い出した回数
	issued := (last-s.Start)/s.Step + 1
	if err := g.client.SetNX(ctx, sequenceKey(d), issued, 0).Err(); err != nil {
		return fmt.Errorf("%s の採番下限の設定に失敗: %w: %v", d, transaction.ErrStoreUnavailable, err)
	}
	return nil
}

func sequenceKey(d sequence.Domain) string {
	return fmt.Sprintf("sequence:%s", d)
}

var _ sequence.Generator = (*SequenceGenerator)(nil)
