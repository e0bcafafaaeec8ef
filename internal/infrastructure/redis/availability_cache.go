package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrCacheMiss = errors.New("キャッシュが見つかりません")
)

// AvailabilityCache は上映ごとの残席数のキャッシュを管理する
// 台帳が正であり、キャッシュは読み取り専用の表示にのみ使う
type AvailabilityCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewAvailabilityCache は新しいAvailabilityCacheインスタンスを作成する
func NewAvailabilityCache(client redis.Cmdable, ttl time.Duration) *AvailabilityCache {
	return &AvailabilityCache{client: client, ttl: ttl}
}

// GetAvailableSeats は上映の残席数をキャッシュから取得する
func (c *AvailabilityCache) GetAvailableSeats(ctx context.Context, performanceID int64) (int, error) {
	val, err := c.client.Get(ctx, availableSeatsKey(performanceID)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrCacheMiss
		}
		return 0, fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}
	return val, nil
}

// SetAvailableSeats は上映の残席数をキャッシュに保存する
func (c *AvailabilityCache) SetAvailableSeats(ctx context.Context, performanceID int64, seats int) error {
	if err := c.client.Set(ctx, availableSeatsKey(performanceID), seats, c.ttl).Err(); err != nil {
		return fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return nil
}

// Invalidate は上映のキャッシュを無効化する
func (c *AvailabilityCache) Invalidate(ctx context.Context, performanceID int64) error {
	if err := c.client.Del(ctx, availableSeatsKey(performanceID)).Err(); err != nil {
		return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
	}
	return nil
}

// IsCacheMiss はキャッシュミスかを返す
func (c *AvailabilityCache) IsCacheMiss(err error) bool {
	return errors.Is(err, ErrCacheMiss)
}

func availableSeatsKey(performanceID int64) string {
	return fmt.Sprintf("performance:%d:available_seats", performanceID)
}
