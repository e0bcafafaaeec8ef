package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/performance"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/pkg/logger"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/pkg/metrics"
)

// LookupService は上映と残席の読み取り専用の問い合わせ
type LookupService struct {
	catalog performance.Catalog
	ledger  performance.Ledger
	cache   AvailabilityCache
}

// NewLookupService は新しい LookupService を作成する。cache は nil でもよい
func NewLookupService(catalog performance.Catalog, ledger performance.Ledger, cache AvailabilityCache) *LookupService {
	return &LookupService{catalog: catalog, ledger: ledger, cache: cache}
}

// FindPerformances は作品名に一致する上映を劇場名・残席数付きで返す
// 一致しない場合は空のスライス
func (s *LookupService) FindPerformances(ctx context.Context, movieName string) ([]performance.Listing, error) {
	listings, err := s.catalog.FindByMovieName(ctx, movieName)
	if err != nil {
		return nil, fmt.Errorf("上映検索に失敗: %w", err)
	}
	if listings == nil {
		listings = []performance.Listing{}
	}
	return listings, nil
}

// GetAvailability は上映の残席数を返す
// キャッシュがあれば先に参照し、ミスしたら台帳から読んで保存する
func (s *LookupService) GetAvailability(ctx context.Context, performanceID int64) (int, error) {
	if s.cache != nil {
		seats, err := s.cache.GetAvailableSeats(ctx, performanceID)
		if err == nil {
			metrics.Get().IncCacheRequest("hit")
			return seats, nil
		}
		if s.cache.IsCacheMiss(err) {
			metrics.Get().IncCacheRequest("miss")
		} else {
			metrics.Get().IncCacheRequest("error")
			logger.Warn("残席キャッシュの取得に失敗", zap.Int64("performance_id", performanceID), zap.Error(err))
		}
	}

	seats, err := s.ledger.AvailableSeats(ctx, performanceID)
	if err != nil {
		return 0, err
	}

	if s.cache != nil {
		if err := s.cache.SetAvailableSeats(ctx, performanceID, seats); err != nil {
			logger.Warn("残席キャッシュの保存に失敗", zap.Int64("performance_id", performanceID), zap.Error(err))
		}
	}
	return seats, nil
}
