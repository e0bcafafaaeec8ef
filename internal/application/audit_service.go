package application

import (
	"context"
	"fmt"

	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/performance"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/reservation"
)

// LedgerDrift は残席数と予約記録が一致しない上映
type LedgerDrift struct {
	PerformanceID  int64
	TotalSeats     int
	AvailableSeats int
	Reservations   int
}

// ExpectedAvailable は予約記録から求めた残席数
func (d LedgerDrift) ExpectedAvailable() int {
	return d.TotalSeats - d.Reservations
}

// AuditService は台帳と予約ストアの整合性を検査する
type AuditService struct {
	catalog performance.Catalog
	store   reservation.Store
}

func NewAuditService(catalog performance.Catalog, store reservation.Store) *AuditService {
	return &AuditService{catalog: catalog, store: store}
}

// AuditLedger は全上映について 座席数 - 残席数 == 予約数 と 0 <= 残席数 <= 座席数 を検査する
// 上映ごとに別々に読むため、予約と同時に実行すると一時的な不一致を報告することがある
func (s *AuditService) AuditLedger(ctx context.Context) ([]LedgerDrift, error) {
	performances, err := s.catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("上映一覧取得に失敗: %w", err)
	}

	drifts := make([]LedgerDrift, 0)
	for _, p := range performances {
		count, err := s.store.CountByPerformance(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("予約数取得に失敗: %w", err)
		}
		if p.Validate() == nil && p.ReservedSeats() == count {
			continue
		}
		drifts = append(drifts, LedgerDrift{
			PerformanceID:  p.ID,
			TotalSeats:     p.TotalSeats,
			AvailableSeats: p.AvailableSeats,
			Reservations:   count,
		})
	}
	return drifts, nil
}
