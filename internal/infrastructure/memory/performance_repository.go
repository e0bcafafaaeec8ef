package memory

import (
	"context"
	"time"

	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/performance"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/transaction"
)

const (
	// maxClaimAttempts は CAS が他の確保に負け続けた場合の上限
	maxClaimAttempts = 64
	// pendingClaimWait は残席0でも未確定の確保がある間、結果を待つ上限
	pendingClaimWait    = 100 * time.Millisecond
	pendingPollInterval = time.Millisecond
)

// PerformanceRepository はインメモリの台帳とカタログ
type PerformanceRepository struct{ db *Database }

func NewPerformanceRepository(db *Database) *PerformanceRepository {
	return &PerformanceRepository{db: db}
}

// TryClaimSeat は残席カウンタを compare-and-swap で1減らす
// 確保した席は tx のロールバックで返却される
// 残席0でも他のトランザクションが未確定の席を持っていれば、その確定か返却を待ってから判断する
func (r *PerformanceRepository) TryClaimSeat(ctx context.Context, tx transaction.Tx, performanceID int64) (bool, error) {
	memTx, err := unwrapTx(tx)
	if err != nil {
		return false, err
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	c, ok := r.db.counter(performanceID)
	if !ok {
		return false, performance.ErrPerformanceNotFound
	}

	deadline := time.Now().Add(pendingClaimWait)
	for attempts := 0; attempts < maxClaimAttempts; {
		current := c.available.Load()
		if current <= 0 {
			if c.pending.Load() == 0 || time.Now().After(deadline) {
				return false, nil
			}
			if err := waitPending(ctx); err != nil {
				return false, err
			}
			continue
		}

		// CAS の前に数えておき、確保済みなのに pending が0に見える瞬間を作らない
		c.pending.Add(1)
		if !c.available.CompareAndSwap(current, current-1) {
			c.pending.Add(-1)
			attempts++
			continue
		}
		err := memTx.onFinish(func(committed bool) {
			if !committed {
				c.available.Add(1)
			}
			c.pending.Add(-1)
		})
		if err != nil {
			c.available.Add(1)
			c.pending.Add(-1)
			return false, err
		}
		return true, nil
	}
	return false, transaction.ErrTransactionConflict
}

func waitPending(ctx context.Context) error {
	timer := time.NewTimer(pendingPollInterval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (r *PerformanceRepository) AvailableSeats(ctx context.Context, performanceID int64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	c, ok := r.db.counter(performanceID)
	if !ok {
		return 0, performance.ErrPerformanceNotFound
	}
	return int(c.available.Load()), nil
}

func (r *PerformanceRepository) GetByID(ctx context.Context, id int64) (*performance.Performance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c, ok := r.db.counter(id)
	if !ok {
		return nil, performance.ErrPerformanceNotFound
	}
	return c.snapshot(), nil
}

func (r *PerformanceRepository) List(ctx context.Context) ([]*performance.Performance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	ids := r.db.sortedPerformanceIDs()
	result := make([]*performance.Performance, len(ids))
	for i, id := range ids {
		result[i] = r.db.performances[id].snapshot()
	}
	return result, nil
}

func (r *PerformanceRepository) FindByMovieName(ctx context.Context, movieName string) ([]performance.Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	result := make([]performance.Listing, 0)
	for _, id := range r.db.sortedPerformanceIDs() {
		c := r.db.performances[id]
		movie, ok := r.db.movies[c.performance.MovieID]
		if !ok || movie.Name != movieName {
			continue
		}
		theatre, ok := r.db.theatres[c.performance.TheatreID]
		if !ok {
			continue
		}
		result = append(result, performance.Listing{
			TheatreName:    theatre.Name,
			PerformanceID:  id,
			AvailableSeats: int(c.available.Load()),
		})
	}
	return result, nil
}

var (
	_ performance.Ledger  = (*PerformanceRepository)(nil)
	_ performance.Catalog = (*PerformanceRepository)(nil)
)
