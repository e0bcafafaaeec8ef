package memory

import (
	"context"
	"sort"

	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/reservation"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/transaction"
)

// ReservationRepository はインメモリの予約ストア
type ReservationRepository struct{ db *Database }

func NewReservationRepository(db *Database) *ReservationRepository {
	return &ReservationRepository{db: db}
}

func (r *ReservationRepository) Record(ctx context.Context, tx transaction.Tx, userID, performanceID, reservationNumber int64) (int64, error) {
	memTx, err := unwrapTx(tx)
	if err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	res := reservation.NewReservation(userID, performanceID, reservationNumber)
	if err := res.Validate(); err != nil {
		return 0, err
	}

	r.db.mu.Lock()
	if _, exists := r.db.reservations[reservationNumber]; exists {
		r.db.mu.Unlock()
		return 0, reservation.ErrDuplicateReservationNumber
	}
	res.ID = r.db.lastReservationID.Add(1)
	r.db.reservations[reservationNumber] = res
	r.db.mu.Unlock()

	if err := memTx.onRollback(func() { r.remove(reservationNumber) }); err != nil {
		r.remove(reservationNumber)
		return 0, err
	}
	return res.ID, nil
}

func (r *ReservationRepository) remove(reservationNumber int64) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.reservations, reservationNumber)
}

func (r *ReservationRepository) GetByNumber(ctx context.Context, reservationNumber int64) (*reservation.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	res, ok := r.db.reservations[reservationNumber]
	if !ok {
		return nil, reservation.ErrReservationNotFound
	}
	copied := *res
	return &copied, nil
}

func (r *ReservationRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*reservation.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.db.mu.RLock()
	matched := make([]*reservation.Reservation, 0)
	for _, res := range r.db.reservations {
		if res.UserID == userID {
			copied := *res
			matched = append(matched, &copied)
		}
	}
	r.db.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ReservationNumber > matched[j].ReservationNumber
	})
	if offset >= len(matched) {
		return []*reservation.Reservation{}, nil
	}
	end := len(matched)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return matched[offset:end], nil
}

func (r *ReservationRepository) CountByPerformance(ctx context.Context, performanceID int64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	count := 0
	for _, res := range r.db.reservations {
		if res.PerformanceID == performanceID {
			count++
		}
	}
	return count, nil
}

var _ reservation.Store = (*ReservationRepository)(nil)
