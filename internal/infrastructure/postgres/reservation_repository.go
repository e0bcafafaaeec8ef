package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/reservation"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/transaction"
)

type reservationRow struct {
	ID                int64     `db:"reservation_id"`
	UserID            int64     `db:"user_id"`
	PerformanceID     int64     `db:"performance_id"`
	ReservationNumber int64     `db:"reservation_number"`
	CreatedAt         time.Time `db:"created_at"`
}

func (r *reservationRow) toEntity() *reservation.Reservation {
	return &reservation.Reservation{
		ID: r.ID, UserID: r.UserID, PerformanceID: r.PerformanceID,
		ReservationNumber: r.ReservationNumber, CreatedAt: r.CreatedAt,
	}
}

const reservationColumns = `reservation_id, user_id, performance_id, reservation_number, created_at`

type ReservationRepository struct{ db *sqlx.DB }

func NewReservationRepository(db *sqlx.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

func (r *ReservationRepository) Record(ctx context.Context, tx transaction.Tx, userID, performanceID, reservationNumber int64) (int64, error) {
	res := reservation.NewReservation(userID, performanceID, reservationNumber)
	if err := res.Validate(); err != nil {
		return 0, err
	}
	sqlxTx, err := UnwrapTx(tx)
	if err != nil {
		return 0, err
	}

	query := `INSERT INTO reservations (user_id, performance_id, reservation_number, created_at) VALUES ($1, $2, $3, $4) RETURNING reservation_id`
	if err := sqlxTx.QueryRowContext(ctx, query, res.UserID, res.PerformanceID, res.ReservationNumber, res.CreatedAt).Scan(&res.ID); err != nil {
		if isUniqueViolation(err) {
			return 0, reservation.ErrDuplicateReservationNumber
		}
		return 0, translateError(err, "予約記録に失敗")
	}
	return res.ID, nil
}

func (r *ReservationRepository) GetByNumber(ctx context.Context, reservationNumber int64) (*reservation.Reservation, error) {
	var row reservationRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+reservationColumns+` FROM reservations WHERE reservation_number = $1`, reservationNumber); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, reservation.ErrReservationNotFound
		}
		return nil, translateError(err, "予約取得に失敗")
	}
	return row.toEntity(), nil
}

func (r *ReservationRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*reservation.Reservation, error) {
	var rows []reservationRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT `+reservationColumns+` FROM reservations WHERE user_id = $1 ORDER BY reservation_number DESC LIMIT $2 OFFSET $3`, userID, limit, offset); err != nil {
		return nil, translateError(err, "予約一覧取得に失敗")
	}
	result := make([]*reservation.Reservation, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, nil
}

func (r *ReservationRepository) CountByPerformance(ctx context.Context, performanceID int64) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM reservations WHERE performance_id = $1`, performanceID); err != nil {
		return 0, translateError(err, "予約数取得に失敗")
	}
	return count, nil
}

var _ reservation.Store = (*ReservationRepository)(nil)
