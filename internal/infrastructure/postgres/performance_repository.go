package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/performance"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/transaction"
)

type performanceRow struct {
	ID             int64     `db:"performance_id"`
	TheatreID      int64     `db:"theatre_id"`
	MovieID        int64     `db:"movie_id"`
	ShowDate       time.Time `db:"show_date"`
	ShowTime       time.Time `db:"show_time"`
	AvailableSeats int       `db:"available_seats"`
	TotalSeats     int       `db:"total_seats"`
}

func (r *performanceRow) toEntity() *performance.Performance {
	return &performance.Performance{
		ID: r.ID, TheatreID: r.TheatreID, MovieID: r.MovieID,
		ShowDate: r.ShowDate, ShowTime: r.ShowTime,
		AvailableSeats: r.AvailableSeats, TotalSeats: r.TotalSeats,
	}
}

type listingRow struct {
	TheatreName    string `db:"theatre_name"`
	PerformanceID  int64  `db:"performance_id"`
	AvailableSeats int    `db:"available_seats"`
}

const performanceColumns = `performance_id, theatre_id, movie_id, show_date, show_time, available_seats, total_seats`

// PerformanceRepository は上映テーブルに対する台帳とカタログの実装
type PerformanceRepository struct{ db *sqlx.DB }

func NewPerformanceRepository(db *sqlx.DB) *PerformanceRepository {
	return &PerformanceRepository{db: db}
}

// TryClaimSeat は条件付き UPDATE で1席確保する
// 更新が0行の場合は同じトランザクション内で上映の存在を確認し、
// 残席0（false）と未登録（ErrPerformanceNotFound）を区別する
func (r *PerformanceRepository) TryClaimSeat(ctx context.Context, tx transaction.Tx, performanceID int64) (bool, error) {
	sqlxTx, err := UnwrapTx(tx)
	if err != nil {
		return false, err
	}

	result, err := sqlxTx.ExecContext(ctx,
		`UPDATE performances SET available_seats = available_seats - 1 WHERE performance_id = $1 AND available_seats > 0`,
		performanceID)
	if err != nil {
		return false, translateError(err, "座席確保に失敗")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, translateError(err, "座席確保結果の取得に失敗")
	}
	if rows == 1 {
		return true, nil
	}

	var exists bool
	if err := sqlxTx.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM performances WHERE performance_id = $1)`, performanceID); err != nil {
		return false, translateError(err, "上映の存在確認に失敗")
	}
	if !exists {
		return false, performance.ErrPerformanceNotFound
	}
	return false, nil
}

func (r *PerformanceRepository) AvailableSeats(ctx context.Context, performanceID int64) (int, error) {
	var seats int
	if err := r.db.GetContext(ctx, &seats, `SELECT available_seats FROM performances WHERE performance_id = $1`, performanceID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, performance.ErrPerformanceNotFound
		}
		return 0, translateError(err, "残席数取得に失敗")
	}
	return seats, nil
}

func (r *PerformanceRepository) GetByID(ctx context.Context, id int64) (*performance.Performance, error) {
	var row performanceRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+performanceColumns+` FROM performances WHERE performance_id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, performance.ErrPerformanceNotFound
		}
		return nil, translateError(err, "上映取得に失敗")
	}
	return row.toEntity(), nil
}

func (r *PerformanceRepository) List(ctx context.Context) ([]*performance.Performance, error) {
	var rows []performanceRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT `+performanceColumns+` FROM performances ORDER BY performance_id`); err != nil {
		return nil, translateError(err, "上映一覧取得に失敗")
	}
	result := make([]*performance.Performance, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, nil
}

func (r *PerformanceRepository) FindByMovieName(ctx context.Context, movieName string) ([]performance.Listing, error) {
	var rows []listingRow
	query := `SELECT t.name AS theatre_name, p.performance_id, p.available_seats
		FROM performances p
		JOIN movies m ON p.movie_id = m.movie_id
		JOIN theatres t ON p.theatre_id = t.theatre_id
		WHERE m.name = $1
		ORDER BY p.performance_id`
	if err := r.db.SelectContext(ctx, &rows, query, movieName); err != nil {
		return nil, translateError(err, "上映検索に失敗")
	}
	result := make([]performance.Listing, len(rows))
	for i, row := range rows {
		result[i] = performance.Listing{
			TheatreName: row.TheatreName, PerformanceID: row.PerformanceID, AvailableSeats: row.AvailableSeats,
		}
	}
	return result, nil
}

var (
	_ performance.Ledger  = (*PerformanceRepository)(nil)
	_ performance.Catalog = (*PerformanceRepository)(nil)
)
