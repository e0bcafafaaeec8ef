package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/reservation"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/transaction"
)

var insertReservationQuery = regexp.QuoteMeta(`INSERT INTO reservations (user_id, performance_id, reservation_number, created_at) VALUES ($1, $2, $3, $4) RETURNING reservation_id`)

func TestReservationRepository_Record(t *testing.T) {
	ctx := context.Background()

	t.Run("追記", func(t *testing.T) {
		db, mock := newMockDB(t)
		tx := beginTx(t, db, mock)
		mock.ExpectQuery(insertReservationQuery).
			WithArgs(int64(1000), int64(1001), int64(1), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"reservation_id"}).AddRow(77))

		id, err := NewReservationRepository(db).Record(ctx, tx, 1000, 1001, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(77), id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("予約番号の重複", func(t *testing.T) {
		db, mock := newMockDB(t)
		tx := beginTx(t, db, mock)
		mock.ExpectQuery(insertReservationQuery).WillReturnError(&pq.Error{Code: "23505"})

		_, err := NewReservationRepository(db).Record(ctx, tx, 1000, 1001, 1)
		assert.ErrorIs(t, err, reservation.ErrDuplicateReservationNumber)
	})

	t.Run("接続断はストア停止", func(t *testing.T) {
		db, mock := newMockDB(t)
		tx := beginTx(t, db, mock)
		mock.ExpectQuery(insertReservationQuery).WillReturnError(&pq.Error{Code: "08006"})

		_, err := NewReservationRepository(db).Record(ctx, tx, 1000, 1001, 1)
		assert.ErrorIs(t, err, transaction.ErrStoreUnavailable)
	})

	t.Run("不正な予約番号はSQLを発行しない", func(t *testing.T) {
		db, mock := newMockDB(t)
		tx := beginTx(t, db, mock)

		_, err := NewReservationRepository(db).Record(ctx, tx, 1000, 1001, 0)
		assert.ErrorIs(t, err, reservation.ErrInvalidReservationNumber)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReservationRepository_GetByNumber(t *testing.T) {
	ctx := context.Background()
	columns := []string{"reservation_id", "user_id", "performance_id", "reservation_number", "created_at"}

	t.Run("取得", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`FROM reservations WHERE reservation_number = \$1`).WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(10, 1000, 1001, 5, time.Now()))

		res, err := NewReservationRepository(db).GetByNumber(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, int64(10), res.ID)
		assert.Equal(t, int64(5), res.ReservationNumber)
	})

	t.Run("存在しない", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`FROM reservations WHERE reservation_number = \$1`).WithArgs(int64(404)).
			WillReturnRows(sqlmock.NewRows(columns))

		_, err := NewReservationRepository(db).GetByNumber(ctx, 404)
		assert.ErrorIs(t, err, reservation.ErrReservationNotFound)
	})
}

func TestReservationRepository_ListByUser(t *testing.T) {
	db, mock := newMockDB(t)
	columns := []string{"reservation_id", "user_id", "performance_id", "reservation_number", "created_at"}
	mock.ExpectQuery(`WHERE user_id = \$1 ORDER BY reservation_number DESC LIMIT \$2 OFFSET \$3`).
		WithArgs(int64(1000), 20, 0).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(2, 1000, 1002, 9, time.Now()).
			AddRow(1, 1000, 1001, 3, time.Now()))

	list, err := NewReservationRepository(db).ListByUser(context.Background(), 1000, 20, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(9), list[0].ReservationNumber)
	assert.Equal(t, int64(3), list[1].ReservationNumber)
}

func TestReservationRepository_CountByPerformance(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM reservations WHERE performance_id = $1`)).
		WithArgs(int64(1001)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := NewReservationRepository(db).CountByPerformance(context.Background(), 1001)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
