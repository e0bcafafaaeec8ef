package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/transaction"
)

type foreignTx struct{}

func (foreignTx) Commit() error   { return nil }
func (foreignTx) Rollback() error { return nil }

func TestTxManager_CommitThenRollback(t *testing.T) {
	db, mock := newMockDB(t)
	tx := beginTx(t, db, mock)
	mock.ExpectCommit()

	require.NoError(t, tx.Commit())
	// コミット後の Rollback は何もしない
	assert.ErrorIs(t, tx.Rollback(), transaction.ErrTxDone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxManager_Rollback(t *testing.T) {
	db, mock := newMockDB(t)
	tx := beginTx(t, db, mock)
	mock.ExpectRollback()

	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxManager_BeginFailure(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin().WillReturnError(&pq.Error{Code: "08006"})

	_, err := NewTxManager(db).Begin(context.Background())
	assert.ErrorIs(t, err, transaction.ErrStoreUnavailable)
}

func TestUnwrapTx(t *testing.T) {
	t.Run("TxWrapper", func(t *testing.T) {
		db, mock := newMockDB(t)
		tx := beginTx(t, db, mock)

		sqlxTx, err := UnwrapTx(tx)
		require.NoError(t, err)
		assert.NotNil(t, sqlxTx)
	})

	t.Run("他のストアのトランザクション", func(t *testing.T) {
		_, err := UnwrapTx(foreignTx{})
		assert.True(t, errors.Is(err, transaction.ErrUnsupportedTx))
	})

	t.Run("nil", func(t *testing.T) {
		_, err := UnwrapTx(nil)
		assert.ErrorIs(t, err, transaction.ErrUnsupportedTx)
	})
}
