package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/transaction"
)

// TxWrapper は sqlx.Tx を transaction.Tx インターフェースでラップする
type TxWrapper struct {
	*sqlx.Tx
}

// Commit はトランザクションをコミットする
func (t *TxWrapper) Commit() error {
	if err := t.Tx.Commit(); err != nil {
		if errors.Is(err, sql.ErrTxDone) {
			return transaction.ErrTxDone
		}
		return translateError(err, "コミットに失敗")
	}
	return nil
}

// Rollback はトランザクションをロールバックする
// コミット済みなら transaction.ErrTxDone を返す
func (t *TxWrapper) Rollback() error {
	if err := t.Tx.Rollback(); err != nil {
		if errors.Is(err, sql.ErrTxDone) {
			return transaction.ErrTxDone
		}
		return translateError(err, "ロールバックに失敗")
	}
	return nil
}

// TxManager は sqlx.DB を使用したトランザクションマネージャー
type TxManager struct {
	db *sqlx.DB
}

// NewTxManager は新しい TxManager を作成する
func NewTxManager(db *sqlx.DB) *TxManager {
	return &TxManager{db: db}
}

// Begin は READ COMMITTED のトランザクションを開始する
// 残席の減算は条件付き UPDATE の行ロックで直列化されるため、これより強い分離レベルは不要
func (m *TxManager) Begin(ctx context.Context) (transaction.Tx, error) {
	tx, err := m.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, translateError(err, "トランザクション開始に失敗")
	}
	return &TxWrapper{Tx: tx}, nil
}

// UnwrapTx は transaction.Tx から sqlx.Tx を取り出す
// リポジトリ実装で使用する
func UnwrapTx(tx transaction.Tx) (*sqlx.Tx, error) {
	if wrapper, ok := tx.(*TxWrapper); ok && wrapper.Tx != nil {
		return wrapper.Tx, nil
	}
	return nil, transaction.ErrUnsupportedTx
}

var _ transaction.Manager = (*TxManager)(nil)
