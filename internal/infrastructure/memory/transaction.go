package memory

import (
	"context"
	"sync"

	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/transaction"
)

// Tx はインメモリストアのトランザクション
// 書き込みは即座に反映し、Rollback 時に取り消し処理を逆順に実行する
type Tx struct {
	mu    sync.Mutex
	hooks []func(committed bool)
	done  bool
}

// onFinish は Commit または Rollback の完了時に実行する処理を登録する
func (t *Tx) onFinish(fn func(committed bool)) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return transaction.ErrTxDone
	}
	t.hooks = append(t.hooks, fn)
	return nil
}

// onRollback は Rollback 時に実行する取り消し処理を登録する
func (t *Tx) onRollback(fn func()) error {
	return t.onFinish(func(committed bool) {
		if !committed {
			fn()
		}
	})
}

// Commit は取り消し処理を破棄して確定する
func (t *Tx) Commit() error {
	return t.finish(true)
}

// Rollback は登録された取り消し処理を逆順に実行する
func (t *Tx) Rollback() error {
	return t.finish(false)
}

func (t *Tx) finish(committed bool) error {
	t.mu.Lock()
	if t.done {
		t.mu.Unlock()
		return transaction.ErrTxDone
	}
	t.done = true
	hooks := t.hooks
	t.hooks = nil
	t.mu.Unlock()

	for i := len(hooks) - 1; i >= 0; i-- {
		hooks[i](committed)
	}
	return nil
}

// TxManager はインメモリストア用のトランザクションマネージャー
type TxManager struct{}

// NewTxManager は新しい TxManager を作成する
func NewTxManager() *TxManager {
	return &TxManager{}
}

// Begin は新しいトランザクションを開始する
func (m *TxManager) Begin(ctx context.Context) (transaction.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Tx{}, nil
}

// unwrapTx は transaction.Tx から *Tx を取り出す
func unwrapTx(tx transaction.Tx) (*Tx, error) {
	if t, ok := tx.(*Tx); ok && t != nil {
		return t, nil
	}
	return nil, transaction.ErrUnsupportedTx
}

var _ transaction.Manager = (*TxManager)(nil)
