package transaction

import "errors"

// ストレージ共通のエラー定義
var (
	ErrTxDone              = errors.New("トランザクションは既に終了しています")
	ErrUnsupportedTx       = errors.New("このストアでは利用できないトランザクションです")
	ErrStoreUnavailable    = errors.New("ストアに接続できません")
	ErrTransactionConflict = errors.New("トランザクションの競合が発生しました")
)

// IsRetryable は呼び出し側がバックオフ付きで再試行してよいエラーかを返す
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransactionConflict) || errors.Is(err, ErrStoreUnavailable)
}
