package performance

import (
	"context"

	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/transaction"
)

// Ledger は上映ごとの残席数を管理する台帳
type Ledger interface {
	// TryClaimSeat は残席があれば1席減らして true を返す（トランザクション必須）
	// 残席0は正常系として false を返し、状態は変更しない
	// 上映が存在しない場合は ErrPerformanceNotFound
	// 残席の確認と減算は同じ上映に対する他の確保と不可分に行われる
	TryClaimSeat(ctx context.Context, tx transaction.Tx, performanceID int64) (bool, error)
	// AvailableSeats は現在の残席数を返す
	AvailableSeats(ctx context.Context, performanceID int64) (int, error)
}

// Catalog は上映カタログの読み取り専用ビュー
type Catalog interface {
	// GetByID はIDから上映を取得する
	GetByID(ctx context.Context, id int64) (*Performance, error)
	// List は全上映を上映ID順に取得する
	List(ctx context.Context) ([]*Performance, error)
	// FindByMovieName は作品名に一致する上映を上映ID順に取得する
	FindByMovieName(ctx context.Context, movieName string) ([]Listing, error)
}
