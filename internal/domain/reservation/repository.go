package reservation

import (
	"context"

	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/transaction"
)

// Store は予約の追記専用ストア
type Store interface {
	// Record は予約を追記し、新しい予約IDを返す（トランザクション必須）
	// 同じ予約番号の予約は存在できない
	Record(ctx context.Context, tx transaction.Tx, userID, performanceID, reservationNumber int64) (int64, error)
	// GetByNumber は予約番号から予約を取得する
	GetByNumber(ctx context.Context, reservationNumber int64) (*Reservation, error)
	// ListByUser は会員の予約を予約番号の降順で取得する
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*Reservation, error)
	// CountByPerformance は上映ごとの予約数を返す
	CountByPerformance(ctx context.Context, performanceID int64) (int, error)
}
