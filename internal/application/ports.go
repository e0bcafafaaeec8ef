package application

import (
	"context"

	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/reservation"
)

// AvailabilityCache は残席数の読み取りキャッシュ
// 台帳が正であり、キャッシュは表示用の参照にのみ使う
type AvailabilityCache interface {
	GetAvailableSeats(ctx context.Context, performanceID int64) (int, error)
	SetAvailableSeats(ctx context.Context, performanceID int64, seats int) error
	Invalidate(ctx context.Context, performanceID int64) error
	IsCacheMiss(err error) bool
}

// EventPublisher は予約確定イベントの送信先
type EventPublisher interface {
	PublishReservationCreated(ctx context.Context, event *reservation.CreatedEvent) error
}
