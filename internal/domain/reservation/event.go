package reservation

import "time"

// CreatedEvent は予約確定後にメッセージブローカーへ送るペイロード
type CreatedEvent struct {
	ReservationID     int64     `json:"reservation_id"`
	ReservationNumber int64     `json:"reservation_number"`
	UserID            int64     `json:"user_id"`
	Username          string    `json:"username"`
	PerformanceID     int64     `json:"performance_id"`
	CreatedAt         time.Time `json:"created_at"`
}
