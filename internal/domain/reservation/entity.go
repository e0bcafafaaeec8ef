package reservation

import "time"

// Reservation は予約エンティティを表す
// 作成後は変更されない追記専用のレコード
type Reservation struct {
	ID                int64
	UserID            int64
	PerformanceID     int64
	ReservationNumber int64
	CreatedAt         time.Time
}

// NewReservation は新しい予約を作成する（ID はストアが払い出す）
func NewReservation(userID, performanceID, reservationNumber int64) *Reservation {
	return &Reservation{
		UserID:            userID,
		PerformanceID:     performanceID,
		ReservationNumber: reservationNumber,
		CreatedAt:         time.Now(),
	}
}

// Validate は予約の検証を行う
func (r *Reservation) Validate() error {
	if r.UserID == 0 {
		return ErrUserIDRequired
	}
	if r.PerformanceID == 0 {
		return ErrPerformanceIDRequired
	}
	if r.ReservationNumber <= 0 {
		return ErrInvalidReservationNumber
	}
	return nil
}
