package reservation

import "errors"

// Reservation ドメインのエラー定義
var (
	ErrReservationNotFound        = errors.New("予約が見つかりません")
	ErrDuplicateReservationNumber = errors.New("同じ予約番号の予約が既に存在します")
	ErrUserIDRequired             = errors.New("会員IDは必須です")
	ErrPerformanceIDRequired      = errors.New("上映IDは必須です")
	ErrInvalidReservationNumber   = errors.New("予約番号は1以上である必要があります")
)
