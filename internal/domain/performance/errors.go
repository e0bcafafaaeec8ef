package performance

import "errors"

// Performance ドメインのエラー定義
var (
	ErrPerformanceNotFound   = errors.New("上映が見つかりません")
	ErrTheatreIDRequired     = errors.New("劇場IDは必須です")
	ErrMovieIDRequired       = errors.New("作品IDは必須です")
	ErrInvalidTotalSeats     = errors.New("座席数は1以上である必要があります")
	ErrInvalidAvailableSeats = errors.New("残席数は0以上かつ座席数以下である必要があります")
)
