package sequence

import "errors"

// Sequence ドメインのエラー定義
var (
	ErrCapacityExhausted = errors.New("採番可能な値を使い切りました")
	ErrUnknownDomain     = errors.New("未知の採番系列です")
	ErrInvalidStep       = errors.New("増分は1以上である必要があります")
	ErrInvalidRange      = errors.New("採番範囲が不正です")
)
