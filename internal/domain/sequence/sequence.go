package sequence

import (
	"context"
	"math"
)

// Domain は独立した採番系列を表す
type Domain string

const (
	DomainUser        Domain = "user"
	DomainReservation Domain = "reservation"
)

// Domains は既知の採番系列の一覧
var Domains = []Domain{DomainUser, DomainReservation}

// Validate は既知の系列かを検証する
func (d Domain) Validate() error {
	for _, known := range Domains {
		if d == known {
			return nil
		}
	}
	return ErrUnknownDomain
}

// Generator は系列ごとに単調増加する一意な整数を払い出す
// どの呼び出し順序でも、同じ系列で同じ値が二度返ることはない
type Generator interface {
	Next(ctx context.Context, d Domain) (int64, error)
}

// Settings は系列の開始値・増分・上限
type Settings struct {
	Start int64
	Step  int64
	Max   int64
}

// DefaultSettings は会員番号を1000から、予約番号を1から払い出す設定を返す
func DefaultSettings() map[Domain]Settings {
	return map[Domain]Settings{
		DomainUser:        {Start: 1000, Step: 1, Max: math.MaxInt64},
		DomainReservation: {Start: 1, Step: 1, Max: math.MaxInt64},
	}
}

// Validate は設定値の検証を行う
func (s Settings) Validate() error {
	if s.Step <= 0 {
		return ErrInvalidStep
	}
	if s.Max < s.Start {
		return ErrInvalidRange
	}
	return nil
}

// Nth は系列の n 番目（1始まり）の値を返す。上限を超える場合は ErrCapacityExhausted
func (s Settings) Nth(n int64) (int64, error) {
	if n <= 0 {
		return 0, ErrInvalidRange
	}
	// Start + (n-1)*Step がオーバーフローしないよう上限側で比較する
	if n-1 > (s.Max-s.Start)/s.Step {
		return 0, ErrCapacityExhausted
	}
	return s.Start + (n-1)*s.Step, nil
}
