package user

import (
	"time"
	"unicode"
	"unicode/utf8"
)

const (
	maxUsernameLength  = 50
	maxNameLength      = 100
	maxAddressLength   = 255
	maxTelephoneLength = 10
)

// User は会員エンティティを表す
// ID は採番サービスの user 系列から払い出される
type User struct {
	ID              int64
	Username        string
	Name            string
	Address         string
	TelephoneNumber string
	CreatedAt       time.Time
}

// NewUser は新しい会員を作成する（ID は未採番）
func NewUser(username, name, address, telephoneNumber string) *User {
	return &User{
		Username:        username,
		Name:            name,
		Address:         address,
		TelephoneNumber: telephoneNumber,
		CreatedAt:       time.Now(),
	}
}

// Validate は会員情報の検証を行う
func (u *User) Validate() error {
	if u.Username == "" {
		return ErrUsernameRequired
	}
	if utf8.RuneCountInString(u.Username) > maxUsernameLength {
		return ErrUsernameTooLong
	}
	if u.Name == "" {
		return ErrNameRequired
	}
	if utf8.RuneCountInString(u.Name) > maxNameLength {
		return ErrNameTooLong
	}
	if utf8.RuneCountInString(u.Address) > maxAddressLength {
		return ErrAddressTooLong
	}
	if u.TelephoneNumber != "" {
		if len(u.TelephoneNumber) > maxTelephoneLength {
			return ErrInvalidTelephoneNumber
		}
		for _, r := range u.TelephoneNumber {
			if !unicode.IsDigit(r) {
				return ErrInvalidTelephoneNumber
			}
		}
	}
	return nil
}
