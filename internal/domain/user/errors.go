package user

import "errors"

// User ドメインのエラー定義
var (
	ErrUserNotFound           = errors.New("会員が見つかりません")
	ErrUsernameTaken          = errors.New("ユーザー名は既に使われています")
	ErrUsernameRequired       = errors.New("ユーザー名は必須です")
	ErrUsernameTooLong        = errors.New("ユーザー名は50文字以内である必要があります")
	ErrNameRequired           = errors.New("氏名は必須です")
	ErrNameTooLong            = errors.New("氏名は100文字以内である必要があります")
	ErrAddressTooLong         = errors.New("住所は255文字以内である必要があります")
	ErrInvalidTelephoneNumber = errors.New("電話番号は10桁以内の数字である必要があります")
)
