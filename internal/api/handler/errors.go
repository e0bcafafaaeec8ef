package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/performance"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/reservation"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/transaction"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/user"
)

var validationErrors = []error{
	user.ErrUsernameRequired,
	user.ErrUsernameTooLong,
	user.ErrNameRequired,
	user.ErrNameTooLong,
	user.ErrAddressTooLong,
	user.ErrInvalidTelephoneNumber,
}

// toHTTPError はドメインエラーをHTTPエラーに変換する
// 5xx は内部の詳細を返さず、元のエラーを Internal に残す
func toHTTPError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, user.ErrUserNotFound),
		errors.Is(err, performance.ErrPerformanceNotFound),
		errors.Is(err, reservation.ErrReservationNotFound):
		return echo.NewHTTPError(http.StatusNotFound, rootMessage(err))
	case errors.Is(err, user.ErrUsernameTaken):
		return echo.NewHTTPError(http.StatusConflict, user.ErrUsernameTaken.Error())
	case transaction.IsRetryable(err):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "一時的に処理できません。再試行してください").SetInternal(err)
	}
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return echo.NewHTTPError(http.StatusBadRequest, target.Error())
		}
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "内部サーバーエラー").SetInternal(err)
}

// rootMessage はラップを剥がした最も内側のエラーメッセージを返す
func rootMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}
