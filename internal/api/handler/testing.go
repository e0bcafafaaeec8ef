package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/api"
)

// NewTestEcho はテスト用のEchoインスタンスを作成する
func NewTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	return e
}
