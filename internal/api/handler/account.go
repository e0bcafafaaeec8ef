package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/application"
)

type AccountHandler struct {
	service AccountServiceInterface
}

func NewAccountHandler(s AccountServiceInterface) *AccountHandler {
	return &AccountHandler{service: s}
}

type RegisterRequest struct {
	Username        string `json:"username" validate:"required,max=50" example:"alice"`
	Name            string `json:"name" validate:"required,max=100" example:"Alice"`
	Address         string `json:"address" validate:"max=255" example:"Chennai"`
	TelephoneNumber string `json:"telephone_number" validate:"omitempty,numeric,max=10" example:"9876543210"`
}

type RegisterResponse struct {
	UserID   int64  `json:"user_id" example:"1000"`
	Username string `json:"username" example:"alice"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required" example:"alice"`
}

type LoginResponse struct {
	Login bool `json:"login"`
}

// Register godoc
// @Summary 会員登録
// @Description 会員番号を払い出して会員を登録します
// @Tags users
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "会員情報"
// @Success 201 {object} RegisterResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string "ユーザー名が使用済み"
// @Router /users [post]
func (h *AccountHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	u, err := h.service.Register(c.Request().Context(), application.RegisterInput{
		Username: req.Username, Name: req.Name, Address: req.Address, TelephoneNumber: req.TelephoneNumber,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, RegisterResponse{UserID: u.ID, Username: u.Username})
}

// Login godoc
// @Summary ログイン
// @Description 会員が登録済みかを確認します
// @Tags users
// @Accept json
// @Produce json
// @Param request body LoginRequest true "ユーザー名"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} map[string]string
// @Router /login [post]
func (h *AccountHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	ok, err := h.service.Login(c.Request().Context(), req.Username)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, LoginResponse{Login: ok})
}
