package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/reservation"
)

type BookingHandler struct {
	service BookingServiceInterface
}

func NewBookingHandler(s BookingServiceInterface) *BookingHandler {
	return &BookingHandler{service: s}
}

type BookRequest struct {
	Username      string `json:"username" validate:"required" example:"alice"`
	PerformanceID int64  `json:"performance_id" validate:"required,gt=0" example:"1001"`
}

// BookResponse は予約試行の結果
// 残席なしの場合は outcome のみ
type BookResponse struct {
	Outcome           string `json:"outcome" example:"reserved"`
	ReservationNumber int64  `json:"reservation_number,omitempty" example:"1"`
	ReservationID     int64  `json:"reservation_id,omitempty" example:"1"`
}

type ReservationResponse struct {
	ReservationID     int64     `json:"reservation_id" example:"1"`
	ReservationNumber int64     `json:"reservation_number" example:"1"`
	UserID            int64     `json:"user_id" example:"1000"`
	PerformanceID     int64     `json:"performance_id" example:"1001"`
	CreatedAt         time.Time `json:"created_at"`
}

func toReservationResponse(r *reservation.Reservation) ReservationResponse {
	return ReservationResponse{
		ReservationID: r.ID, ReservationNumber: r.ReservationNumber,
		UserID: r.UserID, PerformanceID: r.PerformanceID, CreatedAt: r.CreatedAt,
	}
}

// Book godoc
// @Summary 座席を1席予約
// @Description 残席があれば1席確保し予約番号を払い出します
// @Tags reservations
// @Accept json
// @Produce json
// @Param request body BookRequest true "予約情報"
// @Success 201 {object} BookResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string "会員または上映が存在しない"
// @Failure 409 {object} BookResponse "残席なし"
// @Failure 503 {object} map[string]string "競合またはストア停止"
// @Router /reservations [post]
func (h *BookingHandler) Book(c echo.Context) error {
	var req BookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	result, err := h.service.Book(c.Request().Context(), req.Username, req.PerformanceID)
	if err != nil {
		return toHTTPError(err)
	}
	if !result.Reserved() {
		return c.JSON(http.StatusConflict, BookResponse{Outcome: result.Outcome.String()})
	}
	return c.JSON(http.StatusCreated, BookResponse{
		Outcome:           result.Outcome.String(),
		ReservationNumber: result.ReservationNumber,
		ReservationID:     result.ReservationID,
	})
}

// GetByNumber godoc
// @Summary 予約を取得
// @Description 予約番号から予約を取得します
// @Tags reservations
// @Produce json
// @Param number path int true "予約番号"
// @Success 200 {object} ReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /reservations/{number} [get]
func (h *BookingHandler) GetByNumber(c echo.Context) error {
	number, err := strconv.ParseInt(c.Param("number"), 10, 64)
	if err != nil || number <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "予約番号が不正です")
	}
	r, err := h.service.GetReservation(c.Request().Context(), number)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toReservationResponse(r))
}

// ListByUser godoc
// @Summary 会員の予約一覧を取得
// @Description 予約番号の新しい順に返します
// @Tags reservations
// @Produce json
// @Param username path string true "ユーザー名"
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} ReservationResponse
// @Failure 404 {object} map[string]string
// @Router /users/{username}/reservations [get]
func (h *BookingHandler) ListByUser(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	reservations, err := h.service.ListUserReservations(c.Request().Context(), c.Param("username"), limit, offset)
	if err != nil {
		return toHTTPError(err)
	}
	resp := make([]ReservationResponse, len(reservations))
	for i, r := range reservations {
		resp[i] = toReservationResponse(r)
	}
	return c.JSON(http.StatusOK, resp)
}
