package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

type LookupHandler struct {
	service LookupServiceInterface
}

func NewLookupHandler(s LookupServiceInterface) *LookupHandler {
	return &LookupHandler{service: s}
}

type PerformanceListingResponse struct {
	TheatreName    string `json:"theatre_name" example:"PVR"`
	PerformanceID  int64  `json:"performance_id" example:"1001"`
	AvailableSeats int    `json:"available_seats" example:"100"`
}

type AvailabilityResponse struct {
	PerformanceID  int64 `json:"performance_id" example:"1001"`
	AvailableSeats int   `json:"available_seats" example:"100"`
}

// FindPerformances godoc
// @Summary 作品名で上映を検索
// @Tags performances
// @Produce json
// @Param movie query string true "作品名"
// @Success 200 {array} PerformanceListingResponse
// @Failure 400 {object} map[string]string
// @Router /performances [get]
func (h *LookupHandler) FindPerformances(c echo.Context) error {
	movie := c.QueryParam("movie")
	if movie == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "作品名が必要です")
	}
	listings, err := h.service.FindPerformances(c.Request().Context(), movie)
	if err != nil {
		return toHTTPError(err)
	}
	resp := make([]PerformanceListingResponse, len(listings))
	for i, l := range listings {
		resp[i] = PerformanceListingResponse{
			TheatreName: l.TheatreName, PerformanceID: l.PerformanceID, AvailableSeats: l.AvailableSeats,
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// GetAvailability godoc
// @Summary 残席数を取得
// @Tags performances
// @Produce json
// @Param id path int true "上映ID"
// @Success 200 {object} AvailabilityResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /performances/{id}/availability [get]
func (h *LookupHandler) GetAvailability(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "上映IDが不正です")
	}
	seats, err := h.service.GetAvailability(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, AvailabilityResponse{PerformanceID: id, AvailableSeats: seats})
}
