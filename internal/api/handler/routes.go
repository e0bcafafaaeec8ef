package handler

import "github.com/labstack/echo/v4"

// RegisterRoutes は /api/v1 配下のルートを登録する
func RegisterRoutes(g *echo.Group, account *AccountHandler, booking *BookingHandler, lookup *LookupHandler) {
	g.POST("/users", account.Register)
	g.POST("/login", account.Login)
	g.GET("/users/:username/reservations", booking.ListByUser)

	g.POST("/reservations", booking.Book)
	g.GET("/reservations/:number", booking.GetByNumber)

	g.GET("/performances", lookup.FindPerformances)
	g.GET("/performances/:id/availability", lookup.GetAvailability)
}
