package handler

import (
	"context"

	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/application"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/performance"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/reservation"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/user"
)

// AccountServiceInterface は会員サービスのインターフェース
type AccountServiceInterface interface {
	Register(ctx context.Context, input application.RegisterInput) (*user.User, error)
	Login(ctx context.Context, username string) (bool, error)
}

// BookingServiceInterface は予約サービスのインターフェース
type BookingServiceInterface interface {
	Book(ctx context.Context, username string, performanceID int64) (application.BookingResult, error)
	GetReservation(ctx context.Context, reservationNumber int64) (*reservation.Reservation, error)
	ListUserReservations(ctx context.Context, username string, limit, offset int) ([]*reservation.Reservation, error)
}

// LookupServiceInterface は上映検索サービスのインターフェース
type LookupServiceInterface interface {
	FindPerformances(ctx context.Context, movieName string) ([]performance.Listing, error)
	GetAvailability(ctx context.Context, performanceID int64) (int, error)
}
