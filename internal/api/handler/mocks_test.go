package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/application"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/performance"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/reservation"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/user"
)

// MockAccountService はAccountServiceInterfaceのモック
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) Register(ctx context.Context, input application.RegisterInput) (*user.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockAccountService) Login(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

// MockBookingService はBookingServiceInterfaceのモック
type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) Book(ctx context.Context, username string, performanceID int64) (application.BookingResult, error) {
	args := m.Called(ctx, username, performanceID)
	return args.Get(0).(application.BookingResult), args.Error(1)
}

func (m *MockBookingService) GetReservation(ctx context.Context, reservationNumber int64) (*reservation.Reservation, error) {
	args := m.Called(ctx, reservationNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.Reservation), args.Error(1)
}

func (m *MockBookingService) ListUserReservations(ctx context.Context, username string, limit, offset int) ([]*reservation.Reservation, error) {
	args := m.Called(ctx, username, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*reservation.Reservation), args.Error(1)
}

// MockLookupService はLookupServiceInterfaceのモック
type MockLookupService struct {
	mock.Mock
}

func (m *MockLookupService) FindPerformances(ctx context.Context, movieName string) ([]performance.Listing, error) {
	args := m.Called(ctx, movieName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]performance.Listing), args.Error(1)
}

func (m *MockLookupService) GetAvailability(ctx context.Context, performanceID int64) (int, error) {
	args := m.Called(ctx, performanceID)
	return args.Int(0), args.Error(1)
}
