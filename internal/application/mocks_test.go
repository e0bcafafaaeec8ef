package application

import (
	"context"
	"errors"

	"github.com/stretchr/testify/mock"

	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/performance"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/reservation"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/sequence"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/transaction"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/user"
)

// === Mock implementations ===

// MockTxManager implements transaction.Manager
type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) Begin(ctx context.Context) (transaction.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(transaction.Tx), args.Error(1)
}

// MockTx implements transaction.Tx
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTx) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// MockUserRepository implements user.Repository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

// MockLedger implements performance.Ledger
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) TryClaimSeat(ctx context.Context, tx transaction.Tx, performanceID int64) (bool, error) {
	args := m.Called(ctx, tx, performanceID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedger) AvailableSeats(ctx context.Context, performanceID int64) (int, error) {
	args := m.Called(ctx, performanceID)
	return args.Int(0), args.Error(1)
}

// MockCatalog implements performance.Catalog
type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) GetByID(ctx context.Context, id int64) (*performance.Performance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*performance.Performance), args.Error(1)
}

func (m *MockCatalog) List(ctx context.Context) ([]*performance.Performance, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*performance.Performance), args.Error(1)
}

func (m *MockCatalog) FindByMovieName(ctx context.Context, movieName string) ([]performance.Listing, error) {
	args := m.Called(ctx, movieName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]performance.Listing), args.Error(1)
}

// MockStore implements reservation.Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Record(ctx context.Context, tx transaction.Tx, userID, performanceID, reservationNumber int64) (int64, error) {
	args := m.Called(ctx, tx, userID, performanceID, reservationNumber)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) GetByNumber(ctx context.Context, reservationNumber int64) (*reservation.Reservation, error) {
	args := m.Called(ctx, reservationNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.Reservation), args.Error(1)
}

func (m *MockStore) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*reservation.Reservation, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*reservation.Reservation), args.Error(1)
}

func (m *MockStore) CountByPerformance(ctx context.Context, performanceID int64) (int, error) {
	args := m.Called(ctx, performanceID)
	return args.Int(0), args.Error(1)
}

// MockGenerator implements sequence.Generator
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Next(ctx context.Context, d sequence.Domain) (int64, error) {
	args := m.Called(ctx, d)
	return args.Get(0).(int64), args.Error(1)
}

// MockCache implements AvailabilityCache
type MockCache struct {
	mock.Mock
}

var errMockCacheMiss = errors.New("cache miss")

func (m *MockCache) GetAvailableSeats(ctx context.Context, performanceID int64) (int, error) {
	args := m.Called(ctx, performanceID)
	return args.Int(0), args.Error(1)
}

func (m *MockCache) SetAvailableSeats(ctx context.Context, performanceID int64, seats int) error {
	return m.Called(ctx, performanceID, seats).Error(0)
}

func (m *MockCache) Invalidate(ctx context.Context, performanceID int64) error {
	return m.Called(ctx, performanceID).Error(0)
}

func (m *MockCache) IsCacheMiss(err error) bool {
	return errors.Is(err, errMockCacheMiss)
}

// MockPublisher implements EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishReservationCreated(ctx context.Context, event *reservation.CreatedEvent) error {
	return m.Called(ctx, event).Error(0)
}
