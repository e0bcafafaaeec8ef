package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/performance"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/reservation"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/sequence"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/transaction"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/user"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/infrastructure/memory"
)

// scenarioEnv はインメモリのストアで組み立てたサービス一式
type scenarioEnv struct {
	booking *BookingService
	account *AccountService
	lookup  *LookupService
	audit   *AuditService
}

// failingStore は Record だけ失敗させる予約ストア
type failingStore struct {
	reservation.Store
}

func (failingStore) Record(context.Context, transaction.Tx, int64, int64, int64) (int64, error) {
	return 0, errors.New("書き込みに失敗")
}

// newScenarioEnv は座席数 seats の劇場の上映1001（Inception）と、
// 10席の別劇場の上映1002（Interstellar）を持つ環境を作る
func newScenarioEnv(t *testing.T, seats int, wrapStore func(reservation.Store) reservation.Store) *scenarioEnv {
	t.Helper()

	db := memory.NewDatabase()
	theatre := &performance.Theatre{ID: 101, Name: "PVR", TotalSeats: seats}
	show := performance.NewPerformance(1001, theatre, 1, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2023, 1, 1, 18, 0, 0, 0, time.UTC))
	if seats == 0 {
		// 満席状態の上映を直接作る
		show.TotalSeats, show.AvailableSeats = 1, 0
	}
	other := &performance.Theatre{ID: 102, Name: "INOX", TotalSeats: 10}
	otherShow := performance.NewPerformance(1002, other, 2, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2023, 1, 1, 21, 0, 0, 0, time.UTC))
	require.NoError(t, db.Seed(&memory.Catalog{
		Theatres:     []*performance.Theatre{theatre, other},
		Movies:       []*performance.Movie{{ID: 1, Name: "Inception"}, {ID: 2, Name: "Interstellar"}},
		Performances: []*performance.Performance{show, otherShow},
	}))

	ids, err := memory.NewSequenceGenerator(sequence.DefaultSettings())
	require.NoError(t, err)

	users := memory.NewUserRepository(db)
	perfs := memory.NewPerformanceRepository(db)
	var store reservation.Store = memory.NewReservationRepository(db)
	if wrapStore != nil {
		store = wrapStore(store)
	}
	// 監査は失敗注入の影響を受けない実ストアを見る
	auditStore := memory.NewReservationRepository(db)

	return &scenarioEnv{
		booking: NewBookingService(memory.NewTxManager(), users, perfs, store, ids, nil, nil,
			BookingOptions{MaxConflictRetries: 3, ConflictBackoff: time.Millisecond}),
		account: NewAccountService(users, ids),
		lookup:  NewLookupService(perfs, perfs, nil),
		audit:   NewAuditService(perfs, auditStore),
	}
}

func (e *scenarioEnv) register(t *testing.T, username string) *user.User {
	t.Helper()
	u, err := e.account.Register(context.Background(), RegisterInput{Username: username, Name: username})
	require.NoError(t, err)
	return u
}

func (e *scenarioEnv) available(t *testing.T) int {
	t.Helper()
	seats, err := e.lookup.GetAvailability(context.Background(), 1001)
	require.NoError(t, err)
	return seats
}

func TestScenario_LastSeat(t *testing.T) {
	ctx := context.Background()
	env := newScenarioEnv(t, 1, nil)
	env.register(t, "A")
	env.register(t, "B")
	env.register(t, "C")

	// A と B が最後の1席を同時に取りに行く
	var wg sync.WaitGroup
	results := make([]BookingResult, 2)
	errs := make([]error, 2)
	for i, name := range []string{"A", "B"} {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			results[i], errs[i] = env.booking.Book(ctx, name, 1001)
		}(i, name)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	outcomes := []Outcome{results[0].Outcome, results[1].Outcome}
	assert.ElementsMatch(t, []Outcome{OutcomeReserved, OutcomeNoSeatsAvailable}, outcomes)
	for _, r := range results {
		if r.Reserved() {
			assert.GreaterOrEqual(t, r.ReservationNumber, int64(1))
		}
	}
	assert.Equal(t, 0, env.available(t))

	// 後から来た C も残席なし
	result, err := env.booking.Book(ctx, "C", 1001)
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoSeatsAvailable, result.Outcome)

	// 未登録の D は台帳に触れない
	_, err = env.booking.Book(ctx, "D", 1001)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
	assert.Equal(t, 0, env.available(t))

	drifts, err := env.audit.AuditLedger(ctx)
	require.NoError(t, err)
	assert.Empty(t, drifts)
}

func TestScenario_UnknownUserLeavesAvailability(t *testing.T) {
	ctx := context.Background()
	env := newScenarioEnv(t, 3, nil)

	_, err := env.booking.Book(ctx, "ghost", 1001)

	assert.ErrorIs(t, err, user.ErrUserNotFound)
	assert.Equal(t, 3, env.available(t))
}

func TestScenario_SoldOutPerformance(t *testing.T) {
	ctx := context.Background()
	env := newScenarioEnv(t, 0, nil)
	env.register(t, "alice")

	result, err := env.booking.Book(ctx, "alice", 1001)

	require.NoError(t, err)
	assert.Equal(t, OutcomeNoSeatsAvailable, result.Outcome)
	assert.Equal(t, 0, env.available(t))
}

func TestScenario_UnknownPerformance(t *testing.T) {
	ctx := context.Background()
	env := newScenarioEnv(t, 5, nil)
	env.register(t, "alice")

	_, err := env.booking.Book(ctx, "alice", 9999)

	assert.ErrorIs(t, err, performance.ErrPerformanceNotFound)
	assert.Equal(t, 5, env.available(t))
}

func TestScenario_FailedRecordReleasesSeat(t *testing.T) {
	ctx := context.Background()
	env := newScenarioEnv(t, 3, func(s reservation.Store) reservation.Store { return failingStore{s} })
	env.register(t, "alice")

	_, err := env.booking.Book(ctx, "alice", 1001)

	require.Error(t, err)
	// 確保した席はロールバックで戻る
	assert.Equal(t, 3, env.available(t))
	drifts, err := env.audit.AuditLedger(ctx)
	require.NoError(t, err)
	assert.Empty(t, drifts)
}

func TestScenario_ReservationNumbersIncrease(t *testing.T) {
	ctx := context.Background()
	env := newScenarioEnv(t, 10, nil)
	env.register(t, "alice")

	var last int64
	for i := 0; i < 5; i++ {
		result, err := env.booking.Book(ctx, "alice", 1001)
		require.NoError(t, err)
		assert.Greater(t, result.ReservationNumber, last)
		last = result.ReservationNumber
	}

	list, err := env.booking.ListUserReservations(ctx, "alice", 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 5)
	// 新しい順
	assert.Equal(t, last, list[0].ReservationNumber)
	assert.Equal(t, 5, 10-env.available(t))
}

func TestScenario_ReservationNumbersAcrossPerformances(t *testing.T) {
	ctx := context.Background()
	env := newScenarioEnv(t, 10, nil)
	env.register(t, "alice")
	shows := []int64{1001, 1002}

	// 2つの上映に交互に予約しても番号は払い出し順に増える
	seen := make(map[int64]struct{})
	var last int64
	for i := 0; i < 6; i++ {
		result, err := env.booking.Book(ctx, "alice", shows[i%2])
		require.NoError(t, err)
		require.True(t, result.Reserved())
		assert.Greater(t, result.ReservationNumber, last)
		last = result.ReservationNumber
		seen[result.ReservationNumber] = struct{}{}
	}

	const concurrent = 12
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers []int64
	)
	for i := 0; i < concurrent; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := env.booking.Book(ctx, "alice", shows[i%2])
			if err != nil || !result.Reserved() {
				t.Errorf("予約できませんでした: %+v %v", result, err)
				return
			}
			mu.Lock()
			numbers = append(numbers, result.ReservationNumber)
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	require.Len(t, numbers, concurrent)
	for _, n := range numbers {
		// 後から払い出した番号は逐次予約のどれよりも大きい
		assert.Greater(t, n, last)
		_, dup := seen[n]
		assert.False(t, dup, "予約番号 %d が重複", n)
		seen[n] = struct{}{}
	}
	assert.Len(t, seen, 6+concurrent)

	list, err := env.booking.ListUserReservations(ctx, "alice", 100, 0)
	require.NoError(t, err)
	require.Len(t, list, 6+concurrent)
	perShow := map[int64]int{}
	for _, r := range list {
		perShow[r.PerformanceID]++
	}
	assert.Equal(t, map[int64]int{1001: 9, 1002: 9}, perShow)

	drifts, err := env.audit.AuditLedger(ctx)
	require.NoError(t, err)
	assert.Empty(t, drifts)
}

func TestScenario_ConcurrentBookingsNeverOversell(t *testing.T) {
	ctx := context.Background()
	const seats, customers = 10, 50
	env := newScenarioEnv(t, seats, nil)
	for i := 0; i < customers; i++ {
		env.register(t, fmt.Sprintf("user%02d", i))
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		numbers  = make(map[int64]struct{})
		reserved int
		noSeats  int
		failures []error
	)
	start := make(chan struct{})
	for i := 0; i < customers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			result, err := env.booking.Book(ctx, fmt.Sprintf("user%02d", i), 1001)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				failures = append(failures, err)
			case result.Reserved():
				reserved++
				numbers[result.ReservationNumber] = struct{}{}
			default:
				noSeats++
			}
		}(i)
	}
	close(start)
	wg.Wait()

	assert.Empty(t, failures)
	assert.Equal(t, seats, reserved)
	assert.Equal(t, customers-seats, noSeats)
	// 予約番号は重複しない
	assert.Len(t, numbers, seats)
	assert.Equal(t, 0, env.available(t))

	drifts, err := env.audit.AuditLedger(ctx)
	require.NoError(t, err)
	assert.Empty(t, drifts)
}

func TestScenario_FindPerformancesIsIdempotent(t *testing.T) {
	ctx := context.Background()
	env := newScenarioEnv(t, 4, nil)

	first, err := env.lookup.FindPerformances(ctx, "Inception")
	require.NoError(t, err)
	second, err := env.lookup.FindPerformances(ctx, "Inception")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	require.Len(t, first, 1)
	assert.Equal(t, performance.Listing{TheatreName: "PVR", PerformanceID: 1001, AvailableSeats: 4}, first[0])

	none, err := env.lookup.FindPerformances(ctx, "Avatar")
	require.NoError(t, err)
	assert.Empty(t, none)
}
