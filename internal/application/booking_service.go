package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/performance"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/reservation"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/sequence"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/transaction"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/user"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/pkg/logger"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/pkg/metrics"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100

	sideEffectTimeout = 3 * time.Second
)

// Outcome は予約試行の結果の種別
type Outcome int

const (
	// OutcomeReserved は席を確保し予約番号を払い出した
	OutcomeReserved Outcome = iota + 1
	// OutcomeNoSeatsAvailable は残席がなかった（エラーではない）
	OutcomeNoSeatsAvailable
)

func (o Outcome) String() string {
	switch o {
	case OutcomeReserved:
		return "reserved"
	case OutcomeNoSeatsAvailable:
		return "no_seats_available"
	default:
		return "unknown"
	}
}

// BookingResult は予約試行の結果
// ReservationNumber と ReservationID は OutcomeReserved のときだけ有効
type BookingResult struct {
	Outcome           Outcome
	ReservationNumber int64
	ReservationID     int64
}

// Reserved は予約が成立したかを返す
func (r BookingResult) Reserved() bool {
	return r.Outcome == OutcomeReserved
}

// BookingOptions は競合時の再試行設定
type BookingOptions struct {
	MaxConflictRetries int
	ConflictBackoff    time.Duration
}

// BookingService は1席の確保・予約番号の払い出し・予約の記録を1つのトランザクションで行う
type BookingService struct {
	txManager transaction.Manager
	userRepo  user.Repository
	ledger    performance.Ledger
	store     reservation.Store
	ids       sequence.Generator
	cache     AvailabilityCache
	publisher EventPublisher
	opts      BookingOptions
	metrics   *metrics.Metrics
}

// NewBookingService は新しい BookingService を作成する
// cache と publisher は nil でもよい
func NewBookingService(
	txm transaction.Manager,
	ur user.Repository,
	ledger performance.Ledger,
	store reservation.Store,
	ids sequence.Generator,
	cache AvailabilityCache,
	publisher EventPublisher,
	opts BookingOptions,
) *BookingService {
	if opts.MaxConflictRetries < 0 {
		opts.MaxConflictRetries = 0
	}
	return &BookingService{
		txManager: txm, userRepo: ur, ledger: ledger, store: store, ids: ids,
		cache: cache, publisher: publisher, opts: opts, metrics: metrics.Get(),
	}
}

// Book は会員名と上映IDから1席予約する
// 残席がない場合はエラーではなく OutcomeNoSeatsAvailable を返す
// 途中で失敗した場合、確保した席はロールバックで台帳に戻る
func (s *BookingService) Book(ctx context.Context, username string, performanceID int64) (BookingResult, error) {
	start := time.Now()
	log := logger.With(zap.String("username", username), zap.Int64("performance_id", performanceID))

	u, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		s.observe(BookingResult{}, err, start)
		if errors.Is(err, user.ErrUserNotFound) {
			log.Info("未登録の会員による予約")
			return BookingResult{}, err
		}
		return BookingResult{}, fmt.Errorf("会員取得に失敗: %w", err)
	}

	var result BookingResult
	for attempt := 0; ; attempt++ {
		result, err = s.bookOnce(ctx, u.ID, performanceID)
		if err == nil || !errors.Is(err, transaction.ErrTransactionConflict) || attempt >= s.opts.MaxConflictRetries {
			break
		}
		s.metrics.IncConflictRetry()
		log.Warn("競合のため予約を再試行します", zap.Int("attempt", attempt+1), zap.Error(err))
		if werr := s.backoff(ctx, attempt); werr != nil {
			err = werr
			break
		}
	}
	s.observe(result, err, start)

	if err != nil {
		switch {
		case errors.Is(err, sequence.ErrCapacityExhausted):
			log.Error("予約番号の採番範囲を使い切りました", zap.Error(err))
		case errors.Is(err, performance.ErrPerformanceNotFound):
			log.Info("存在しない上映への予約")
		default:
			log.Warn("予約に失敗しました", zap.Error(err))
		}
		return BookingResult{}, err
	}

	if !result.Reserved() {
		log.Info("残席なし")
		return result, nil
	}

	log.Info("予約が確定しました", zap.Int64("reservation_number", result.ReservationNumber))
	s.afterCommit(ctx, u, performanceID, result)
	return result, nil
}

// bookOnce は1回分のトランザクションを実行する
func (s *BookingService) bookOnce(ctx context.Context, userID, performanceID int64) (BookingResult, error) {
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return BookingResult{}, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	// コミット後は ErrTxDone が返るだけ
	defer s.rollback(tx, performanceID)

	claimed, err := s.ledger.TryClaimSeat(ctx, tx, performanceID)
	if err != nil {
		return BookingResult{}, fmt.Errorf("座席確保に失敗: %w", err)
	}
	if !claimed {
		return BookingResult{Outcome: OutcomeNoSeatsAvailable}, nil
	}

	number, err := s.ids.Next(ctx, sequence.DomainReservation)
	if err != nil {
		return BookingResult{}, fmt.Errorf("予約番号の採番に失敗: %w", err)
	}
	// ロールバックしても番号は再利用されないため、払い出した時点で数える
	s.metrics.IncIdentifierIssued(string(sequence.DomainReservation))

	id, err := s.store.Record(ctx, tx, userID, performanceID, number)
	if err != nil {
		return BookingResult{}, fmt.Errorf("予約の記録に失敗: %w", err)
	}

	// 呼び出し元が離脱していればコミットしない
	if err := ctx.Err(); err != nil {
		return BookingResult{}, err
	}
	if err := tx.Commit(); err != nil {
		return BookingResult{}, fmt.Errorf("コミットに失敗: %w", err)
	}
	return BookingResult{Outcome: OutcomeReserved, ReservationNumber: number, ReservationID: id}, nil
}

func (s *BookingService) rollback(tx transaction.Tx, performanceID int64) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, transaction.ErrTxDone) {
		logger.Error("ロールバックに失敗しました", zap.Int64("performance_id", performanceID), zap.Error(err))
	}
}

func (s *BookingService) backoff(ctx context.Context, attempt int) error {
	if s.opts.ConflictBackoff <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.opts.ConflictBackoff * time.Duration(attempt+1))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// afterCommit はキャッシュ無効化とイベント送信を行う
// 失敗しても予約結果には影響しない
func (s *BookingService) afterCommit(ctx context.Context, u *user.User, performanceID int64, result BookingResult) {
	if s.cache == nil && s.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, performanceID); err != nil {
			logger.Warn("残席キャッシュの無効化に失敗", zap.Int64("performance_id", performanceID), zap.Error(err))
		}
	}
	if s.publisher != nil {
		event := &reservation.CreatedEvent{
			ReservationID:     result.ReservationID,
			ReservationNumber: result.ReservationNumber,
			UserID:            u.ID,
			Username:          u.Username,
			PerformanceID:     performanceID,
			CreatedAt:         time.Now().UTC(),
		}
		if err := s.publisher.PublishReservationCreated(ctx, event); err != nil {
			logger.Warn("予約イベントの送信に失敗",
				zap.Int64("reservation_number", result.ReservationNumber), zap.Error(err))
		}
	}
}

func (s *BookingService) observe(result BookingResult, err error, start time.Time) {
	s.metrics.ObserveBooking(outcomeLabel(result, err), time.Since(start).Seconds())
}

func outcomeLabel(result BookingResult, err error) string {
	switch {
	case err == nil && result.Outcome == OutcomeReserved:
		return metrics.OutcomeReserved
	case err == nil:
		return metrics.OutcomeNoSeats
	case errors.Is(err, user.ErrUserNotFound):
		return metrics.OutcomeUnknownUser
	case errors.Is(err, performance.ErrPerformanceNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, transaction.ErrTransactionConflict):
		return metrics.OutcomeConflict
	case errors.Is(err, sequence.ErrCapacityExhausted):
		return metrics.OutcomeExhausted
	case errors.Is(err, transaction.ErrStoreUnavailable):
		return metrics.OutcomeUnavailable
	default:
		return metrics.OutcomeInternalFail
	}
}

// GetReservation は予約番号から予約を取得する
func (s *BookingService) GetReservation(ctx context.Context, reservationNumber int64) (*reservation.Reservation, error) {
	return s.store.GetByNumber(ctx, reservationNumber)
}

// ListUserReservations は会員の予約を新しい順に取得する
func (s *BookingService) ListUserReservations(ctx context.Context, username string, limit, offset int) ([]*reservation.Reservation, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	u, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.store.ListByUser(ctx, u.ID, limit, offset)
}
