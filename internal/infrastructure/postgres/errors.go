package postgres

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/lib/pq"

	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/sequence"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/transaction"
)

// PostgreSQL のエラーコード
const (
	codeUniqueViolation      = "23505"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
	codeSequenceLimit        = "2200H"
	classConnectionException = "08"
)

// isUniqueViolation は一意制約違反かを返す
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == codeUniqueViolation
}

// translateError はドライバのエラーをドメイン共通のエラーに変換する
// 該当しないものは msg を付けてラップするだけ
func translateError(err error, msg string) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code == codeSerializationFailure,
			pqErr.Code == codeDeadlockDetected,
			pqErr.Code == codeLockNotAvailable:
			return fmt.Errorf("%s: %w: %v", msg, transaction.ErrTransactionConflict, err)
		case pqErr.Code == codeSequenceLimit:
			return fmt.Errorf("%s: %w: %v", msg, sequence.ErrCapacityExhausted, err)
		case strings.HasPrefix(string(pqErr.Code), classConnectionException):
			return fmt.Errorf("%s: %w: %v", msg, transaction.ErrStoreUnavailable, err)
		}
		return fmt.Errorf("%s: %w", msg, err)
	}

	var netErr net.Error
	if errors.Is(err, driver.ErrBadConn) || errors.As(err, &netErr) {
		return fmt.Errorf("%s: %w: %v", msg, transaction.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
