package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/sequence"
)

// sequenceNames は採番系列と PostgreSQL シーケンスの対応
var sequenceNames = map[sequence.Domain]string{
	sequence.DomainUser:        "user_sequence",
	sequence.DomainReservation: "reservation_sequence",
}

// SequenceGenerator は PostgreSQL のシーケンスで採番する
// nextval はトランザクションのロールバックで巻き戻らないため、払い出した値は再利用されない
type SequenceGenerator struct {
	db       *sqlx.DB
	settings map[sequence.Domain]sequence.Settings
}

// NewSequenceGenerator は新しい SequenceGenerator を作成する
// settings の Max を超えた値は ErrCapacityExhausted として扱う
func NewSequenceGenerator(db *sqlx.DB, settings map[sequence.Domain]sequence.Settings) *SequenceGenerator {
	return &SequenceGenerator{db: db, settings: settings}
}

func (g *SequenceGenerator) Next(ctx context.Context, d sequence.Domain) (int64, error) {
	name, ok := sequenceNames[d]
	if !ok {
		return 0, sequence.ErrUnknownDomain
	}

	var value int64
	if err := g.db.GetContext(ctx, &value, `SELECT nextval($1::regclass)`, name); err != nil {
		return 0, translateError(err, fmt.Sprintf("%s の採番に失敗", d))
	}
	if s, ok := g.settings[d]; ok && value > s.Max {
		return 0, sequence.ErrCapacityExhausted
	}
	return value, nil
}

// Configure は設定の開始値・増分・上限をシーケンスに反映する
// 未使用のシーケンスと、払い出し済みの値が開始値に届いていないシーケンスだけを開始値から振り直す
// 払い出し済みの値より前には戻さないので、既存の番号と重複しない
func (g *SequenceGenerator) Configure(ctx context.Context) error {
	for _, d := range sequence.Domains {
		s, ok := g.settings[d]
		if !ok {
			continue
		}
		if err := s.Validate(); err != nil {
			return fmt.Errorf("%s の採番設定が不正です: %w", d, err)
		}
		name := sequenceNames[d]

		var last sql.NullInt64
		err := g.db.GetContext(ctx, &last, `SELECT last_value FROM pg_sequences WHERE sequencename = $1`, name)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("シーケンス %s が存在しません", name)
		}
		if err != nil {
			return translateError(err, fmt.Sprintf("シーケンス %s の取得に失敗", name))
		}

		stmt := alterSequenceSQL(name, s, !last.Valid || last.Int64 < s.Start)
		if _, err := g.db.ExecContext(ctx, stmt); err != nil {
			return translateError(err, fmt.Sprintf("シーケンス %s の設定に失敗", name))
		}
	}
	return nil
}

// alterSequenceSQL は ALTER SEQUENCE 文を組み立てる
// 識別子と数値はプレースホルダを使えないため、名前はクォートして埋め込む
func alterSequenceSQL(name string, s sequence.Settings, restart bool) string {
	stmt := fmt.Sprintf(`ALTER SEQUENCE %s INCREMENT BY %d MINVALUE %d MAXVALUE %d START WITH %d`,
		pq.QuoteIdentifier(name), s.Step, s.Start, s.Max, s.Start)
	if restart {
		stmt += " RESTART"
	}
	return stmt
}

// Floors は各系列で払い出し済みの最大値を返す
// 外部の採番（Redis 等）に切り替える際の下限に使う
func Floors(ctx context.Context, db *sqlx.DB) (map[sequence.Domain]int64, error) {
	var row struct {
		User        int64 `db:"max_user_id"`
		Reservation int64 `db:"max_reservation_number"`
	}
	query := `SELECT
		COALESCE((SELECT MAX(user_id) FROM users), 0) AS max_user_id,
		COALESCE((SELECT MAX(reservation_number) FROM reservations), 0) AS max_reservation_number`
	if err := db.GetContext(ctx, &row, query); err != nil {
		return nil, translateError(err, "払い出し済み番号の取得に失敗")
	}
	return map[sequence.Domain]int64{
		sequence.DomainUser:        row.User,
		sequence.DomainReservation: row.Reservation,
	}, nil
}

var _ sequence.Generator = (*SequenceGenerator)(nil)
