package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/application"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/pkg/logger"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/pkg/metrics"
)

// LedgerAuditRunner は台帳の整合性検査を行うインターフェース
type LedgerAuditRunner interface {
	AuditLedger(ctx context.Context) ([]application.LedgerDrift, error)
}

// LedgerAuditor は残席数と予約記録の不一致を定期的に検出するワーカー
// 検出のみで修復はしない
type LedgerAuditor struct {
	auditService LedgerAuditRunner
	interval     time.Duration
	metrics      *metrics.Metrics
	stopCh       chan struct{}
	doneCh       chan struct{}
	stopOnce     sync.Once
}

// NewLedgerAuditor は新しい監査ワーカーを作成
func NewLedgerAuditor(as LedgerAuditRunner, interval time.Duration) *LedgerAuditor {
	return &LedgerAuditor{
		auditService: as,
		interval:     interval,
		metrics:      metrics.Get(),
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}
}

// Start は監査を開始する。ctx のキャンセルか Stop で終了するまでブロックする
func (a *LedgerAuditor) Start(ctx context.Context) {
	logger.Info("台帳監査ワーカー開始", zap.Duration("interval", a.interval))

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()
	defer close(a.doneCh)

	for {
		select {
		case <-ctx.Done():
			logger.Info("台帳監査ワーカー停止（コンテキストキャンセル）")
			return
		case <-a.stopCh:
			logger.Info("台帳監査ワーカー停止（シグナル受信）")
			return
		case <-ticker.C:
			a.audit(ctx)
		}
	}
}

// Stop は監査を停止し、実行中の検査の終了を待つ
func (a *LedgerAuditor) Stop() {
	a.stopOnce.Do(func() { close(a.stopCh) })
	<-a.doneCh
}

func (a *LedgerAuditor) audit(ctx context.Context) {
	log := logger.Named("ledger_auditor")
	log.Debug("台帳監査開始")

	drifts, err := a.auditService.AuditLedger(ctx)
	if err != nil {
		log.Error("台帳監査失敗", zap.Error(err))
		return
	}
	a.metrics.SetLedgerDrift(len(drifts))

	if len(drifts) == 0 {
		log.Debug("不一致なし")
		return
	}
	for _, d := range drifts {
		log.Error("残席数と予約数が一致しません",
			zap.Int64("performance_id", d.PerformanceID),
			zap.Int("total_seats", d.TotalSeats),
			zap.Int("available_seats", d.AvailableSeats),
			zap.Int("reservations", d.Reservations),
			zap.Int("expected_available", d.ExpectedAvailable()),
		)
	}
}
