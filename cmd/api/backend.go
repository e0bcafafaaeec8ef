package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/api/handler"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/application"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/config"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/performance"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/reservation"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/sequence"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/transaction"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/user"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/infrastructure/memory"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/infrastructure/postgres"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/infrastructure/rabbitmq"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/infrastructure/redis"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/pkg/logger"
)

// backend は設定に応じて選んだストレージ・採番・キャッシュ・イベント送信の実装
type backend struct {
	txManager transaction.Manager
	users     user.Repository
	ledger    performance.Ledger
	catalog   performance.Catalog
	store     reservation.Store
	ids       sequence.Generator
	cache     application.AvailabilityCache
	publisher application.EventPublisher

	// floors は払い出し済み番号の最大値を返す。外部採番の下限に使う
	floors func(ctx context.Context) (map[sequence.Domain]int64, error)

	checks  []handler.DependencyCheck
	closers []func() error
}

// startupTimeout は起動時に行うストアへの問い合わせの上限
const startupTimeout = 10 * time.Second

func newBackend(cfg *config.Config) (*backend, error) {
	b := &backend{}
	if err := b.initStorage(cfg); err != nil {
		b.close()
		return nil, err
	}
	if err := b.initRedis(cfg); err != nil {
		b.close()
		return nil, err
	}
	if b.ids == nil {
		b.close()
		return nil, fmt.Errorf("未知の採番バックエンドです: %q", cfg.Booking.SequenceBackend)
	}
	b.initPublisher(cfg)
	return b, nil
}

func (b *backend) initStorage(cfg *config.Config) error {
	switch cfg.Booking.StorageBackend {
	case config.StoragePostgres:
		db, err := postgres.NewConnection(&cfg.Database)
		if err != nil {
			return err
		}
		b.closers = append(b.closers, db.Close)
		if cfg.Database.RunMigrations {
			if err := postgres.RunMigrations(db.DB, cfg.Database.MigrationsPath); err != nil {
				return err
			}
		}

		perfs := postgres.NewPerformanceRepository(db)
		b.txManager = postgres.NewTxManager(db)
		b.users = postgres.NewUserRepository(db)
		b.ledger, b.catalog = perfs, perfs
		b.store = postgres.NewReservationRepository(db)
		if cfg.Booking.SequenceBackend == config.SequenceStore {
			ids := postgres.NewSequenceGenerator(db, cfg.Booking.SequenceSettings())
			ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
			err := ids.Configure(ctx)
			cancel()
			if err != nil {
				return err
			}
			b.ids = ids
		}
		b.floors = func(ctx context.Context) (map[sequence.Domain]int64, error) {
			return postgres.Floors(ctx, db)
		}
		b.checks = append(b.checks, handler.DependencyCheck{
			Name: "postgres",
			Ping: func(ctx context.Context) error { return postgres.Ping(ctx, db) },
		})
	case config.StorageMemory:
		db := memory.NewDemoDatabase()
		perfs := memory.NewPerformanceRepository(db)
		b.txManager = memory.NewTxManager()
		b.users = memory.NewUserRepository(db)
		b.ledger, b.catalog = perfs, perfs
		b.store = memory.NewReservationRepository(db)
		if cfg.Booking.SequenceBackend == config.SequenceStore {
			ids, err := memory.NewSequenceGenerator(cfg.Booking.SequenceSettings())
			if err != nil {
				return err
			}
			b.ids = ids
		}
		logger.Warn("インメモリストアで起動します。再起動でデータは失われます")
	default:
		return fmt.Errorf("未知のストレージバックエンドです: %q", cfg.Booking.StorageBackend)
	}
	return nil
}

// initRedis は残席キャッシュと Redis 採番を設定する
// どちらも無効なら接続しない
func (b *backend) initRedis(cfg *config.Config) error {
	useSequence := cfg.Booking.SequenceBackend == config.SequenceRedis
	if !cfg.Redis.Enabled && !useSequence {
		return nil
	}

	client := redis.NewClient(&cfg.Redis)
	b.closers = append(b.closers, client.Close)
	b.checks = append(b.checks, handler.DependencyCheck{
		Name: "redis",
		Ping: func(ctx context.Context) error { return redis.Ping(ctx, client) },
	})

	if useSequence {
		ids, err := redis.NewSequenceGenerator(client, cfg.Booking.SequenceSettings())
		if err != nil {
			return err
		}
		if err := b.seedFloors(ids); err != nil {
			return err
		}
		b.ids = ids
	}
	if cfg.Redis.Enabled {
		b.cache = redis.NewAvailabilityCache(client, cfg.Booking.AvailabilityCacheTTL)
	}
	return nil
}

// seedFloors は永続ストアに残る番号より後から Redis が払い出すようにする
func (b *backend) seedFloors(ids *redis.SequenceGenerator) error {
	if b.floors == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	floors, err := b.floors(ctx)
	if err != nil {
		return err
	}
	for _, d := range sequence.Domains {
		if err := ids.EnsureFloor(ctx, d, floors[d]); err != nil {
			return err
		}
	}
	return nil
}

func (b *backend) initPublisher(cfg *config.Config) {
	if !cfg.RabbitMQ.Enabled {
		return
	}
	p := rabbitmq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue)
	b.publisher = p
	b.closers = append(b.closers, p.Close)
	logger.Info("予約イベントを送信します", zap.String("queue", cfg.RabbitMQ.Queue))
}

// close は開いた接続を逆順に閉じる
func (b *backend) close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			logger.Warn("接続のクローズに失敗しました", zap.Error(err))
		}
	}
	b.closers = nil
}
