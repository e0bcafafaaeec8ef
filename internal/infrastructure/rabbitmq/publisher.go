// Package rabbitmq は予約確定イベントを RabbitMQ に送信する
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/domain/reservation"
	"github.com/code-world-ad/AxisTheatre-Theatre-Management-System/internal/pkg/logger"
)

// channel は Publisher が使う amqp.Channel の操作
type channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// dialFunc はブローカーに接続してチャネルを開く
type dialFunc func() (channel, func() error, error)

// Publisher は reservation.created イベントを永続キューへ送信する
// 接続は初回送信時に確立し、送信失敗時は破棄して次回再接続する
type Publisher struct {
	queue string
	dial  dialFunc

	mu        sync.Mutex
	ch        channel
	closeConn func() error
}

// NewPublisher は新しい Publisher を作成する
func NewPublisher(url, queue string) *Publisher {
	return newPublisher(queue, func() (channel, func() error, error) {
		conn, err := amqp.Dial(url)
		if err != nil {
			return nil, nil, fmt.Errorf("RabbitMQ 接続に失敗: %w", err)
		}
		ch, err := conn.Channel()
		if err != nil {
			_ = conn.Close()
			return nil, nil, fmt.Errorf("チャネル作成に失敗: %w", err)
		}
		return ch, conn.Close, nil
	})
}

func newPublisher(queue string, dial dialFunc) *Publisher {
	return &Publisher{queue: queue, dial: dial}
}

// PublishReservationCreated は予約確定イベントを送信する
func (p *Publisher) PublishReservationCreated(ctx context.Context, event *reservation.CreatedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("イベントのシリアライズに失敗: %w", err)
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Type:         p.queue,
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channelLocked()
	if err != nil {
		return err
	}
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		p.resetLocked()
		return fmt.Errorf("イベント送信に失敗: %w", err)
	}

	logger.Debug("予約イベントを送信しました",
		zap.String("message_id", msg.MessageId),
		zap.Int64("reservation_number", event.ReservationNumber),
	)
	return nil
}

// channelLocked は接続済みのチャネルを返す。未接続なら接続してキューを宣言する
func (p *Publisher) channelLocked() (channel, error) {
	if p.ch != nil {
		return p.ch, nil
	}
	ch, closeConn, err := p.dial()
	if err != nil {
		return nil, err
	}
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		if closeConn != nil {
			_ = closeConn()
		}
		return nil, fmt.Errorf("キュー宣言に失敗: %w", err)
	}
	p.ch, p.closeConn = ch, closeConn
	return ch, nil
}

func (p *Publisher) resetLocked() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.closeConn != nil {
		_ = p.closeConn()
	}
	p.ch, p.closeConn = nil, nil
}

// Close は接続を閉じる
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetLocked()
	return nil
}
