package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

const (
	DepositApproved  = "deposit.approved"
	DepositRejected  = "deposit.rejected"
	WithdrawCreated  = "withdraw.created"
	WithdrawApproved = "withdraw.approved"
	WithdrawRejected = "withdraw.rejected"
	GameSettled      = "game.settled"
)

// Event is emitted after the ledger transaction that produced it has committed.
type Event struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	UserID     uint            `json:"user_id"`
	Reference  string          `json:"reference"`
	Amount     decimal.Decimal `json:"amount"`
	OccurredAt time.Time       `json:"occurred_at"`

	// Balance is the user's balance after the change, nil when unknown.
	Balance *decimal.Decimal `json:"balance,omitempty"`
}

func New(eventType string, userID uint, reference string, amount decimal.Decimal) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		UserID:     userID,
		Reference:  reference,
		Amount:     amount,
		OccurredAt: time.Now().UTC(),
	}
}

func (e Event) WithBalance(balance decimal.Decimal) Event {
	e.Balance = &balance
	return e
}

type Publisher interface {
	Publish(ctx context.Context, evt Event) error
	Close() error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireAll,
		MaxAttempts:            3,
		BatchTimeout:           10 * time.Millisecond,
	}

	log.Info().Strs("brokers", brokers).Str("topic", topic).Msg("Kafka publisher created")
	return &KafkaPublisher{writer: writer}
}

// Publish keys messages by user id so one user's events stay ordered.
func (p *KafkaPublisher) Publish(ctx context.Context, evt Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(evt.UserID), 10)),
		Value: data,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(evt.Type)},
		},
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, evt Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
	return nil
}

func (r *Recorder) Close() error { return nil }

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Recorder) Types() []string {
	var types []string
	for _, e := range r.Events() {
		types = append(types, e.Type)
	}
	return types
}
