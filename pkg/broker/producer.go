package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	EventLogin   = "login"
	EventLogout  = "logout"
	EventRevoked = "revoked"
)

// SessionEvent is published whenever an actor session starts or ends.
type SessionEvent struct {
	Type       string    `json:"type"`
	ActorClass string    `json:"actor_class"`
	ActorID    string    `json:"actor_id"`
	CompanyID  string    `json:"company_id,omitempty"`
	SessionID  string    `json:"session_id,omitempty"`
	At         time.Time `json:"at"`
}

type Publisher interface {
	PublishSession(ctx context.Context, event SessionEvent)
	Close()
}

type Producer struct {
	l     *slog.Logger
	w     *kafka.Writer
	topic string
}

// NewPublisher returns a kafka producer, or a publisher that only logs when
// no brokers are configured.
func NewPublisher(l *slog.Logger, brokers []string, topic string) Publisher {
	if len(brokers) == 0 {
		return &nopPublisher{l: l.WithGroup("kafka")}
	}
	return NewProducer(l, brokers, topic)
}

func NewProducer(l *slog.Logger, brokers []string, topic string) *Producer {
	l = l.WithGroup("kafka").With("topic", topic)

	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		Async:                  true,
		Logger:                 &infoLogger{l: l},
		ErrorLogger:            &errorLogger{l: l},
		AllowAutoTopicCreation: true,
	}

	return &Producer{
		l:     l,
		w:     w,
		topic: topic,
	}
}

// PublishSession is fire and forget; failures are logged.
func (p *Producer) PublishSession(ctx context.Context, event SessionEvent) {
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}

	b, err := json.Marshal(event)
	if err != nil {
		p.l.Error(fmt.Sprintf("marshal event: %s", err))
		return
	}

	err = p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.ActorClass + ":" + event.ActorID),
		Value: b,
		Topic: p.topic,
	})
	if err != nil {
		p.l.Error(fmt.Sprintf("write kafka message: %s", err))
	}
}

func (p *Producer) Close() {
	if err := p.w.Close(); err != nil {
		p.l.Error(fmt.Sprintf("close kafka writer: %s", err))
	}
}

type nopPublisher struct {
	l *slog.Logger
}

func (n *nopPublisher) PublishSession(ctx context.Context, event SessionEvent) {
	n.l.DebugContext(ctx, "session event", "type", event.Type, "actor_class", event.ActorClass, "actor_id", event.ActorID)
}

func (n *nopPublisher) Close() {}

type infoLogger struct {
	l *slog.Logger
}

func (l *infoLogger) Printf(format string, v ...any) {
	l.l.Info(fmt.Sprintf(format, v...))
}

type errorLogger struct {
	l *slog.Logger
}

func (l *errorLogger) Printf(format string, v ...any) {
	l.l.Error(fmt.Sprintf(format, v...))
}
