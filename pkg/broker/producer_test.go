package broker_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/andressep95/hr-service/pkg/broker"
	"github.com/andressep95/hr-service/pkg/logger"
)

func TestNewPublisher_WithoutBrokers(t *testing.T) {
	t.Parallel()

	p := broker.NewPublisher(logger.Discard(), nil, "hr.sessions")
	_, isKafka := p.(*broker.Producer)
	require.False(t, isKafka)

	p.PublishSession(context.Background(), broker.SessionEvent{Type: broker.EventLogin, ActorClass: "employee", ActorID: "e1"})
	p.Close()
}

func TestNewPublisher_WithBrokers(t *testing.T) {
	t.Parallel()

	p := broker.NewPublisher(logger.Discard(), []string{"localhost:9092"}, "hr.sessions")
	_, isKafka := p.(*broker.Producer)
	require.True(t, isKafka)
	p.Close()
}
