package mocks

import (
	"github.com/Billy-Davies-2/hockey-draft-kit/internal/logger"
	"github.com/Billy-Davies-2/hockey-draft-kit/internal/pubsub"
)

// MockNATSPubSub provides a mock NATS/JetStream implementation for local development
type MockNATSPubSub struct {
	*pubsub.MockNATSPubSub
}

// NewMockNATSPubSub creates an in-memory stand-in for JetStream that keeps the
// last few hundred events for replay
func NewMockNATSPubSub(subject string) *MockNATSPubSub {
	logger.Info("Using MOCK NATS/JetStream (in-memory pub/sub) for local development")

	return &MockNATSPubSub{
		MockNATSPubSub: pubsub.NewMockNATSPubSub(subject, 500),
	}
}
