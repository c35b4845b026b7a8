package pubsub

import (
	"github.com/Billy-Davies-2/hockey-draft-kit/internal/logger"
)

// MockNATSPubSub stands in for JetStream when no NATS server is available.
// It keeps the most recent events so late subscribers can replay them.
type MockNATSPubSub struct {
	fanout
	subject     string
	messages    []Event
	maxMessages int
}

// NewMockNATSPubSub creates a mock JetStream pub/sub retaining up to
// maxMessages events
func NewMockNATSPubSub(subject string, maxMessages int) *MockNATSPubSub {
	logger.Info("Using mock NATS pub/sub", "subject", subject)

	if maxMessages <= 0 {
		maxMessages = 1000
	}
	return &MockNATSPubSub{
		fanout:      fanout{name: "Mock NATS"},
		subject:     subject,
		messages:    make([]Event, 0),
		maxMessages: maxMessages,
	}
}

// Publish stores the event and delivers it to every subscriber
func (p *MockNATSPubSub) Publish(event Event) {
	p.mu.Lock()
	p.messages = append(p.messages, event)
	if len(p.messages) > p.maxMessages {
		p.messages = p.messages[len(p.messages)-p.maxMessages:]
	}
	p.mu.Unlock()

	p.broadcast(event)
}

// Messages returns a copy of the retained events, oldest first
func (p *MockNATSPubSub) Messages() []Event {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]Event, len(p.messages))
	copy(out, p.messages)
	return out
}

// ReplayMessages sends up to count of the most recent events to ch
func (p *MockNATSPubSub) ReplayMessages(ch chan Event, count int) {
	msgs := p.Messages()
	start := len(msgs) - count
	if start < 0 {
		start = 0
	}

	logger.Debug("Mock NATS: Replaying messages", "count", len(msgs[start:]))

	for _, event := range msgs[start:] {
		select {
		case ch <- event:
		default:
			logger.Warn("Mock NATS: Channel full during replay, skipping event")
		}
	}
}

// Close closes all subscriptions
func (p *MockNATSPubSub) Close() {
	logger.Info("Mock NATS: Closing all subscriptions", "active_subscriptions", p.GetSubscriberCount())
	p.closeAll()
}
