package pubsub

import (
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/Billy-Davies-2/hockey-draft-kit/internal/logger"
)

// StreamName is the JetStream stream draft events are stored in
const StreamName = "HOCKEY_DRAFT_EVENTS"

// NATSPubSub implements pub/sub using NATS JetStream
type NATSPubSub struct {
	fanout
	nc      *nats.Conn
	js      nats.JetStreamContext
	sub     *nats.Subscription
	subject string
}

// NewNATSPubSub creates a new NATS JetStream pub/sub
func NewNATSPubSub(natsURL, subject string) (*NATSPubSub, error) {
	nc, err := nats.Connect(natsURL, nats.Name("hockey-draft-kit"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	// Create or get stream
	if _, err := js.StreamInfo(StreamName); err != nil {
		if _, err := js.AddStream(streamConfig(StreamName, subject, nats.FileStorage, 0)); err != nil {
			nc.Close()
			return nil, fmt.Errorf("failed to create stream: %w", err)
		}
	}

	ps := &NATSPubSub{
		fanout:  fanout{name: "NATS"},
		nc:      nc,
		js:      js,
		subject: subject,
	}

	// Every instance receives every new event and fans it out locally
	ps.sub, err = js.Subscribe(subject, consume(ps.broadcast), nats.ManualAck(), nats.DeliverNew())
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}

	logger.Info("Connected to NATS JetStream", "url", natsURL, "stream", StreamName, "subject", subject)
	return ps, nil
}

// Publish publishes an event to NATS JetStream
func (p *NATSPubSub) Publish(event Event) {
	if err := publish(p.js, p.subject, event); err != nil {
		logger.Error("Failed to publish to NATS", "error", err, "subject", p.subject, "event_type", event.Type)
	}
}

// SubscribeJetStream creates a durable JetStream subscription
// This allows multiple instances to process events
func (p *NATSPubSub) SubscribeJetStream(consumerName string, handler func(Event)) error {
	_, err := p.js.Subscribe(p.subject, consume(handler), nats.Durable(consumerName), nats.ManualAck())
	return err
}

// Close closes the NATS connection
func (p *NATSPubSub) Close() {
	if p.sub != nil {
		p.sub.Unsubscribe()
	}
	p.closeAll()

	if p.nc != nil {
		p.nc.Close()
	}
}
