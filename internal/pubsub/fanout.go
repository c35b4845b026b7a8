package pubsub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/Billy-Davies-2/hockey-draft-kit/internal/logger"
)

// fanout tracks local subscriber channels for the JetStream backed pub/subs
type fanout struct {
	name        string
	mu          sync.RWMutex
	subscribers []chan Event
}

func (f *fanout) Subscribe() chan Event {
	ch := make(chan Event, 100)

	f.mu.Lock()
	f.subscribers = append(f.subscribers, ch)
	subCount := len(f.subscribers)
	f.mu.Unlock()

	logger.Debug(f.name+": New subscriber added", "total_subscribers", subCount)
	return ch
}

func (f *fanout) Unsubscribe(ch chan Event) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, sub := range f.subscribers {
		if sub == ch {
			f.subscribers = append(f.subscribers[:i], f.subscribers[i+1:]...)
			close(ch)
			logger.Debug(f.name+": Subscriber removed", "remaining_subscribers", len(f.subscribers))
			break
		}
	}
}

// GetSubscriberCount returns the number of active local subscribers
func (f *fanout) GetSubscriberCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subscribers)
}

func (f *fanout) broadcast(event Event) {
	f.mu.RLock()
	subs := make([]chan Event, len(f.subscribers))
	copy(subs, f.subscribers)
	f.mu.RUnlock()

	for _, sub := range subs {
		select {
		case sub <- event:
		default:
			logger.Warn(f.name+": Skipping slow subscriber", "event_type", event.Type)
		}
	}
}

func (f *fanout) closeAll() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, sub := range f.subscribers {
		close(sub)
	}
	f.subscribers = nil
}

// consume decodes JetStream messages and hands them to handler
func consume(handler func(Event)) nats.MsgHandler {
	return func(msg *nats.Msg) {
		var event Event
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			logger.Error("Failed to unmarshal event from JetStream", "error", err)
			msg.Nak()
			return
		}

		handler(event)
		msg.Ack()
	}
}

// publish sends event with its id as the JetStream message id, so a retried
// publish inside the duplicate window is stored once
func publish(js nats.JetStreamContext, subject string, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	opts := []nats.PubOpt{}
	if event.ID != "" {
		opts = append(opts, nats.MsgId(event.ID))
	}
	_, err = js.Publish(subject, data, opts...)
	return err
}

// streamConfig describes the draft event stream. maxAge 0 keeps events forever.
func streamConfig(name, subject string, storage nats.StorageType, maxAge time.Duration) *nats.StreamConfig {
	return &nats.StreamConfig{
		Name:       name,
		Subjects:   []string{subject},
		Storage:    storage,
		MaxAge:     maxAge,
		Duplicates: 2 * time.Minute,
	}
}
