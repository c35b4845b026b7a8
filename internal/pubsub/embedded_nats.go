package pubsub

import (
	"fmt"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"

	"github.com/Billy-Davies-2/hockey-draft-kit/internal/logger"
)

// EmbeddedNATSPubSub implements pub/sub using an embedded NATS server
// This is ideal for development as it provides a real NATS server in-process
// without requiring external infrastructure
type EmbeddedNATSPubSub struct {
	fanout
	server  *server.Server
	nc      *nats.Conn
	js      nats.JetStreamContext
	subject string
}

// EmbeddedNATSOptions configures the embedded NATS server
type EmbeddedNATSOptions struct {
	Port       int    // Port to listen on (0 = random available port)
	Subject    string // Subject to publish/subscribe to
	StreamName string // JetStream stream name
	StoreDir   string // Directory for JetStream storage (empty = in-memory)
}

// DefaultEmbeddedNATSOptions returns sensible defaults for development
func DefaultEmbeddedNATSOptions() EmbeddedNATSOptions {
	return EmbeddedNATSOptions{
		Port:       -1,
		Subject:    "hockey.draft.events",
		StreamName: StreamName,
		StoreDir:   "",
	}
}

// NewEmbeddedNATSPubSub creates a new embedded NATS server and pub/sub
func NewEmbeddedNATSPubSub(opts EmbeddedNATSOptions) (*EmbeddedNATSPubSub, error) {
	// 0 would mean the default 4222, -1 picks a random port
	port := opts.Port
	if port == 0 {
		port = -1
	}

	serverOpts := &server.Options{
		Port:      port,
		JetStream: true,
		NoSigs:    true,
	}
	if opts.StoreDir != "" {
		serverOpts.StoreDir = opts.StoreDir
	}

	ns, err := server.NewServer(serverOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedded NATS server: %w", err)
	}
	ns.SetLogger(natsLogger{}, false, false)

	go ns.Start()

	if !ns.ReadyForConnections(10 * time.Second) {
		ns.Shutdown()
		return nil, fmt.Errorf("embedded NATS server failed to start within timeout")
	}

	clientURL := ns.ClientURL()
	logger.Info("Embedded NATS server started", "url", clientURL)

	nc, err := nats.Connect(clientURL)
	if err != nil {
		ns.Shutdown()
		return nil, fmt.Errorf("failed to connect to embedded NATS: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		ns.Shutdown()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	streamName := opts.StreamName
	if streamName == "" {
		streamName = StreamName
	}

	storage := nats.MemoryStorage
	if opts.StoreDir != "" {
		storage = nats.FileStorage
	}
	if _, err = js.AddStream(streamConfig(streamName, opts.Subject, storage, time.Hour)); err != nil {
		nc.Close()
		ns.Shutdown()
		return nil, fmt.Errorf("failed to create JetStream stream: %w", err)
	}

	logger.Info("JetStream stream created", "stream", streamName, "subject", opts.Subject)

	ps := &EmbeddedNATSPubSub{
		fanout:  fanout{name: "Embedded NATS"},
		server:  ns,
		nc:      nc,
		js:      js,
		subject: opts.Subject,
	}

	if _, err := js.Subscribe(opts.Subject, consume(ps.broadcast), nats.ManualAck(), nats.DeliverNew()); err != nil {
		nc.Close()
		ns.Shutdown()
		return nil, fmt.Errorf("failed to subscribe to JetStream: %w", err)
	}
	logger.Debug("Subscribed to JetStream", "subject", opts.Subject)

	return ps, nil
}

// Publish publishes an event to the embedded NATS JetStream
func (p *EmbeddedNATSPubSub) Publish(event Event) {
	if err := publish(p.js, p.subject, event); err != nil {
		logger.Error("Failed to publish to embedded NATS", "error", err, "subject", p.subject, "event_type", event.Type)
		return
	}
	logger.Debug("Published event to embedded NATS", "event_type", event.Type, "subject", p.subject)
}

// Close shuts down the embedded NATS server
func (p *EmbeddedNATSPubSub) Close() {
	logger.Info("Shutting down embedded NATS server")

	p.closeAll()

	if p.nc != nil {
		p.nc.Close()
	}

	if p.server != nil {
		p.server.Shutdown()
		p.server.WaitForShutdown()
	}

	logger.Info("Embedded NATS server shut down")
}

// GetServerURL returns the URL of the embedded NATS server
func (p *EmbeddedNATSPubSub) GetServerURL() string {
	return p.server.ClientURL()
}

// natsLogger routes embedded server output into the service logger
type natsLogger struct{}

func (natsLogger) Noticef(format string, v ...interface{}) {
	logger.Info(fmt.Sprintf(format, v...), "component", "nats-server")
}

func (natsLogger) Warnf(format string, v ...interface{}) {
	logger.Warn(fmt.Sprintf(format, v...), "component", "nats-server")
}

func (natsLogger) Fatalf(format string, v ...interface{}) {
	logger.Error(fmt.Sprintf(format, v...), "component", "nats-server", "fatal", true)
}

func (natsLogger) Errorf(format string, v ...interface{}) {
	logger.Error(fmt.Sprintf(format, v...), "component", "nats-server")
}

func (natsLogger) Debugf(format string, v ...interface{}) {
	logger.Debug(fmt.Sprintf(format, v...), "component", "nats-server")
}

func (natsLogger) Tracef(format string, v ...interface{}) {
	logger.Debug(fmt.Sprintf(format, v...), "component", "nats-server", "trace", true)
}
