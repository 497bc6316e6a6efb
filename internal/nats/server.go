package nats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/reportu/reportu/internal/logger"
)

// StartEmbeddedNATS starts an embedded NATS server with JetStream enabled
// using the specified data directory for file-based storage.
func StartEmbeddedNATS(dataDir string) (*server.Server, error) {
	logger.Debug("Starting embedded NATS server with data dir: %s", dataDir)

	opts := &server.Options{
		JetStream:  true,
		StoreDir:   dataDir,
		DontListen: true, // No network ports - in-process only
		NoSigs:     true,
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		logger.Error("Failed to create NATS server: %v", err)
		return nil, err
	}

	go ns.Start()

	if !ns.ReadyForConnections(4 * time.Second) {
		logger.Error("NATS server failed to start within 4s timeout")
		ns.Shutdown()
		return nil, errors.New("nats server failed to start within timeout")
	}

	logger.Debug("NATS server ready for connections")
	return ns, nil
}

// ConnectInProcess creates an in-process connection to the embedded NATS server.
func ConnectInProcess(ns *server.Server) (*nats.Conn, error) {
	conn, err := nats.Connect("", nats.InProcessServer(ns), nats.Name("reportu"))
	if err != nil {
		logger.Error("Failed to connect to NATS in-process: %v", err)
		return nil, err
	}
	return conn, nil
}

// CreateJetStream creates a JetStream context from a NATS connection.
func CreateJetStream(nc *nats.Conn) (jetstream.JetStream, error) {
	return jetstream.New(nc)
}

// Broker bundles the embedded server, its in-process connection and the
// JetStream resources reportu needs.
type Broker struct {
	Server   *server.Server
	Conn     *nats.Conn
	JS       jetstream.JetStream
	Stream   jetstream.Stream
	Evidence jetstream.ObjectStore
}

// Open starts the embedded server in dataDir and provisions the report
// stream and the evidence bucket. The caller must Close the broker.
func Open(ctx context.Context, dataDir string) (*Broker, error) {
	ns, err := StartEmbeddedNATS(dataDir)
	if err != nil {
		return nil, fmt.Errorf("starting nats: %w", err)
	}

	nc, err := ConnectInProcess(ns)
	if err != nil {
		_ = Shutdown(nil, ns)
		return nil, fmt.Errorf("connecting to nats: %w", err)
	}

	b := &Broker{Server: ns, Conn: nc}
	fail := func(what string, err error) (*Broker, error) {
		_ = b.Close()
		return nil, fmt.Errorf("%s: %w", what, err)
	}

	if b.JS, err = CreateJetStream(nc); err != nil {
		return fail("creating jetstream context", err)
	}
	if b.Stream, err = SetupStream(ctx, b.JS); err != nil {
		return fail("setting up report stream", err)
	}
	if b.Evidence, err = SetupEvidenceStore(ctx, b.JS); err != nil {
		return fail("setting up evidence store", err)
	}
	return b, nil
}

// Close drains the connection and stops the server.
func (b *Broker) Close() error {
	if b == nil {
		return nil
	}
	return Shutdown(b.Conn, b.Server)
}

// Shutdown gracefully shuts down the NATS connection and server.
// It first drains and closes the connection, then shuts down the server
// with a timeout to allow in-flight operations to complete.
func Shutdown(nc *nats.Conn, ns *server.Server) error {
	logger.Debug("Starting NATS shutdown")

	if nc != nil {
		// Drain waits for published messages to be acknowledged before closing
		drainDone := make(chan error, 1)
		go func() {
			drainDone <- nc.Drain()
		}()

		select {
		case err := <-drainDone:
			if err != nil {
				logger.Warn("NATS drain failed, forcing close: %v", err)
				nc.Close()
			}
		case <-time.After(2 * time.Second):
			logger.Warn("NATS drain timed out after 2s, forcing close")
			nc.Close()
		}
	}

	if ns != nil {
		ns.Shutdown()

		shutdownDone := make(chan struct{})
		go func() {
			ns.WaitForShutdown()
			close(shutdownDone)
		}()

		select {
		case <-shutdownDone:
		case <-time.After(5 * time.Second):
			// There is no force-stop API; just don't hang forever
			logger.Error("NATS server shutdown timed out after 5s")
			return errors.New("NATS server shutdown timed out")
		}
	}

	logger.Debug("NATS shutdown complete")
	return nil
}
