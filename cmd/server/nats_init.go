// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

//go:build nats

package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	natsgo "github.com/nats-io/nats.go"
	"github.com/tomtom215/anisette/internal/config"
	"github.com/tomtom215/anisette/internal/events"
	"github.com/tomtom215/anisette/internal/logging"
	"github.com/tomtom215/anisette/internal/pipeline"
)

// NATSComponents holds all NATS-related components for lifecycle management.
type NATSComponents struct {
	server        *events.EmbeddedServer
	natsConn      *natsgo.Conn
	streamManager *events.StreamManager
	publisher     *events.Publisher

	shutdownComplete chan struct{}
	mu               sync.Mutex
	running          bool
}

// InitNATS initializes all NATS components when NATS_ENABLED=true.
//
// The assembled path is publish-only: the pipeline announces run starts,
// completions, and similarity rebuilds onto JetStream, and external
// consumers (dashboards, notification bots, the nats CLI) read the
// stream at their own pace. Anisette itself never subscribes.
//
// Parameters:
//   - cfg: Application configuration with NATS settings
//   - pipe: Aggregation pipeline to wire the publisher into (optional,
//     can be nil when the AniList source is disabled)
func InitNATS(cfg *config.Config, pipe *pipeline.Pipeline) (*NATSComponents, error) {
	if !cfg.NATS.Enabled {
		logging.Info().Msg("NATS event publishing disabled (NATS_ENABLED=false)")
		return nil, nil
	}

	logging.Info().Msg("Initializing NATS event publishing...")

	components := &NATSComponents{
		shutdownComplete: make(chan struct{}),
	}

	var natsURL string

	// Step 1: Initialize embedded NATS server if enabled
	if cfg.NATS.EmbeddedServer {
		serverCfg := events.ServerConfig{
			Host:              "127.0.0.1",
			Port:              4222,
			StoreDir:          cfg.NATS.StoreDir,
			JetStreamMaxMem:   cfg.NATS.MaxMemory,
			JetStreamMaxStore: cfg.NATS.MaxStore,
		}

		server, err := events.NewEmbeddedServer(&serverCfg)
		if err != nil {
			return nil, err
		}
		components.server = server
		natsURL = server.ClientURL()
		logging.Info().Str("url", natsURL).Msg("Embedded NATS server started")
	} else {
		natsURL = cfg.NATS.URL
		logging.Info().Str("url", natsURL).Msg("Using external NATS server")
	}

	// Step 2: Connect to NATS
	nc, err := natsgo.Connect(natsURL,
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(2*time.Second),
	)
	if err != nil {
		components.Shutdown(context.Background())
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	components.natsConn = nc
	logging.Info().Msg("NATS connection established")

	// Step 3: Ensure the event stream exists
	streamCfg := events.DefaultStreamConfig()
	streamCfg.MaxAge = time.Duration(cfg.NATS.StreamRetentionDays) * 24 * time.Hour

	streamManager, err := events.NewStreamManager(nc, &streamCfg)
	if err != nil {
		components.Shutdown(context.Background())
		return nil, fmt.Errorf("create stream manager: %w", err)
	}
	components.streamManager = streamManager

	stream, err := streamManager.EnsureStream(context.Background())
	if err != nil {
		components.Shutdown(context.Background())
		return nil, fmt.Errorf("ensure stream exists: %w", err)
	}
	streamInfo := stream.CachedInfo()
	logging.Info().
		Str("name", streamInfo.Config.Name).
		Strs("subjects", streamInfo.Config.Subjects).
		Dur("max_age", streamInfo.Config.MaxAge).
		Msg("JetStream stream ready")

	// Step 4: Create publisher with circuit breaker protection
	publisherCfg := events.DefaultPublisherConfig(natsURL)
	publisher, err := events.NewPublisher(publisherCfg, nil)
	if err != nil {
		components.Shutdown(context.Background())
		return nil, err
	}
	publisher.SetCircuitBreaker(events.NewCircuitBreaker(
		events.DefaultCircuitBreakerConfig("events-publisher"),
	))
	components.publisher = publisher
	logging.Info().Msg("NATS publisher created")

	// Step 5: Wire the publisher into the pipeline
	if pipe != nil {
		pipe.SetEventPublisher(publisher)
		logging.Info().Msg("Event publisher wired to pipeline")
	} else {
		logging.Info().Msg("No pipeline to wire - events will only flow from future components")
	}

	components.mu.Lock()
	components.running = true
	components.mu.Unlock()

	logging.Info().Msg("NATS event publishing initialized successfully")
	return components, nil
}

// Start marks the components as ready. The publisher needs no run loop:
// the underlying NATS connection reconnects on its own and buffers
// outgoing messages while disconnected.
func (c *NATSComponents) Start(_ context.Context) error {
	if c == nil {
		return nil
	}

	logging.Info().Msg("All NATS components started")
	return nil
}

// Shutdown gracefully stops all NATS components.
//
// Shutdown order is critical for clean termination:
//  1. Close publisher first (flushes the reconnect buffer)
//  2. Close NATS connection
//  3. Shutdown embedded server last
func (c *NATSComponents) Shutdown(ctx context.Context) {
	if c == nil {
		return
	}

	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	c.mu.Unlock()

	logging.Info().Msg("Shutting down NATS components...")

	c.shutdownPublisher()
	c.shutdownConnection(ctx)

	close(c.shutdownComplete)
	logging.Info().Msg("NATS shutdown complete")
}

// shutdownPublisher closes the NATS publisher.
func (c *NATSComponents) shutdownPublisher() {
	if c.publisher == nil {
		return
	}
	if err := c.publisher.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing publisher")
	}
	logging.Info().Msg("Publisher closed")
}

// shutdownConnection closes NATS connection and embedded server.
func (c *NATSComponents) shutdownConnection(ctx context.Context) {
	if c.natsConn != nil {
		c.natsConn.Close()
		logging.Info().Msg("NATS connection closed")
	}
	if c.server != nil {
		if err := c.server.Shutdown(ctx); err != nil {
			logging.Error().Err(err).Msg("Error shutting down NATS server")
		}
		logging.Info().Msg("Embedded NATS server stopped")
	}
}

// IsRunning returns whether NATS components are active.
func (c *NATSComponents) IsRunning() bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// EventPublisher returns the pipeline event publisher for wiring to
// additional components. Returns nil if NATS is not initialized.
func (c *NATSComponents) EventPublisher() pipeline.EventPublisher {
	if c == nil || c.publisher == nil {
		return nil
	}
	return c.publisher
}
