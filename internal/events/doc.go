// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

// Package events publishes pipeline lifecycle events to NATS JetStream
// using Watermill.
//
// The refresh pipeline is the sole producer. Every run emits started,
// completed or failed events plus a similarity.rebuilt event when the
// index changes, giving downstream consumers (notification bots, cache
// invalidators, data exports) a durable feed without coupling them to
// the service's database:
//
//	┌──────────────┐
//	│   Pipeline   │  run started / completed / failed
//	│  (producer)  │  similarity index rebuilt
//	└──────┬───────┘
//	       │ anisette.pipeline.>
//	       ▼
//	┌──────────────────────┐
//	│    NATS JetStream    │  ← Durable event log (7-day retention)
//	│  (ANISETTE_EVENTS)   │
//	└──────┬───────────────┘
//	       │
//	       ▼
//	 External consumers (Discord bots, cache invalidation, exports)
//
// Publishing is fire-and-forget from the pipeline's point of view: a
// publish failure is logged and the run continues. The publisher wraps
// every send in a circuit breaker so a dead broker degrades to fast
// local failures instead of stalling run bookkeeping.
//
// # Key Components
//
//   - EmbeddedServer: Optional embedded NATS JetStream server for single-instance deployments
//   - StreamManager: Creates and updates the ANISETTE_EVENTS stream
//   - Publisher: Watermill publisher with circuit breaker and reconnection handling
//   - Serializer: JSON encoding with event validation
//
// # Usage Example
//
//	// Create embedded NATS server (optional)
//	cfg := events.DefaultServerConfig()
//	server, err := events.NewEmbeddedServer(&cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer server.Shutdown(ctx)
//
//	// Create publisher with circuit breaker
//	pub, err := events.NewPublisher(events.DefaultPublisherConfig(server.ClientURL()), nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pub.Close()
//	pub.SetCircuitBreaker(events.NewCircuitBreaker(events.DefaultCircuitBreakerConfig("events-publisher")))
//
//	// Wire into the pipeline
//	pipe.SetEventPublisher(pub)
//
// # Build Tags
//
// The NATS server, stream manager and publisher require the nats build
// tag. Without the tag the package compiles to stubs that return
// ErrNATSNotEnabled, and the pipeline runs with no publisher configured.
//
// # Message Deduplication
//
// Each message sets Nats-Msg-Id to the event ID, so JetStream's
// duplicate window suppresses redeliveries when a publish is retried
// after an ambiguous failure.
package events
