// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

package events

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/anisette/internal/models"
)

// Serializer handles event encoding/decoding for NATS messages.
type Serializer struct{}

// NewSerializer creates a new serializer.
func NewSerializer() *Serializer {
	return &Serializer{}
}

// Marshal converts an event to JSON bytes. The event is validated first:
// every published event carries an ID, a type, and a run snapshot.
func (s *Serializer) Marshal(event *models.PipelineEvent) ([]byte, error) {
	if err := validateEvent(event); err != nil {
		return nil, fmt.Errorf("validate event: %w", err)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}

	return data, nil
}

// Unmarshal converts JSON bytes to an event.
func (s *Serializer) Unmarshal(data []byte) (*models.PipelineEvent, error) {
	var event models.PipelineEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}

	return &event, nil
}

// SerializeEvent is a convenience function that marshals an event to JSON.
func SerializeEvent(event *models.PipelineEvent) ([]byte, error) {
	return NewSerializer().Marshal(event)
}

// DeserializeEvent is a convenience function that unmarshals JSON to an event.
func DeserializeEvent(data []byte) (*models.PipelineEvent, error) {
	return NewSerializer().Unmarshal(data)
}

func validateEvent(event *models.PipelineEvent) error {
	if event == nil {
		return fmt.Errorf("%w: event is nil", ErrInvalidEvent)
	}
	if event.EventID == "" {
		return fmt.Errorf("%w: event_id is required", ErrInvalidEvent)
	}
	if event.Type == "" {
		return fmt.Errorf("%w: type is required", ErrInvalidEvent)
	}
	if event.Run == nil {
		return fmt.Errorf("%w: run snapshot is required", ErrInvalidEvent)
	}
	return nil
}
