// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

package events

import (
	"errors"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/anisette/internal/models"
)

func validTestEvent() *models.PipelineEvent {
	return &models.PipelineEvent{
		EventID:    "evt-1",
		Type:       models.EventRunCompleted,
		OccurredAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Run: &models.PipelineRun{
			RunID:          "run-1",
			StartedAt:      time.Date(2026, 3, 1, 11, 30, 0, 0, time.UTC),
			RecordsFetched: 500,
			CanonicalCount: 480,
			Status:         models.RunStatusCompleted,
		},
	}
}

func TestSerializer_Marshal(t *testing.T) {
	serializer := NewSerializer()

	t.Run("valid event", func(t *testing.T) {
		data, err := serializer.Marshal(validTestEvent())
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(data) == 0 {
			t.Error("Expected non-empty data")
		}

		// Verify JSON structure
		var decoded map[string]interface{}
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("Invalid JSON: %v", err)
		}
		if decoded["event_id"] != "evt-1" {
			t.Errorf("Expected event_id=evt-1, got %v", decoded["event_id"])
		}
		if decoded["type"] != "pipeline.run.completed" {
			t.Errorf("Expected type=pipeline.run.completed, got %v", decoded["type"])
		}
		run, ok := decoded["run"].(map[string]interface{})
		if !ok {
			t.Fatalf("Expected nested run object, got %T", decoded["run"])
		}
		if run["run_id"] != "run-1" {
			t.Errorf("Expected run.run_id=run-1, got %v", run["run_id"])
		}
	})

	t.Run("nil event", func(t *testing.T) {
		_, err := serializer.Marshal(nil)
		if !errors.Is(err, ErrInvalidEvent) {
			t.Errorf("Expected ErrInvalidEvent, got %v", err)
		}
	})

	t.Run("missing event ID", func(t *testing.T) {
		event := validTestEvent()
		event.EventID = ""

		_, err := serializer.Marshal(event)
		if !errors.Is(err, ErrInvalidEvent) {
			t.Errorf("Expected ErrInvalidEvent, got %v", err)
		}
	})

	t.Run("missing type", func(t *testing.T) {
		event := validTestEvent()
		event.Type = ""

		_, err := serializer.Marshal(event)
		if !errors.Is(err, ErrInvalidEvent) {
			t.Errorf("Expected ErrInvalidEvent, got %v", err)
		}
	})

	t.Run("missing run snapshot", func(t *testing.T) {
		event := validTestEvent()
		event.Run = nil

		_, err := serializer.Marshal(event)
		if !errors.Is(err, ErrInvalidEvent) {
			t.Errorf("Expected ErrInvalidEvent, got %v", err)
		}
	})
}

func TestSerializer_Unmarshal(t *testing.T) {
	serializer := NewSerializer()

	t.Run("valid JSON", func(t *testing.T) {
		data := []byte(`{
			"event_id": "evt-2",
			"type": "pipeline.run.started",
			"occurred_at": "2026-03-01T12:00:00Z",
			"run": {
				"run_id": "run-2",
				"started_at": "2026-03-01T12:00:00Z",
				"records_fetched": 0,
				"records_skipped": 0,
				"canonical_count": 0,
				"edges_written": 0,
				"status": "running"
			}
		}`)

		event, err := serializer.Unmarshal(data)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if event.EventID != "evt-2" {
			t.Errorf("Expected EventID=evt-2, got %s", event.EventID)
		}
		if event.Type != models.EventRunStarted {
			t.Errorf("Expected Type=%s, got %s", models.EventRunStarted, event.Type)
		}
		if event.Run == nil {
			t.Fatal("Expected run snapshot")
		}
		if event.Run.Status != models.RunStatusRunning {
			t.Errorf("Expected Status=running, got %s", event.Run.Status)
		}
	})

	t.Run("invalid JSON", func(t *testing.T) {
		data := []byte(`{invalid json}`)

		_, err := serializer.Unmarshal(data)
		if err == nil {
			t.Error("Expected error for invalid JSON")
		}
	})
}

func TestSerializeEvent(t *testing.T) {
	data, err := SerializeEvent(validTestEvent())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(data) == 0 {
		t.Error("Expected non-empty data")
	}
}

func TestDeserializeEvent(t *testing.T) {
	data := []byte(`{
		"event_id": "evt-3",
		"type": "pipeline.similarity.rebuilt",
		"occurred_at": "2026-03-01T12:05:00Z",
		"run": {"run_id": "run-3", "started_at": "2026-03-01T12:00:00Z", "status": "running"}
	}`)

	event, err := DeserializeEvent(data)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if event.EventID != "evt-3" {
		t.Errorf("Expected EventID=evt-3, got %s", event.EventID)
	}
	if event.Type != models.EventIndexRebuilt {
		t.Errorf("Expected Type=%s, got %s", models.EventIndexRebuilt, event.Type)
	}
}

func TestRoundTrip(t *testing.T) {
	serializer := NewSerializer()

	started := time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC)
	finished := started.Add(12 * time.Minute)

	original := &models.PipelineEvent{
		EventID:    "round-trip-test",
		Type:       models.EventRunFailed,
		OccurredAt: finished,
		Run: &models.PipelineRun{
			RunID:          "run-rt",
			StartedAt:      started,
			FinishedAt:     &finished,
			RecordsFetched: 1200,
			RecordsSkipped: 50,
			CanonicalCount: 1100,
			EdgesWritten:   22000,
			Status:         models.RunStatusFailed,
			Error:          "anilist unreachable",
		},
	}

	data, err := serializer.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	decoded, err := serializer.Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}

	if decoded.EventID != original.EventID {
		t.Errorf("EventID mismatch: %s != %s", decoded.EventID, original.EventID)
	}
	if decoded.Type != original.Type {
		t.Errorf("Type mismatch: %s != %s", decoded.Type, original.Type)
	}
	if !decoded.OccurredAt.Equal(original.OccurredAt) {
		t.Errorf("OccurredAt mismatch: %v != %v", decoded.OccurredAt, original.OccurredAt)
	}
	if decoded.Run == nil {
		t.Fatal("Run snapshot lost in round trip")
	}
	if decoded.Run.RunID != original.Run.RunID {
		t.Errorf("RunID mismatch: %s != %s", decoded.Run.RunID, original.Run.RunID)
	}
	if decoded.Run.FinishedAt == nil || !decoded.Run.FinishedAt.Equal(finished) {
		t.Errorf("FinishedAt mismatch: %v != %v", decoded.Run.FinishedAt, finished)
	}
	if decoded.Run.RecordsFetched != original.Run.RecordsFetched {
		t.Errorf("RecordsFetched mismatch: %d != %d", decoded.Run.RecordsFetched, original.Run.RecordsFetched)
	}
	if decoded.Run.EdgesWritten != original.Run.EdgesWritten {
		t.Errorf("EdgesWritten mismatch: %d != %d", decoded.Run.EdgesWritten, original.Run.EdgesWritten)
	}
	if decoded.Run.Status != original.Run.Status {
		t.Errorf("Status mismatch: %s != %s", decoded.Run.Status, original.Run.Status)
	}
	if decoded.Run.Error != original.Run.Error {
		t.Errorf("Error mismatch: %s != %s", decoded.Run.Error, original.Run.Error)
	}
}
