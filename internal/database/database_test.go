// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

package database

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/tomtom215/anisette/internal/config"
	"github.com/tomtom215/anisette/internal/models"
)

// setupTestDB creates an in-memory test database torn down with the test.
// All pool connections of one sql.DB share the same in-memory instance,
// so schema created here is visible to every query in the test.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	cfg := &config.DatabaseConfig{
		Path:      ":memory:",
		MaxMemory: "512MB",
	}

	db, err := New(cfg)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Failed to close test database: %v", err)
		}
	})

	return db
}

// testEntity builds a canonical entity with a single founding source.
// Tests mutate the returned struct when they need specific fields.
func testEntity(sourceID int, title string, popularity int) *models.CanonicalEntity {
	rec := &models.SourceRecord{
		Source:       "anilist",
		SourceID:     sourceID,
		Title:        title,
		Popularity:   popularity,
		Genres:       []string{"Action", "Drama"},
		Tags:         []models.Tag{{Name: "Shounen", Rank: 85}},
		Studios:      []string{"Bones"},
		Staff:        []models.StaffCredit{{Role: "Director", Name: "Tachikawa Yuzuru"}},
		Description:  "A story about " + title,
		AverageScore: 80,
		Format:       "TV",
		Status:       "FINISHED",
		Episodes:     24,
		Season:       "SPRING",
		SeasonYear:   2020,
	}
	return &models.CanonicalEntity{
		CanonicalID:         fmt.Sprintf("AL_%d", sourceID),
		Title:               title,
		SeriesBase:          title,
		ContributingSources: []string{rec.SourceKey()},
		Founder:             rec,
	}
}

// seedEntities loads entities into the warehouse, failing the test on error
func seedEntities(t *testing.T, db *DB, entities ...*models.CanonicalEntity) {
	t.Helper()
	if _, err := db.UpsertCanonicalEntities(context.Background(), entities); err != nil {
		t.Fatalf("UpsertCanonicalEntities() error = %v", err)
	}
}

func TestNew_InitializesSchema(t *testing.T) {
	db := setupTestDB(t)

	// Every core table must exist and be empty
	tables := []string{"dim_anime", "anime_sources", "fact_anime_similarity", "pipeline_runs"}
	for _, table := range tables {
		var count int
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
		if err := db.conn.QueryRow(query).Scan(&count); err != nil {
			t.Errorf("table %s not queryable: %v", table, err)
		}
		if count != 0 {
			t.Errorf("table %s has %d rows, want 0", table, count)
		}
	}
}

func TestNew_NilConfig(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Error("New(nil) expected error, got nil")
	}
}

func TestNew_FileBacked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "warehouse", "anisette.db")
	db, err := New(&config.DatabaseConfig{Path: path, MaxMemory: "256MB"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	}()

	if got := db.GetDatabasePath(); got != path {
		t.Errorf("GetDatabasePath() = %q, want %q", got, path)
	}
	if err := db.Ping(); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestPing(t *testing.T) {
	db := setupTestDB(t)
	if err := db.Ping(); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestPing_NilConnection(t *testing.T) {
	db := &DB{}
	if err := db.Ping(); err == nil {
		t.Error("Ping() on nil connection expected error, got nil")
	}
}

func TestCheckpoint(t *testing.T) {
	db := setupTestDB(t)
	if err := db.Checkpoint(context.Background()); err != nil {
		t.Errorf("Checkpoint() error = %v", err)
	}
}

func TestCreateTables_Idempotent(t *testing.T) {
	db := setupTestDB(t)

	// Re-running schema creation against an initialized database is a no-op
	if err := db.createTables(); err != nil {
		t.Errorf("createTables() second run error = %v", err)
	}
	if err := db.createIndexes(); err != nil {
		t.Errorf("createIndexes() second run error = %v", err)
	}
}
