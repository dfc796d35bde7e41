// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/anisette/internal/anilist"
	"github.com/tomtom215/anisette/internal/config"
	"github.com/tomtom215/anisette/internal/dedup"
	"github.com/tomtom215/anisette/internal/models"
	"github.com/tomtom215/anisette/internal/similarity"
)

type stubFetcher struct {
	media []anilist.Media
	err   error
	block chan struct{}

	mu    sync.Mutex
	calls int
}

func (f *stubFetcher) FetchAll(ctx context.Context, _ int) ([]anilist.Media, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.media, nil
}

func (f *stubFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type stubStore struct {
	mu        sync.Mutex
	runs      []models.PipelineRun
	upserted  []*models.CanonicalEntity
	features  []*models.EntityFeatures
	recordErr error
	upsertErr error
}

func (s *stubStore) UpsertCanonicalEntities(_ context.Context, entities []*models.CanonicalEntity) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.upsertErr != nil {
		return 0, s.upsertErr
	}
	s.upserted = entities
	return len(entities), nil
}

func (s *stubStore) EntitiesWithFeatures(_ context.Context) ([]*models.EntityFeatures, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.features, nil
}

func (s *stubStore) RecordPipelineRun(_ context.Context, run *models.PipelineRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recordErr != nil {
		return s.recordErr
	}
	s.runs = append(s.runs, *run)
	return nil
}

func (s *stubStore) lastRun(t *testing.T) models.PipelineRun {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.runs) == 0 {
		t.Fatal("no runs recorded")
	}
	return s.runs[len(s.runs)-1]
}

type stubBuilder struct {
	stats similarity.BuildStats
	err   error
	got   []*models.EntityFeatures
}

func (b *stubBuilder) ComputeAndStore(_ context.Context, entities []*models.EntityFeatures) (similarity.BuildStats, error) {
	b.got = entities
	if b.err != nil {
		return similarity.BuildStats{}, b.err
	}
	return b.stats, nil
}

type stubPublisher struct {
	mu     sync.Mutex
	events []models.PipelineEvent
	err    error
}

func (p *stubPublisher) PublishPipelineEvent(_ context.Context, event models.PipelineEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *stubPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, len(p.events))
	for i, e := range p.events {
		types[i] = e.Type
	}
	return types
}

func media(id int, title string, popularity int) anilist.Media {
	return anilist.Media{
		ID:         id,
		Title:      anilist.MediaTitle{Romaji: title},
		Popularity: popularity,
		Genres:     []string{"Action"},
	}
}

func newTestPipeline(f Fetcher, s Store, b SimilarityBuilder) *Pipeline {
	return New(config.PipelineConfig{MaxPages: 2}, f, dedup.New(dedup.Config{}), s, b)
}

func TestRun_FullFlow(t *testing.T) {
	fetcher := &stubFetcher{media: []anilist.Media{
		media(1, "Cowboy Bebop", 500000),
		media(2, "Trigun", 300000),
		media(3, "Outlaw Star", 100000),
		{ID: 4, Popularity: 50}, // no title, skipped in transform
	}}
	store := &stubStore{features: []*models.EntityFeatures{
		{AnimeKey: 1, Tags: "Space"},
		{AnimeKey: 2, Tags: "Western"},
		{AnimeKey: 3, Tags: "Space"},
	}}
	builder := &stubBuilder{stats: similarity.BuildStats{CorpusSize: 3, EdgesWritten: 4}}

	p := newTestPipeline(fetcher, store, builder)
	report, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.RecordsFetched != 4 || report.RecordsSkipped != 1 {
		t.Errorf("fetched/skipped = %d/%d, want 4/1", report.RecordsFetched, report.RecordsSkipped)
	}
	if report.Dedup.CanonicalCount != 3 {
		t.Errorf("CanonicalCount = %d, want 3 distinct shows", report.Dedup.CanonicalCount)
	}
	if report.Similarity.EdgesWritten != 4 {
		t.Errorf("EdgesWritten = %d, want 4", report.Similarity.EdgesWritten)
	}
	if report.Status != models.RunStatusCompleted {
		t.Errorf("Status = %q, want completed", report.Status)
	}
	if report.RunID == "" || report.FinishedAt.IsZero() {
		t.Error("report missing run id or finish time")
	}

	if len(store.upserted) != 3 {
		t.Errorf("upserted %d entities, want 3", len(store.upserted))
	}
	if len(builder.got) != 3 {
		t.Errorf("similarity saw %d feature rows, want the 3 from the warehouse", len(builder.got))
	}

	if len(store.runs) != 2 {
		t.Fatalf("recorded %d run rows, want start + finish", len(store.runs))
	}
	if store.runs[0].Status != models.RunStatusRunning {
		t.Errorf("first record Status = %q, want running", store.runs[0].Status)
	}
	last := store.lastRun(t)
	if last.Status != models.RunStatusCompleted || last.FinishedAt == nil {
		t.Errorf("final record = %+v, want completed with finish time", last)
	}
	if last.RecordsFetched != 4 || last.RecordsSkipped != 1 || last.CanonicalCount != 3 || last.EdgesWritten != 4 {
		t.Errorf("final counters = %+v, want 4/1/3/4", last)
	}
}

func TestRun_SingleFlight(t *testing.T) {
	fetcher := &stubFetcher{block: make(chan struct{})}
	store := &stubStore{}
	p := newTestPipeline(fetcher, store, &stubBuilder{})

	done := make(chan error, 1)
	go func() {
		_, err := p.Run(context.Background())
		done <- err
	}()

	deadline := time.Now().Add(2 * time.Second)
	for !p.Running() {
		if time.Now().After(deadline) {
			t.Fatal("run never started")
		}
		time.Sleep(time.Millisecond)
	}

	if _, err := p.Run(context.Background()); !errors.Is(err, ErrRunInProgress) {
		t.Fatalf("concurrent Run() error = %v, want ErrRunInProgress", err)
	}

	close(fetcher.block)
	if err := <-done; err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	if p.Running() {
		t.Error("Running() still true after completion")
	}
}

func TestRun_AllSourcesFailed(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("api unreachable")}
	store := &stubStore{}
	p := newTestPipeline(fetcher, store, &stubBuilder{})

	_, err := p.Run(context.Background())
	if !errors.Is(err, ErrAllSourcesFailed) {
		t.Fatalf("Run() error = %v, want ErrAllSourcesFailed", err)
	}

	last := store.lastRun(t)
	if last.Status != models.RunStatusFailed {
		t.Errorf("recorded Status = %q, want failed", last.Status)
	}
	if last.Error == "" || last.FinishedAt == nil {
		t.Errorf("failed record = %+v, want error text and finish time", last)
	}
}

func TestRun_PartialSourceFailure(t *testing.T) {
	good := &stubFetcher{media: []anilist.Media{media(1, "Monster", 90000)}}
	store := &stubStore{}
	p := newTestPipeline(good, store, &stubBuilder{})
	p.sources = append(p.sources, source{name: "backup", fetcher: &stubFetcher{err: errors.New("down")}})

	report, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v, want tolerated partial failure", err)
	}

	if report.Status != models.RunStatusPartial {
		t.Errorf("Status = %q, want partial", report.Status)
	}
	if len(report.SourcesFailed) != 1 || report.SourcesFailed[0] != "backup" {
		t.Errorf("SourcesFailed = %v, want [backup]", report.SourcesFailed)
	}
	if report.RecordsFetched != 1 {
		t.Errorf("RecordsFetched = %d, want 1 from the surviving source", report.RecordsFetched)
	}
	if got := store.lastRun(t).Status; got != models.RunStatusPartial {
		t.Errorf("recorded Status = %q, want partial", got)
	}
}

func TestRun_RecordStartFailureAborts(t *testing.T) {
	fetcher := &stubFetcher{}
	store := &stubStore{recordErr: errors.New("warehouse down")}
	p := newTestPipeline(fetcher, store, &stubBuilder{})

	_, err := p.Run(context.Background())
	if err == nil {
		t.Fatal("Run() error = nil, want record failure")
	}
	if fetcher.callCount() != 0 {
		t.Errorf("fetcher called %d times before run row existed, want 0", fetcher.callCount())
	}
}

func TestRun_LoadFailure(t *testing.T) {
	fetcher := &stubFetcher{media: []anilist.Media{media(1, "Akira", 400000)}}
	store := &stubStore{upsertErr: errors.New("disk full")}
	p := newTestPipeline(fetcher, store, &stubBuilder{})

	_, err := p.Run(context.Background())
	if err == nil {
		t.Fatal("Run() error = nil, want load failure")
	}
	if got := store.lastRun(t).Status; got != models.RunStatusFailed {
		t.Errorf("recorded Status = %q, want failed", got)
	}
}

func TestRun_SimilarityFailure(t *testing.T) {
	fetcher := &stubFetcher{media: []anilist.Media{media(1, "Akira", 400000)}}
	store := &stubStore{}
	builder := &stubBuilder{err: errors.New("replace aborted")}
	p := newTestPipeline(fetcher, store, builder)

	_, err := p.Run(context.Background())
	if err == nil {
		t.Fatal("Run() error = nil, want similarity failure")
	}
	if got := store.lastRun(t).Status; got != models.RunStatusFailed {
		t.Errorf("recorded Status = %q, want failed", got)
	}
}

func TestRun_PublishesLifecycleEvents(t *testing.T) {
	fetcher := &stubFetcher{media: []anilist.Media{
		media(1, "Planetes", 80000),
		media(2, "Space Brothers", 60000),
	}}
	store := &stubStore{features: []*models.EntityFeatures{
		{AnimeKey: 1, Tags: "Space"},
		{AnimeKey: 2, Tags: "Space"},
	}}
	builder := &stubBuilder{stats: similarity.BuildStats{EdgesWritten: 2}}
	publisher := &stubPublisher{}

	p := newTestPipeline(fetcher, store, builder)
	p.SetEventPublisher(publisher)

	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []string{models.EventRunStarted, models.EventIndexRebuilt, models.EventRunCompleted}
	got := publisher.types()
	if len(got) != len(want) {
		t.Fatalf("event types = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event[%d] = %q, want %q (all: %v)", i, got[i], want[i], got)
		}
	}

	// Events carry point-in-time snapshots, not the final counters.
	if publisher.events[0].Run.RecordsFetched != 0 {
		t.Errorf("started event RecordsFetched = %d, want 0", publisher.events[0].Run.RecordsFetched)
	}
	final := publisher.events[len(publisher.events)-1]
	if final.Run.RecordsFetched != 2 || final.Run.EdgesWritten != 2 {
		t.Errorf("completed event run = %+v, want final counters", final.Run)
	}
	if final.EventID == "" || final.OccurredAt.IsZero() {
		t.Error("event missing id or timestamp")
	}
}

func TestRun_PublishFailureTolerated(t *testing.T) {
	fetcher := &stubFetcher{media: []anilist.Media{media(1, "Akira", 400000)}}
	p := newTestPipeline(fetcher, &stubStore{}, &stubBuilder{})
	p.SetEventPublisher(&stubPublisher{err: errors.New("bus unavailable")})

	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v, want publish failures swallowed", err)
	}
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := &stubFetcher{media: []anilist.Media{media(1, "Akira", 400000)}}
	store := &stubStore{}
	p := newTestPipeline(fetcher, store, &stubBuilder{})

	_, err := p.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if got := store.lastRun(t).Status; got != models.RunStatusFailed {
		t.Errorf("recorded Status = %q, want failed", got)
	}
}
