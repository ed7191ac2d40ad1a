package search_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/schwiftylabs/portal/pkg/embed"
	"github.com/schwiftylabs/portal/pkg/kv"
	"github.com/schwiftylabs/portal/pkg/rickmorty"
	"github.com/schwiftylabs/portal/pkg/search"
	"github.com/schwiftylabs/portal/pkg/vecindex"
)

var _ search.CharacterSource = (*rickmorty.CharacterService)(nil)

// fakeSource serves characters from a fixed map, or fabricates them for
// any id when auto is set.
type fakeSource struct {
	mu    sync.Mutex
	chars map[int]*rickmorty.Character
	fail  map[int]error
	auto  bool
	calls int
}

func (f *fakeSource) Get(ctx context.Context, id int) (*rickmorty.Character, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err, ok := f.fail[id]; ok {
		return nil, err
	}
	if c, ok := f.chars[id]; ok {
		return c, nil
	}
	if f.auto {
		return &rickmorty.Character{
			ID:      id,
			Name:    fmt.Sprintf("Character %d", id),
			Status:  "Alive",
			Species: "Human",
			Gender:  "unknown",
		}, nil
	}
	return nil, &rickmorty.Error{HTTPStatus: 404, Message: "Character not found"}
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeSource) failWith(id int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail == nil {
		f.fail = make(map[int]error)
	}
	f.fail[id] = err
}

// fakeEmbedder returns the vector whose key is a substring of the text,
// or a default unit vector. failOn injects an error for matching texts.
type fakeEmbedder struct {
	dim    int
	vecs   map[string][]float32
	failOn string

	mu    sync.Mutex
	calls int
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.failOn != "" && strings.Contains(text, f.failOn) {
		return nil, embed.ErrUnavailable
	}
	for sub, v := range f.vecs {
		if strings.Contains(text, sub) {
			return v, nil
		}
	}
	v := make([]float32, f.dim)
	v[0] = 1
	return v, nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := f.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (f *fakeEmbedder) Dimension() int { return f.dim }

func (f *fakeEmbedder) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

var _ embed.Embedder = (*fakeEmbedder)(nil)

func testCharacters() map[int]*rickmorty.Character {
	return map[int]*rickmorty.Character{
		1: {ID: 1, Name: "Rick Sanchez", Status: "Alive", Species: "Human", Gender: "Male",
			Origin: rickmorty.Ref{Name: "Earth (C-137)"}},
		2: {ID: 2, Name: "Morty Smith", Status: "Alive", Species: "Human", Gender: "Male"},
		3: {ID: 3, Name: "Summer Smith", Status: "Alive", Species: "Human", Gender: "Female"},
	}
}

func testEmbedder() *fakeEmbedder {
	return &fakeEmbedder{
		dim: 3,
		vecs: map[string][]float32{
			"Rick Sanchez": {1, 0, 0},
			"Morty Smith":  {0, 1, 0},
			"Summer Smith": {0.8, 0.6, 0},
			"scientist":    {1, 0.2, 0},
		},
	}
}

func newTestService(t *testing.T, cfg search.Config) *search.Service {
	t.Helper()
	if cfg.Characters == nil {
		cfg.Characters = &fakeSource{chars: testCharacters()}
	}
	if cfg.Embedder == nil {
		cfg.Embedder = testEmbedder()
	}
	svc, err := search.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { svc.Close() })
	return svc
}

func TestIndexCharactersAndSearch(t *testing.T) {
	svc := newTestService(t, search.Config{})
	ctx := context.Background()

	res, err := svc.IndexCharacters(ctx, []int{1, 2, 3})
	if err != nil {
		t.Fatalf("IndexCharacters: %v", err)
	}
	if res.IndexedCount != 3 || len(res.Errors) != 0 {
		t.Fatalf("result = %+v, want 3 indexed, no errors", res)
	}
	if svc.IndexedCount() != 3 {
		t.Errorf("IndexedCount() = %d, want 3", svc.IndexedCount())
	}
	if !svc.Indexed(1) || svc.Indexed(42) {
		t.Error("Indexed() wrong for 1 or 42")
	}

	hits, err := svc.Search(ctx, "mad scientist", 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("got %d hits, want 2", len(hits))
	}
	if hits[0].CharacterID != 1 {
		t.Errorf("top hit = %d (%s), want Rick (1)", hits[0].CharacterID, hits[0].Name)
	}
	if hits[0].Rank != 1 || hits[1].Rank != 2 {
		t.Errorf("ranks = %d, %d", hits[0].Rank, hits[1].Rank)
	}
	if hits[0].Similarity < hits[1].Similarity {
		t.Errorf("similarity not descending: %f < %f", hits[0].Similarity, hits[1].Similarity)
	}
	if hits[0].Character == nil || hits[0].Character.Name != "Rick Sanchez" {
		t.Errorf("top hit not enriched: %+v", hits[0].Character)
	}
	if hits[0].Meta["species"] != "Human" {
		t.Errorf("meta = %v", hits[0].Meta)
	}
}

func TestIndexCharactersDefaultRange(t *testing.T) {
	src := &fakeSource{auto: true}
	svc := newTestService(t, search.Config{Characters: src, Embedder: &fakeEmbedder{dim: 3}})

	res, err := svc.IndexCharacters(context.Background(), nil)
	if err != nil {
		t.Fatalf("IndexCharacters: %v", err)
	}
	if res.IndexedCount != search.DefaultIndexCount {
		t.Errorf("IndexedCount = %d, want %d", res.IndexedCount, search.DefaultIndexCount)
	}
	if src.callCount() != search.DefaultIndexCount {
		t.Errorf("source calls = %d, want %d", src.callCount(), search.DefaultIndexCount)
	}
	if svc.IndexedCount() != search.DefaultIndexCount {
		t.Errorf("index size = %d", svc.IndexedCount())
	}
}

func TestIndexCharactersPartialFailure(t *testing.T) {
	svc := newTestService(t, search.Config{})
	ctx := context.Background()

	res, err := svc.IndexCharacters(ctx, []int{999999, 1, 888888})
	if err != nil {
		t.Fatalf("IndexCharacters: %v", err)
	}

	if res.IndexedCount != 1 {
		t.Errorf("IndexedCount = %d, want 1", res.IndexedCount)
	}
	if len(res.Errors) != 2 {
		t.Fatalf("got %d errors, want 2: %+v", len(res.Errors), res.Errors)
	}
	// Sorted by character id regardless of completion order.
	if res.Errors[0].CharacterID != 888888 || res.Errors[1].CharacterID != 999999 {
		t.Errorf("error order = %d, %d", res.Errors[0].CharacterID, res.Errors[1].CharacterID)
	}
	if !strings.Contains(res.Errors[0].Reason, "fetch character") {
		t.Errorf("reason = %q", res.Errors[0].Reason)
	}

	if !svc.Indexed(1) || svc.Indexed(999999) {
		t.Error("index contents wrong after partial failure")
	}
}

func TestIndexCharactersEmbedFailure(t *testing.T) {
	emb := testEmbedder()
	emb.failOn = "Rick Sanchez"
	svc := newTestService(t, search.Config{Embedder: emb})

	res, err := svc.IndexCharacters(context.Background(), []int{1, 2})
	if err != nil {
		t.Fatalf("IndexCharacters: %v", err)
	}
	if res.IndexedCount != 1 || len(res.Errors) != 1 {
		t.Fatalf("result = %+v", res)
	}
	if res.Errors[0].CharacterID != 1 || !strings.Contains(res.Errors[0].Reason, "embed profile") {
		t.Errorf("error = %+v", res.Errors[0])
	}
}

func TestIndexCharactersConcurrent(t *testing.T) {
	src := &fakeSource{auto: true}
	svc := newTestService(t, search.Config{
		Characters: src,
		Embedder:   &fakeEmbedder{dim: 3},
		Workers:    4,
	})

	ids := make([]int, 20)
	for i := range ids {
		ids[i] = i + 1
	}
	res, err := svc.IndexCharacters(context.Background(), ids)
	if err != nil {
		t.Fatalf("IndexCharacters: %v", err)
	}

	if res.IndexedCount != 20 || len(res.Errors) != 0 {
		t.Fatalf("result = %+v", res)
	}
	for _, id := range ids {
		if !svc.Indexed(id) {
			t.Errorf("character %d missing from index", id)
		}
	}
}

func TestIndexCharactersCanceled(t *testing.T) {
	svc := newTestService(t, search.Config{
		Characters: &fakeSource{auto: true},
		Embedder:   &fakeEmbedder{dim: 3},
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.IndexCharacters(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestSearchNotReady(t *testing.T) {
	svc := newTestService(t, search.Config{})

	_, err := svc.Search(context.Background(), "anything", 5)
	if !errors.Is(err, search.ErrIndexNotReady) {
		t.Fatalf("err = %v, want ErrIndexNotReady", err)
	}
}

func TestSearchTopKDefault(t *testing.T) {
	svc := newTestService(t, search.Config{
		Characters: &fakeSource{auto: true},
		Embedder:   &fakeEmbedder{dim: 3},
	})
	ctx := context.Background()

	ids := []int{1, 2, 3, 4, 5, 6, 7, 8}
	if _, err := svc.IndexCharacters(ctx, ids); err != nil {
		t.Fatalf("IndexCharacters: %v", err)
	}

	hits, err := svc.Search(ctx, "anyone", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != search.DefaultTopK {
		t.Errorf("got %d hits, want %d", len(hits), search.DefaultTopK)
	}
}

func TestSearchEnrichmentFailure(t *testing.T) {
	src := &fakeSource{chars: testCharacters()}
	svc := newTestService(t, search.Config{Characters: src, Embedder: testEmbedder()})
	ctx := context.Background()

	if _, err := svc.IndexCharacters(ctx, []int{1, 2}); err != nil {
		t.Fatalf("IndexCharacters: %v", err)
	}

	// The character API starts failing for Rick after he was indexed.
	src.failWith(1, &rickmorty.Error{HTTPStatus: 500, Message: "internal"})

	hits, err := svc.Search(ctx, "mad scientist", 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("got %d hits, want 2", len(hits))
	}
	if hits[0].CharacterID != 1 || hits[0].Character != nil {
		t.Errorf("hit 0 = id %d, character %+v; want id 1 with nil character",
			hits[0].CharacterID, hits[0].Character)
	}
	if hits[0].Name != "Rick Sanchez" {
		t.Errorf("indexed name lost: %q", hits[0].Name)
	}
	if hits[1].Character == nil {
		t.Error("hit 1 should still be enriched")
	}
}

func TestSearchUsesQueryEmbedder(t *testing.T) {
	doc := testEmbedder()
	query := testEmbedder()
	svc := newTestService(t, search.Config{
		Characters:    &fakeSource{chars: testCharacters()},
		Embedder:      doc,
		QueryEmbedder: query,
	})
	ctx := context.Background()

	if _, err := svc.IndexCharacters(ctx, []int{1, 2, 3}); err != nil {
		t.Fatalf("IndexCharacters: %v", err)
	}
	docCalls := doc.callCount()

	if _, err := svc.Search(ctx, "scientist", 3); err != nil {
		t.Fatalf("Search: %v", err)
	}

	if query.callCount() != 1 {
		t.Errorf("query embedder calls = %d, want 1", query.callCount())
	}
	if doc.callCount() != docCalls {
		t.Errorf("document embedder called during search")
	}
}

func TestWarmStartFromStore(t *testing.T) {
	store := kv.NewMemory(nil)
	t.Cleanup(func() { store.Close() })
	ctx := context.Background()

	first := newTestService(t, search.Config{Store: store})
	if _, err := first.IndexCharacters(ctx, []int{1, 2, 3}); err != nil {
		t.Fatalf("IndexCharacters: %v", err)
	}

	// A fresh service over the same store is ready without re-indexing.
	src := &fakeSource{chars: testCharacters()}
	second := newTestService(t, search.Config{
		Characters: src,
		Embedder:   testEmbedder(),
		Store:      store,
	})
	if second.IndexedCount() != 3 {
		t.Fatalf("warm IndexedCount = %d, want 3", second.IndexedCount())
	}
	if src.callCount() != 0 {
		t.Errorf("warm load hit the character source %d times", src.callCount())
	}

	hits, err := second.Search(ctx, "mad scientist", 1)
	if err != nil {
		t.Fatalf("Search after warm start: %v", err)
	}
	if hits[0].CharacterID != 1 {
		t.Errorf("top hit = %d, want 1", hits[0].CharacterID)
	}
}

func TestReindex(t *testing.T) {
	src := &fakeSource{chars: testCharacters()}
	svc := newTestService(t, search.Config{Characters: src, Embedder: testEmbedder()})
	ctx := context.Background()

	if _, err := svc.IndexCharacters(ctx, []int{1}); err != nil {
		t.Fatalf("IndexCharacters: %v", err)
	}
	before := src.callCount()

	if err := svc.Reindex(ctx, 1); err != nil {
		t.Fatalf("Reindex: %v", err)
	}
	if src.callCount() != before+1 {
		t.Errorf("source calls = %d, want %d", src.callCount(), before+1)
	}
	if !svc.Indexed(1) {
		t.Error("character gone after reindex")
	}
}

func TestReindexFetchFailure(t *testing.T) {
	src := &fakeSource{chars: testCharacters()}
	svc := newTestService(t, search.Config{Characters: src, Embedder: testEmbedder()})
	ctx := context.Background()

	if _, err := svc.IndexCharacters(ctx, []int{1}); err != nil {
		t.Fatalf("IndexCharacters: %v", err)
	}
	src.failWith(1, &rickmorty.Error{HTTPStatus: 404, Message: "Character not found"})

	if err := svc.Reindex(ctx, 1); err == nil {
		t.Fatal("expected error when the fetch fails")
	}
	// The stale vector was dropped before the rebuild failed.
	if svc.Indexed(1) {
		t.Error("stale embedding survived a failed reindex")
	}
}

func TestNewValidatesConfig(t *testing.T) {
	ctx := context.Background()

	if _, err := search.New(ctx, search.Config{Embedder: testEmbedder()}); err == nil {
		t.Error("expected error without Characters")
	}
	if _, err := search.New(ctx, search.Config{Characters: &fakeSource{}}); err == nil {
		t.Error("expected error without Embedder")
	}
}

func TestCustomIndex(t *testing.T) {
	idx := vecindex.NewMemory()
	svc := newTestService(t, search.Config{Index: idx})

	if _, err := svc.IndexCharacters(context.Background(), []int{1}); err != nil {
		t.Fatalf("IndexCharacters: %v", err)
	}
	if idx.Len() != 1 {
		t.Errorf("custom index len = %d, want 1", idx.Len())
	}
}
