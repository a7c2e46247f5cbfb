package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/linkverse/linkverse/internal/gateway"
)

// fakeFetcher counts calls per kind and can be told to fail.
type fakeFetcher struct {
	mu        sync.Mutex
	linkCalls int
	collCalls int
	profCalls int

	links       []gateway.Link
	collections []gateway.Collection
	profile     gateway.Profile

	failLinks bool
	failColls bool
	failProf  bool

	block chan struct{} // if set, fetches wait on it
}

func (f *fakeFetcher) ListLinks(ctx context.Context, _ gateway.Filter) ([]gateway.Link, error) {
	f.mu.Lock()
	f.linkCalls++
	fail, block := f.failLinks, f.block
	links := f.links
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	if fail {
		return nil, errors.New("links down")
	}
	return links, nil
}

func (f *fakeFetcher) ListCollections(ctx context.Context) ([]gateway.Collection, error) {
	f.mu.Lock()
	f.collCalls++
	fail := f.failColls
	colls := f.collections
	f.mu.Unlock()
	if fail {
		return nil, errors.New("collections down")
	}
	return colls, nil
}

func (f *fakeFetcher) GetProfile(ctx context.Context) (gateway.Profile, error) {
	f.mu.Lock()
	f.profCalls++
	fail := f.failProf
	prof := f.profile
	f.mu.Unlock()
	if fail {
		return gateway.Profile{}, errors.New("profile down")
	}
	return prof, nil
}

func (f *fakeFetcher) calls() (int, int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.linkCalls, f.collCalls, f.profCalls
}

func newTestStore(f *fakeFetcher, window time.Duration) *Store {
	return New(Options{Fetcher: f, Window: window})
}

func TestFreshSnapshotSkipsNetwork(t *testing.T) {
	f := &fakeFetcher{links: []gateway.Link{{ID: "l1"}}}
	s := newTestStore(f, time.Minute)

	if _, err := s.Links(context.Background()); err != nil {
		t.Fatalf("first read: %v", err)
	}
	if _, err := s.Links(context.Background()); err != nil {
		t.Fatalf("second read: %v", err)
	}
	if _, err := s.Collections(context.Background()); err != nil {
		t.Fatalf("collections read: %v", err)
	}

	lc, cc, pc := f.calls()
	if lc != 1 || cc != 1 || pc != 1 {
		t.Errorf("expected exactly one fetch per kind, got links=%d collections=%d profile=%d", lc, cc, pc)
	}
}

func TestStaleSnapshotRefetches(t *testing.T) {
	f := &fakeFetcher{}
	s := newTestStore(f, 10*time.Millisecond)

	s.Links(context.Background())
	time.Sleep(20 * time.Millisecond)
	s.Links(context.Background())

	lc, _, _ := f.calls()
	if lc != 2 {
		t.Errorf("expected refetch after window elapsed, got %d link fetches", lc)
	}
}

func TestInvalidateForcesRefetch(t *testing.T) {
	f := &fakeFetcher{}
	s := newTestStore(f, time.Hour)

	s.Links(context.Background())
	s.Invalidate()
	s.Links(context.Background())

	lc, _, _ := f.calls()
	if lc != 2 {
		t.Errorf("expected fetch after invalidate regardless of window, got %d", lc)
	}
}

func TestOverlappingReadersShareOneRefresh(t *testing.T) {
	block := make(chan struct{})
	f := &fakeFetcher{block: block, links: []gateway.Link{{ID: "l1"}}}
	s := newTestStore(f, time.Hour)

	var wg sync.WaitGroup
	var failures atomic.Int32
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			links, err := s.Links(context.Background())
			if err != nil || len(links) != 1 {
				failures.Add(1)
			}
		}()
	}

	// Let the readers pile up on the in-flight refresh, then release it.
	time.Sleep(20 * time.Millisecond)
	close(block)
	wg.Wait()

	if n := failures.Load(); n != 0 {
		t.Fatalf("%d readers got bad results", n)
	}
	lc, cc, pc := f.calls()
	if lc != 1 || cc != 1 || pc != 1 {
		t.Errorf("expected one shared fetch per kind, got links=%d collections=%d profile=%d", lc, cc, pc)
	}
}

func TestPartialFailureKeepsPreviousKind(t *testing.T) {
	f := &fakeFetcher{
		links:       []gateway.Link{{ID: "l1"}},
		collections: []gateway.Collection{{ID: "c1"}},
	}
	s := newTestStore(f, time.Millisecond)

	if _, err := s.Snapshot(context.Background()); err != nil {
		t.Fatalf("seed fetch: %v", err)
	}

	time.Sleep(5 * time.Millisecond)
	f.mu.Lock()
	f.failColls = true
	f.links = []gateway.Link{{ID: "l1"}, {ID: "l2"}}
	f.mu.Unlock()

	snap, err := s.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("partial failure should not surface an error: %v", err)
	}
	if len(snap.Links) != 2 {
		t.Errorf("succeeding kind should update, got %d links", len(snap.Links))
	}
	if len(snap.Collections) != 1 || snap.Collections[0].ID != "c1" {
		t.Errorf("failed kind should keep previous value, got %+v", snap.Collections)
	}
}

func TestTotalFailureReturnsLastGoodSnapshot(t *testing.T) {
	f := &fakeFetcher{links: []gateway.Link{{ID: "l1"}}}
	s := newTestStore(f, time.Millisecond)

	s.Snapshot(context.Background())
	time.Sleep(5 * time.Millisecond)

	f.mu.Lock()
	f.failLinks, f.failColls, f.failProf = true, true, true
	f.mu.Unlock()

	snap, err := s.Snapshot(context.Background())
	if err == nil {
		t.Fatal("expected error when every fetch fails")
	}
	if !snap.Populated || len(snap.Links) != 1 {
		t.Errorf("expected stale last-good snapshot, got %+v", snap)
	}
}

func TestNeverFetchedIsEmptyAndUnpopulated(t *testing.T) {
	f := &fakeFetcher{failLinks: true, failColls: true, failProf: true}
	s := newTestStore(f, time.Minute)

	snap, err := s.Snapshot(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if snap.Populated {
		t.Error("snapshot must not claim population after total failure")
	}
	if len(snap.Links) != 0 || len(snap.Collections) != 0 || snap.Profile != nil {
		t.Errorf("expected empty defaults, got %+v", snap)
	}
}

func TestTotalFailureDoesNotAdvanceTimestamp(t *testing.T) {
	f := &fakeFetcher{failLinks: true, failColls: true, failProf: true}
	s := newTestStore(f, time.Hour)

	s.Snapshot(context.Background())
	s.Snapshot(context.Background())

	lc, _, _ := f.calls()
	if lc != 2 {
		t.Errorf("failed refresh must not be cached for the window, got %d fetches", lc)
	}
}

func TestInvalidateWinsRaceAgainstInflightRefresh(t *testing.T) {
	block := make(chan struct{})
	f := &fakeFetcher{block: block, links: []gateway.Link{{ID: "stale"}}}
	s := newTestStore(f, time.Hour)

	started := make(chan struct{})
	result := make(chan Snapshot, 1)
	go func() {
		close(started)
		snap, _ := s.Snapshot(context.Background())
		result <- snap
	}()

	<-started
	time.Sleep(20 * time.Millisecond) // let the refresh reach the fetch

	s.Invalidate()
	f.mu.Lock()
	f.links = []gateway.Link{{ID: "fresh"}}
	f.block = nil
	f.mu.Unlock()
	close(block)

	snap := <-result
	if len(snap.Links) != 1 || snap.Links[0].ID != "fresh" {
		t.Errorf("stale refresh overwrote invalidated state: %+v", snap.Links)
	}

	// And the installed snapshot must be the post-invalidation fetch.
	again, err := s.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("followup read: %v", err)
	}
	if len(again.Links) != 1 || again.Links[0].ID != "fresh" {
		t.Errorf("cache kept pre-invalidation data: %+v", again.Links)
	}
}

type memPersister struct {
	mu   sync.Mutex
	snap Snapshot
	ok   bool
}

func (m *memPersister) Save(s Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap, m.ok = s, true
	return nil
}

func (m *memPersister) Load() (Snapshot, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap, m.ok, nil
}

func TestPersistedSnapshotSeedsOfflineReads(t *testing.T) {
	p := &memPersister{}
	p.Save(Snapshot{
		Links:     []gateway.Link{{ID: "l1"}},
		FetchedAt: time.Now().Add(-time.Hour),
		Populated: true,
	})

	f := &fakeFetcher{failLinks: true, failColls: true, failProf: true}
	s := New(Options{Fetcher: f, Window: time.Minute, Persist: p})

	snap, err := s.Snapshot(context.Background())
	if err == nil {
		t.Fatal("expected refresh error while offline")
	}
	if !snap.Populated || len(snap.Links) != 1 {
		t.Errorf("expected seeded offline snapshot, got %+v", snap)
	}
}

func TestSuccessfulRefreshPersists(t *testing.T) {
	p := &memPersister{}
	f := &fakeFetcher{links: []gateway.Link{{ID: "l1"}}}
	s := New(Options{Fetcher: f, Window: time.Minute, Persist: p})

	if _, err := s.Snapshot(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	saved, ok, _ := p.Load()
	if !ok || len(saved.Links) != 1 {
		t.Errorf("expected snapshot to be persisted, got ok=%v %+v", ok, saved)
	}
}
