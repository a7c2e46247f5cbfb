// Package store is the shared read-through cache over the remote gateway.
// Every view reads the same snapshot of {links, collections, profile}; any
// mutating flow calls Invalidate so the next read refetches. The store is
// constructed once at startup and passed by reference — it is deliberately
// not ambient global state.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/linkverse/linkverse/internal/gateway"
)

// DefaultWindow is the freshness window applied when config does not set one.
// The web client used 30 seconds for its layout cache; that value is kept and
// applied uniformly.
const DefaultWindow = 30 * time.Second

// Fetcher is the slice of the gateway the store reads through.
type Fetcher interface {
	ListLinks(ctx context.Context, f gateway.Filter) ([]gateway.Link, error)
	ListCollections(ctx context.Context) ([]gateway.Collection, error)
	GetProfile(ctx context.Context) (gateway.Profile, error)
}

// Persister saves and restores the last good snapshot across process runs.
type Persister interface {
	Save(Snapshot) error
	Load() (Snapshot, bool, error)
}

// Snapshot is one atomic view of the user's data. Populated distinguishes
// "user has no data" from "no fetch has ever succeeded": an empty snapshot
// with Populated=false must not be rendered as a destructive empty state.
type Snapshot struct {
	Links       []gateway.Link
	Collections []gateway.Collection
	Profile     *gateway.Profile
	FetchedAt   time.Time
	Populated   bool
}

// Store memoizes the snapshot for a bounded time and collapses overlapping
// refreshes into one fetch per kind.
type Store struct {
	fetcher Fetcher
	window  time.Duration
	persist Persister
	log     logrus.FieldLogger

	mu         sync.Mutex
	snap       Snapshot
	gen        uint64
	refreshing bool
	done       chan struct{}
	lastErr    error
}

// Options configure a Store.
type Options struct {
	Fetcher Fetcher
	Window  time.Duration
	Persist Persister
	Log     logrus.FieldLogger
}

// New builds a store. When a persister is configured, its last saved snapshot
// seeds the cache so reads keep working before (or without) network access;
// the stored fetch time is old, so the first read still attempts a refresh.
func New(opts Options) *Store {
	window := opts.Window
	if window <= 0 {
		window = DefaultWindow
	}
	log := opts.Log
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	s := &Store{
		fetcher: opts.Fetcher,
		window:  window,
		persist: opts.Persist,
		log:     log.WithField("component", "store"),
	}

	if opts.Persist != nil {
		if snap, ok, err := opts.Persist.Load(); err != nil {
			s.log.WithError(err).Warn("could not load offline snapshot")
		} else if ok {
			s.snap = snap
		}
	}
	return s
}

// Links returns the cached links, refreshing first if the snapshot is stale.
func (s *Store) Links(ctx context.Context) ([]gateway.Link, error) {
	snap, err := s.Snapshot(ctx)
	return snap.Links, err
}

// Collections returns the cached collections, refreshing if stale.
func (s *Store) Collections(ctx context.Context) ([]gateway.Collection, error) {
	snap, err := s.Snapshot(ctx)
	return snap.Collections, err
}

// Profile returns the cached profile, refreshing if stale. Nil means no fetch
// has ever succeeded.
func (s *Store) Profile(ctx context.Context) (*gateway.Profile, error) {
	snap, err := s.Snapshot(ctx)
	return snap.Profile, err
}

// Invalidate clears the snapshot and timestamp so the next read hits the
// network. The generation bump guarantees a refresh already in flight cannot
// re-install data fetched before the invalidation.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.snap = Snapshot{}
}

// Snapshot returns the current snapshot, refreshing it when stale. Overlapping
// callers share one refresh: the first stale reader fetches, the rest wait for
// its result. On total fetch failure the last good snapshot is returned along
// with the error; if nothing was ever fetched the snapshot is empty and
// Populated is false.
func (s *Store) Snapshot(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	if s.fresh() {
		snap := s.snap
		s.mu.Unlock()
		return snap, nil
	}

	if s.refreshing {
		done := s.done
		s.mu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
			return Snapshot{}, ctx.Err()
		}
		// The refresh that just completed produced the current snapshot;
		// reuse it instead of piling on another fetch.
		s.mu.Lock()
		snap, err := s.snap, s.lastErr
		s.mu.Unlock()
		return snap, err
	}

	gen := s.gen
	prev := s.snap
	s.refreshing = true
	s.done = make(chan struct{})
	s.mu.Unlock()

	next, err := s.fetchAll(ctx, prev)

	s.mu.Lock()
	s.refreshing = false
	s.lastErr = err
	close(s.done)

	if s.gen != gen {
		// Invalidated while fetching: the fetched data may predate the
		// mutation that invalidated us, so drop it and fetch again.
		s.mu.Unlock()
		return s.Snapshot(ctx)
	}

	if err == nil {
		s.snap = next
	}
	snap := s.snap
	s.mu.Unlock()

	if err == nil && s.persist != nil {
		if perr := s.persist.Save(snap); perr != nil {
			s.log.WithError(perr).Warn("could not persist snapshot")
		}
	}
	return snap, err
}

func (s *Store) fresh() bool {
	return s.snap.Populated && time.Since(s.snap.FetchedAt) < s.window
}

// fetchAll fetches the three kinds concurrently. A kind that fails keeps its
// previous value; the snapshot timestamp only advances when at least one kind
// succeeded, so a total outage is retried on the next read instead of being
// cached for a full window.
func (s *Store) fetchAll(ctx context.Context, prev Snapshot) (Snapshot, error) {
	var (
		wg          sync.WaitGroup
		links       []gateway.Link
		collections []gateway.Collection
		profile     gateway.Profile
		linksErr    error
		collsErr    error
		profileErr  error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		links, linksErr = s.fetcher.ListLinks(ctx, gateway.Filter{})
	}()
	go func() {
		defer wg.Done()
		collections, collsErr = s.fetcher.ListCollections(ctx)
	}()
	go func() {
		defer wg.Done()
		profile, profileErr = s.fetcher.GetProfile(ctx)
	}()
	wg.Wait()

	if linksErr != nil && collsErr != nil && profileErr != nil {
		return prev, fmt.Errorf("refreshing data: %w", errors.Join(linksErr, collsErr, profileErr))
	}

	next := Snapshot{FetchedAt: time.Now(), Populated: true}

	if linksErr != nil {
		s.log.WithError(linksErr).Warn("links refresh failed, keeping cached value")
		next.Links = prev.Links
	} else {
		next.Links = links
	}
	if collsErr != nil {
		s.log.WithError(collsErr).Warn("collections refresh failed, keeping cached value")
		next.Collections = prev.Collections
	} else {
		next.Collections = collections
	}
	if profileErr != nil {
		s.log.WithError(profileErr).Warn("profile refresh failed, keeping cached value")
		next.Profile = prev.Profile
	} else {
		p := profile
		next.Profile = &p
	}
	return next, nil
}
