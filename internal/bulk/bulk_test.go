package bulk

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/linkverse/linkverse/internal/gateway"
)

type fakeDeleter struct {
	mu        sync.Mutex
	failLinks map[string]bool
	deleted   []string
}

func (f *fakeDeleter) DeleteLink(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failLinks[id] {
		return errors.New("delete failed")
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeDeleter) DeleteCollection(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func links(ids ...string) []gateway.Link {
	out := make([]gateway.Link, len(ids))
	for i, id := range ids {
		out[i] = gateway.Link{ID: id}
	}
	return out
}

func collections(ids ...string) []gateway.Collection {
	out := make([]gateway.Collection, len(ids))
	for i, id := range ids {
		out[i] = gateway.Collection{ID: id}
	}
	return out
}

func TestWipeAllSucceeds(t *testing.T) {
	d := &fakeDeleter{}
	r := Wipe(context.Background(), d, links("l1", "l2"), collections("c1"))
	if r.Total != 3 || r.Deleted != 3 || r.Failed() != 0 {
		t.Errorf("report: %+v", r)
	}
	if r.Summary() != "All 3 items deleted." {
		t.Errorf("summary: %q", r.Summary())
	}
}

func TestWipePartialFailureIsReported(t *testing.T) {
	d := &fakeDeleter{failLinks: map[string]bool{"l3": true}}
	r := Wipe(context.Background(), d,
		links("l1", "l2", "l3", "l4", "l5"),
		collections("c1", "c2"))

	if r.Total != 7 || r.Deleted != 6 || r.Failed() != 1 {
		t.Errorf("report: %+v", r)
	}
	if r.Summary() != "6 of 7 items deleted." {
		t.Errorf("summary: %q", r.Summary())
	}
	if len(r.Errors) != 1 {
		t.Errorf("expected 1 recorded error, got %d", len(r.Errors))
	}
}

func TestWipeNothing(t *testing.T) {
	d := &fakeDeleter{}
	r := Wipe(context.Background(), d, nil, nil)
	if r.Summary() != "Nothing to delete." {
		t.Errorf("summary: %q", r.Summary())
	}
}
