// Package bulk performs the wipe-all-data operation: concurrent deletion of
// every link and collection, with an honest partial-failure report.
package bulk

import (
	"context"
	"fmt"
	"sync"

	"github.com/linkverse/linkverse/internal/gateway"
)

// Deleter is the slice of the gateway a wipe needs.
type Deleter interface {
	DeleteLink(ctx context.Context, id string) error
	DeleteCollection(ctx context.Context, id string) error
}

// Report counts the outcome of a bulk delete. A wipe that loses even one item
// must not be reported as a blanket success.
type Report struct {
	Total   int
	Deleted int
	Errors  []error
}

// Failed returns how many deletions did not go through.
func (r Report) Failed() int { return r.Total - r.Deleted }

// Summary renders the user-facing outcome line.
func (r Report) Summary() string {
	if r.Total == 0 {
		return "Nothing to delete."
	}
	if r.Failed() == 0 {
		return fmt.Sprintf("All %d items deleted.", r.Total)
	}
	return fmt.Sprintf("%d of %d items deleted.", r.Deleted, r.Total)
}

// Wipe deletes all given links and collections concurrently and reports how
// many succeeded.
func Wipe(ctx context.Context, d Deleter, links []gateway.Link, collections []gateway.Collection) Report {
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		report Report
	)
	report.Total = len(links) + len(collections)

	record := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			report.Errors = append(report.Errors, err)
			return
		}
		report.Deleted++
	}

	for _, l := range links {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			record(d.DeleteLink(ctx, id))
		}(l.ID)
	}
	for _, c := range collections {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			record(d.DeleteCollection(ctx, id))
		}(c.ID)
	}

	wg.Wait()
	return report
}
