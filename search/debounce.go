package search

import (
	"context"
	"sync"
	"time"
)

// Debounced wraps the search client for interactive use: rapid successive
// queries collapse into one request once the input has been quiet for the
// wait duration, and results for superseded queries are discarded instead of
// delivered.
type Debounced struct {
	client *Client
	wait   time.Duration

	mu    sync.Mutex
	timer *time.Timer
	seq   uint64
}

// NewDebounced creates a debounced view of the given search client
func NewDebounced(client *Client, wait time.Duration) *Debounced {
	return &Debounced{client: client, wait: wait}
}

// Query schedules a search for query and delivers its outcome to deliver.
// Calling Query again before the wait elapses cancels the scheduled search;
// a search already in flight still runs but its result is dropped.
func (d *Debounced) Query(ctx context.Context, query string, deliver func([]Result, error)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	seq := d.seq
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.wait, func() {
		results, err := d.client.IMDB(ctx, query)

		// Only the latest query is still relevant
		d.mu.Lock()
		stale := seq != d.seq
		d.mu.Unlock()
		if stale {
			return
		}
		deliver(results, err)
	})
}
