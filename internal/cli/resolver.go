package cli

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Resolver memoizes a Discoverer. The first successful or failed discovery
// is cached for the lifetime of the Resolver, and concurrent callers share
// one in-flight discovery. Context errors are not cached.
type Resolver struct {
	discoverer Discoverer
	group      singleflight.Group

	mu   sync.Mutex
	done bool
	path string
	err  error
}

// NewResolver wraps d in a one-shot cache.
func NewResolver(d Discoverer) *Resolver {
	return &Resolver{discoverer: d}
}

// Resolve returns the cached outcome or runs discovery.
func (r *Resolver) Resolve(ctx context.Context) (string, error) {
	r.mu.Lock()
	if r.done {
		path, err := r.path, r.err
		r.mu.Unlock()

		return path, err
	}
	r.mu.Unlock()

	v, err, _ := r.group.Do("binary", func() (any, error) {
		path, err := r.discoverer.Discover(ctx)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}

		r.mu.Lock()
		r.done = true
		r.path = path
		r.err = err
		r.mu.Unlock()

		return path, err
	})

	path, _ := v.(string)

	return path, err
}
