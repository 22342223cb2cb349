// Package query keeps cached reads consistent with server state. The
// coordinator coalesces identical in-flight fetches, serves cached
// successes without refetching, drops superseded completions, and sweeps
// tag-invalidated entries after each successful mutation.
package query

import (
	"context"
	"sync"

	"github.com/Gurkunwar/dailybot-console/internal/cache"
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Result is the outcome of one query evaluation. Data stays populated on
// StatusError when an older success is still cached.
type Result struct {
	Status Status
	Data   any
	Err    error
}

// As extracts typed data from a result.
func As[T any](r Result) (T, bool) {
	v, ok := r.Data.(T)
	return v, ok
}

// Spec declares one query: where its result lives, the tags that can
// invalidate it, and how to fetch it. Skip marks a query whose inputs are
// not valid yet; it must not touch the network.
type Spec struct {
	Key   cache.Key
	Skip  bool
	Tags  []Tag
	Fetch func(ctx context.Context) (any, error)
}

// flight is one in-progress fetch shared by every concurrent caller of
// the same key.
type flight struct {
	done chan struct{}
	data any
	err  error
}

func (f *flight) wait(ctx context.Context) Result {
	select {
	case <-ctx.Done():
		return Result{Status: StatusError, Err: ctx.Err()}
	case <-f.done:
	}
	if f.err != nil {
		return Result{Status: StatusError, Err: f.err}
	}
	return Result{Status: StatusSuccess, Data: f.data}
}

// Coordinator owns query and mutation consistency over one Store.
type Coordinator struct {
	store *cache.Store

	mu       sync.Mutex
	inflight map[cache.Key]*flight
	gen      map[cache.Key]uint64
	lastErr  map[cache.Key]error
	specs    map[cache.Key]Spec
	byTag    map[Tag]map[cache.Key]struct{}
}

func New(store *cache.Store) *Coordinator {
	return &Coordinator{
		store:    store,
		inflight: make(map[cache.Key]*flight),
		gen:      make(map[cache.Key]uint64),
		lastErr:  make(map[cache.Key]error),
		specs:    make(map[cache.Key]Spec),
		byTag:    make(map[Tag]map[cache.Key]struct{}),
	}
}

func (c *Coordinator) Store() *cache.Store { return c.store }

// Fetch evaluates spec. A cached success is returned as-is; an identical
// in-flight request is joined instead of duplicated; otherwise one fetch
// runs and, if still current on completion, lands in the store.
func (c *Coordinator) Fetch(ctx context.Context, spec Spec) Result {
	if spec.Skip {
		return Result{Status: StatusIdle}
	}

	c.mu.Lock()
	if v, ok := c.store.Get(spec.Key); ok {
		c.mu.Unlock()
		return Result{Status: StatusSuccess, Data: v}
	}
	if f, ok := c.inflight[spec.Key]; ok {
		c.mu.Unlock()
		return f.wait(ctx)
	}
	f, gen := c.startLocked(spec)
	c.mu.Unlock()

	return c.run(ctx, spec, f, gen)
}

// Peek reports the current state of key without triggering a fetch.
func (c *Coordinator) Peek(key cache.Key) Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.store.Get(key); ok {
		if err, failed := c.lastErr[key]; failed {
			// stale-but-available: the last refetch failed but the
			// prior success is still served
			return Result{Status: StatusError, Data: v, Err: err}
		}
		return Result{Status: StatusSuccess, Data: v}
	}
	if _, ok := c.inflight[key]; ok {
		return Result{Status: StatusLoading}
	}
	if err, failed := c.lastErr[key]; failed {
		return Result{Status: StatusError, Err: err}
	}
	return Result{Status: StatusIdle}
}

// startLocked registers spec (tags and refetch recipe), bumps the key's
// generation, and records the shared flight. Replacing an existing
// flight is deliberate: the old one keeps its waiters but its
// completion is now superseded. Caller holds c.mu.
func (c *Coordinator) startLocked(spec Spec) (*flight, uint64) {
	c.gen[spec.Key]++
	c.specs[spec.Key] = spec
	for _, tag := range spec.Tags {
		if c.byTag[tag] == nil {
			c.byTag[tag] = make(map[cache.Key]struct{})
		}
		c.byTag[tag][spec.Key] = struct{}{}
	}
	f := &flight{done: make(chan struct{})}
	c.inflight[spec.Key] = f
	return f, c.gen[spec.Key]
}

// run executes the fetch recorded in f and applies its completion.
// myGen is the generation startLocked assigned under the same lock
// hold; a completion whose generation has been superseded is handed to
// its waiters but never written to the store.
func (c *Coordinator) run(ctx context.Context, spec Spec, f *flight, myGen uint64) Result {
	data, err := spec.Fetch(ctx)

	c.mu.Lock()
	current := c.gen[spec.Key] == myGen
	if c.inflight[spec.Key] == f {
		delete(c.inflight, spec.Key)
	}
	if current {
		if err != nil {
			c.lastErr[spec.Key] = err
		} else {
			delete(c.lastErr, spec.Key)
		}
	}
	c.mu.Unlock()

	// Store.Put runs subscriber callbacks; never call it under c.mu.
	if current && err == nil {
		c.store.Put(spec.Key, data)
	}

	f.data, f.err = data, err
	close(f.done)

	if err != nil {
		return Result{Status: StatusError, Err: err}
	}
	return Result{Status: StatusSuccess, Data: data}
}

// Refetch forces a fresh fetch for key using its registered spec,
// bypassing the cached value. A fetch already in flight predates this
// call, so it is superseded rather than joined: its completion is
// discarded and a new request goes out. The prior success stays in the
// store until the new data lands; on failure it is kept and the error
// recorded.
func (c *Coordinator) Refetch(ctx context.Context, key cache.Key) Result {
	c.mu.Lock()
	spec, ok := c.specs[key]
	if !ok {
		c.mu.Unlock()
		return Result{Status: StatusIdle}
	}
	f, gen := c.startLocked(spec)
	c.mu.Unlock()

	return c.run(ctx, spec, f, gen)
}

// Invalidate marks every query under the given tags stale. Watched keys
// are refetched before this returns so no caller observes a partially
// invalidated cache; unwatched keys are simply dropped and forgotten, the
// next subscription fetches fresh.
func (c *Coordinator) Invalidate(ctx context.Context, tags ...Tag) {
	c.mu.Lock()
	var refetch, drop []cache.Key
	seen := make(map[cache.Key]struct{})
	for _, tag := range tags {
		for key := range c.byTag[tag] {
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			if c.store.Watchers(key) > 0 {
				refetch = append(refetch, key)
			} else {
				drop = append(drop, key)
			}
		}
	}
	for _, key := range drop {
		delete(c.specs, key)
		delete(c.lastErr, key)
		c.gen[key]++ // any in-flight completion for the key is now stale
		for _, keys := range c.byTag {
			delete(keys, key)
		}
	}
	c.mu.Unlock()

	for _, key := range drop {
		c.store.Delete(key)
	}
	for _, key := range refetch {
		c.Refetch(ctx, key)
	}
}
