package query

import "context"

// Mutation declares one write: how to execute it and the tags whose
// cached data it makes stale.
type Mutation struct {
	Name        string
	Invalidates []Tag
	Run         func(ctx context.Context) (any, error)
}

// Execute runs the mutation to completion and, on success, sweeps its
// invalidated tags before returning. On failure the store is left exactly
// as it was; no partial invalidation is visible either way.
//
// A mutation is never cancelled once issued: the caller's ctx is
// detached so an abandoned view cannot abort a write already on the
// wire, and the invalidation sweep runs on the same detached context so
// cached state converges even when the caller has gone away.
func (c *Coordinator) Execute(ctx context.Context, m Mutation) (any, error) {
	ctx = context.WithoutCancel(ctx)
	data, err := m.Run(ctx)
	if err != nil {
		return nil, err
	}
	c.Invalidate(ctx, m.Invalidates...)
	return data, nil
}
