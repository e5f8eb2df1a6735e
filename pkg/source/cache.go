package source

import (
	"context"
	"io"
	"sync"
	"time"
)

// CachedSource keeps the last successful listing of inner for ttl. A refresh
// that fails serves the previous listing marked Stale.
type CachedSource struct {
	inner Source
	ttl   time.Duration
	now   func() time.Time

	mu        sync.Mutex
	files     []File
	fetchedAt time.Time
	valid     bool
}

func NewCachedSource(inner Source, ttl time.Duration) *CachedSource {
	return &CachedSource{
		inner: inner,
		ttl:   ttl,
		now:   time.Now,
	}
}

func (c *CachedSource) Name() string {
	return c.inner.Name()
}

func (c *CachedSource) Location() string {
	return c.inner.Location()
}

func (c *CachedSource) TTL() time.Duration {
	return c.ttl
}

func (c *CachedSource) ListFiles(ctx context.Context) Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.valid && c.now().Sub(c.fetchedAt) < c.ttl {
		return Result{Files: cloneFiles(c.files), FetchedAt: c.fetchedAt}
	}

	res := c.inner.ListFiles(ctx)
	if res.OK() {
		c.files = cloneFiles(res.Files)
		c.fetchedAt = c.now()
		c.valid = true
		return Result{Files: cloneFiles(c.files), FetchedAt: c.fetchedAt}
	}

	if c.valid {
		return Result{
			Files:     cloneFiles(c.files),
			Err:       res.Err,
			Stale:     true,
			FetchedAt: c.fetchedAt,
		}
	}
	return res
}

func (c *CachedSource) Open(ctx context.Context, file File) (io.ReadCloser, string, error) {
	return c.inner.Open(ctx, file)
}

func cloneFiles(files []File) []File {
	return append([]File{}, files...)
}
