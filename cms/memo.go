package cms

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

type memoKey struct{}

type fileResult struct {
	data   []byte
	exists bool
	err    error
}

// memo caches file reads for the lifetime of one request. Concurrent reads
// of the same path share a single filesystem call.
type memo struct {
	group singleflight.Group

	mu    sync.Mutex
	files map[string]fileResult
}

// WithMemo returns a context whose repository reads are memoized until the
// context is discarded. Install it once per request.
func WithMemo(ctx context.Context) context.Context {
	if memoFrom(ctx) != nil {
		return ctx
	}
	return context.WithValue(ctx, memoKey{}, &memo{files: make(map[string]fileResult)})
}

func memoFrom(ctx context.Context) *memo {
	m, _ := ctx.Value(memoKey{}).(*memo)
	return m
}

func (m *memo) load(path string, read func() fileResult) fileResult {
	m.mu.Lock()
	if res, ok := m.files[path]; ok {
		m.mu.Unlock()
		return res
	}
	m.mu.Unlock()

	v, _, _ := m.group.Do(path, func() (interface{}, error) {
		m.mu.Lock()
		if res, ok := m.files[path]; ok {
			m.mu.Unlock()
			return res, nil
		}
		m.mu.Unlock()

		res := read()
		m.mu.Lock()
		m.files[path] = res
		m.mu.Unlock()
		return res, nil
	})
	return v.(fileResult)
}
