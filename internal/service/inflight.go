package service

import "sync"

// inflight tracks artifact names with a generation in progress.
type inflight struct {
	names map[string]struct{}
	mu    sync.Mutex
}

func newInflight() *inflight {
	return &inflight{names: make(map[string]struct{})}
}

// acquire marks name as in flight. It reports false when it already was.
func (f *inflight) acquire(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.names[name]; ok {
		return false
	}
	f.names[name] = struct{}{}
	return true
}

func (f *inflight) release(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.names, name)
}
