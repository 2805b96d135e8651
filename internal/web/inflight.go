package web

import "sync"

// InFlight tracks mutating row actions that have not completed yet.
type InFlight struct {
	mu      sync.Mutex
	pending map[string]struct{}
}

func NewInFlight() *InFlight {
	return &InFlight{pending: make(map[string]struct{})}
}

// TryStart marks (action, id) as pending. It returns false when the same
// action on the same row is already running.
func (f *InFlight) TryStart(action, id string) bool {
	key := action + ":" + id

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, busy := f.pending[key]; busy {
		return false
	}
	f.pending[key] = struct{}{}
	return true
}

func (f *InFlight) Done(action, id string) {
	f.mu.Lock()
	delete(f.pending, action+":"+id)
	f.mu.Unlock()
}
