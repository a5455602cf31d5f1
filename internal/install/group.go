package install

import "sync"

// Group holds the registration handles produced by one install pass and
// releases them together.
type Group struct {
	mu      sync.Mutex
	handles []Handle
}

func newGroup(handles []Handle) *Group {
	return &Group{handles: handles}
}

// Dispose revokes every handle in the group. Safe to call more than once;
// each handle is released exactly once.
func (g *Group) Dispose() {
	g.mu.Lock()
	handles := g.handles
	g.handles = nil
	g.mu.Unlock()

	for _, h := range handles {
		h.Dispose()
	}
}

// Len returns the number of handles still held by the group.
func (g *Group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.handles)
}
