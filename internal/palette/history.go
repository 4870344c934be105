package palette

import "sync"

// History remembers which note commands were run from the palette, newest
// first, so Search can rank them ahead of the rest of the catalogue.
type History struct {
	mu       sync.Mutex
	items    []string
	maxItems int
}

// NewHistory keeps at most maxItems command IDs; non-positive means 100.
func NewHistory(maxItems int) *History {
	if maxItems <= 0 {
		maxItems = 100
	}
	return &History{
		items:    make([]string, 0, maxItems),
		maxItems: maxItems,
	}
}

// Add marks id as the latest command run. A repeat run moves it to the front.
func (h *History) Add(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, item := range h.items {
		if item == id {
			h.items = append(h.items[:i], h.items[i+1:]...)
			break
		}
	}

	h.items = append([]string{id}, h.items...)
	if len(h.items) > h.maxItems {
		h.items = h.items[:h.maxItems]
	}
}

// Recent lists up to limit command IDs, newest first. A non-positive limit
// returns them all.
func (h *History) Recent(limit int) []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	if limit <= 0 || limit > len(h.items) {
		limit = len(h.items)
	}
	result := make([]string, limit)
	copy(result, h.items[:limit])
	return result
}

// Position reports how many other commands ran since id, or -1 when id has
// not been run.
func (h *History) Position(id string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, item := range h.items {
		if item == id {
			return i
		}
	}
	return -1
}

// Remove forgets id once its command is unregistered, e.g. when a resync
// drops a shortcut.
func (h *History) Remove(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, item := range h.items {
		if item == id {
			h.items = append(h.items[:i], h.items[i+1:]...)
			return true
		}
	}
	return false
}
