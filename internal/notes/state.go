package notes

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/opennotes/internal/settings"
)

type entry struct {
	key      uuid.UUID
	shortcut settings.Shortcut
}

// State holds the live shortcut list. It is created by the plugin and
// handed to the registry and editor; nothing reaches it through globals.
// State is safe for concurrent use.
type State struct {
	mu      sync.RWMutex
	base    *settings.Settings
	entries []entry
}

// NewState wraps decoded settings.
func NewState(s *settings.Settings) *State {
	st := &State{}
	st.Replace(s)
	return st
}

// Replace swaps in new settings. Every entry gets a fresh key.
func (st *State) Replace(s *settings.Settings) {
	entries := make([]entry, len(s.SpecificNotes))
	for i, sc := range s.SpecificNotes {
		entries[i] = entry{key: uuid.New(), shortcut: sc}
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	st.base = s.Clone()
	st.entries = entries
}

// SetBase adopts the document of s without touching the entries or their
// keys. Top-level keys other than specificNotes are written from it on the
// next save.
func (st *State) SetBase(s *settings.Settings) {
	base := s.Clone()
	st.mu.Lock()
	defer st.mu.Unlock()
	st.base = base
}

// Len returns the number of shortcuts.
func (st *State) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.entries)
}

// Shortcuts returns a copy of the list in order.
func (st *State) Shortcuts() []settings.Shortcut {
	st.mu.RLock()
	defer st.mu.RUnlock()

	out := make([]settings.Shortcut, len(st.entries))
	for i, e := range st.entries {
		out[i] = e.shortcut
	}
	return out
}

// Keys returns the entry keys in order.
func (st *State) Keys() []uuid.UUID {
	st.mu.RLock()
	defer st.mu.RUnlock()

	out := make([]uuid.UUID, len(st.entries))
	for i, e := range st.entries {
		out[i] = e.key
	}
	return out
}

// KeyAt returns the key of the entry at index.
func (st *State) KeyAt(index int) (uuid.UUID, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	if index < 0 || index >= len(st.entries) {
		return uuid.Nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(st.entries))
	}
	return st.entries[index].key, nil
}

// Get returns the shortcut with the given key.
func (st *State) Get(key uuid.UUID) (settings.Shortcut, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	if i := st.indexOf(key); i >= 0 {
		return st.entries[i].shortcut, true
	}
	return settings.Shortcut{}, false
}

// Set writes one field of the entry with the given key. Any string,
// including empty, is accepted.
func (st *State) Set(key uuid.UUID, field, value string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	i := st.indexOf(key)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownEntry, key)
	}
	if !st.entries[i].shortcut.Set(field, value) {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// Remove deletes the entry with the given key; later entries shift down.
func (st *State) Remove(key uuid.UUID) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	i := st.indexOf(key)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownEntry, key)
	}
	st.entries = append(st.entries[:i], st.entries[i+1:]...)
	return nil
}

// Append adds an empty shortcut at the end and returns its key.
func (st *State) Append() uuid.UUID {
	st.mu.Lock()
	defer st.mu.Unlock()

	key := uuid.New()
	st.entries = append(st.entries, entry{key: key})
	return key
}

// Snapshot returns the current settings, detached from the state.
func (st *State) Snapshot() *settings.Settings {
	st.mu.RLock()
	defer st.mu.RUnlock()

	list := make([]settings.Shortcut, len(st.entries))
	for i, e := range st.entries {
		list[i] = e.shortcut
	}
	return st.base.WithShortcuts(list)
}

func (st *State) indexOf(key uuid.UUID) int {
	for i, e := range st.entries {
		if e.key == key {
			return i
		}
	}
	return -1
}
