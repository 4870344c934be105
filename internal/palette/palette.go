package palette

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrUnknownCommand is returned by Execute for an unregistered ID.
var ErrUnknownCommand = errors.New("unknown command")

// Palette provides searchable access to registered commands.
type Palette struct {
	mu       sync.RWMutex
	commands map[string]*Command
	history  *History

	onChange []func()
}

// New creates a new command palette.
func New() *Palette {
	return &Palette{
		commands: make(map[string]*Command),
		history:  NewHistory(100),
	}
}

// Register adds a command. A command with the same ID is replaced.
func (p *Palette) Register(cmd *Command) error {
	if cmd == nil {
		return fmt.Errorf("command cannot be nil")
	}
	if cmd.ID == "" {
		return fmt.Errorf("command ID cannot be empty")
	}

	p.mu.Lock()
	p.commands[cmd.ID] = cmd
	p.mu.Unlock()

	p.notifyChange()
	return nil
}

// Unregister removes a command.
func (p *Palette) Unregister(id string) bool {
	p.mu.Lock()
	_, exists := p.commands[id]
	delete(p.commands, id)
	p.mu.Unlock()

	if exists {
		p.history.Remove(id)
		p.notifyChange()
	}
	return exists
}

// UnregisterBySource removes all commands from a source and returns how
// many were removed.
func (p *Palette) UnregisterBySource(source string) int {
	p.mu.Lock()
	var removed []string
	for id, cmd := range p.commands {
		if cmd.Source == source {
			delete(p.commands, id)
			removed = append(removed, id)
		}
	}
	p.mu.Unlock()

	for _, id := range removed {
		p.history.Remove(id)
	}
	if len(removed) > 0 {
		p.notifyChange()
	}
	return len(removed)
}

// Get retrieves a command by ID.
func (p *Palette) Get(id string) *Command {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.commands[id]
}

// Has checks if a command exists.
func (p *Palette) Has(id string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, exists := p.commands[id]
	return exists
}

// All returns all commands sorted by label, then ID.
func (p *Palette) All() []*Command {
	result := p.snapshot()
	sort.Slice(result, func(i, j int) bool {
		if result[i].Label() != result[j].Label() {
			return result[i].Label() < result[j].Label()
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// Count returns the number of registered commands.
func (p *Palette) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.commands)
}

// Search finds commands matching query, best first. Recently executed
// commands get a boost; an empty query lists recent commands first.
func (p *Palette) Search(query string, limit int) []SearchResult {
	commands := p.snapshot()
	query = strings.ToLower(strings.TrimSpace(query))

	results := make([]SearchResult, 0, len(commands))
	for _, cmd := range commands {
		pos := p.history.Position(cmd.ID)
		if query == "" {
			s := 0
			if pos >= 0 {
				s = 1000 - pos
			}
			results = append(results, SearchResult{Command: cmd, Score: s})
			continue
		}

		s, m := match(query, cmd)
		if s <= 0 {
			continue
		}
		if pos >= 0 {
			s += 100 - pos
		}
		results = append(results, SearchResult{Command: cmd, Score: s, Matches: m})
	}

	sortResults(results)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// Execute runs a command by ID. History is only updated on success.
func (p *Palette) Execute(id string) error {
	p.mu.RLock()
	cmd, exists := p.commands[id]
	p.mu.RUnlock()

	if !exists {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, id)
	}

	if err := cmd.Execute(); err != nil {
		return err
	}
	p.history.Add(id)
	return nil
}

// RecentCommands returns IDs of recently executed commands.
func (p *Palette) RecentCommands(limit int) []string {
	return p.history.Recent(limit)
}

// OnChange registers a callback invoked after commands are added or
// removed. Callbacks must not register or unregister commands.
func (p *Palette) OnChange(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onChange = append(p.onChange, fn)
}

func (p *Palette) snapshot() []*Command {
	p.mu.RLock()
	defer p.mu.RUnlock()

	result := make([]*Command, 0, len(p.commands))
	for _, cmd := range p.commands {
		result = append(result, cmd)
	}
	return result
}

// notifyChange calls callbacks without holding the lock.
func (p *Palette) notifyChange() {
	p.mu.RLock()
	callbacks := make([]func(), len(p.onChange))
	copy(callbacks, p.onChange)
	p.mu.RUnlock()

	for _, fn := range callbacks {
		fn()
	}
}
