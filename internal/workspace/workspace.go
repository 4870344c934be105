// Package workspace is a minimal pane manager: a list of panes, one of
// which is active, each showing a single file.
package workspace

import (
	"context"
	"fmt"
	"sync"

	"github.com/dshills/opennotes/internal/host"
)

// ContentReader loads the contents of a resolved file.
type ContentReader interface {
	Read(f host.File) ([]byte, error)
}

// Workspace holds the open panes.
// Workspace is safe for concurrent use.
type Workspace struct {
	mu     sync.Mutex
	reader ContentReader
	panes  []*Pane
	active int
	nextID int
}

// New creates an empty workspace reading file contents through reader.
func New(reader ContentReader) *Workspace {
	return &Workspace{reader: reader, active: -1}
}

var _ host.PaneOpener = (*Workspace)(nil)

// ActivePane returns the active pane. A new pane is created, and made
// active, when createNew is set or no pane exists yet.
func (w *Workspace) ActivePane(createNew bool) host.Pane {
	return w.Active(createNew)
}

// Active is ActivePane returning the concrete pane.
func (w *Workspace) Active(createNew bool) *Pane {
	w.mu.Lock()
	defer w.mu.Unlock()

	if createNew || w.active < 0 {
		w.nextID++
		p := &Pane{id: w.nextID, ws: w}
		w.panes = append(w.panes, p)
		w.active = len(w.panes) - 1
	}
	return w.panes[w.active]
}

// Panes returns every pane in creation order.
func (w *Workspace) Panes() []*Pane {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]*Pane, len(w.panes))
	copy(out, w.panes)
	return out
}

// Pane shows one file.
type Pane struct {
	id int
	ws *Workspace

	mu      sync.Mutex
	file    host.File
	content []byte
	opened  bool
}

var _ host.Pane = (*Pane)(nil)

// ID returns the pane identifier, unique within its workspace.
func (p *Pane) ID() int {
	return p.id
}

// Display loads f and replaces whatever the pane showed before.
func (p *Pane) Display(ctx context.Context, f host.File) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := p.ws.reader.Read(f)
	if err != nil {
		return fmt.Errorf("display %s: %w", f.Path, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.file = f
	p.content = data
	p.opened = true
	return nil
}

// File returns the displayed file, or false for an empty pane.
func (p *Pane) File() (host.File, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.file, p.opened
}

// Content returns the displayed file's contents.
func (p *Pane) Content() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]byte(nil), p.content...)
}
