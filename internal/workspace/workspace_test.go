package workspace

import (
	"context"
	"errors"
	"testing"

	"github.com/dshills/opennotes/internal/host"
)

type mapReader map[string]string

func (m mapReader) Read(f host.File) ([]byte, error) {
	content, ok := m[f.Path]
	if !ok {
		return nil, errors.New("gone")
	}
	return []byte(content), nil
}

func TestWorkspace_ActivePane(t *testing.T) {
	w := New(mapReader{})

	first := w.Active(false)
	if first == nil || first.ID() != 1 {
		t.Fatalf("first pane = %+v", first)
	}
	if again := w.Active(false); again != first {
		t.Error("ActivePane(false) should reuse the active pane")
	}

	second := w.Active(true)
	if second == first || second.ID() != 2 {
		t.Errorf("ActivePane(true) = pane %d, want new pane 2", second.ID())
	}
	if w.Active(false) != second {
		t.Error("new pane should become active")
	}
	if len(w.Panes()) != 2 {
		t.Errorf("Panes() = %d, want 2", len(w.Panes()))
	}
}

func TestPane_DisplayReplaces(t *testing.T) {
	w := New(mapReader{"a.md": "alpha", "b.md": "beta"})
	p := w.Active(false)
	ctx := context.Background()

	if _, ok := p.File(); ok {
		t.Error("new pane should be empty")
	}

	if err := p.Display(ctx, host.File{Path: "a.md"}); err != nil {
		t.Fatalf("Display(a) error = %v", err)
	}
	if err := p.Display(ctx, host.File{Path: "b.md"}); err != nil {
		t.Fatalf("Display(b) error = %v", err)
	}

	f, ok := p.File()
	if !ok || f.Path != "b.md" || string(p.Content()) != "beta" {
		t.Errorf("pane shows %+v %q", f, p.Content())
	}
}

func TestPane_DisplayErrors(t *testing.T) {
	w := New(mapReader{"a.md": "alpha"})
	p := w.Active(false)

	if err := p.Display(context.Background(), host.File{Path: "gone.md"}); err == nil {
		t.Error("expected read error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := p.Display(ctx, host.File{Path: "a.md"}); !errors.Is(err, context.Canceled) {
		t.Errorf("Display() error = %v, want Canceled", err)
	}
	if _, ok := p.File(); ok {
		t.Error("failed display must leave the pane empty")
	}
}
