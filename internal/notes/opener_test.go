package notes

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/dshills/opennotes/internal/notice"
)

func TestOpen_NotFound(t *testing.T) {
	f := newFixture(t, `{"specificNotes": [{"id": "gone", "name": "Gone", "filePath": "Missing/Note.md"}]}`, false)
	f.load(t)

	if err := f.dispatcher.Execute("gone"); err != nil {
		t.Fatalf("Execute() error = %v, a missing file must not fail the command", err)
	}

	notices := f.notifier.Notices()
	if len(notices) != 1 || notices[0] != "File not found: Missing/Note.md" {
		t.Errorf("notices = %v", notices)
	}
	if f.notifier.levels[0] != notice.Error {
		t.Errorf("level = %q, want error", f.notifier.levels[0])
	}
	if calls := f.workspace.Calls(); len(calls) != 0 {
		t.Errorf("pane calls = %v, want none", calls)
	}
	if !strings.Contains(f.logs.String(), "Could not find file: Missing/Note.md") {
		t.Errorf("expected diagnostic log, got: %s", f.logs.String())
	}

	err := f.plugin.Open(context.Background(), "Missing/Note.md")
	if !errors.Is(err, ErrNoteNotFound) {
		t.Errorf("Open() = %v, want ErrNoteNotFound", err)
	}
}

func TestOpen_Found(t *testing.T) {
	f := newFixture(t, "", false)
	f.resolver["🌿 Projects/My Todos.md"] = true
	f.load(t)

	if err := f.dispatcher.Execute("open-todos"); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	want := []string{"ActivePane(false)", "Display(🌿 Projects/My Todos.md)"}
	if got := f.workspace.Calls(); !slices.Equal(got, want) {
		t.Errorf("pane calls = %v, want %v", got, want)
	}
	if len(f.notifier.Notices()) != 0 {
		t.Errorf("unexpected notices %v", f.notifier.Notices())
	}
}

func TestOpen_DisplayErrorPropagates(t *testing.T) {
	f := newFixture(t, "", false)
	f.resolver["🌿 Projects/My Todos.md"] = true
	boom := errors.New("pane closed")
	f.workspace.displayErr = boom
	f.load(t)

	err := f.dispatcher.Execute("open-todos")
	if !errors.Is(err, boom) {
		t.Fatalf("Execute() error = %v, want %v", err, boom)
	}
	var opErr *OperationError
	if !errors.As(err, &opErr) || opErr.Target != "🌿 Projects/My Todos.md" {
		t.Errorf("error = %#v", err)
	}
}

func TestOperationError(t *testing.T) {
	err := NewOperationError("open", "a.md", ErrNoteNotFound)
	if err.Error() != "open a.md: note not found" {
		t.Errorf("Error() = %q", err.Error())
	}
	if NewOperationError("save settings", "", nil).Error() != "save settings" {
		t.Error("unexpected message without target or cause")
	}

	var nilErr *OperationError
	if nilErr.Error() != "" || nilErr.Unwrap() != nil {
		t.Error("nil receiver should be safe")
	}
}
