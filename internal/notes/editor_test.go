package notes

import (
	"errors"
	"strings"
	"testing"

	"github.com/dshills/opennotes/internal/form"
	"github.com/dshills/opennotes/internal/settings"
)

func noteRows(c *form.Container) []*form.Setting {
	var rows []*form.Setting
	for _, s := range c.Settings() {
		if strings.HasPrefix(s.Name, "Note ") {
			rows = append(rows, s)
		}
	}
	return rows
}

func TestEditor_SetField(t *testing.T) {
	f := newFixture(t, threeNotes, false)
	f.load(t)

	done, err := f.plugin.Editor().SetField(1, settings.FieldName, "Bravo")
	if err != nil {
		t.Fatalf("SetField() error = %v", err)
	}
	wait(t, done)

	got := f.persisted(t)
	want := []settings.Shortcut{
		{ID: "a", Name: "A", FilePath: "a.md"},
		{ID: "b", Name: "Bravo", FilePath: "b.md"},
		{ID: "c", Name: "C", FilePath: "c.md"},
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("persisted[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestEditor_SetFieldAcceptsEmpty(t *testing.T) {
	f := newFixture(t, threeNotes, false)
	f.load(t)

	done, err := f.plugin.Editor().SetField(0, settings.FieldFilePath, "")
	if err != nil {
		t.Fatal(err)
	}
	wait(t, done)

	if got := f.persisted(t)[0].FilePath; got != "" {
		t.Errorf("FilePath = %q, want empty", got)
	}
}

func TestEditor_SetFieldErrors(t *testing.T) {
	f := newFixture(t, threeNotes, false)
	f.load(t)
	ed := f.plugin.Editor()

	if _, err := ed.SetField(3, settings.FieldName, "x"); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("SetField(3) = %v, want ErrIndexOutOfRange", err)
	}
	if _, err := ed.SetField(-1, settings.FieldName, "x"); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("SetField(-1) = %v, want ErrIndexOutOfRange", err)
	}
	if _, err := ed.SetField(0, "color", "x"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("SetField(color) = %v, want ErrUnknownField", err)
	}
	if _, err := ed.Remove(9); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Remove(9) = %v, want ErrIndexOutOfRange", err)
	}
	if len(f.store.Saves()) != 0 {
		t.Error("rejected edits must not persist")
	}
}

func TestEditor_Remove(t *testing.T) {
	f := newFixture(t, threeNotes, false)
	f.load(t)
	ed := f.plugin.Editor()
	ed.Display()

	done, err := ed.Remove(0)
	if err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	wait(t, done)

	got := f.persisted(t)
	if len(got) != 2 || got[0].ID != "b" || got[1].ID != "c" {
		t.Fatalf("persisted = %+v, want [b c]", got)
	}

	rows := noteRows(ed.Container())
	if len(rows) != 2 {
		t.Fatalf("rendered %d rows, want 2", len(rows))
	}
	if rows[0].Name != "Note 1" || rows[0].Field(LabelID).Value() != "b" {
		t.Errorf("row 0 = %s %q", rows[0].Name, rows[0].Field(LabelID).Value())
	}
	if rows[1].Name != "Note 2" || rows[1].Field(LabelID).Value() != "c" {
		t.Errorf("row 1 = %s %q", rows[1].Name, rows[1].Field(LabelID).Value())
	}
}

func TestEditor_Add(t *testing.T) {
	f := newFixture(t, threeNotes, false)
	f.load(t)
	ed := f.plugin.Editor()
	ed.Display()

	ed.Container().Find("").ButtonLabeled(LabelAddNewNote).Click()
	f.plugin.Unload()

	got := f.persisted(t)
	if len(got) != 4 || got[3] != (settings.Shortcut{}) {
		t.Fatalf("persisted = %+v, want a fourth empty entry", got)
	}

	rows := noteRows(ed.Container())
	if len(rows) != 4 || rows[3].Name != "Note 4" || rows[3].Field(LabelFilePath).Value() != "" {
		t.Errorf("rows after add = %d", len(rows))
	}
	if f.dispatcher.Count() != 3 {
		t.Error("without live sync, adding must not register commands")
	}
}

func TestEditor_DisplayIdempotent(t *testing.T) {
	f := newFixture(t, threeNotes, false)
	f.load(t)
	ed := f.plugin.Editor()

	ed.Display()
	first := ed.Container().Dump()
	firstLen := ed.Container().Len()
	ed.Display()

	if got := ed.Container().Dump(); got != first {
		t.Errorf("second render differs:\n%s\nvs\n%s", got, first)
	}
	if ed.Container().Len() != firstLen {
		t.Errorf("Len() = %d, want %d", ed.Container().Len(), firstLen)
	}
	if len(noteRows(ed.Container())) != 3 {
		t.Error("expected three note rows")
	}
	if !strings.Contains(first, "Restart the editor") {
		t.Error("expected restart note in usage text")
	}
	if ed.Title() != TabTitle {
		t.Errorf("Title() = %q", ed.Title())
	}
}

func TestEditor_HandlersSurviveRemoval(t *testing.T) {
	f := newFixture(t, threeNotes, false)
	f.load(t)
	ed := f.plugin.Editor()
	ed.Display()

	rows := noteRows(ed.Container())
	staleThird := rows[2].Field(LabelName)

	rows[0].ButtonLabeled(LabelRemove).Click()
	staleThird.Input("Charlie")
	f.plugin.Unload()

	got := f.persisted(t)
	if len(got) != 2 {
		t.Fatalf("persisted = %+v", got)
	}
	if got[0].Name != "B" || got[1].Name != "Charlie" {
		t.Errorf("persisted = %+v, want edit to land on c", got)
	}
}

func TestEditor_EditsAfterRemovedEntryAreDropped(t *testing.T) {
	f := newFixture(t, threeNotes, false)
	f.load(t)
	ed := f.plugin.Editor()
	ed.Display()

	first := noteRows(ed.Container())[0]
	first.ButtonLabeled(LabelRemove).Click()
	first.Field(LabelName).Input("ghost")
	f.plugin.Unload()

	if n := len(f.store.Saves()); n != 1 {
		t.Errorf("saves = %d, want only the removal", n)
	}
	if !strings.Contains(f.logs.String(), "edit dropped") {
		t.Error("expected dropped edit to be logged")
	}
}

func TestEditor_LastWriteWins(t *testing.T) {
	f := newFixture(t, threeNotes, false)
	f.load(t)
	ed := f.plugin.Editor()
	ed.Display()

	field := noteRows(ed.Container())[1].Field(LabelFilePath)
	for _, v := range []string{"x", "xy", "xyz", "final.md"} {
		field.Input(v)
	}
	f.plugin.Unload()

	if got := f.persisted(t)[1].FilePath; got != "final.md" {
		t.Errorf("FilePath = %q, want final.md", got)
	}
	if n := len(f.store.Saves()); n != 4 {
		t.Errorf("saves = %d, want one per keystroke", n)
	}
}

func TestEditor_PersistFailureLogged(t *testing.T) {
	f := newFixture(t, threeNotes, false)
	f.load(t)
	f.store.SaveErr = errors.New("disk full")

	done, err := f.plugin.Editor().SetField(0, settings.FieldName, "x")
	if err != nil {
		t.Fatal(err)
	}
	if err := <-done; err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("persist error = %v", err)
	}
	if !strings.Contains(f.logs.String(), "persisting settings failed") {
		t.Error("expected persistence failure to be logged")
	}
	if got := f.plugin.Shortcuts()[0].Name; got != "x" {
		t.Errorf("in-memory edit lost: %q", got)
	}
}

func TestEditor_PreservesUnknownKeys(t *testing.T) {
	f := newFixture(t, `{"theme": "dark", "specificNotes": []}`, false)
	f.load(t)

	wait(t, f.plugin.Editor().Add())

	if !strings.Contains(string(f.store.Data()), `"theme": "dark"`) {
		t.Errorf("unknown key lost: %s", f.store.Data())
	}
}
