package notes

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/dshills/opennotes/internal/form"
	"github.com/dshills/opennotes/internal/host"
	"github.com/dshills/opennotes/internal/logging"
	"github.com/dshills/opennotes/internal/settings"
)

// Form labels.
const (
	TabTitle        = "Open Specific Notes"
	LabelID         = "ID"
	LabelName       = "Name"
	LabelFilePath   = "File path"
	LabelRemove     = "Remove"
	LabelAddNewNote = "Add New Note"
)

var fieldLabels = []struct {
	field       string
	label       string
	placeholder string
}{
	{settings.FieldID, LabelID, "open-todos"},
	{settings.FieldName, LabelName, "Open My Todos"},
	{settings.FieldFilePath, LabelFilePath, "Folder/Note.md"},
}

// Editor is the settings tab listing every shortcut as an editable row.
type Editor struct {
	state     *State
	persister *Persister
	container *form.Container
	log       *logging.Logger
	liveSync  bool
	onChange  []func()
}

// NewEditor creates the settings tab. With liveSync set the usage text
// says edits apply immediately instead of after a restart.
func NewEditor(state *State, persister *Persister, liveSync bool, log *logging.Logger) *Editor {
	if log == nil {
		log = logging.Null
	}
	return &Editor{
		state:     state,
		persister: persister,
		container: form.NewContainer(),
		log:       log.WithComponent("editor"),
		liveSync:  liveSync,
	}
}

var _ host.SettingTab = (*Editor)(nil)

// Title names the tab.
func (e *Editor) Title() string {
	return TabTitle
}

// Container returns the form the tab renders into.
func (e *Editor) Container() *form.Container {
	return e.container
}

// OnChange registers a callback run after every persisted mutation.
func (e *Editor) OnChange(fn func()) {
	e.onChange = append(e.onChange, fn)
}

// Display clears the form and rebuilds it from the state.
func (e *Editor) Display() {
	c := e.container
	c.Empty()

	c.Heading(2, TabTitle)
	e.usage(c)

	for i, key := range e.state.Keys() {
		key := key
		sc, ok := e.state.Get(key)
		if !ok {
			continue
		}

		row := c.Setting(fmt.Sprintf("Note %d", i+1), "")
		for _, fl := range fieldLabels {
			field := fl.field
			value, _ := sc.Get(field)
			row.Text(fl.label, value, func(v string) {
				e.set(key, field, v)
			}).Placeholder = fl.placeholder
		}
		row.Button(LabelRemove, func() {
			e.remove(key)
		}).Warning = true
	}

	c.Setting("", "").Button(LabelAddNewNote, func() {
		e.Add()
	})
}

func (e *Editor) usage(c *form.Container) {
	c.Paragraph("Each note below becomes a command in the command palette. " +
		"Entries with an empty ID or file path are kept here but not registered.")
	if e.liveSync {
		c.Paragraph("Changes are applied to the command palette as you edit.")
	} else {
		c.Paragraph("Commands are registered when the plugin loads. " +
			"Restart the editor after changing this list.")
	}

	c.Heading(3, "Binding keys")
	c.List(
		`Keymap: bind a key to the command ID, e.g. "<leader>nt" = "open-todos".`,
		`Lua: notes.run("open-todos") or notes.open("🌿 Projects/My Todos.md").`,
		`File paths are relative to the vault root and include the extension.`,
	)
}

// SetField writes value into field of the entry at index and persists.
func (e *Editor) SetField(index int, field, value string) (<-chan error, error) {
	key, err := e.state.KeyAt(index)
	if err != nil {
		return nil, err
	}
	if err := e.state.Set(key, field, value); err != nil {
		return nil, err
	}
	return e.persist(), nil
}

// Remove deletes the entry at index, persists and re-renders.
func (e *Editor) Remove(index int) (<-chan error, error) {
	key, err := e.state.KeyAt(index)
	if err != nil {
		return nil, err
	}
	if err := e.state.Remove(key); err != nil {
		return nil, err
	}
	done := e.persist()
	e.Display()
	return done, nil
}

// Add appends an empty entry, persists and re-renders.
func (e *Editor) Add() <-chan error {
	e.state.Append()
	done := e.persist()
	e.Display()
	return done
}

func (e *Editor) set(key uuid.UUID, field, value string) {
	if err := e.state.Set(key, field, value); err != nil {
		e.log.Warn("edit dropped: %v", err)
		return
	}
	e.persist()
}

func (e *Editor) remove(key uuid.UUID) {
	if err := e.state.Remove(key); err != nil {
		e.log.Warn("remove dropped: %v", err)
		return
	}
	e.persist()
	e.Display()
}

func (e *Editor) persist() <-chan error {
	done := e.persister.Submit(e.state.Snapshot())
	for _, fn := range e.onChange {
		fn()
	}
	return done
}
