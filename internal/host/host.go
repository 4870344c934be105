// Package host declares the collaborators the notes plugin consumes from
// the editor it runs inside. Each interface is the narrow slice of the
// host the plugin actually calls; the reference implementations live in
// store, vault, workspace, palette, notice and form/tui.
package host

import (
	"context"
	"time"

	"github.com/dshills/opennotes/internal/notice"
	"github.com/dshills/opennotes/internal/palette"
)

// SettingsStore persists the plugin's settings document.
type SettingsStore interface {
	// Load returns the stored document, or nil when nothing is stored.
	Load(ctx context.Context) ([]byte, error)

	// Save replaces the stored document.
	Save(ctx context.Context, data []byte) error
}

// File is a handle to an existing file in the vault.
type File struct {
	// Path is vault-relative, using forward slashes.
	Path string

	// Name is the base name.
	Name string

	Size    int64
	ModTime time.Time
}

// FileResolver looks files up by vault-relative path.
type FileResolver interface {
	// ResolveByPath returns the file at path, or false if none exists.
	ResolveByPath(path string) (File, bool)
}

// Pane is an editing surface showing one file at a time.
type Pane interface {
	// Display shows f in the pane, replacing its prior content.
	Display(ctx context.Context, f File) error
}

// PaneOpener hands out panes in the host workspace.
type PaneOpener interface {
	// ActivePane returns the active pane, or a new one when createNew is
	// set.
	ActivePane(createNew bool) Pane
}

// CommandDispatcher maps command IDs to invokable actions.
type CommandDispatcher interface {
	Register(cmd *palette.Command) error
	UnregisterBySource(source string) int
	Execute(id string) error
}

// Notifier shows transient messages to the user.
type Notifier interface {
	Notify(message string, level notice.Level)
}

// SettingTab is a contributor to the host's settings panel.
type SettingTab interface {
	// Title names the tab.
	Title() string

	// Display rebuilds the tab's content. Hosts call it whenever the panel
	// becomes visible or needs refreshing.
	Display()
}

// PanelHost accepts settings tab contributors.
type PanelHost interface {
	AddSettingTab(tab SettingTab)
}

var (
	_ CommandDispatcher = (*palette.Palette)(nil)
	_ Notifier          = (*notice.Center)(nil)
)
