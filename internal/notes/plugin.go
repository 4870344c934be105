package notes

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/dshills/opennotes/internal/host"
	"github.com/dshills/opennotes/internal/logging"
	"github.com/dshills/opennotes/internal/settings"
)

// Options wires the plugin to its host.
type Options struct {
	Store      host.SettingsStore
	Resolver   host.FileResolver
	Panes      host.PaneOpener
	Dispatcher host.CommandDispatcher
	Notifier   host.Notifier
	Panel      host.PanelHost
	Logger     *logging.Logger

	// LiveSync re-registers commands after every edit and on Reload.
	LiveSync bool
}

func (o Options) validate() error {
	switch {
	case o.Store == nil:
		return errors.New("notes: settings store is required")
	case o.Resolver == nil:
		return errors.New("notes: file resolver is required")
	case o.Panes == nil:
		return errors.New("notes: pane opener is required")
	case o.Dispatcher == nil:
		return errors.New("notes: command dispatcher is required")
	case o.Notifier == nil:
		return errors.New("notes: notifier is required")
	case o.Panel == nil:
		return errors.New("notes: panel host is required")
	}
	return nil
}

// Plugin owns the shortcut state and the components built over it.
type Plugin struct {
	opts Options
	log  *logging.Logger

	mu        sync.Mutex
	loaded    bool
	state     *State
	opener    *Opener
	registry  *Registry
	editor    *Editor
	persister *Persister
}

// New validates opts and creates an unloaded plugin.
func New(opts Options) (*Plugin, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = logging.Null
	}
	return &Plugin{
		opts: opts,
		log:  opts.Logger.WithComponent("plugin"),
	}, nil
}

// Load reads the settings, registers commands and installs the settings
// tab, in that order. Any failure aborts the load.
func (p *Plugin) Load(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.loaded {
		return ErrAlreadyLoaded
	}
	p.log.Info("Loading Open Specific Notes plugin")

	s, err := p.loadSettings(ctx)
	if err != nil {
		return err
	}

	p.state = NewState(s)
	p.opener = NewOpener(p.opts.Resolver, p.opts.Panes, p.opts.Notifier, p.opts.Logger)
	p.registry = NewRegistry(p.state, p.opts.Dispatcher, p.opener, p.opts.Logger)
	p.registry.Sync(ctx)

	p.persister = NewPersister(p.opts.Store, p.opts.Logger)
	p.editor = NewEditor(p.state, p.persister, p.opts.LiveSync, p.opts.Logger)
	if p.opts.LiveSync {
		registry := p.registry
		p.editor.OnChange(func() { registry.Resync() })
	}
	p.opts.Panel.AddSettingTab(p.editor)

	p.loaded = true
	return nil
}

// Unload waits for pending saves. Commands and the tab are left for the
// host to discard.
func (p *Plugin) Unload() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.loaded {
		return
	}
	p.log.Info("Unloading Open Specific Notes plugin")
	p.persister.Close()
	p.loaded = false
}

// Reload re-reads the stored settings after an external change. It
// reports whether the shortcut list changed. Commands are re-registered
// only with LiveSync; the tab is always re-rendered on change.
//
// Reload does nothing while saves are pending, since the stored document
// is older than the state, or when the stored document is the plugin's own
// last save.
func (p *Plugin) Reload(ctx context.Context) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.loaded {
		return false, ErrNotLoaded
	}
	if n := p.persister.Pending(); n > 0 {
		p.log.Debug("reload skipped: %d saves pending", n)
		return false, nil
	}

	raw, err := p.opts.Store.Load(ctx)
	if err != nil {
		return false, NewOperationError("load settings", "", err)
	}
	if p.persister.Wrote(raw) {
		p.log.Debug("reload skipped: stored settings are our own save")
		return false, nil
	}
	s, err := p.decodeSettings(raw)
	if err != nil {
		return false, err
	}

	if slices.Equal(s.SpecificNotes, p.state.Shortcuts()) {
		p.state.SetBase(s)
		return false, nil
	}

	p.log.Info("settings changed on disk, reloading")
	p.state.Replace(s)
	if p.opts.LiveSync {
		p.registry.Resync()
	}
	p.editor.Display()
	return true, nil
}

func (p *Plugin) loadSettings(ctx context.Context) (*settings.Settings, error) {
	raw, err := p.opts.Store.Load(ctx)
	if err != nil {
		return nil, NewOperationError("load settings", "", err)
	}
	return p.decodeSettings(raw)
}

func (p *Plugin) decodeSettings(raw []byte) (*settings.Settings, error) {
	s, err := settings.Decode(raw)
	if err != nil {
		p.log.Error("settings are malformed: %v", err)
		return nil, NewOperationError("load settings", "", err)
	}
	return s, nil
}

// Open opens filePath in the active pane.
func (p *Plugin) Open(ctx context.Context, filePath string) error {
	p.mu.Lock()
	opener, loaded := p.opener, p.loaded
	p.mu.Unlock()

	if !loaded {
		return ErrNotLoaded
	}
	return opener.Open(ctx, filePath)
}

// Run executes a registered command by ID.
func (p *Plugin) Run(id string) error {
	return p.opts.Dispatcher.Execute(id)
}

// Shortcuts returns the current shortcut list, or nil before Load.
func (p *Plugin) Shortcuts() []settings.Shortcut {
	if st := p.State(); st != nil {
		return st.Shortcuts()
	}
	return nil
}

// State returns the shortcut state, or nil before Load.
func (p *Plugin) State() *State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Editor returns the settings tab, or nil before Load.
func (p *Plugin) Editor() *Editor {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.editor
}

// Registry returns the command registry, or nil before Load.
func (p *Plugin) Registry() *Registry {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.registry
}
