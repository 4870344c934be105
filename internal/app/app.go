// Package app wires the notes plugin into a small standalone host: a vault
// on disk, a workspace of panes, a command palette, notices and a terminal
// settings panel.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/opennotes/internal/config"
	"github.com/dshills/opennotes/internal/form/tui"
	"github.com/dshills/opennotes/internal/host"
	"github.com/dshills/opennotes/internal/logging"
	"github.com/dshills/opennotes/internal/notes"
	"github.com/dshills/opennotes/internal/notice"
	"github.com/dshills/opennotes/internal/palette"
	"github.com/dshills/opennotes/internal/script"
	"github.com/dshills/opennotes/internal/store"
	"github.com/dshills/opennotes/internal/vault"
	"github.com/dshills/opennotes/internal/vfs"
	"github.com/dshills/opennotes/internal/watch"
	"github.com/dshills/opennotes/internal/workspace"
)

// Application errors.
var (
	// ErrShutdown indicates the application was already shut down.
	ErrShutdown = errors.New("application shut down")

	// ErrPanelRunning indicates the settings panel is already open.
	ErrPanelRunning = errors.New("settings panel already running")
)

// Options configures the application.
type Options struct {
	// ConfigPath is an optional TOML or YAML configuration file.
	ConfigPath string

	// Overrides are applied over the file and environment, e.g. from flags.
	Overrides config.Values

	// Env supplies environment overrides. Defaults to the OPENNOTES_*
	// process environment.
	Env config.Layer

	// FS is the filesystem for config, settings and notes. Defaults to the
	// OS filesystem. The settings watcher only runs on the OS filesystem.
	FS vfs.VFS

	// LogOutput receives log lines. Defaults to os.Stderr.
	LogOutput io.Writer
}

// Application is the standalone host.
type Application struct {
	cfg config.Config
	log *logging.Logger
	fs  vfs.VFS

	store     *store.FileStore
	resolver  *vault.Resolver
	workspace *workspace.Workspace
	palette   *palette.Palette
	notices   *notice.Center
	plugin    *notes.Plugin
	watcher   *watch.Watcher

	ctx context.Context

	mu       sync.Mutex
	tabs     []host.SettingTab
	panel    *tui.Panel
	shutdown bool
}

// New builds the host and loads the plugin.
func New(ctx context.Context, opts Options) (*Application, error) {
	fsys := opts.FS
	if fsys == nil {
		fsys = vfs.NewOSFS()
	}
	env := opts.Env
	if env == nil {
		env = config.NewEnvLoader(config.EnvPrefix)
	}

	cfg, err := config.LoadLayers(fsys, opts.ConfigPath, env, opts.Overrides)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	log := logging.New(logging.Config{
		Level:  cfg.Level(),
		Output: opts.LogOutput,
		Prefix: "opennotes",
	})
	for _, key := range cfg.Unknown {
		log.Warn("unknown configuration key %q", key)
	}

	resolver := vault.NewResolver(fsys, cfg.VaultDir)
	app := &Application{
		cfg:       cfg,
		log:       log,
		fs:        fsys,
		store:     store.NewFileStore(fsys, cfg.SettingsPath),
		resolver:  resolver,
		workspace: workspace.New(resolver),
		palette:   palette.New(),
		notices:   notice.NewCenter(cfg.NoticeTimeout),
		ctx:       ctx,
	}
	app.notices.OnShow(func(n notice.Notice) {
		log.WithField("level", n.Level).Debug("notice: %s", n.Message)
	})

	app.plugin, err = notes.New(notes.Options{
		Store:      app.store,
		Resolver:   app.resolver,
		Panes:      app.workspace,
		Dispatcher: app.palette,
		Notifier:   app.notices,
		Panel:      app,
		Logger:     log,
		LiveSync:   cfg.LiveSync,
	})
	if err != nil {
		return nil, err
	}
	if err := app.plugin.Load(ctx); err != nil {
		return nil, err
	}

	if cfg.LiveSync {
		if err := app.startWatcher(); err != nil {
			app.plugin.Unload()
			return nil, err
		}
	}
	return app, nil
}

func (app *Application) startWatcher() error {
	if _, onDisk := app.fs.(*vfs.OSFS); !onDisk {
		app.log.Debug("settings watcher disabled: not on the OS filesystem")
		return nil
	}
	w, err := watch.New(app.cfg.SettingsPath, app.settingsChanged, watch.WithLogger(app.log.WithComponent("watch")))
	if err != nil {
		return fmt.Errorf("watching settings: %w", err)
	}
	app.watcher = w
	return nil
}

// settingsChanged runs on the watcher goroutine. While the panel is open
// the reload is handed to its event loop.
func (app *Application) settingsChanged() {
	app.mu.Lock()
	panel := app.panel
	app.mu.Unlock()

	if panel != nil {
		if err := panel.Post(func() { app.Reload() }); err == nil {
			return
		}
	}
	app.Reload()
}

// Reload re-reads the settings file into the plugin.
func (app *Application) Reload() {
	changed, err := app.plugin.Reload(app.ctx)
	if err != nil {
		app.log.Error("reloading settings: %v", err)
		return
	}
	if changed {
		app.log.Info("reloaded %d shortcuts", len(app.plugin.Shortcuts()))
	}
}

// AddSettingTab records a tab for the settings panel.
func (app *Application) AddSettingTab(tab host.SettingTab) {
	app.mu.Lock()
	defer app.mu.Unlock()
	app.tabs = append(app.tabs, tab)
	if app.panel != nil {
		app.panel.AddSettingTab(tab)
	}
}

// Tabs returns the registered setting tabs.
func (app *Application) Tabs() []host.SettingTab {
	app.mu.Lock()
	defer app.mu.Unlock()
	out := make([]host.SettingTab, len(app.tabs))
	copy(out, app.tabs)
	return out
}

// Config returns the effective configuration.
func (app *Application) Config() config.Config {
	return app.cfg
}

// Logger returns the application logger.
func (app *Application) Logger() *logging.Logger {
	return app.log
}

// Plugin returns the loaded notes plugin.
func (app *Application) Plugin() *notes.Plugin {
	return app.plugin
}

// Commands returns the registered commands sorted by label.
func (app *Application) Commands() []*palette.Command {
	return app.palette.All()
}

// Search fuzzy-matches commands by label.
func (app *Application) Search(query string, limit int) []palette.SearchResult {
	return app.palette.Search(query, limit)
}

// Invoke executes the command with the given ID.
func (app *Application) Invoke(id string) error {
	return app.plugin.Run(id)
}

// ActivePane returns the active pane, or nil when nothing was opened.
func (app *Application) ActivePane() *workspace.Pane {
	if len(app.workspace.Panes()) == 0 {
		return nil
	}
	return app.workspace.Active(false)
}

// Notices returns the notices that are still visible.
func (app *Application) Notices() []notice.Notice {
	return app.notices.Active()
}

// RunScript runs a Lua file with the notes module installed.
func (app *Application) RunScript(path string) error {
	engine, err := script.New(app.ctx, app.plugin, app.log)
	if err != nil {
		return err
	}
	defer engine.Close()
	return engine.DoFile(path)
}

// RunPanel shows the settings panel on screen until the user closes it.
// The screen is initialised and finalised here.
func (app *Application) RunPanel(screen tcell.Screen) error {
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initialising terminal: %w", err)
	}
	defer screen.Fini()

	panel := tui.New(screen, tui.WithNotices(app.notices))

	app.mu.Lock()
	switch {
	case app.shutdown:
		app.mu.Unlock()
		return ErrShutdown
	case app.panel != nil:
		app.mu.Unlock()
		return ErrPanelRunning
	}
	for _, tab := range app.tabs {
		panel.AddSettingTab(tab)
	}
	app.panel = panel
	app.mu.Unlock()

	defer func() {
		app.mu.Lock()
		app.panel = nil
		app.mu.Unlock()
	}()

	return panel.Run()
}

// Shutdown stops the watcher and unloads the plugin, waiting for pending
// saves. It is safe to call more than once.
func (app *Application) Shutdown() {
	app.mu.Lock()
	if app.shutdown {
		app.mu.Unlock()
		return
	}
	app.shutdown = true
	app.mu.Unlock()

	if app.watcher != nil {
		if err := app.watcher.Close(); err != nil {
			app.log.Warn("closing settings watcher: %v", err)
		}
	}
	app.plugin.Unload()
}

var _ host.PanelHost = (*Application)(nil)
