package notes

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dshills/opennotes/internal/host"
	"github.com/dshills/opennotes/internal/logging"
	"github.com/dshills/opennotes/internal/notice"
	"github.com/dshills/opennotes/internal/palette"
	"github.com/dshills/opennotes/internal/settings"
	"github.com/dshills/opennotes/internal/store"
)

// fakeResolver resolves the paths it holds.
type fakeResolver map[string]bool

func (r fakeResolver) ResolveByPath(p string) (host.File, bool) {
	if !r[p] {
		return host.File{}, false
	}
	return host.File{Path: p, Name: p}, true
}

// fakeWorkspace records pane calls in order.
type fakeWorkspace struct {
	mu         sync.Mutex
	calls      []string
	displayErr error
}

func (w *fakeWorkspace) ActivePane(createNew bool) host.Pane {
	w.record(fmt.Sprintf("ActivePane(%v)", createNew))
	return &fakePane{ws: w}
}

func (w *fakeWorkspace) record(call string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls = append(w.calls, call)
}

func (w *fakeWorkspace) Calls() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.calls...)
}

type fakePane struct {
	ws *fakeWorkspace
}

func (p *fakePane) Display(ctx context.Context, f host.File) error {
	p.ws.record("Display(" + f.Path + ")")
	return p.ws.displayErr
}

// fakeNotifier records notices.
type fakeNotifier struct {
	mu      sync.Mutex
	notices []string
	levels  []notice.Level
}

func (n *fakeNotifier) Notify(message string, level notice.Level) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, message)
	n.levels = append(n.levels, level)
}

func (n *fakeNotifier) Notices() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.notices...)
}

// fakePanel records installed tabs.
type fakePanel struct {
	tabs []host.SettingTab
}

func (p *fakePanel) AddSettingTab(tab host.SettingTab) {
	p.tabs = append(p.tabs, tab)
}

// recordingDispatcher is a palette that also records every registration
// attempt, including ones the palette later replaces.
type recordingDispatcher struct {
	*palette.Palette
	mu         sync.Mutex
	registered []string
}

func newRecordingDispatcher() *recordingDispatcher {
	return &recordingDispatcher{Palette: palette.New()}
}

func (d *recordingDispatcher) Register(cmd *palette.Command) error {
	d.mu.Lock()
	d.registered = append(d.registered, cmd.ID)
	d.mu.Unlock()
	return d.Palette.Register(cmd)
}

func (d *recordingDispatcher) Registered() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.registered...)
}

// gatedStore holds every Save until Release.
type gatedStore struct {
	*store.MemoryStore
	gate chan struct{}
	once sync.Once
}

func newGatedStore(stored string) *gatedStore {
	return &gatedStore{
		MemoryStore: store.NewMemoryStore([]byte(stored)),
		gate:        make(chan struct{}),
	}
}

func (g *gatedStore) Release() {
	g.once.Do(func() { close(g.gate) })
}

func (g *gatedStore) Save(ctx context.Context, data []byte) error {
	<-g.gate
	return g.MemoryStore.Save(ctx, data)
}

type fixture struct {
	store      *store.MemoryStore
	resolver   fakeResolver
	workspace  *fakeWorkspace
	dispatcher *recordingDispatcher
	notifier   *fakeNotifier
	panel      *fakePanel
	logs       *bytes.Buffer
	plugin     *Plugin
}

func newFixture(t *testing.T, stored string, liveSync bool) *fixture {
	t.Helper()

	var raw []byte
	if stored != "" {
		raw = []byte(stored)
	}

	f := &fixture{
		store:      store.NewMemoryStore(raw),
		resolver:   fakeResolver{},
		workspace:  &fakeWorkspace{},
		dispatcher: newRecordingDispatcher(),
		notifier:   &fakeNotifier{},
		panel:      &fakePanel{},
		logs:       &bytes.Buffer{},
	}

	f.plugin = f.newPlugin(t, f.store, liveSync)
	return f
}

// newPlugin builds a plugin over the fixture's fakes and the given store.
func (f *fixture) newPlugin(t *testing.T, st host.SettingsStore, liveSync bool) *Plugin {
	t.Helper()
	p, err := New(Options{
		Store:      st,
		Resolver:   f.resolver,
		Panes:      f.workspace,
		Dispatcher: f.dispatcher,
		Notifier:   f.notifier,
		Panel:      f.panel,
		Logger:     logging.New(logging.Config{Level: logging.LevelDebug, Output: f.logs}),
		LiveSync:   liveSync,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return p
}

func (f *fixture) load(t *testing.T) {
	t.Helper()
	if err := f.plugin.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	t.Cleanup(f.plugin.Unload)
}

// persisted decodes the last document written to the store.
func (f *fixture) persisted(t *testing.T) []settings.Shortcut {
	t.Helper()
	s, err := settings.Decode(f.store.Data())
	if err != nil {
		t.Fatalf("decoding persisted settings: %v", err)
	}
	return s.SpecificNotes
}

func wait(t *testing.T, done <-chan error) {
	t.Helper()
	if err := <-done; err != nil {
		t.Fatalf("persist error = %v", err)
	}
}

// settle waits until the plugin has no saves pending.
func settle(t *testing.T, p *Plugin) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for p.persister.Pending() > 0 {
		if time.Now().After(deadline) {
			t.Fatal("saves still pending")
		}
		time.Sleep(time.Millisecond)
	}
}

const threeNotes = `{"specificNotes": [
	{"id": "a", "name": "A", "filePath": "a.md"},
	{"id": "b", "name": "B", "filePath": "b.md"},
	{"id": "c", "name": "C", "filePath": "c.md"}
]}`
