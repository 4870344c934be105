package notes

import (
	"context"
	"errors"
	"sync"

	"github.com/dshills/opennotes/internal/host"
	"github.com/dshills/opennotes/internal/logging"
	"github.com/dshills/opennotes/internal/palette"
)

// Source tags every command this plugin registers.
const Source = "plugin:open-specific-notes"

// Registry registers one command per active shortcut.
type Registry struct {
	state      *State
	dispatcher host.CommandDispatcher
	opener     *Opener
	log        *logging.Logger

	mu  sync.Mutex
	ctx context.Context
}

// NewRegistry creates a registry over state.
func NewRegistry(state *State, dispatcher host.CommandDispatcher, opener *Opener, log *logging.Logger) *Registry {
	if log == nil {
		log = logging.Null
	}
	return &Registry{
		state:      state,
		dispatcher: dispatcher,
		opener:     opener,
		log:        log.WithComponent("registry"),
		ctx:        context.Background(),
	}
}

// Sync registers a command for every shortcut with a non-empty ID and file
// path, in list order, and returns how many registrations were issued.
// Inactive shortcuts are skipped silently. Duplicate IDs are all
// registered; the dispatcher decides which one survives.
//
// Command handlers run under ctx with its cancellation removed.
func (r *Registry) Sync(ctx context.Context) int {
	r.mu.Lock()
	r.ctx = context.WithoutCancel(ctx)
	r.mu.Unlock()

	issued := 0
	for _, sc := range r.state.Shortcuts() {
		if !sc.Active() {
			continue
		}

		filePath := sc.FilePath
		cmd := &palette.Command{
			ID:          sc.ID,
			Title:       sc.Name,
			Description: filePath,
			Source:      Source,
			Handler:     func() error { return r.open(filePath) },
		}
		if err := r.dispatcher.Register(cmd); err != nil {
			r.log.Warn("registering %q failed: %v", sc.ID, err)
			continue
		}
		issued++
	}

	r.log.Debug("registered %d commands", issued)
	return issued
}

// Resync drops this plugin's commands and registers the current list.
func (r *Registry) Resync() int {
	removed := r.dispatcher.UnregisterBySource(Source)
	r.log.Debug("unregistered %d commands", removed)
	return r.Sync(r.handlerCtx())
}

func (r *Registry) handlerCtx() context.Context {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ctx
}

// open is a command handler. A missing file has already been reported to
// the user, so it does not fail the command.
func (r *Registry) open(filePath string) error {
	err := r.opener.Open(r.handlerCtx(), filePath)
	if errors.Is(err, ErrNoteNotFound) {
		return nil
	}
	return err
}
