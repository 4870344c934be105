package notes

import (
	"context"
	"fmt"

	"github.com/dshills/opennotes/internal/host"
	"github.com/dshills/opennotes/internal/logging"
	"github.com/dshills/opennotes/internal/notice"
)

// Opener opens a vault file in the active pane.
type Opener struct {
	resolver host.FileResolver
	panes    host.PaneOpener
	notifier host.Notifier
	log      *logging.Logger
}

// NewOpener creates an opener.
func NewOpener(resolver host.FileResolver, panes host.PaneOpener, notifier host.Notifier, log *logging.Logger) *Opener {
	if log == nil {
		log = logging.Null
	}
	return &Opener{
		resolver: resolver,
		panes:    panes,
		notifier: notifier,
		log:      log.WithComponent("opener"),
	}
}

// Open shows the file at filePath in the active pane, replacing its
// content. When the path does not resolve the user is notified, the miss
// is logged, no pane is touched and ErrNoteNotFound is returned.
func (o *Opener) Open(ctx context.Context, filePath string) error {
	f, ok := o.resolver.ResolveByPath(filePath)
	if !ok {
		o.notifier.Notify(fmt.Sprintf("File not found: %s", filePath), notice.Error)
		o.log.Error("Could not find file: %s", filePath)
		return NewOperationError("open", filePath, ErrNoteNotFound)
	}

	pane := o.panes.ActivePane(false)
	if err := pane.Display(ctx, f); err != nil {
		return NewOperationError("open", filePath, err)
	}

	o.log.Debug("opened %s", f.Path)
	return nil
}
