package notes

import (
	"bytes"
	"context"
	"sync"

	"github.com/dshills/opennotes/internal/host"
	"github.com/dshills/opennotes/internal/logging"
	"github.com/dshills/opennotes/internal/settings"
)

type saveJob struct {
	settings *settings.Settings
	done     chan error
}

// Persister writes settings snapshots to the store on a single goroutine,
// in the order they were submitted, so the last edit always wins.
type Persister struct {
	store host.SettingsStore
	log   *logging.Logger

	mu      sync.Mutex
	closed  bool
	pending int
	written []byte
	queue   chan saveJob
	exited  chan struct{}
}

// NewPersister starts a persister for store.
func NewPersister(store host.SettingsStore, log *logging.Logger) *Persister {
	if log == nil {
		log = logging.Null
	}
	p := &Persister{
		store:  store,
		log:    log.WithComponent("persister"),
		queue:  make(chan saveJob, 64),
		exited: make(chan struct{}),
	}
	go p.run()
	return p
}

// Submit queues s for saving. The returned channel receives the save
// result once and is then closed. Failures are also logged, so callers
// may ignore the channel.
func (p *Persister) Submit(s *settings.Settings) <-chan error {
	done := make(chan error, 1)

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		p.log.Warn("dropping settings save: %v", ErrPersisterClosed)
		done <- ErrPersisterClosed
		close(done)
		return done
	}
	p.pending++
	p.queue <- saveJob{settings: s.Clone(), done: done}
	return done
}

// Pending returns the number of saves queued or in progress.
func (p *Persister) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending
}

// Wrote reports whether data is exactly the last document this persister
// saved.
func (p *Persister) Wrote(data []byte) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.written != nil && bytes.Equal(p.written, data)
}

// Close waits for queued saves to finish and stops the worker.
func (p *Persister) Close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	<-p.exited
}

func (p *Persister) run() {
	defer close(p.exited)

	for job := range p.queue {
		data, err := p.save(job.settings)
		if err != nil {
			p.log.Error("persisting settings failed: %v", err)
		}

		p.mu.Lock()
		if err == nil {
			p.written = data
		}
		p.pending--
		p.mu.Unlock()

		job.done <- err
		close(job.done)
	}
}

func (p *Persister) save(s *settings.Settings) ([]byte, error) {
	data, err := s.Encode()
	if err != nil {
		return nil, NewOperationError("save settings", "", err)
	}
	if err := p.store.Save(context.Background(), data); err != nil {
		return nil, NewOperationError("save settings", "", err)
	}
	return data, nil
}
