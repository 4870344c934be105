// Package notice keeps the transient, user-visible messages shown by the
// host, such as "File not found".
package notice

import (
	"sync"
	"time"
)

// Level is the severity of a notice.
type Level string

const (
	// Info is an informational notice.
	Info Level = "info"
	// Warning is a warning notice.
	Warning Level = "warning"
	// Error is an error notice.
	Error Level = "error"
)

// DefaultTimeout is how long a notice stays visible.
const DefaultTimeout = 5 * time.Second

// Notice is one message shown to the user.
type Notice struct {
	Message string
	Level   Level
	Shown   time.Time
	Expires time.Time
}

// Center collects notices and expires them after a timeout.
// Center is safe for concurrent use.
type Center struct {
	mu      sync.Mutex
	timeout time.Duration
	now     func() time.Time
	notices []Notice
	onShow  []func(Notice)
}

// NewCenter creates a notice center. A non-positive timeout uses
// DefaultTimeout.
func NewCenter(timeout time.Duration) *Center {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Center{
		timeout: timeout,
		now:     time.Now,
	}
}

// SetClock replaces the time source.
func (c *Center) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Notify shows a message for the configured timeout.
func (c *Center) Notify(message string, level Level) {
	c.mu.Lock()
	now := c.now()
	n := Notice{
		Message: message,
		Level:   level,
		Shown:   now,
		Expires: now.Add(c.timeout),
	}
	c.notices = append(c.prune(now), n)
	callbacks := make([]func(Notice), len(c.onShow))
	copy(callbacks, c.onShow)
	c.mu.Unlock()

	for _, fn := range callbacks {
		fn(n)
	}
}

// OnShow registers a callback invoked for every new notice.
func (c *Center) OnShow(fn func(Notice)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onShow = append(c.onShow, fn)
}

// Active returns the notices that have not expired, oldest first.
func (c *Center) Active() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.notices = c.prune(c.now())
	result := make([]Notice, len(c.notices))
	copy(result, c.notices)
	return result
}

// Dismiss removes all notices.
func (c *Center) Dismiss() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notices = nil
}

func (c *Center) prune(now time.Time) []Notice {
	kept := c.notices[:0]
	for _, n := range c.notices {
		if now.Before(n.Expires) {
			kept = append(kept, n)
		}
	}
	return kept
}
