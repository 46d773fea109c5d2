// internal/orientation/orientation.go
package orientation

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// Orientation is a screen orientation a device can be locked to.
type Orientation string

const (
	Landscape Orientation = "landscape"
	Portrait  Orientation = "portrait"
)

// Locker is the device orientation collaborator.
type Locker interface {
	Lock(ctx context.Context, o Orientation) error
	Unlock(ctx context.Context) error
}

// Release ends a lock taken with Acquire. Calling it more than once is a no-op.
type Release func()

// Acquire locks the device to o and returns the matching release.
// Lock and unlock failures are logged and otherwise ignored; a failed lock still
// returns a release so callers need a single code path.
func Acquire(ctx context.Context, l Locker, o Orientation, logger *logrus.Logger) Release {
	if err := l.Lock(ctx, o); err != nil && logger != nil {
		logger.WithFields(logrus.Fields{"orientation": o, "error": err}).Warn("Orientation lock failed")
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			// the acquiring context may already be done when the screen exits
			if err := l.Unlock(context.WithoutCancel(ctx)); err != nil && logger != nil {
				logger.WithField("error", err).Warn("Orientation unlock failed")
			}
		})
	}
}

// Hold runs fn with the device locked to o. The lock is released when fn
// returns, including when it panics.
func Hold(ctx context.Context, l Locker, o Orientation, logger *logrus.Logger, fn func(ctx context.Context) error) error {
	release := Acquire(ctx, l, o, logger)
	defer release()
	return fn(ctx)
}

// Noop is a Locker for hosts without an orientation to control.
type Noop struct{}

func (Noop) Lock(context.Context, Orientation) error { return nil }
func (Noop) Unlock(context.Context) error            { return nil }

// Recorder is a Locker that only remembers its state. The terminal client uses it,
// since a terminal cannot rotate but the board still reports what it asked for.
type Recorder struct {
	mu     sync.Mutex
	locked bool
	o      Orientation
}

func (r *Recorder) Lock(_ context.Context, o Orientation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.locked = true
	r.o = o
	return nil
}

func (r *Recorder) Unlock(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.locked = false
	r.o = ""
	return nil
}

// State returns the locked orientation, if any.
func (r *Recorder) State() (Orientation, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.o, r.locked
}
