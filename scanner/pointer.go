package scanner

import (
	"errors"
	"image"
	"sync"
	"time"
)

// Pointer reads and moves the mouse cursor in screen coordinates.
type Pointer interface {
	Position() (image.Point, error)
	MoveTo(p image.Point) error
}

// PointerLock gives one scan at a time exclusive use of a Pointer.
type PointerLock struct {
	mu      sync.Mutex
	pointer Pointer
}

func NewPointerLock(p Pointer) *PointerLock {
	return &PointerLock{pointer: p}
}

// Acquire blocks until the pointer is free and returns a lease on it.
func (l *PointerLock) Acquire() *PointerLease {
	l.mu.Lock()
	return &PointerLease{lock: l}
}

// PointerLease is the exclusive handle returned by Acquire. Release may be
// called more than once; only the first call unlocks.
type PointerLease struct {
	lock *PointerLock
	once sync.Once
	done bool
}

// ErrLeaseReleased is returned by a lease used after Release.
var ErrLeaseReleased = errors.New("pointer lease already released")

func (l *PointerLease) Position() (image.Point, error) {
	if l.done {
		return image.Point{}, ErrLeaseReleased
	}
	return l.lock.pointer.Position()
}

func (l *PointerLease) MoveTo(p image.Point) error {
	if l.done {
		return ErrLeaseReleased
	}
	return l.lock.pointer.MoveTo(p)
}

// Release returns the pointer to the lock.
func (l *PointerLease) Release() {
	l.once.Do(func() {
		l.done = true
		l.lock.mu.Unlock()
	})
}

// Settler waits for the game UI to react after the pointer moved.
type Settler interface {
	Settle()
}

// SleepSettler waits a fixed delay.
type SleepSettler time.Duration

func (d SleepSettler) Settle() { time.Sleep(time.Duration(d)) }

// NoSettle returns immediately.
type NoSettle struct{}

func (NoSettle) Settle() {}
