package rental

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/elan19/vteam/scooter"
)

var (
	ErrNotFound        = errors.New("rental session not found")
	ErrAlreadyStopped  = errors.New("rental session already stopped")
	ErrAlreadyReturned = errors.New("rental session already returned")
	ErrNotStopped      = errors.New("rental session not stopped yet")
	ErrCancelled       = errors.New("rental session cancelled")
)

// Store is the persistence surface the lifecycle drives. Implementations
// must make each mutation atomic per scooter: two concurrent StartSession
// calls for the same scooter may admit at most one.
type Store interface {
	StartSession(ctx context.Context, userID, scooterID uuid.UUID, startTime time.Time) (Session, error)
	GetSession(ctx context.Context, id uuid.UUID) (Session, error)
	RecordStop(ctx context.Context, id uuid.UUID, stopTime time.Time, pricePerMinute, totalPrice int64) (Session, error)
	RecordReturn(ctx context.Context, id uuid.UUID, returnTime time.Time, loc scooter.Point) (Session, error)
	RecordCancel(ctx context.Context, id uuid.UUID, at time.Time) (Session, error)
}

// Lifecycle coordinates the session state machine over a Store and the
// configured rate schedule. It is the only component that mutates both a
// session and its scooter.
type Lifecycle struct {
	store    Store
	schedule Schedule
}

func NewLifecycle(store Store, schedule Schedule) *Lifecycle {
	return &Lifecycle{store: store, schedule: schedule}
}

// Start opens a session for an available scooter and marks it in-use.
// Fails with scooter.ErrNotAvailable when the scooter is already out.
func (l *Lifecycle) Start(ctx context.Context, userID, scooterID uuid.UUID, startTime time.Time) (Session, error) {
	if startTime.IsZero() {
		startTime = time.Now()
	}
	return l.store.StartSession(ctx, userID, scooterID, startTime)
}

// Stop ends the riding interval and fixes the price. The scooter stays
// in-use until the return is recorded.
func (l *Lifecycle) Stop(ctx context.Context, id uuid.UUID, stopTime time.Time) (Session, error) {
	s, err := l.store.GetSession(ctx, id)
	if err != nil {
		return Session{}, err
	}

	switch s.State() {
	case StateCancelled:
		return Session{}, ErrCancelled
	case StateCompleted:
		return Session{}, ErrAlreadyReturned
	case StateStopped:
		return Session{}, ErrAlreadyStopped
	}

	if stopTime.Before(s.StartTime) {
		return Session{}, ErrInvalidInterval
	}

	// Start time is immutable once the session exists, so quoting from the
	// snapshot is safe; RecordStop still applies conditionally and loses
	// cleanly if another caller got there first.
	q, err := l.schedule.Quote(stopTime.Sub(s.StartTime))
	if err != nil {
		return Session{}, err
	}

	return l.store.RecordStop(ctx, id, stopTime, q.PerMinuteCents, q.TotalCents)
}

// Return closes a stopped session, moves the scooter to its final
// location and makes it available again.
func (l *Lifecycle) Return(ctx context.Context, id uuid.UUID, returnTime time.Time, loc scooter.Point) (Session, error) {
	s, err := l.store.GetSession(ctx, id)
	if err != nil {
		return Session{}, err
	}

	switch s.State() {
	case StateCancelled:
		return Session{}, ErrCancelled
	case StateCompleted:
		return Session{}, ErrAlreadyReturned
	case StateActive:
		return Session{}, ErrNotStopped
	}

	if returnTime.Before(s.StopTime.Time) {
		return Session{}, ErrInvalidInterval
	}

	return l.store.RecordReturn(ctx, id, returnTime, loc)
}

// Cancel aborts an active session without charge and frees the scooter.
func (l *Lifecycle) Cancel(ctx context.Context, id uuid.UUID, at time.Time) (Session, error) {
	s, err := l.store.GetSession(ctx, id)
	if err != nil {
		return Session{}, err
	}

	switch s.State() {
	case StateCancelled:
		return Session{}, ErrCancelled
	case StateCompleted:
		return Session{}, ErrAlreadyReturned
	case StateStopped:
		return Session{}, ErrAlreadyStopped
	}

	return l.store.RecordCancel(ctx, id, at)
}
