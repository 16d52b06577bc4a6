package campus

import (
	"context"
	"errors"
)

var ErrSessionFull = errors.New("session full")

type Store interface {
	Ping(ctx context.Context) error
	ListSessions(ctx context.Context) ([]Session, error)
	GetSession(ctx context.Context, id string) (Session, bool, error)
	// CreateBooking stores the booking and takes one spot atomically,
	// returning ErrSessionFull when no spots remain.
	CreateBooking(ctx context.Context, b Booking) error
	GetBooking(ctx context.Context, reference string) (Booking, bool, error)
}
