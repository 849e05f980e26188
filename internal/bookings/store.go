package bookings

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/farellandr/templebook/internal/models"
)

// ErrNoRecord is the store-neutral "row absent" sentinel; callers translate
// it into a NotFoundError naming the resource.
var ErrNoRecord = errors.New("record not found")

// ErrDuplicateBookingNumber signals a unique-index conflict on the booking
// number; the caller regenerates and retries.
var ErrDuplicateBookingNumber = errors.New("booking number already taken")

// Store is the durable backing for the booking core. CreateBooking and
// MarkVerified are the two compound operations: each must execute its reads
// and write atomically so concurrent requests can never observe a state
// between "checked" and "written".
type Store interface {
	Temple(ctx context.Context, id uuid.UUID) (*models.Temple, error)
	TimeSlot(ctx context.Context, id uuid.UUID) (*models.TimeSlot, error)
	User(ctx context.Context, id uuid.UUID) (*models.User, error)

	// BookingByNumber loads a booking with its temple, slot, user and
	// verifier attached.
	BookingByNumber(ctx context.Context, number string) (*models.Booking, error)

	// CreateBooking re-reads the temple-day and slot-day usage under a
	// write lock, re-evaluates both headrooms, and inserts — all in one
	// transaction. Returns CapacityError on an exhausted limit.
	CreateBooking(ctx context.Context, booking *models.Booking) error

	// MarkVerified applies CONFIRMED→VERIFIED atomically with the status
	// read. The bool reports whether this call performed the transition;
	// false means the booking was already VERIFIED and the returned row
	// carries the original verification metadata. Any other status yields
	// a StateError.
	MarkVerified(ctx context.Context, id uuid.UUID, verifierID uuid.UUID, at time.Time) (*models.Booking, bool, error)
}
