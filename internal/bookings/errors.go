package bookings

import (
	"errors"
	"fmt"

	"github.com/farellandr/templebook/internal/models"
	"github.com/farellandr/templebook/internal/tickets"
)

// ErrInvalidTicket is the single outcome for any token that fails
// authenticated decoding, re-exported so callers need not import tickets.
var ErrInvalidTicket = tickets.ErrInvalidTicket

// ErrNotTempleOwner means the verifying operator does not own the booking's
// temple. Distinct from ErrInvalidTicket: the token is genuine, the scanner
// is not entitled to it.
var ErrNotTempleOwner = errors.New("you can only verify bookings for your own temples")

// ErrTooBusy surfaces after bounded retries of a conflicting transaction.
var ErrTooBusy = errors.New("service busy, please retry")

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	return e.Resource + " not found"
}

type CapacityScope string

const (
	ScopeTemple   CapacityScope = "daily ticket limit"
	ScopeTimeSlot CapacityScope = "time slot capacity"
)

// CapacityError reports a rejected admission along with the remaining
// headroom so the caller can self-correct.
type CapacityError struct {
	Scope     CapacityScope
	Available int
	Limit     int
}

func (e CapacityError) Error() string {
	return fmt.Sprintf("%s reached: %d of %d tickets available", e.Scope, e.Available, e.Limit)
}

// StateError rejects a verification against a booking whose status admits
// no further transition, naming the current status.
type StateError struct {
	Status models.BookingStatus
}

func (e StateError) Error() string {
	return fmt.Sprintf("booking is %s", e.Status)
}
