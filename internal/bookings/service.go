// Package bookings holds the booking core: capacity admission control, the
// booking lifecycle, and ticket verification. All capacity decisions are
// recomputed from the durable store at decision time; there is no in-process
// cache of counts.
package bookings

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/farellandr/templebook/internal/models"
	"github.com/farellandr/templebook/internal/tickets"
)

// numberAttempts bounds regeneration of a colliding booking number.
const numberAttempts = 3

type Service struct {
	store Store
	codec *tickets.Codec
	now   func() time.Time
}

func NewService(store Store, codec *tickets.Codec) *Service {
	return &Service{store: store, codec: codec, now: time.Now}
}

type CreateParams struct {
	UserID      uuid.UUID
	TempleID    uuid.UUID
	TimeSlotID  uuid.UUID
	VisitDate   time.Time
	TicketCount int
}

func (p CreateParams) validate() error {
	if p.UserID == uuid.Nil {
		return ValidationError{Field: "user_id", Message: "user is required"}
	}
	if p.TempleID == uuid.Nil {
		return ValidationError{Field: "temple_id", Message: "temple is required"}
	}
	if p.TimeSlotID == uuid.Nil {
		return ValidationError{Field: "time_slot_id", Message: "time slot is required"}
	}
	if p.VisitDate.IsZero() {
		return ValidationError{Field: "visit_date", Message: "visit date is required"}
	}
	if p.TicketCount < 1 {
		return ValidationError{Field: "ticket_count", Message: "at least 1 ticket required"}
	}
	if p.TicketCount > MaxTicketsPerBooking {
		return ValidationError{Field: "ticket_count", Message: "maximum 10 tickets per booking"}
	}
	return nil
}

// Create admits a booking request against the temple's daily limit and the
// slot's capacity, and on admission persists a CONFIRMED booking carrying
// its encrypted ticket token and QR image. The limit checks and the insert
// happen atomically in the store; no booking is ever partially created —
// if token generation fails, nothing is persisted.
func (s *Service) Create(ctx context.Context, params CreateParams) (*models.Booking, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	temple, err := s.store.Temple(ctx, params.TempleID)
	if err != nil {
		if errors.Is(err, ErrNoRecord) {
			return nil, NotFoundError{Resource: "temple"}
		}
		return nil, err
	}
	if !temple.IsActive {
		return nil, NotFoundError{Resource: "temple"}
	}

	slot, err := s.store.TimeSlot(ctx, params.TimeSlotID)
	if err != nil {
		if errors.Is(err, ErrNoRecord) {
			return nil, NotFoundError{Resource: "time slot"}
		}
		return nil, err
	}
	if !slot.IsActive || slot.TempleID != temple.ID {
		return nil, NotFoundError{Resource: "time slot"}
	}

	user, err := s.store.User(ctx, params.UserID)
	if err != nil {
		if errors.Is(err, ErrNoRecord) {
			return nil, NotFoundError{Resource: "user"}
		}
		return nil, err
	}

	visitDay, _ := DayBounds(params.VisitDate)

	// The amount is a snapshot of the price at booking time; later price
	// changes never touch existing bookings.
	totalAmount := temple.TicketPrice * params.TicketCount

	for attempt := 0; attempt < numberAttempts; attempt++ {
		number := NewBookingNumber()

		token, err := s.codec.Encode(tickets.Facts{
			BookingNumber: number,
			UserName:      user.Name,
			UserPhone:     user.Phone,
			TempleName:    temple.Name,
			VisitDate:     visitDay.Format(time.RFC3339),
			TimeSlot:      slot.Window(),
			TicketCount:   params.TicketCount,
			TotalAmount:   totalAmount,
		})
		if err != nil {
			return nil, err
		}
		image, err := tickets.ImageDataURL(token)
		if err != nil {
			return nil, err
		}

		booking := &models.Booking{
			BookingNumber: number,
			UserID:        user.ID,
			TempleID:      temple.ID,
			TimeSlotID:    slot.ID,
			VisitDate:     visitDay,
			TicketCount:   params.TicketCount,
			TotalAmount:   totalAmount,
			Status:        models.StatusConfirmed,
			TicketToken:   token,
			TicketImage:   image,
		}

		err = s.store.CreateBooking(ctx, booking)
		if errors.Is(err, ErrDuplicateBookingNumber) {
			continue
		}
		if err != nil {
			return nil, err
		}

		booking.User = user
		booking.Temple = temple
		booking.TimeSlot = slot
		return booking, nil
	}
	return nil, ErrTooBusy
}

type VerifyResult struct {
	Booking *models.Booking
	// AlreadyVerified marks the idempotent path: the ticket had been
	// scanned before and Booking carries the original verification
	// metadata.
	AlreadyVerified bool
}

// Verify decodes a scanned token, authenticates it, checks that the
// scanning operator owns the booking's temple, and applies the one-time
// CONFIRMED→VERIFIED transition. Re-scanning a verified ticket succeeds
// idempotently; cancelled or expired bookings are rejected naming their
// status. A failed decode never reaches the store.
func (s *Service) Verify(ctx context.Context, operatorID uuid.UUID, token string) (*VerifyResult, error) {
	if token == "" {
		return nil, ValidationError{Field: "ticket_token", Message: "ticket token is required"}
	}

	facts, err := s.codec.Decode(token)
	if err != nil {
		return nil, ErrInvalidTicket
	}

	booking, err := s.store.BookingByNumber(ctx, facts.BookingNumber)
	if err != nil {
		if errors.Is(err, ErrNoRecord) {
			return nil, NotFoundError{Resource: "booking"}
		}
		return nil, err
	}

	if booking.Temple == nil || booking.Temple.OwnerID != operatorID {
		return nil, ErrNotTempleOwner
	}

	updated, transitioned, err := s.store.MarkVerified(ctx, booking.ID, operatorID, s.now().UTC())
	if err != nil {
		return nil, err
	}

	booking.Status = updated.Status
	booking.VerifiedAt = updated.VerifiedAt
	booking.VerifiedByID = updated.VerifiedByID

	return &VerifyResult{Booking: booking, AlreadyVerified: !transitioned}, nil
}
