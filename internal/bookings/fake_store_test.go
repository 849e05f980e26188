package bookings

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/farellandr/templebook/internal/models"
)

// fakeStore is an in-memory Store whose compound operations are serialized
// by a mutex, matching the atomicity the Postgres store gets from row
// locks. It also counts booking lookups so tests can assert that a failed
// decode never reaches the store.
type fakeStore struct {
	mu       sync.Mutex
	temples  map[uuid.UUID]*models.Temple
	slots    map[uuid.UUID]*models.TimeSlot
	users    map[uuid.UUID]*models.User
	bookings map[uuid.UUID]*models.Booking
	byNumber map[string]uuid.UUID

	bookingLookups int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		temples:  make(map[uuid.UUID]*models.Temple),
		slots:    make(map[uuid.UUID]*models.TimeSlot),
		users:    make(map[uuid.UUID]*models.User),
		bookings: make(map[uuid.UUID]*models.Booking),
		byNumber: make(map[string]uuid.UUID),
	}
}

func (f *fakeStore) addTemple(t *models.Temple) { f.temples[t.ID] = t }
func (f *fakeStore) addSlot(s *models.TimeSlot) { f.slots[s.ID] = s }
func (f *fakeStore) addUser(u *models.User)     { f.users[u.ID] = u }

func (f *fakeStore) Temple(ctx context.Context, id uuid.UUID) (*models.Temple, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	temple, ok := f.temples[id]
	if !ok {
		return nil, ErrNoRecord
	}
	return temple, nil
}

func (f *fakeStore) TimeSlot(ctx context.Context, id uuid.UUID) (*models.TimeSlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	slot, ok := f.slots[id]
	if !ok {
		return nil, ErrNoRecord
	}
	return slot, nil
}

func (f *fakeStore) User(ctx context.Context, id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, ErrNoRecord
	}
	return user, nil
}

func (f *fakeStore) BookingByNumber(ctx context.Context, number string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bookingLookups++
	id, ok := f.byNumber[number]
	if !ok {
		return nil, ErrNoRecord
	}
	booking := *f.bookings[id]
	booking.Temple = f.temples[booking.TempleID]
	booking.TimeSlot = f.slots[booking.TimeSlotID]
	booking.User = f.users[booking.UserID]
	return &booking, nil
}

func (f *fakeStore) CreateBooking(ctx context.Context, booking *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	temple, ok := f.temples[booking.TempleID]
	if !ok || !temple.IsActive {
		return NotFoundError{Resource: "temple"}
	}
	slot, ok := f.slots[booking.TimeSlotID]
	if !ok || !slot.IsActive || slot.TempleID != temple.ID {
		return NotFoundError{Resource: "time slot"}
	}
	if _, dup := f.byNumber[booking.BookingNumber]; dup {
		return ErrDuplicateBookingNumber
	}

	dayStart, dayEnd := DayBounds(booking.VisitDate)

	dailyUsed := f.sumLocked(func(b *models.Booking) bool { return b.TempleID == temple.ID }, dayStart, dayEnd)
	if err := CheckHeadroom(ScopeTemple, dailyUsed, temple.DailyTicketLimit, booking.TicketCount); err != nil {
		return err
	}

	slotUsed := f.sumLocked(func(b *models.Booking) bool { return b.TimeSlotID == slot.ID }, dayStart, dayEnd)
	if err := CheckHeadroom(ScopeTimeSlot, slotUsed, slot.Capacity, booking.TicketCount); err != nil {
		return err
	}

	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	stored := *booking
	f.bookings[stored.ID] = &stored
	f.byNumber[stored.BookingNumber] = stored.ID
	return nil
}

func (f *fakeStore) sumLocked(match func(*models.Booking) bool, dayStart, dayEnd time.Time) int {
	sum := 0
	for _, b := range f.bookings {
		if !match(b) {
			continue
		}
		if b.VisitDate.Before(dayStart) || !b.VisitDate.Before(dayEnd) {
			continue
		}
		for _, status := range models.CountedStatuses() {
			if b.Status == status {
				sum += b.TicketCount
				break
			}
		}
	}
	return sum
}

func (f *fakeStore) MarkVerified(ctx context.Context, id uuid.UUID, verifierID uuid.UUID, at time.Time) (*models.Booking, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	booking, ok := f.bookings[id]
	if !ok {
		return nil, false, NotFoundError{Resource: "booking"}
	}

	switch booking.Status {
	case models.StatusVerified:
		snapshot := *booking
		return &snapshot, false, nil
	case models.StatusConfirmed:
		booking.Status = models.StatusVerified
		verifiedAt := at
		booking.VerifiedAt = &verifiedAt
		verifier := verifierID
		booking.VerifiedByID = &verifier
		snapshot := *booking
		return &snapshot, true, nil
	default:
		return nil, false, StateError{Status: booking.Status}
	}
}

// totalTickets reports the capacity-consuming ticket sum for a temple day.
func (f *fakeStore) totalTickets(templeID uuid.UUID, day time.Time) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	dayStart, dayEnd := DayBounds(day)
	return f.sumLocked(func(b *models.Booking) bool { return b.TempleID == templeID }, dayStart, dayEnd)
}

func (f *fakeStore) bookingByID(id uuid.UUID) *models.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()
	b := *f.bookings[id]
	return &b
}
