package bookings

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/farellandr/templebook/internal/models"
)

// maxTxAttempts bounds retries of a serialization or deadlock abort before
// surfacing ErrTooBusy. A transaction abort is never reported as a
// capacity rejection.
const maxTxAttempts = 3

// GormStore is the Postgres-backed Store. Admission control takes FOR
// UPDATE locks on the temple and slot rows, so every concurrent admission
// against the same temple serializes on those rows and the read-sum /
// check / insert sequence is atomic.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Temple(ctx context.Context, id uuid.UUID) (*models.Temple, error) {
	var temple models.Temple
	if err := s.db.WithContext(ctx).First(&temple, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoRecord
		}
		return nil, err
	}
	return &temple, nil
}

func (s *GormStore) TimeSlot(ctx context.Context, id uuid.UUID) (*models.TimeSlot, error) {
	var slot models.TimeSlot
	if err := s.db.WithContext(ctx).First(&slot, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoRecord
		}
		return nil, err
	}
	return &slot, nil
}

func (s *GormStore) User(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoRecord
		}
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) BookingByNumber(ctx context.Context, number string) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Temple").
		Preload("TimeSlot").
		Preload("VerifiedBy").
		First(&booking, "booking_number = ?", number).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoRecord
		}
		return nil, err
	}
	return &booking, nil
}

func (s *GormStore) CreateBooking(ctx context.Context, booking *models.Booking) error {
	var err error
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var temple models.Temple
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&temple, "id = ?", booking.TempleID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return NotFoundError{Resource: "temple"}
				}
				return err
			}
			if !temple.IsActive {
				return NotFoundError{Resource: "temple"}
			}

			var slot models.TimeSlot
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&slot, "id = ?", booking.TimeSlotID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return NotFoundError{Resource: "time slot"}
				}
				return err
			}
			if !slot.IsActive || slot.TempleID != temple.ID {
				return NotFoundError{Resource: "time slot"}
			}

			dayStart, dayEnd := DayBounds(booking.VisitDate)

			dailyUsed, err := sumTickets(tx, "temple_id = ?", temple.ID, dayStart, dayEnd)
			if err != nil {
				return err
			}
			if err := CheckHeadroom(ScopeTemple, dailyUsed, temple.DailyTicketLimit, booking.TicketCount); err != nil {
				return err
			}

			slotUsed, err := sumTickets(tx, "time_slot_id = ?", slot.ID, dayStart, dayEnd)
			if err != nil {
				return err
			}
			if err := CheckHeadroom(ScopeTimeSlot, slotUsed, slot.Capacity, booking.TicketCount); err != nil {
				return err
			}

			return tx.Create(booking).Error
		})
		if err == nil {
			return nil
		}
		if isUniqueViolation(err) {
			return ErrDuplicateBookingNumber
		}
		if !isRetryable(err) {
			return err
		}
	}
	return ErrTooBusy
}

func sumTickets(tx *gorm.DB, cond string, id uuid.UUID, dayStart, dayEnd time.Time) (int, error) {
	var used int64
	err := tx.Model(&models.Booking{}).
		Select("COALESCE(SUM(ticket_count), 0)").
		Where(cond, id).
		Where("visit_date >= ? AND visit_date < ?", dayStart, dayEnd).
		Where("status IN ?", models.CountedStatuses()).
		Scan(&used).Error
	return int(used), err
}

func (s *GormStore) MarkVerified(ctx context.Context, id uuid.UUID, verifierID uuid.UUID, at time.Time) (*models.Booking, bool, error) {
	var (
		result       *models.Booking
		transitioned bool
		err          error
	)
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		result, transitioned = nil, false
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var booking models.Booking
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&booking, "id = ?", id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return NotFoundError{Resource: "booking"}
				}
				return err
			}

			switch booking.Status {
			case models.StatusVerified:
				// Already scanned: idempotent, keep the original metadata.
				result = &booking
				return nil
			case models.StatusConfirmed:
				booking.Status = models.StatusVerified
				booking.VerifiedAt = &at
				booking.VerifiedByID = &verifierID
				if err := tx.Model(&booking).Updates(map[string]interface{}{
					"status":         models.StatusVerified,
					"verified_at":    at,
					"verified_by_id": verifierID,
				}).Error; err != nil {
					return err
				}
				result = &booking
				transitioned = true
				return nil
			default:
				return StateError{Status: booking.Status}
			}
		})
		if err == nil {
			return result, transitioned, nil
		}
		if !isRetryable(err) {
			return nil, false, err
		}
	}
	return nil, false, ErrTooBusy
}

// isRetryable reports whether the error is a Postgres serialization failure
// or deadlock, both of which are safe to retry.
func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
