package bookings

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

const (
	// MaxTicketsPerBooking caps a single request; checked before any
	// capacity math.
	MaxTicketsPerBooking = 10

	bookingNumberPrefix = "TBK"
)

// DayBounds buckets a visit timestamp into its calendar day: the half-open
// interval [midnight, next midnight) in UTC. Capacity sums are always taken
// over this bucket, so the time-of-day component of a visit date is
// irrelevant.
func DayBounds(t time.Time) (start, end time.Time) {
	u := t.UTC()
	start = time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

// NewBookingNumber generates a human-displayable booking identifier:
// TBK-<base36 unix millis>-<6 hex chars>. Collisions are improbable but
// not impossible, so the store still enforces a unique index and the
// service regenerates on conflict.
func NewBookingNumber() string {
	ts := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
	suffix := make([]byte, 3)
	rand.Read(suffix)
	return bookingNumberPrefix + "-" + ts + "-" + strings.ToUpper(hex.EncodeToString(suffix))
}

// CheckHeadroom admits requested tickets against a limit given current
// usage, or returns a CapacityError carrying the remaining headroom.
func CheckHeadroom(scope CapacityScope, used, limit, requested int) error {
	if used+requested > limit {
		available := limit - used
		if available < 0 {
			available = 0
		}
		return CapacityError{Scope: scope, Available: available, Limit: limit}
	}
	return nil
}
