package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to BookingStatus
		allowed  bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusExpired, true},
		{StatusPending, StatusVerified, false},
		{StatusConfirmed, StatusVerified, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusExpired, true},
		{StatusConfirmed, StatusPending, false},
		{StatusVerified, StatusConfirmed, false},
		{StatusVerified, StatusCancelled, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusExpired, StatusConfirmed, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestTerminalStatuses(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusConfirmed.Terminal())
	assert.True(t, StatusVerified.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.True(t, StatusExpired.Terminal())
}

func TestCountedStatuses(t *testing.T) {
	counted := CountedStatuses()
	assert.ElementsMatch(t, []BookingStatus{StatusPending, StatusConfirmed, StatusVerified}, counted)
}
