package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from AppointmentStatus
		to   AppointmentStatus
		want bool
	}{
		{"pending to confirmed", StatusPending, StatusConfirmed, true},
		{"pending to cancelled", StatusPending, StatusCancelled, true},
		{"pending to completed", StatusPending, StatusCompleted, false},
		{"pending to in-progress", StatusPending, StatusInProgress, false},
		{"confirmed to in-progress", StatusConfirmed, StatusInProgress, true},
		{"confirmed to cancelled", StatusConfirmed, StatusCancelled, true},
		{"confirmed to completed", StatusConfirmed, StatusCompleted, false},
		{"in-progress to completed", StatusInProgress, StatusCompleted, true},
		{"in-progress to cancelled", StatusInProgress, StatusCancelled, false},
		{"completed is terminal", StatusCompleted, StatusCompleted, false},
		{"completed to pending", StatusCompleted, StatusPending, false},
		{"cancelled is terminal", StatusCancelled, StatusPending, false},
		{"cancelled to confirmed", StatusCancelled, StatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

// The rejection paths run before any DB write, so a nil tx is safe here.
func TestUpdateStatusRejectsBeforePersisting(t *testing.T) {
	a := &Appointment{Status: StatusPending}
	err := a.UpdateStatus(nil, StatusCompleted)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StatusPending, a.Status)

	err = a.UpdateStatus(nil, "detailed")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	done := &Appointment{Status: StatusCompleted}
	err = done.UpdateStatus(nil, StatusCompleted)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	gone := &Appointment{Status: StatusCancelled}
	err = gone.UpdateStatus(nil, StatusPending)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestDeliverRejectsFromLateStates(t *testing.T) {
	for _, status := range []AppointmentStatus{StatusInProgress, StatusCompleted, StatusCancelled} {
		a := &Appointment{Status: status}
		err := a.Deliver(nil, a.CreatedAt)
		assert.ErrorIs(t, err, ErrInvalidTransition, "status %s", status)
		assert.Nil(t, a.StartedAt)
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(StatusCompleted))
	assert.True(t, IsTerminal(StatusCancelled))
	assert.False(t, IsTerminal(StatusPending))
	assert.False(t, IsTerminal(StatusConfirmed))
	assert.False(t, IsTerminal(StatusInProgress))
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range []AppointmentStatus{StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled} {
		assert.True(t, IsValidStatus(s))
	}
	assert.False(t, IsValidStatus(""))
	assert.False(t, IsValidStatus("canceled")) // US spelling is not accepted on the wire
	assert.False(t, IsValidStatus("done"))
}

func TestCanCancel(t *testing.T) {
	tests := []struct {
		status AppointmentStatus
		want   bool
	}{
		{StatusPending, true},
		{StatusConfirmed, true},
		{StatusInProgress, false},
		{StatusCompleted, false},
		{StatusCancelled, false},
	}

	for _, tt := range tests {
		a := Appointment{Status: tt.status}
		assert.Equal(t, tt.want, a.CanCancel(), "status %s", tt.status)
	}
}

func TestAddRating(t *testing.T) {
	provider := User{Role: RoleProvider}

	provider.AddRating(4)
	assert.Equal(t, 1, provider.TotalRatings)
	assert.InDelta(t, 4.0, provider.Rating, 0.001)

	provider.AddRating(5)
	assert.Equal(t, 2, provider.TotalRatings)
	assert.InDelta(t, 4.5, provider.Rating, 0.001)

	provider.AddRating(3)
	assert.Equal(t, 3, provider.TotalRatings)
	assert.InDelta(t, 4.0, provider.Rating, 0.001)
}

func TestStringListRoundTrip(t *testing.T) {
	list := StringList{"exterior wash", "interior detail"}

	val, err := list.Value()
	assert.NoError(t, err)

	var decoded StringList
	assert.NoError(t, decoded.Scan(val))
	assert.Equal(t, list, decoded)

	var fromNil StringList
	assert.NoError(t, fromNil.Scan(nil))
	assert.Empty(t, fromNil)
}
