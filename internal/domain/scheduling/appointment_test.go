package scheduling

import (
	"testing"
	"time"

	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func futureWindow(startIn, length time.Duration) (time.Time, time.Time) {
	start := time.Now().Add(startIn)
	return start, start.Add(length)
}

func TestNewAppointment_Valid(t *testing.T) {
	start, end := futureWindow(48*time.Hour, 90*time.Minute)

	appt, err := NewAppointment(uuid.New(), uuid.New(), start, end, RoomMassage, "deep tissue")
	require.NoError(t, err)

	assert.Equal(t, StatusScheduled, appt.Status)
	assert.Equal(t, RoomMassage, appt.RoomType)
	assert.Equal(t, "deep tissue", appt.Notes)
	assert.NotEqual(t, uuid.Nil, appt.ID)
	assert.True(t, appt.DurationHours.Equal(decimal.NewFromFloat(1.5)),
		"90 minutes is 1.5 hours, got %s", appt.DurationHours)
}

func TestNewAppointment_DurationRounding(t *testing.T) {
	start, end := futureWindow(24*time.Hour, 50*time.Minute)

	appt, err := NewAppointment(uuid.New(), uuid.New(), start, end, RoomTreatment, "")
	require.NoError(t, err)

	// 50/60 rounds to 0.83 at two decimal places.
	assert.True(t, appt.DurationHours.Equal(decimal.NewFromFloat(0.83)),
		"got %s", appt.DurationHours)
}

func TestNewAppointment_EndBeforeStart(t *testing.T) {
	start := time.Now().Add(24 * time.Hour)

	_, err := NewAppointment(uuid.New(), uuid.New(), start, start.Add(-time.Hour), RoomMassage, "")
	require.Error(t, err)
	assertDomainCode(t, err, "INVALID_TIME_WINDOW")

	_, err = NewAppointment(uuid.New(), uuid.New(), start, start, RoomMassage, "")
	require.Error(t, err)
	assertDomainCode(t, err, "INVALID_TIME_WINDOW")
}

func TestNewAppointment_InThePast(t *testing.T) {
	start := time.Now().Add(-2 * time.Hour)

	_, err := NewAppointment(uuid.New(), uuid.New(), start, start.Add(time.Hour), RoomMassage, "")
	require.Error(t, err)
	assertDomainCode(t, err, "INVALID_TIME_WINDOW")
}

func TestNewAppointment_TooFarAhead(t *testing.T) {
	start, end := futureWindow(31*24*time.Hour, time.Hour)

	_, err := NewAppointment(uuid.New(), uuid.New(), start, end, RoomMassage, "")
	require.Error(t, err)
	assertDomainCode(t, err, "TOO_FAR_AHEAD")
}

func TestNewAppointment_InvalidRoomType(t *testing.T) {
	start, end := futureWindow(24*time.Hour, time.Hour)

	_, err := NewAppointment(uuid.New(), uuid.New(), start, end, RoomType("SAUNA"), "")
	require.Error(t, err)
	assertDomainCode(t, err, "INVALID_ROOM_TYPE")
}

func TestAppointment_Complete(t *testing.T) {
	appt := scheduledAppointment(t, 24*time.Hour)

	require.NoError(t, appt.Complete())
	assert.Equal(t, StatusCompleted, appt.Status)
	assert.True(t, appt.IsTerminal())

	// Terminal states reject further transitions.
	assert.ErrorIs(t, appt.Complete(), shared.ErrInvalidState)
	assert.ErrorIs(t, appt.Cancel(time.Now()), shared.ErrInvalidState)
	assert.ErrorIs(t, appt.Reschedule(time.Now().Add(time.Hour), time.Now().Add(2*time.Hour)), shared.ErrInvalidState)
}

func TestAppointment_Cancel_WithEnoughNotice(t *testing.T) {
	appt := scheduledAppointment(t, 48*time.Hour)

	require.NoError(t, appt.Cancel(time.Now()))
	assert.Equal(t, StatusCancelled, appt.Status)
	assert.True(t, appt.IsTerminal())
}

func TestAppointment_Cancel_TooLate(t *testing.T) {
	appt := scheduledAppointment(t, 48*time.Hour)

	// 11 hours of notice is under the 12 hour minimum.
	now := appt.StartTime.Add(-11 * time.Hour)
	err := appt.Cancel(now)
	require.Error(t, err)
	assertDomainCode(t, err, "CANCELLATION_TOO_LATE")
	assert.Equal(t, StatusScheduled, appt.Status)
}

func TestAppointment_Reschedule(t *testing.T) {
	appt := scheduledAppointment(t, 24*time.Hour)

	newStart := time.Now().Add(72 * time.Hour)
	newEnd := newStart.Add(2 * time.Hour)
	require.NoError(t, appt.Reschedule(newStart, newEnd))

	assert.Equal(t, StatusModified, appt.Status)
	assert.Equal(t, newStart, appt.StartTime)
	assert.Equal(t, newEnd, appt.EndTime)
	assert.True(t, appt.DurationHours.Equal(decimal.NewFromInt(2)))

	// A modified appointment can still complete.
	require.NoError(t, appt.Complete())
}

func TestAppointment_Reschedule_TooFarAhead(t *testing.T) {
	appt := scheduledAppointment(t, 24*time.Hour)

	newStart := time.Now().Add(45 * 24 * time.Hour)
	err := appt.Reschedule(newStart, newStart.Add(time.Hour))
	require.Error(t, err)
	assertDomainCode(t, err, "TOO_FAR_AHEAD")
}

func TestAppointment_Overlaps(t *testing.T) {
	appt := scheduledAppointment(t, 24*time.Hour)
	start, end := appt.StartTime, appt.EndTime

	assert.True(t, appt.Overlaps(start.Add(-time.Hour), start.Add(30*time.Minute)), "overlap at the front")
	assert.True(t, appt.Overlaps(end.Add(-30*time.Minute), end.Add(time.Hour)), "overlap at the back")
	assert.True(t, appt.Overlaps(start.Add(-time.Hour), end.Add(time.Hour)), "fully covering")
	assert.True(t, appt.Overlaps(start.Add(10*time.Minute), end.Add(-10*time.Minute)), "fully contained")

	assert.False(t, appt.Overlaps(end, end.Add(time.Hour)), "back to back windows do not overlap")
	assert.False(t, appt.Overlaps(start.Add(-2*time.Hour), start), "adjacent before does not overlap")
	assert.False(t, appt.Overlaps(end.Add(time.Hour), end.Add(2*time.Hour)))
}

func scheduledAppointment(t *testing.T, startIn time.Duration) *Appointment {
	t.Helper()
	start, end := futureWindow(startIn, time.Hour)
	appt, err := NewAppointment(uuid.New(), uuid.New(), start, end, RoomMassage, "")
	require.NoError(t, err)
	return appt
}

func assertDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
}
