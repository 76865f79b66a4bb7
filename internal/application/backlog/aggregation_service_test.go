package backlog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/backlog"
	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/scheduling"
	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/shared"
	"github.com/MAsTer0103-byte/eqb-platform/internal/infrastructure/scheduler"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockAppointmentRepository is a mock implementation of scheduling.AppointmentRepository
type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*scheduling.Appointment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*scheduling.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[scheduling.Appointment], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Paginated[scheduling.Appointment]), args.Error(1)
}

func (m *MockAppointmentRepository) FindCompletedInWindow(ctx context.Context, start, end time.Time) ([]scheduling.Appointment, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]scheduling.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) FindConflicts(ctx context.Context, coworkerID uuid.UUID, roomType scheduling.RoomType, start, end time.Time, excludeID *uuid.UUID) ([]scheduling.Appointment, error) {
	args := m.Called(ctx, coworkerID, roomType, start, end, excludeID)
	return args.Get(0).([]scheduling.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) FindStartingBetween(ctx context.Context, start, end time.Time) ([]scheduling.Appointment, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).([]scheduling.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) FindByClient(ctx context.Context, clientID uuid.UUID) ([]scheduling.Appointment, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).([]scheduling.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) Save(ctx context.Context, appointment *scheduling.Appointment) error {
	args := m.Called(ctx, appointment)
	return args.Error(0)
}

func (m *MockAppointmentRepository) CountByStatus(ctx context.Context, status scheduling.AppointmentStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

// MockEntryRepository is a mock implementation of backlog.EntryRepository
type MockEntryRepository struct {
	mock.Mock
}

func (m *MockEntryRepository) FindByCoworkerAndDate(ctx context.Context, coworkerID uuid.UUID, date time.Time) (*backlog.Entry, error) {
	args := m.Called(ctx, coworkerID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*backlog.Entry), args.Error(1)
}

func (m *MockEntryRepository) FindInRange(ctx context.Context, start, end time.Time, coworkerID *uuid.UUID) ([]backlog.Entry, error) {
	args := m.Called(ctx, start, end, coworkerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]backlog.Entry), args.Error(1)
}

func (m *MockEntryRepository) Save(ctx context.Context, entry *backlog.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockEntryRepository) SaveBatch(ctx context.Context, entries []*backlog.Entry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

// MockRecapRepository is a mock implementation of backlog.RecapRepository
type MockRecapRepository struct {
	mock.Mock
}

func (m *MockRecapRepository) FindByMonth(ctx context.Context, year int, month time.Month) (*backlog.MonthlyRecap, error) {
	args := m.Called(ctx, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*backlog.MonthlyRecap), args.Error(1)
}

func (m *MockRecapRepository) FindAll(ctx context.Context) ([]backlog.MonthlyRecap, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]backlog.MonthlyRecap), args.Error(1)
}

func (m *MockRecapRepository) Save(ctx context.Context, recap *backlog.MonthlyRecap) error {
	args := m.Called(ctx, recap)
	return args.Error(0)
}

// =============================================================================
// Helpers
// =============================================================================

func completedAppointment(coworkerID uuid.UUID, start time.Time, hours float64) scheduling.Appointment {
	return scheduling.Appointment{
		BaseEntity:    shared.NewBaseEntity(),
		CoworkerID:    coworkerID,
		ClientID:      uuid.New(),
		StartTime:     start,
		EndTime:       start.Add(time.Duration(hours * float64(time.Hour))),
		DurationHours: decimal.NewFromFloat(hours),
		Status:        scheduling.StatusCompleted,
		RoomType:      scheduling.RoomMassage,
	}
}

// =============================================================================
// ProcessDate
// =============================================================================

func TestAggregationService_ProcessDate_GroupsByCoworker(t *testing.T) {
	appointments := new(MockAppointmentRepository)
	entries := new(MockEntryRepository)
	recaps := new(MockRecapRepository)
	svc := NewAggregationService(appointments, entries, recaps, 1500, zap.NewNop())

	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	alice := uuid.New()
	bob := uuid.New()

	appointments.On("FindCompletedInWindow", mock.Anything, mock.Anything, mock.Anything).Return([]scheduling.Appointment{
		completedAppointment(alice, date.Add(9*time.Hour), 2),
		completedAppointment(alice, date.Add(14*time.Hour), 3),
		completedAppointment(bob, date.Add(10*time.Hour), 1.5),
	}, nil)

	var saved []*backlog.Entry
	entries.On("SaveBatch", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(1).([]*backlog.Entry)
	}).Return(nil)
	entries.On("FindInRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]backlog.Entry{}, nil)
	recaps.On("Save", mock.Anything, mock.Anything).Return(nil)

	summary, err := svc.ProcessDate(context.Background(), date)
	require.NoError(t, err)

	require.NotNil(t, summary)
	assert.Equal(t, backlog.StartOfDay(date), summary.Date)
	assert.Equal(t, 2, summary.CoworkersProcessed)
	assert.Equal(t, 3, summary.TotalAppointments)
	assert.True(t, summary.TotalHours.Equal(decimal.NewFromFloat(6.5)), "got %s", summary.TotalHours)

	require.Len(t, saved, 2)
	byCoworker := make(map[uuid.UUID]*backlog.Entry)
	for _, e := range saved {
		byCoworker[e.CoworkerID] = e
	}
	require.Contains(t, byCoworker, alice)
	require.Contains(t, byCoworker, bob)
	assert.True(t, byCoworker[alice].HoursWorked.Equal(decimal.NewFromInt(5)),
		"expected 5 hours, got %s", byCoworker[alice].HoursWorked)
	assert.Equal(t, 2, byCoworker[alice].AppointmentsCompleted)
	assert.True(t, byCoworker[bob].HoursWorked.Equal(decimal.NewFromFloat(1.5)))
	assert.Equal(t, 1, byCoworker[bob].AppointmentsCompleted)

	for _, e := range saved {
		assert.Equal(t, backlog.StartOfDay(date), e.Date)
	}
	recaps.AssertCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAggregationService_ProcessDate_RerunOverwritesWithFreshTotals(t *testing.T) {
	appointments := new(MockAppointmentRepository)
	entries := new(MockEntryRepository)
	recaps := new(MockRecapRepository)
	svc := NewAggregationService(appointments, entries, recaps, 1500, zap.NewNop())

	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	coworker := uuid.New()

	firstRun := []scheduling.Appointment{
		completedAppointment(coworker, date.Add(9*time.Hour), 2),
		completedAppointment(coworker, date.Add(13*time.Hour), 3),
	}
	rerun := []scheduling.Appointment{
		firstRun[0],
		firstRun[1],
		completedAppointment(coworker, date.Add(16*time.Hour), 1),
	}

	appointments.On("FindCompletedInWindow", mock.Anything, mock.Anything, mock.Anything).Return(firstRun, nil).Once()
	appointments.On("FindCompletedInWindow", mock.Anything, mock.Anything, mock.Anything).Return(rerun, nil).Once()

	var batches [][]*backlog.Entry
	entries.On("SaveBatch", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		batches = append(batches, args.Get(1).([]*backlog.Entry))
	}).Return(nil)
	entries.On("FindInRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]backlog.Entry{}, nil)
	recaps.On("Save", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.ProcessDate(context.Background(), date)
	require.NoError(t, err)
	summary, err := svc.ProcessDate(context.Background(), date)
	require.NoError(t, err)

	require.Len(t, batches, 2)
	require.Len(t, batches[0], 1)
	assert.True(t, batches[0][0].HoursWorked.Equal(decimal.NewFromInt(5)), "got %s", batches[0][0].HoursWorked)
	assert.Equal(t, 2, batches[0][0].AppointmentsCompleted)

	// The re-run recomputes from scratch: one entry at 6h/3, never 11h/5.
	require.Len(t, batches[1], 1)
	assert.True(t, batches[1][0].HoursWorked.Equal(decimal.NewFromInt(6)), "got %s", batches[1][0].HoursWorked)
	assert.Equal(t, 3, batches[1][0].AppointmentsCompleted)
	assert.True(t, summary.TotalHours.Equal(decimal.NewFromInt(6)))
	assert.Equal(t, 3, summary.TotalAppointments)
}

func TestAggregationService_ProcessDate_EmptyDayStillRefreshesMonth(t *testing.T) {
	appointments := new(MockAppointmentRepository)
	entries := new(MockEntryRepository)
	recaps := new(MockRecapRepository)
	svc := NewAggregationService(appointments, entries, recaps, 1500, zap.NewNop())

	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	appointments.On("FindCompletedInWindow", mock.Anything, mock.Anything, mock.Anything).Return([]scheduling.Appointment{}, nil)
	entries.On("FindInRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]backlog.Entry{}, nil)

	var savedRecap *backlog.MonthlyRecap
	recaps.On("Save", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		savedRecap = args.Get(1).(*backlog.MonthlyRecap)
	}).Return(nil)

	summary, err := svc.ProcessDate(context.Background(), date)
	require.NoError(t, err)

	require.NotNil(t, summary)
	assert.Equal(t, 0, summary.CoworkersProcessed)
	assert.True(t, summary.TotalHours.IsZero())

	// No entries to write, but the recap is still recomputed.
	entries.AssertNotCalled(t, "SaveBatch", mock.Anything, mock.Anything)
	require.NotNil(t, savedRecap)
	assert.Equal(t, 2026, savedRecap.Year)
	assert.Equal(t, 3, savedRecap.Month)
	assert.True(t, savedRecap.TotalHours.IsZero())
	assert.Equal(t, 0, savedRecap.TotalAppointments)
}

func TestAggregationService_ProcessDate_RepositoryErrorPropagates(t *testing.T) {
	appointments := new(MockAppointmentRepository)
	entries := new(MockEntryRepository)
	recaps := new(MockRecapRepository)
	svc := NewAggregationService(appointments, entries, recaps, 1500, zap.NewNop())

	appointments.On("FindCompletedInWindow", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection reset"))

	_, err := svc.ProcessDate(context.Background(), time.Now())
	require.Error(t, err)
	entries.AssertNotCalled(t, "SaveBatch", mock.Anything, mock.Anything)
	recaps.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// =============================================================================
// RefreshMonth
// =============================================================================

func TestAggregationService_RefreshMonth_SumsEntries(t *testing.T) {
	appointments := new(MockAppointmentRepository)
	entries := new(MockEntryRepository)
	recaps := new(MockRecapRepository)
	svc := NewAggregationService(appointments, entries, recaps, 1500, zap.NewNop())

	coworker := uuid.New()
	monthEntries := []backlog.Entry{
		*backlog.NewEntry(coworker, time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC), decimal.NewFromFloat(6.5), 4),
		*backlog.NewEntry(coworker, time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC), decimal.NewFromFloat(8), 5),
	}
	entries.On("FindInRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(monthEntries, nil)

	var savedRecap *backlog.MonthlyRecap
	recaps.On("Save", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		savedRecap = args.Get(1).(*backlog.MonthlyRecap)
	}).Return(nil)

	err := svc.RefreshMonth(context.Background(), time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.NotNil(t, savedRecap)
	assert.Equal(t, 2026, savedRecap.Year)
	assert.Equal(t, 5, savedRecap.Month)
	assert.True(t, savedRecap.TotalHours.Equal(decimal.NewFromFloat(14.5)))
	assert.Equal(t, 9, savedRecap.TotalAppointments)
}

func TestAggregationService_RefreshMonth_OverCapacityIsNotFatal(t *testing.T) {
	appointments := new(MockAppointmentRepository)
	entries := new(MockEntryRepository)
	recaps := new(MockRecapRepository)
	svc := NewAggregationService(appointments, entries, recaps, 10, zap.NewNop())

	entries.On("FindInRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]backlog.Entry{
		*backlog.NewEntry(uuid.New(), time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC), decimal.NewFromInt(25), 12),
	}, nil)
	recaps.On("Save", mock.Anything, mock.Anything).Return(nil)

	err := svc.RefreshMonth(context.Background(), time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
}

// =============================================================================
// Executor wiring
// =============================================================================

func TestAggregationService_Execute_RejectsForeignJobType(t *testing.T) {
	svc := NewAggregationService(new(MockAppointmentRepository), new(MockEntryRepository), new(MockRecapRepository), 1500, zap.NewNop())

	job := scheduler.NewJob(scheduler.JobTypeAppointmentReminders, time.Now(), 3)
	err := svc.Execute(context.Background(), job)
	assert.ErrorIs(t, err, scheduler.ErrNoExecutor)
}
