package scheduling

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/clientele"
	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/identity"
	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/scheduling"
	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/shared"
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
	return args.Get(0).([]scheduling.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) FindConflicts(ctx context.Context, coworkerID uuid.UUID, roomType scheduling.RoomType, start, end time.Time, excludeID *uuid.UUID) ([]scheduling.Appointment, error) {
	args := m.Called(ctx, coworkerID, roomType, start, end, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
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

// MockClientRepository is a mock implementation of clientele.ClientRepository
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*clientele.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clientele.Client), args.Error(1)
}

func (m *MockClientRepository) FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[clientele.Client], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Paginated[clientele.Client]), args.Error(1)
}

func (m *MockClientRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockClientRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	args := m.Called(ctx, phone)
	return args.Bool(0), args.Error(1)
}

func (m *MockClientRepository) Save(ctx context.Context, client *clientele.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) Count(ctx context.Context, status clientele.ClientStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockClientRepository) FindLinks(ctx context.Context, clientID uuid.UUID) ([]clientele.CoworkerLink, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).([]clientele.CoworkerLink), args.Error(1)
}

func (m *MockClientRepository) FindLink(ctx context.Context, clientID, coworkerID uuid.UUID) (*clientele.CoworkerLink, error) {
	args := m.Called(ctx, clientID, coworkerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clientele.CoworkerLink), args.Error(1)
}

func (m *MockClientRepository) SaveLink(ctx context.Context, link *clientele.CoworkerLink) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *MockClientRepository) DeleteLink(ctx context.Context, clientID, coworkerID uuid.UUID) error {
	args := m.Called(ctx, clientID, coworkerID)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) (shared.Paginated[identity.User], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Paginated[identity.User]), args.Error(1)
}

func (m *MockUserRepository) FindCoworkers(ctx context.Context, activeOnly bool) ([]identity.User, error) {
	args := m.Called(ctx, activeOnly)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context, role identity.Role) (int64, error) {
	args := m.Called(ctx, role)
	return args.Get(0).(int64), args.Error(1)
}

// recordingNotifier counts notifications instead of sending them
type recordingNotifier struct {
	mu          sync.Mutex
	booked      int
	cancelled   int
	rescheduled int
}

func (n *recordingNotifier) AppointmentBooked(context.Context, *scheduling.Appointment, *clientele.Client, *identity.User) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.booked++
}

func (n *recordingNotifier) AppointmentCancelled(context.Context, *scheduling.Appointment, *clientele.Client) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancelled++
}

func (n *recordingNotifier) AppointmentRescheduled(context.Context, *scheduling.Appointment, *clientele.Client) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.rescheduled++
}

// =============================================================================
// Helpers
// =============================================================================

type bookingFixture struct {
	appointments *MockAppointmentRepository
	clients      *MockClientRepository
	users        *MockUserRepository
	notifier     *recordingNotifier
	service      *AppointmentService
	client       *clientele.Client
	coworker     *identity.User
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()

	client, err := clientele.NewClient("Marta", "Koch", "marta@example.com", "", "")
	require.NoError(t, err)
	coworker, err := identity.NewCoworker("ben@example.com", "secret1234", "Ben", "Clark", "Massage", decimal.NewFromInt(40))
	require.NoError(t, err)

	f := &bookingFixture{
		appointments: new(MockAppointmentRepository),
		clients:      new(MockClientRepository),
		users:        new(MockUserRepository),
		notifier:     &recordingNotifier{},
		client:       client,
		coworker:     coworker,
	}
	f.service = NewAppointmentService(f.appointments, f.clients, f.users, f.notifier, zap.NewNop())
	return f
}

func (f *bookingFixture) bookInput() BookInput {
	start := time.Now().Add(48 * time.Hour)
	return BookInput{
		CoworkerID: f.coworker.ID,
		ClientID:   f.client.ID,
		StartTime:  start,
		EndTime:    start.Add(time.Hour),
		RoomType:   scheduling.RoomMassage,
	}
}

// =============================================================================
// Book
// =============================================================================

func TestAppointmentService_Book_Success(t *testing.T) {
	f := newBookingFixture(t)

	f.clients.On("FindByID", mock.Anything, f.client.ID).Return(f.client, nil)
	f.users.On("FindByID", mock.Anything, f.coworker.ID).Return(f.coworker, nil)
	f.appointments.On("FindConflicts", mock.Anything, f.coworker.ID, scheduling.RoomMassage, mock.Anything, mock.Anything, (*uuid.UUID)(nil)).
		Return([]scheduling.Appointment{}, nil)
	f.appointments.On("Save", mock.Anything, mock.Anything).Return(nil)

	dto, err := f.service.Book(context.Background(), f.bookInput())
	require.NoError(t, err)

	assert.Equal(t, string(scheduling.StatusScheduled), dto.Status)
	assert.Equal(t, f.coworker.ID, dto.CoworkerID)
	assert.True(t, dto.DurationHours.Equal(decimal.NewFromInt(1)))
	assert.Equal(t, 1, f.notifier.booked)
}

func TestAppointmentService_Book_ConflictRejected(t *testing.T) {
	f := newBookingFixture(t)

	existing, err := scheduling.NewAppointment(f.coworker.ID, uuid.New(),
		time.Now().Add(48*time.Hour), time.Now().Add(49*time.Hour), scheduling.RoomMassage, "")
	require.NoError(t, err)

	f.clients.On("FindByID", mock.Anything, f.client.ID).Return(f.client, nil)
	f.users.On("FindByID", mock.Anything, f.coworker.ID).Return(f.coworker, nil)
	f.appointments.On("FindConflicts", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]scheduling.Appointment{*existing}, nil)

	_, err = f.service.Book(context.Background(), f.bookInput())
	assert.ErrorIs(t, err, shared.ErrScheduleConflict)
	f.appointments.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	assert.Equal(t, 0, f.notifier.booked)
}

func TestAppointmentService_Book_InactiveClient(t *testing.T) {
	f := newBookingFixture(t)
	require.NoError(t, f.client.Deactivate())

	f.clients.On("FindByID", mock.Anything, f.client.ID).Return(f.client, nil)

	_, err := f.service.Book(context.Background(), f.bookInput())
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CLIENT_INACTIVE", domainErr.Code)
}

func TestAppointmentService_Book_AdminIsNotBookable(t *testing.T) {
	f := newBookingFixture(t)
	admin, err := identity.NewUser("admin@example.com", "secret1234", "Ada", "Root", identity.RoleAdmin)
	require.NoError(t, err)

	f.clients.On("FindByID", mock.Anything, f.client.ID).Return(f.client, nil)
	f.users.On("FindByID", mock.Anything, admin.ID).Return(admin, nil)

	input := f.bookInput()
	input.CoworkerID = admin.ID
	_, err = f.service.Book(context.Background(), input)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_A_COWORKER", domainErr.Code)
}

func TestAppointmentService_Book_InactiveCoworker(t *testing.T) {
	f := newBookingFixture(t)
	f.coworker.Deactivate()

	f.clients.On("FindByID", mock.Anything, f.client.ID).Return(f.client, nil)
	f.users.On("FindByID", mock.Anything, f.coworker.ID).Return(f.coworker, nil)

	_, err := f.service.Book(context.Background(), f.bookInput())
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "COWORKER_INACTIVE", domainErr.Code)
}

// =============================================================================
// Lifecycle transitions
// =============================================================================

func TestAppointmentService_Complete(t *testing.T) {
	f := newBookingFixture(t)
	appt, err := scheduling.NewAppointment(f.coworker.ID, f.client.ID,
		time.Now().Add(24*time.Hour), time.Now().Add(25*time.Hour), scheduling.RoomMassage, "")
	require.NoError(t, err)

	f.appointments.On("FindByID", mock.Anything, appt.ID).Return(appt, nil)
	f.appointments.On("Save", mock.Anything, appt).Return(nil)

	dto, err := f.service.Complete(context.Background(), appt.ID)
	require.NoError(t, err)
	assert.Equal(t, string(scheduling.StatusCompleted), dto.Status)
}

func TestAppointmentService_Complete_AlreadyTerminal(t *testing.T) {
	f := newBookingFixture(t)
	appt, err := scheduling.NewAppointment(f.coworker.ID, f.client.ID,
		time.Now().Add(24*time.Hour), time.Now().Add(25*time.Hour), scheduling.RoomMassage, "")
	require.NoError(t, err)
	require.NoError(t, appt.Complete())

	f.appointments.On("FindByID", mock.Anything, appt.ID).Return(appt, nil)

	_, err = f.service.Complete(context.Background(), appt.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	f.appointments.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAppointmentService_Cancel_NotifiesClient(t *testing.T) {
	f := newBookingFixture(t)
	appt, err := scheduling.NewAppointment(f.coworker.ID, f.client.ID,
		time.Now().Add(48*time.Hour), time.Now().Add(49*time.Hour), scheduling.RoomMassage, "")
	require.NoError(t, err)

	f.appointments.On("FindByID", mock.Anything, appt.ID).Return(appt, nil)
	f.appointments.On("Save", mock.Anything, appt).Return(nil)
	f.clients.On("FindByID", mock.Anything, f.client.ID).Return(f.client, nil)

	dto, err := f.service.Cancel(context.Background(), appt.ID)
	require.NoError(t, err)
	assert.Equal(t, string(scheduling.StatusCancelled), dto.Status)
	assert.Equal(t, 1, f.notifier.cancelled)
}

func TestAppointmentService_Cancel_TooLate(t *testing.T) {
	f := newBookingFixture(t)
	// Starts in 2 hours, under the 12 hour notice requirement.
	appt, err := scheduling.NewAppointment(f.coworker.ID, f.client.ID,
		time.Now().Add(2*time.Hour), time.Now().Add(3*time.Hour), scheduling.RoomMassage, "")
	require.NoError(t, err)

	f.appointments.On("FindByID", mock.Anything, appt.ID).Return(appt, nil)

	_, err = f.service.Cancel(context.Background(), appt.ID)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CANCELLATION_TOO_LATE", domainErr.Code)
	assert.Equal(t, 0, f.notifier.cancelled)
}

func TestAppointmentService_Reschedule(t *testing.T) {
	f := newBookingFixture(t)
	appt, err := scheduling.NewAppointment(f.coworker.ID, f.client.ID,
		time.Now().Add(24*time.Hour), time.Now().Add(25*time.Hour), scheduling.RoomMassage, "")
	require.NoError(t, err)

	newStart := time.Now().Add(72 * time.Hour)
	f.appointments.On("FindByID", mock.Anything, appt.ID).Return(appt, nil)
	f.appointments.On("FindConflicts", mock.Anything, appt.CoworkerID, appt.RoomType, newStart, mock.Anything, &appt.ID).
		Return([]scheduling.Appointment{}, nil)
	f.appointments.On("Save", mock.Anything, appt).Return(nil)
	f.clients.On("FindByID", mock.Anything, f.client.ID).Return(f.client, nil)

	dto, err := f.service.Reschedule(context.Background(), RescheduleInput{
		ID:        appt.ID,
		StartTime: newStart,
		EndTime:   newStart.Add(90 * time.Minute),
	})
	require.NoError(t, err)
	assert.Equal(t, string(scheduling.StatusModified), dto.Status)
	assert.True(t, dto.DurationHours.Equal(decimal.NewFromFloat(1.5)))
	assert.Equal(t, 1, f.notifier.rescheduled)
}

func TestAppointmentService_Reschedule_Conflict(t *testing.T) {
	f := newBookingFixture(t)
	appt, err := scheduling.NewAppointment(f.coworker.ID, f.client.ID,
		time.Now().Add(24*time.Hour), time.Now().Add(25*time.Hour), scheduling.RoomMassage, "")
	require.NoError(t, err)

	f.appointments.On("FindByID", mock.Anything, appt.ID).Return(appt, nil)
	f.appointments.On("FindConflicts", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]scheduling.Appointment{*appt}, nil)

	newStart := time.Now().Add(72 * time.Hour)
	_, err = f.service.Reschedule(context.Background(), RescheduleInput{
		ID:        appt.ID,
		StartTime: newStart,
		EndTime:   newStart.Add(time.Hour),
	})
	assert.ErrorIs(t, err, shared.ErrScheduleConflict)
	assert.Equal(t, string(scheduling.StatusScheduled), string(appt.Status), "conflict leaves the appointment untouched")
}
