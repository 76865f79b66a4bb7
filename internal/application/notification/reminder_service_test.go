package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/clientele"
	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/identity"
	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/scheduling"
	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/shared"
	"github.com/MAsTer0103-byte/eqb-platform/internal/infrastructure/mail"
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
	return args.Get(0).([]scheduling.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) FindConflicts(ctx context.Context, coworkerID uuid.UUID, roomType scheduling.RoomType, start, end time.Time, excludeID *uuid.UUID) ([]scheduling.Appointment, error) {
	args := m.Called(ctx, coworkerID, roomType, start, end, excludeID)
	return args.Get(0).([]scheduling.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) FindStartingBetween(ctx context.Context, start, end time.Time) ([]scheduling.Appointment, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
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

// =============================================================================
// Helpers
// =============================================================================

func testClient(t *testing.T, email string) *clientele.Client {
	t.Helper()
	client, err := clientele.NewClient("Marta", "Koch", email, "", "")
	require.NoError(t, err)
	return client
}

func upcomingAppointment(clientID uuid.UUID, start time.Time) scheduling.Appointment {
	return scheduling.Appointment{
		BaseEntity:    shared.NewBaseEntity(),
		CoworkerID:    uuid.New(),
		ClientID:      clientID,
		StartTime:     start,
		EndTime:       start.Add(time.Hour),
		DurationHours: decimal.NewFromInt(1),
		Status:        scheduling.StatusScheduled,
		RoomType:      scheduling.RoomMassage,
	}
}

// =============================================================================
// EmailNotifier
// =============================================================================

func TestEmailNotifier_AppointmentBooked(t *testing.T) {
	sender := &mail.RecordingSender{}
	notifier := NewEmailNotifier(sender, zap.NewNop())

	client := testClient(t, "marta@example.com")
	coworker, err := identity.NewCoworker("ben@example.com", "secret1234", "Ben", "Clark", "Massage", decimal.NewFromInt(40))
	require.NoError(t, err)
	appt := upcomingAppointment(client.ID, time.Date(2026, 9, 3, 14, 0, 0, 0, time.UTC))

	notifier.AppointmentBooked(context.Background(), &appt, client, coworker)

	sent := sender.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "marta@example.com", sent[0].To)
	assert.Equal(t, "Appointment confirmed", sent[0].Subject)
	assert.Contains(t, sent[0].Body, "Marta")
	assert.Contains(t, sent[0].Body, "Ben Clark")
	assert.Contains(t, sent[0].Body, "Thursday, 3 September 2026 at 14:00")
}

func TestEmailNotifier_SendFailureIsSwallowed(t *testing.T) {
	notifier := NewEmailNotifier(failingSender{}, zap.NewNop())
	client := testClient(t, "marta@example.com")
	appt := upcomingAppointment(client.ID, time.Now().Add(24*time.Hour))

	// Must not panic or propagate; notifications are best effort.
	notifier.AppointmentCancelled(context.Background(), &appt, client)
	notifier.AppointmentRescheduled(context.Background(), &appt, client)
	notifier.AppointmentReminder(context.Background(), &appt, client)
}

type failingSender struct{}

func (failingSender) Send(string, string, string) error { return errors.New("relay down") }

// =============================================================================
// ReminderService
// =============================================================================

func TestReminderService_SendReminders(t *testing.T) {
	appointments := new(MockAppointmentRepository)
	clients := new(MockClientRepository)
	sender := &mail.RecordingSender{}
	svc := NewReminderService(appointments, clients, NewEmailNotifier(sender, zap.NewNop()), time.Hour, zap.NewNop())

	now := time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)
	clientA := testClient(t, "a@example.com")
	clientB := testClient(t, "b@example.com")
	apptA := upcomingAppointment(clientA.ID, now.Add(24*time.Hour).Add(10*time.Minute))
	apptB := upcomingAppointment(clientB.ID, now.Add(24*time.Hour).Add(40*time.Minute))

	appointments.On("FindStartingBetween", mock.Anything, now.Add(24*time.Hour), now.Add(25*time.Hour)).
		Return([]scheduling.Appointment{apptA, apptB}, nil)
	clients.On("FindByID", mock.Anything, clientA.ID).Return(clientA, nil)
	clients.On("FindByID", mock.Anything, clientB.ID).Return(clientB, nil)

	require.NoError(t, svc.SendReminders(context.Background(), now))

	sent := sender.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, "Appointment reminder", sent[0].Subject)
	assert.ElementsMatch(t, []string{"a@example.com", "b@example.com"}, []string{sent[0].To, sent[1].To})
}

func TestReminderService_ClientLookupFailureSkipsOne(t *testing.T) {
	appointments := new(MockAppointmentRepository)
	clients := new(MockClientRepository)
	sender := &mail.RecordingSender{}
	svc := NewReminderService(appointments, clients, NewEmailNotifier(sender, zap.NewNop()), time.Hour, zap.NewNop())

	now := time.Now()
	clientA := testClient(t, "a@example.com")
	apptA := upcomingAppointment(clientA.ID, now.Add(24*time.Hour))
	orphan := upcomingAppointment(uuid.New(), now.Add(24*time.Hour))

	appointments.On("FindStartingBetween", mock.Anything, mock.Anything, mock.Anything).
		Return([]scheduling.Appointment{orphan, apptA}, nil)
	clients.On("FindByID", mock.Anything, orphan.ClientID).Return(nil, shared.ErrNotFound)
	clients.On("FindByID", mock.Anything, clientA.ID).Return(clientA, nil)

	require.NoError(t, svc.SendReminders(context.Background(), now))

	sent := sender.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "a@example.com", sent[0].To)
}

func TestReminderService_RepositoryErrorPropagates(t *testing.T) {
	appointments := new(MockAppointmentRepository)
	svc := NewReminderService(appointments, new(MockClientRepository), NewEmailNotifier(&mail.RecordingSender{}, zap.NewNop()), time.Hour, zap.NewNop())

	appointments.On("FindStartingBetween", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection reset"))

	err := svc.SendReminders(context.Background(), time.Now())
	assert.Error(t, err)
}

func TestReminderService_Execute_RejectsForeignJobType(t *testing.T) {
	svc := NewReminderService(new(MockAppointmentRepository), new(MockClientRepository), NewEmailNotifier(&mail.RecordingSender{}, zap.NewNop()), time.Hour, zap.NewNop())

	job := scheduler.NewJob(scheduler.JobTypeBacklogDate, time.Now(), 3)
	err := svc.Execute(context.Background(), job)
	assert.ErrorIs(t, err, scheduler.ErrNoExecutor)
}
