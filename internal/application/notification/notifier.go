// Package notification sends appointment lifecycle emails and runs the
// reminder job for upcoming appointments.
package notification

import (
	"context"
	"fmt"

	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/clientele"
	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/identity"
	"github.com/MAsTer0103-byte/eqb-platform/internal/domain/scheduling"
	appscheduling "github.com/MAsTer0103-byte/eqb-platform/internal/application/scheduling"
	"github.com/MAsTer0103-byte/eqb-platform/internal/infrastructure/mail"
	"go.uber.org/zap"
)

const timeLayout = "Monday, 2 January 2006 at 15:04"

// EmailNotifier sends appointment emails through a mail.Sender. Every send
// error is logged and swallowed; notifications are best effort.
type EmailNotifier struct {
	sender mail.Sender
	logger *zap.Logger
}

// NewEmailNotifier creates a new email notifier
func NewEmailNotifier(sender mail.Sender, logger *zap.Logger) *EmailNotifier {
	return &EmailNotifier{
		sender: sender,
		logger: logger,
	}
}

var _ appscheduling.Notifier = (*EmailNotifier)(nil)

func (n *EmailNotifier) AppointmentBooked(_ context.Context, appt *scheduling.Appointment, client *clientele.Client, coworker *identity.User) {
	subject := "Appointment confirmed"
	body := fmt.Sprintf(
		"Hello %s,\n\nYour appointment with %s is confirmed for %s.\nRoom: %s\nDuration: %s hours\n\nSee you soon!",
		client.FirstName,
		coworker.FullName(),
		appt.StartTime.Format(timeLayout),
		appt.RoomType,
		appt.DurationHours.String(),
	)
	n.send(client.Email, subject, body, appt.ID.String())
}

func (n *EmailNotifier) AppointmentCancelled(_ context.Context, appt *scheduling.Appointment, client *clientele.Client) {
	subject := "Appointment cancelled"
	body := fmt.Sprintf(
		"Hello %s,\n\nYour appointment on %s has been cancelled.\n\nPlease contact us to book a new time.",
		client.FirstName,
		appt.StartTime.Format(timeLayout),
	)
	n.send(client.Email, subject, body, appt.ID.String())
}

func (n *EmailNotifier) AppointmentRescheduled(_ context.Context, appt *scheduling.Appointment, client *clientele.Client) {
	subject := "Appointment rescheduled"
	body := fmt.Sprintf(
		"Hello %s,\n\nYour appointment has been moved to %s.\n\nIf this does not suit you, please contact us.",
		client.FirstName,
		appt.StartTime.Format(timeLayout),
	)
	n.send(client.Email, subject, body, appt.ID.String())
}

// AppointmentReminder notifies a client about an upcoming appointment
func (n *EmailNotifier) AppointmentReminder(_ context.Context, appt *scheduling.Appointment, client *clientele.Client) {
	subject := "Appointment reminder"
	body := fmt.Sprintf(
		"Hello %s,\n\nThis is a reminder of your appointment on %s.\nRoom: %s\n\nSee you soon!",
		client.FirstName,
		appt.StartTime.Format(timeLayout),
		appt.RoomType,
	)
	n.send(client.Email, subject, body, appt.ID.String())
}

func (n *EmailNotifier) send(to, subject, body, appointmentID string) {
	if err := n.sender.Send(to, subject, body); err != nil {
		n.logger.Warn("Failed to send notification email",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.String("appointment_id", appointmentID),
			zap.Error(err))
		return
	}
	n.logger.Debug("Sent notification email",
		zap.String("to", to),
		zap.String("subject", subject))
}
