package ticket

import (
	"context"
	"fmt"

	"go-placement/internal/features/email"
	"go-placement/internal/features/notification"
	"go-placement/pkg/apperrors"

	"go.uber.org/zap"
)

// NotifyEvent names a ticket event worth telling the submitter about.
type NotifyEvent string

const (
	NotifyEventCreated  NotifyEvent = "created"
	NotifyEventAssigned NotifyEvent = "assigned"
	NotifyEventClosed   NotifyEvent = "closed"
)

// resolutionWindow is the textual SLA quoted to the submitter on creation.
const resolutionWindow = "3-4 hours"

// TicketNotifier fans a ticket event out to email and the in-app
// notification feed. Both channels are best-effort: failures are logged and
// never propagated to the caller's primary operation.
type TicketNotifier interface {
	Notify(ctx context.Context, event NotifyEvent, t *Ticket)
}

type TicketNotifierImpl struct {
	emails        email.EmailService
	notifications notification.NotificationService
	logger        *zap.Logger
}

func NewTicketNotifier(
	emails email.EmailService,
	notifications notification.NotificationService,
	logger *zap.Logger,
) TicketNotifier {
	return &TicketNotifierImpl{
		emails:        emails,
		notifications: notifications,
		logger:        logger,
	}
}

func (n *TicketNotifierImpl) Notify(ctx context.Context, event NotifyEvent, t *Ticket) {
	title, body, notifType := composeMessage(event, t)

	// One channel failing must not stop the other.
	if t.UserEmail != "" {
		if err := n.emails.SendEmail(ctx, []string{t.UserEmail}, title, body, "ticket", t.TicketID); err != nil {
			n.logger.Warn("ticket email delivery failed",
				zap.String("ticketId", t.TicketID),
				zap.String("event", string(event)),
				zap.Error(apperrors.NewDelivery("email", err)))
		}
	}

	inApp := &notification.Notification{
		RecipientID:   t.UserID,
		RecipientRole: t.UserType,
		Title:         title,
		Message:       body,
		Category:      "support",
		Type:          notifType,
		Priority:      string(t.Priority),
		ActionURL:     fmt.Sprintf("/support/tickets/%s", t.TicketID),
		ActionText:    "View ticket",
	}
	if err := n.notifications.CreateNotification(ctx, inApp); err != nil {
		n.logger.Warn("in-app notification delivery failed",
			zap.String("ticketId", t.TicketID),
			zap.String("event", string(event)),
			zap.Error(apperrors.NewDelivery("in-app", err)))
	}
}

func composeMessage(event NotifyEvent, t *Ticket) (title, body string, notifType notification.NotificationType) {
	switch event {
	case NotifyEventCreated:
		title = fmt.Sprintf("Support ticket %s created", t.TicketID)
		body = fmt.Sprintf(
			"Your ticket %q has been registered as %s. Your secret code is %s; keep it to close the ticket. Expected resolution window: %s.",
			t.Subject, t.TicketID, t.SecretCode, resolutionWindow)
		if t.SalesPerson != "" {
			body += fmt.Sprintf(" %s will be handling your request.", t.SalesPerson)
		}
		return title, body, notification.NotificationTypeInfo

	case NotifyEventAssigned:
		title = fmt.Sprintf("Ticket %s assigned", t.TicketID)
		body = fmt.Sprintf("Your ticket %s is now being handled by %s.", t.TicketID, t.SalesPerson)
		return title, body, notification.NotificationTypeInfo

	case NotifyEventClosed:
		title = fmt.Sprintf("Ticket %s resolved", t.TicketID)
		body = fmt.Sprintf("Your ticket %s has been resolved. Thank you for reaching out.", t.TicketID)
		return title, body, notification.NotificationTypeSuccess
	}

	title = fmt.Sprintf("Update on ticket %s", t.TicketID)
	return title, title, notification.NotificationTypeInfo
}
