package ticket

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go-placement/internal/features/notification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeEmailService struct {
	fail     bool
	subjects []string
	bodies   []string
	to       [][]string
}

func (f *fakeEmailService) SendEmail(ctx context.Context, to []string, subject, body, entityType, entityID string) error {
	if f.fail {
		return errors.New("smtp connect refused")
	}
	f.to = append(f.to, to)
	f.subjects = append(f.subjects, subject)
	f.bodies = append(f.bodies, body)
	return nil
}

type fakeNotificationService struct {
	fail    bool
	created []*notification.Notification
}

func (f *fakeNotificationService) CreateNotification(ctx context.Context, n *notification.Notification) error {
	if f.fail {
		return errors.New("mongo write failed")
	}
	f.created = append(f.created, n)
	return nil
}

func (f *fakeNotificationService) GetUserNotifications(ctx context.Context, recipientID string, page, limit int64) ([]notification.Notification, int64, error) {
	return nil, 0, nil
}

func (f *fakeNotificationService) GetUnreadCount(ctx context.Context, recipientID string) (int64, error) {
	return 0, nil
}

func (f *fakeNotificationService) MarkAsRead(ctx context.Context, id string, recipientID string) error {
	return nil
}

func (f *fakeNotificationService) MarkAllAsRead(ctx context.Context, recipientID string) error {
	return nil
}

func sampleTicket() *Ticket {
	return &Ticket{
		TicketID:    "TKT-1693300000000-AB12CD",
		UserID:      "u-100",
		UserName:    "Asha Verma",
		UserEmail:   "asha@example.com",
		Subject:     "Placement drive query",
		SecretCode:  "4821",
		SalesPerson: "Meera Nair",
		Status:      TicketStatusOpen,
	}
}

func TestNotifyCreatedSendsBothChannels(t *testing.T) {
	emails := &fakeEmailService{}
	inApp := &fakeNotificationService{}
	n := NewTicketNotifier(emails, inApp, zap.NewNop())

	n.Notify(context.Background(), NotifyEventCreated, sampleTicket())

	require.Len(t, emails.to, 1)
	assert.Equal(t, []string{"asha@example.com"}, emails.to[0])
	assert.Contains(t, emails.bodies[0], "TKT-1693300000000-AB12CD")
	assert.Contains(t, emails.bodies[0], "4821")
	assert.Contains(t, emails.bodies[0], resolutionWindow)

	require.Len(t, inApp.created, 1)
	assert.Equal(t, "u-100", inApp.created[0].RecipientID)
	assert.True(t, strings.Contains(inApp.created[0].Message, "TKT-1693300000000-AB12CD"))
}

func TestNotifyEmailFailureDoesNotBlockInApp(t *testing.T) {
	emails := &fakeEmailService{fail: true}
	inApp := &fakeNotificationService{}
	n := NewTicketNotifier(emails, inApp, zap.NewNop())

	n.Notify(context.Background(), NotifyEventCreated, sampleTicket())

	require.Len(t, inApp.created, 1)
}

func TestNotifyInAppFailureDoesNotBlockEmail(t *testing.T) {
	emails := &fakeEmailService{}
	inApp := &fakeNotificationService{fail: true}
	n := NewTicketNotifier(emails, inApp, zap.NewNop())

	n.Notify(context.Background(), NotifyEventCreated, sampleTicket())

	require.Len(t, emails.to, 1)
}

func TestNotifySkipsEmailWithoutAddress(t *testing.T) {
	emails := &fakeEmailService{}
	inApp := &fakeNotificationService{}
	n := NewTicketNotifier(emails, inApp, zap.NewNop())

	tk := sampleTicket()
	tk.UserEmail = ""
	n.Notify(context.Background(), NotifyEventCreated, tk)

	assert.Empty(t, emails.to)
	require.Len(t, inApp.created, 1)
}
