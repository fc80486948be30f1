package email

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"

	"go-placement/internal/config"

	"go.uber.org/zap"
)

// EmailService sends outbound mail through the configured SMTP transport.
type EmailService interface {
	SendEmail(ctx context.Context, to []string, subject, body string, entityType, entityID string) error
}

type EmailServiceImpl struct {
	cfg    *config.Config
	repo   *EmailRepository
	logger *zap.Logger
}

func NewEmailService(cfg *config.Config, repo *EmailRepository, logger *zap.Logger) EmailService {
	return &EmailServiceImpl{
		cfg:    cfg,
		repo:   repo,
		logger: logger,
	}
}

func (s *EmailServiceImpl) SendEmail(ctx context.Context, to []string, subject, body string, entityType, entityID string) error {
	if s.cfg.SMTPHost == "" || s.cfg.SMTPPort == 0 {
		return errors.New("invalid email configuration: missing host or port")
	}
	if len(to) == 0 {
		return errors.New("no recipients")
	}

	auth := smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPassword, s.cfg.SMTPHost)

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	from := s.cfg.SMTPFrom
	if from == "" {
		from = s.cfg.SMTPUser
	}

	emailRecord := &Email{
		From:       from,
		To:         to,
		Subject:    subject,
		Body:       body,
		Status:     EmailQueued,
		EntityType: entityType,
		EntityID:   entityID,
	}

	if s.repo != nil {
		_ = s.repo.Create(ctx, emailRecord)
	}

	msg := []byte(fmt.Sprintf("To: %s\r\n"+
		"Subject: %s\r\n"+
		"\r\n"+
		"%s\r\n", to[0], subject, body))

	// smtp.SendMail is blocking; callers treat failures as non-fatal
	err := smtp.SendMail(addr, auth, from, to, msg)

	status := EmailSent
	errMsg := ""
	if err != nil {
		status = EmailFailed
		errMsg = err.Error()
	}

	if s.repo != nil {
		_ = s.repo.UpdateStatus(ctx, emailRecord.ID, status, errMsg)
	}

	if err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}

	s.logger.Info("email sent", zap.Strings("to", to), zap.String("subject", subject))
	return nil
}
