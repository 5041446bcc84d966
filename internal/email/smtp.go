package email

import (
	"context"
	"fmt"
	"strings"

	"saarthi_backend/platform/config"
	"saarthi_backend/platform/logger"

	gomail "github.com/wneessen/go-mail"
)

// ConsultationConfirmation is the data of a booking confirmation mail.
type ConsultationConfirmation struct {
	CitizenName      string
	ConsultationDate string
	ConsultationTime string
	ConsultationType string
	QueryCategory    string
}

// LeadAlert is the data of a high-priority inquiry alert.
type LeadAlert struct {
	CitizenName    string
	Phone          string
	SchemeInterest string
	LeadScore      int
	ICPMatchScore  int
}

// Sender sends the application's transactional mail.
type Sender interface {
	SendConsultationConfirmation(ctx context.Context, toEmail string, data ConsultationConfirmation) error
	SendHighPriorityAlert(ctx context.Context, toEmail string, data LeadAlert) error
	// SendCustomEmail sends a plain-text body and returns the attempt that
	// delivered it.
	SendCustomEmail(ctx context.Context, toEmail, subject, body string) (int, error)
}

// NoopSender discards all mail.
type NoopSender struct{}

func (NoopSender) SendConsultationConfirmation(context.Context, string, ConsultationConfirmation) error {
	return nil
}

func (NoopSender) SendHighPriorityAlert(context.Context, string, LeadAlert) error {
	return nil
}

func (NoopSender) SendCustomEmail(context.Context, string, string, string) (int, error) {
	return 0, nil
}

// SMTPSender renders the HTML templates and delivers them over SMTP via go-mail.
type SMTPSender struct {
	fromName  string
	fromEmail string
	delivery  *RetryingSender
}

// NewSender returns an SMTP sender, or a NoopSender when email is disabled.
func NewSender(cfg config.SMTPConfig, log *logger.Logger) Sender {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}
	}

	factory := SMTPClientFactory(cfg.GetSMTPHost(), cfg.GetSMTPPort(), cfg.GetSMTPUsername(), cfg.GetSMTPPassword())
	cache := NewTransportCache(factory, cfg.GetSMTPTransportMaxAge())
	return NewSMTPSender(cfg.GetEmailFromName(), cfg.GetEmailFromAddress(), NewRetryingSender(cache, cfg.GetSMTPMaxAttempts(), log))
}

// NewSMTPSender creates an SMTPSender over an existing delivery pipeline.
func NewSMTPSender(fromName, fromEmail string, delivery *RetryingSender) *SMTPSender {
	return &SMTPSender{fromName: fromName, fromEmail: fromEmail, delivery: delivery}
}

func (s *SMTPSender) SendConsultationConfirmation(ctx context.Context, toEmail string, data ConsultationConfirmation) error {
	content, err := renderEmailTemplate("consultation_confirmation.html", consultationEmailData{
		baseEmailData: baseEmailData{
			Title:   "Consultation booked",
			Heading: "Your consultation is booked",
		},
		ConsultationConfirmation: data,
	})
	if err != nil {
		return err
	}
	_, err = s.send(ctx, toEmail, fmt.Sprintf(subjectConsultationFmt, data.ConsultationDate), content, "")
	return err
}

func (s *SMTPSender) SendHighPriorityAlert(ctx context.Context, toEmail string, data LeadAlert) error {
	content, err := renderEmailTemplate("lead_alert.html", leadAlertEmailData{
		baseEmailData: baseEmailData{
			Title:   "High priority inquiry",
			Heading: "A new high priority inquiry needs a call",
		},
		LeadAlert: data,
	})
	if err != nil {
		return err
	}
	_, err = s.send(ctx, toEmail, fmt.Sprintf(subjectLeadAlertFmt, data.CitizenName, data.LeadScore), content, "")
	return err
}

func (s *SMTPSender) SendCustomEmail(ctx context.Context, toEmail, subject, body string) (int, error) {
	content, err := renderEmailTemplate("custom.html", customEmailData{
		baseEmailData: baseEmailData{Title: subject},
		Lines:         strings.Split(body, "\n"),
	})
	if err != nil {
		return 0, err
	}
	return s.send(ctx, toEmail, subject, content, body)
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent, textContent string) (int, error) {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return 0, fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return 0, fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)
	if textContent != "" {
		msg.AddAlternativeString(gomail.TypeTextPlain, textContent)
	}

	return s.delivery.Deliver(ctx, msg)
}
