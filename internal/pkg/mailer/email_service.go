// FILE: internal/pkg/mailer/email_service.go
package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendAdminAlert(toEmail, subject, htmlMessage string) error
	SendSyncFailureAlert(toEmail, provider, userRef, reason string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
	}
}

func (s *emailService) send(toEmail, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send %q to %s: %v\n", subject, toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] %q sent to %s\n", subject, toEmail)
	return nil
}

// SendAdminAlert wraps an arbitrary back-office alert in the standard
// template.
func (s *emailService) SendAdminAlert(toEmail, subject, htmlMessage string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>%s</h2>
			%s
		</div>
	`, subject, htmlMessage)
	return s.send(toEmail, subject, body)
}

func (s *emailService) SendSyncFailureAlert(toEmail, provider, userRef, reason string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Provider Sync Failed</h2>
			<p>Provider <b>%s</b> failed while syncing access for <b>%s</b>.</p>
			<p>Reason: %s</p>
			<p>The ledger change was kept. Re-run the sync from the back office.</p>
		</div>
	`, provider, userRef, reason)
	return s.send(toEmail, "Provider sync failed", body)
}
