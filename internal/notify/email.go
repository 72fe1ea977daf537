package notify

import (
	"fmt"
	"net/smtp"
	"strings"

	"dues-tracker-go/internal/models"

	"go.uber.org/zap"
)

// Sender delivers best-effort notification email. Send reports success;
// a false return is logged by callers and never fails the calling flow.
type Sender interface {
	Send(to, subject, htmlBody string) bool
}

// Compile-time check: *EmailSender must satisfy Sender.
var _ Sender = (*EmailSender)(nil)

// EmailSender sends mail over SMTP with STARTTLS. When credentials are not
// configured it is a no-op that reports success, so registration flows keep
// working in environments without mail.
type EmailSender struct {
	cfg models.SmtpConfig
}

func NewEmailSender(cfg models.SmtpConfig) *EmailSender {
	return &EmailSender{cfg: cfg}
}

func (s *EmailSender) Send(to, subject, htmlBody string) bool {
	if s.cfg.Username == "" || s.cfg.Password == "" || to == "" {
		return true
	}

	from := s.cfg.From
	if from == "" {
		from = s.cfg.Username
	}

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: Customer Due Tracker <%s>\r\n", from))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	if err := smtp.SendMail(addr, auth, from, []string{to}, []byte(msg.String())); err != nil {
		zap.L().Warn("Failed to send email",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err))
		return false
	}

	zap.L().Info("Email sent", zap.String("to", to), zap.String("subject", subject))
	return true
}

// CredentialsBody renders the account-created mail for a new customer.
func CredentialsBody(name, username, password string) string {
	return fmt.Sprintf(
		"<p>Hello %s,</p>"+
			"<p>Your account has been created.</p>"+
			"<p><b>Username:</b> %s<br><b>Password:</b> %s</p>",
		name, username, password)
}
