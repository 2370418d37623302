package notifications

import (
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/you/accountsvc/domain"
)

// SMTPServiceImpl implements domain.NotificationService over plain SMTP
type SMTPServiceImpl struct {
	addr   string
	auth   smtp.Auth
	from   string
	logger *slog.Logger
}

// NewSMTPService creates a new SMTP notification service
func NewSMTPService(host string, port int, username, password, from string, logger *slog.Logger) domain.NotificationService {
	svc := &SMTPServiceImpl{
		from:   from,
		logger: logger,
	}
	if host != "" {
		svc.addr = fmt.Sprintf("%s:%d", host, port)
		if username != "" {
			svc.auth = smtp.PlainAuth("", username, password, host)
		}
	}
	return svc
}

// Send implements domain.NotificationService. When no SMTP host is
// configured the message is logged instead of sent, so local setups work
// without a mail relay.
func (s *SMTPServiceImpl) Send(recipient, subject, textBody, htmlBody string, priority domain.NotificationPriority) error {
	if s.addr == "" {
		s.logger.Info("mock email",
			slog.String("to", recipient),
			slog.String("subject", subject),
			slog.String("body", textBody),
		)
		return nil
	}

	msg := s.buildMessage(recipient, subject, textBody, htmlBody, priority)
	if err := smtp.SendMail(s.addr, s.auth, s.from, []string{recipient}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// buildMessage assembles a multipart/alternative MIME message with both
// text and HTML parts and an X-Priority header.
func (s *SMTPServiceImpl) buildMessage(recipient, subject, textBody, htmlBody string, priority domain.NotificationPriority) []byte {
	const boundary = "accountsvc-boundary"

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.from)
	fmt.Fprintf(&b, "To: %s\r\n", recipient)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	fmt.Fprintf(&b, "X-Priority: %s\r\n", priorityHeader(priority))
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(textBody)
	b.WriteString("\r\n")

	if htmlBody != "" {
		fmt.Fprintf(&b, "--%s\r\n", boundary)
		b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
		b.WriteString(htmlBody)
		b.WriteString("\r\n")
	}

	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return []byte(b.String())
}

func priorityHeader(p domain.NotificationPriority) string {
	switch p {
	case domain.PriorityHigh:
		return "1 (Highest)"
	case domain.PriorityLow:
		return "5 (Lowest)"
	default:
		return "3 (Normal)"
	}
}
