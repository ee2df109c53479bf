package email

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strconv"

	"github.com/rs/zerolog"
)

// Mailer sends outbound email. The notifier uses it to deliver group
// notices; nothing in the request path waits on it.
type Mailer interface {
	Send(to []string, subject, htmlBody string) error
}

// SMTPConfig holds configuration for the SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	UseTLS    bool
}

// SMTPMailer implements Mailer over a plain SMTP connection
type SMTPMailer struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewSMTPMailer creates a new SMTPMailer
func NewSMTPMailer(config SMTPConfig, logger zerolog.Logger) *SMTPMailer {
	return &SMTPMailer{
		config: config,
		logger: logger,
	}
}

// Send delivers one HTML email to the given recipients
func (m *SMTPMailer) Send(to []string, subject, htmlBody string) error {
	if len(to) == 0 {
		return nil
	}

	// Without credentials just log the mail so development setups work
	if m.config.Username == "" || m.config.Password == "" {
		m.logger.Warn().
			Strs("to", to).
			Str("subject", subject).
			Msg("SMTP credentials not configured - email not sent")
		return nil
	}

	headers := map[string]string{
		"From":         fmt.Sprintf("%s <%s>", m.config.FromName, m.config.FromEmail),
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=UTF-8",
	}

	message := ""
	for key, value := range headers {
		message += fmt.Sprintf("%s: %s\r\n", key, value)
	}
	message += "\r\n" + htmlBody

	auth := smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	serverAddress := m.config.Host + ":" + strconv.Itoa(m.config.Port)

	if !m.config.UseTLS {
		if err := smtp.SendMail(serverAddress, auth, m.config.FromEmail, to, []byte(message)); err != nil {
			m.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to send email")
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	}

	tlsConfig := &tls.Config{ServerName: m.config.Host}
	conn, err := tls.Dial("tcp", serverAddress, tlsConfig)
	if err != nil {
		m.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to connect to SMTP server")
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, m.config.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Quit()

	if err = client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err = client.Mail(m.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	for _, recipient := range to {
		if err = client.Rcpt(recipient); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", recipient, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write([]byte(message)); err != nil {
		return fmt.Errorf("failed to write email message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return nil
}

// GroupNoticeBody renders the HTML body for a group notification
func GroupNoticeBody(message string) string {
	return fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Update from your group</h2>
				<p>%s</p>
				<p>Log in to Edusiastic to see the details.</p>
				<p>Best regards,<br>The Edusiastic Team</p>
			</div>
		</body>
		</html>
	`, message)
}
