package email

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"sort"
	"strings"

	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

var ErrNotConfigured = errors.New("smtp is not configured")

// EmailService sends notification mail. Delivery is attempted once.
type EmailService interface {
	SendNotification(to []string, subject string, text string, fields map[string]interface{}) error
}

type emailServiceImpl struct {
	cfg       config.SMTPConfig
	templates *template.Template
	send      func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewEmailService creates a new email service instance
func NewEmailService(cfg config.SMTPConfig) (EmailService, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &emailServiceImpl{
		cfg:       cfg,
		templates: tmpl,
		send:      smtp.SendMail,
	}, nil
}

type field struct {
	Name  string
	Value string
}

type notificationEmailData struct {
	Subject string
	Text    string
	Fields  []field
}

// SendNotification renders the notification template and mails it to every
// recipient in one message.
func (s *emailServiceImpl) SendNotification(to []string, subject string, text string, fields map[string]interface{}) error {
	if len(to) == 0 {
		return fmt.Errorf("no recipients")
	}

	data := notificationEmailData{
		Subject: subject,
		// slack style emphasis reads badly in mail
		Text: strings.NewReplacer("*", "", "`", "").Replace(text),
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		data.Fields = append(data.Fields, field{Name: k, Value: fmt.Sprint(deref(fields[k]))})
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "notification.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sendHTML(to, subject, body.String())
}

func (s *emailServiceImpl) sendHTML(to []string, subject, htmlBody string) error {
	if s.cfg.Host == "" {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return ErrNotConfigured
	}

	from := s.cfg.From

	headers := fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, from)
	headers += fmt.Sprintf("To: %s\r\n", strings.Join(to, ", "))
	headers += fmt.Sprintf("Subject: %s\r\n", subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	message := []byte(headers + htmlBody)

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	if err := s.send(addr, auth, from, to, message); err != nil {
		slog.Error("Failed to send email", "to", to, "subject", subject, "error", err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	slog.Info("Email sent successfully", "to", to, "subject", subject)
	return nil
}

// deref prints pointer fields by value.
func deref(v interface{}) interface{} {
	switch p := v.(type) {
	case *string:
		if p == nil {
			return "-"
		}
		return *p
	case *float64:
		if p == nil {
			return "-"
		}
		return *p
	}
	return v
}
