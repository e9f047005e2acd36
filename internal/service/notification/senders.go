package notification

import (
	"context"
	"net/url"
	"strings"

	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/pkg/webhook"
)

// SlackSender posts to a Slack incoming webhook.
type SlackSender struct {
	url    string
	client *webhook.Client
}

func NewSlackSender(webhookURL string, client *webhook.Client) *SlackSender {
	return &SlackSender{url: webhookURL, client: client}
}

func (s *SlackSender) Kind() notification.DestinationKind { return notification.DestinationSlack }

func (s *SlackSender) Send(ctx context.Context, msg notification.Message) (notification.Delivery, error) {
	code, err := s.client.PostJSON(ctx, s.url, map[string]string{"text": msg.Text})
	return notification.Delivery{Target: redact(s.url), StatusCode: code}, err
}

// WebhookSender posts the full message to a generic endpoint, signed when a
// secret is configured.
type WebhookSender struct {
	url    string
	client *webhook.Client
}

func NewWebhookSender(endpoint string, client *webhook.Client) *WebhookSender {
	return &WebhookSender{url: endpoint, client: client}
}

func (s *WebhookSender) Kind() notification.DestinationKind { return notification.DestinationWebhook }

func (s *WebhookSender) Send(ctx context.Context, msg notification.Message) (notification.Delivery, error) {
	code, err := s.client.PostJSON(ctx, s.url, payloadOf(msg))
	return notification.Delivery{Target: s.url, StatusCode: code}, err
}

// EmailSender mails the message to a fixed recipient list.
type EmailSender struct {
	mailer email.EmailService
	to     []string
}

func NewEmailSender(mailer email.EmailService, to []string) *EmailSender {
	return &EmailSender{mailer: mailer, to: to}
}

func (s *EmailSender) Kind() notification.DestinationKind { return notification.DestinationEmail }

func (s *EmailSender) Send(ctx context.Context, msg notification.Message) (notification.Delivery, error) {
	delivery := notification.Delivery{Target: strings.Join(s.to, ",")}
	if err := ctx.Err(); err != nil {
		return delivery, err
	}
	return delivery, s.mailer.SendNotification(s.to, msg.Subject, msg.Text, msg.Data)
}

// redact keeps the host of a secret-bearing URL for the delivery log.
func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "slack"
	}
	return u.Scheme + "://" + u.Host
}
