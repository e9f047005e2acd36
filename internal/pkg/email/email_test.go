package email

import (
	"errors"
	"net/smtp"
	"testing"

	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, cfg config.SMTPConfig) *emailServiceImpl {
	t.Helper()
	svc, err := NewEmailService(cfg)
	require.NoError(t, err)
	return svc.(*emailServiceImpl)
}

func TestSendNotification_NotConfigured(t *testing.T) {
	svc := newTestService(t, config.SMTPConfig{})

	err := svc.SendNotification([]string{"ops@example.com"}, "Clock in", "hi", nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSendNotification_RendersAndSendsOnce(t *testing.T) {
	svc := newTestService(t, config.SMTPConfig{Host: "smtp.example.com", Port: 25, From: "noreply@example.com", FromName: "Shiftwatch"})

	calls := 0
	var gotAddr string
	var gotMsg []byte
	svc.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		calls++
		gotAddr = addr
		gotMsg = msg
		return nil
	}

	hours := 8.5
	err := svc.SendNotification(
		[]string{"ops@example.com"},
		"Clock out",
		"*Dana* clocked out after 8.50 hours",
		map[string]interface{}{"duration_hours": &hours},
	)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "smtp.example.com:25", gotAddr)
	assert.Contains(t, string(gotMsg), "Subject: Clock out")
	assert.Contains(t, string(gotMsg), "Dana clocked out after 8.50 hours")
	assert.Contains(t, string(gotMsg), "8.5")
}

func TestSendNotification_NoRetry(t *testing.T) {
	svc := newTestService(t, config.SMTPConfig{Host: "smtp.example.com", Port: 25})

	calls := 0
	svc.send = func(string, smtp.Auth, string, []string, []byte) error {
		calls++
		return errors.New("connection refused")
	}

	err := svc.SendNotification([]string{"ops@example.com"}, "s", "t", nil)
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}
