package notification

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/pkg/webhook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLogRepo struct {
	mu   sync.Mutex
	logs []notification.DeliveryLog
}

func (r *fakeLogRepo) Create(_ context.Context, l notification.DeliveryLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, l)
	return nil
}

func (r *fakeLogRepo) List(context.Context, notification.DeliveryLogFilter) ([]notification.DeliveryLog, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.logs, int64(len(r.logs)), nil
}

func (r *fakeLogRepo) byDestination(kind notification.DestinationKind) []notification.DeliveryLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []notification.DeliveryLog
	for _, l := range r.logs {
		if l.Destination == kind {
			out = append(out, l)
		}
	}
	return out
}

type blockingSender struct {
	started chan struct{}
	release chan struct{}
	mu      sync.Mutex
	sent    int
}

func (s *blockingSender) Kind() notification.DestinationKind { return notification.DestinationWebhook }

func (s *blockingSender) Send(ctx context.Context, msg notification.Message) (notification.Delivery, error) {
	s.mu.Lock()
	s.sent++
	first := s.sent == 1
	s.mu.Unlock()
	if first {
		close(s.started)
	}
	<-s.release
	return notification.Delivery{Target: "test"}, nil
}

func testMessage() notification.Message {
	return notification.Message{
		Event:       notification.EventShiftStatusChanged,
		Subject:     "Shift status changed",
		Text:        "Shift status changed for *Dana*: `Scheduled` → `In_Progress`",
		RecipientID: "emp-1",
		Data:        map[string]interface{}{"shift_id": "shift-1"},
	}
}

func TestDispatcher_FansOutToEveryDestination(t *testing.T) {
	var (
		mu        sync.Mutex
		slackBody string
		hookBody  []byte
		hookSig   string
	)
	slackSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		slackBody = string(b)
		mu.Unlock()
	}))
	defer slackSrv.Close()
	hookSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		hookBody = b
		hookSig = r.Header.Get(webhook.SignatureHeader)
		mu.Unlock()
		w.WriteHeader(http.StatusAccepted)
	}))
	defer hookSrv.Close()

	signer := webhook.NewSigner("secret")
	client := webhook.NewClient(time.Second, signer)
	registry, err := notification.NewRegistry(map[string][]string{
		"shift_status_changed": {"slack", "webhook"},
	})
	require.NoError(t, err)

	logs := &fakeLogRepo{}
	d := NewDispatcher(registry, []notification.Sender{
		NewSlackSender(slackSrv.URL, client),
		NewWebhookSender(hookSrv.URL, client),
	}, logs, nil, Config{Workers: 1})

	d.Dispatch(context.Background(), testMessage())
	d.Close()

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, slackBody, "Shift status changed for *Dana*")
	assert.Contains(t, string(hookBody), `"event":"shift_status_changed"`)
	assert.Equal(t, signer.Sign(hookBody), hookSig)

	slackLogs := logs.byDestination(notification.DestinationSlack)
	require.Len(t, slackLogs, 1)
	assert.True(t, slackLogs[0].Success)

	hookLogs := logs.byDestination(notification.DestinationWebhook)
	require.Len(t, hookLogs, 1)
	assert.True(t, hookLogs[0].Success)
	require.NotNil(t, hookLogs[0].StatusCode)
	assert.Equal(t, http.StatusAccepted, *hookLogs[0].StatusCode)
}

func TestDispatcher_FailureIsLoggedNotRetried(t *testing.T) {
	var mu sync.Mutex
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits++
		mu.Unlock()
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	registry, _ := notification.NewRegistry(map[string][]string{"shift_status_changed": {"webhook"}})
	logs := &fakeLogRepo{}
	d := NewDispatcher(registry, []notification.Sender{
		NewWebhookSender(srv.URL, webhook.NewClient(time.Second, nil)),
	}, logs, nil, Config{Workers: 1})

	d.Dispatch(context.Background(), testMessage())
	d.Close()

	assert.Equal(t, 1, hits)
	entries := logs.byDestination(notification.DestinationWebhook)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Success)
	require.NotNil(t, entries[0].Error)
	require.NotNil(t, entries[0].StatusCode)
	assert.Equal(t, http.StatusInternalServerError, *entries[0].StatusCode)
}

func TestDispatcher_UnconfiguredDestination(t *testing.T) {
	registry, _ := notification.NewRegistry(map[string][]string{"shift_status_changed": {"email"}})
	logs := &fakeLogRepo{}
	d := NewDispatcher(registry, nil, logs, nil, Config{Workers: 1})

	d.Dispatch(context.Background(), testMessage())
	d.Close()

	entries := logs.byDestination(notification.DestinationEmail)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Success)
	assert.Equal(t, notification.ErrDestinationNotEnabled.Error(), *entries[0].Error)
}

func TestDispatcher_DropsWhenQueueFull(t *testing.T) {
	sender := &blockingSender{started: make(chan struct{}), release: make(chan struct{})}
	registry, _ := notification.NewRegistry(map[string][]string{"shift_status_changed": {"webhook"}})
	d := NewDispatcher(registry, []notification.Sender{sender}, nil, nil, Config{Workers: 1, QueueSize: 1})

	d.Dispatch(context.Background(), testMessage())
	<-sender.started

	d.Dispatch(context.Background(), testMessage()) // queued
	d.Dispatch(context.Background(), testMessage()) // dropped

	close(sender.release)
	d.Close()

	assert.Equal(t, 2, sender.sent)
}

func TestDispatcher_SurvivesCancelledRequest(t *testing.T) {
	srvHit := make(chan struct{}, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srvHit <- struct{}{}
	}))
	defer srv.Close()

	registry, _ := notification.NewRegistry(map[string][]string{"shift_status_changed": {"webhook"}})
	logs := &fakeLogRepo{}
	d := NewDispatcher(registry, []notification.Sender{
		NewWebhookSender(srv.URL, webhook.NewClient(time.Second, nil)),
	}, logs, nil, Config{Workers: 1})

	ctx, cancel := context.WithCancel(context.Background())
	d.Dispatch(ctx, testMessage())
	cancel()
	d.Close()

	select {
	case <-srvHit:
	default:
		t.Fatal("delivery was cancelled with the request")
	}
	entries := logs.byDestination(notification.DestinationWebhook)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Success)
}

func TestDispatcher_PushesToRecipientStream(t *testing.T) {
	hub := sse.NewHub()
	stream, cleanup := hub.Subscribe("emp-1")
	defer cleanup()

	d := NewDispatcher(notification.Registry{}, nil, nil, hub, Config{})
	d.Dispatch(context.Background(), testMessage())
	d.Close()

	ev := <-stream
	assert.Equal(t, string(notification.EventShiftStatusChanged), ev.Name)
	msg, ok := ev.Data.(notification.Message)
	require.True(t, ok)
	assert.NotEmpty(t, msg.ID)
}

func TestDispatcher_DispatchAfterClose(t *testing.T) {
	registry, _ := notification.NewRegistry(map[string][]string{"shift_status_changed": {"webhook"}})
	d := NewDispatcher(registry, nil, nil, nil, Config{})
	d.Close()
	d.Close()

	assert.NotPanics(t, func() { d.Dispatch(context.Background(), testMessage()) })
}

func TestEmailSender_CancelledContext(t *testing.T) {
	s := NewEmailSender(nil, []string{"ops@example.com"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d, err := s.Send(ctx, testMessage())
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, "ops@example.com", d.Target)
}
