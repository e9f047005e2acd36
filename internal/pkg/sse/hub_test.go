package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesOnlyTarget(t *testing.T) {
	h := NewHub()
	a, cleanupA := h.Subscribe("emp-a")
	defer cleanupA()
	_, cleanupB := h.Subscribe("emp-b")
	defer cleanupB()

	n := h.Publish("emp-a", Event{Name: "shift_status_changed", Data: "x"})
	assert.Equal(t, 1, n)

	ev := <-a
	assert.Equal(t, "emp-a", ev.EmployeeID)
	assert.Equal(t, "shift_status_changed", ev.Name)
	assert.Equal(t, 0, h.Publish("emp-c", Event{}))
}

func TestHub_FullStreamIsSkipped(t *testing.T) {
	h := NewHub()
	_, cleanup := h.Subscribe("emp-a")
	defer cleanup()

	for i := 0; i < subscriberBuffer; i++ {
		require.Equal(t, 1, h.Publish("emp-a", Event{}))
	}
	assert.Equal(t, 0, h.Publish("emp-a", Event{}))
}

func TestHub_CleanupAndShutdown(t *testing.T) {
	h := NewHub()
	ch, cleanup := h.Subscribe("emp-a")
	assert.Equal(t, 1, h.SubscriberCount("emp-a"))

	cleanup()
	cleanup()
	assert.Equal(t, 0, h.SubscriberCount("emp-a"))
	_, open := <-ch
	assert.False(t, open)

	ch2, cleanup2 := h.Subscribe("emp-b")
	h.Shutdown()
	_, open = <-ch2
	assert.False(t, open)
	cleanup2()

	late, _ := h.Subscribe("emp-c")
	_, open = <-late
	assert.False(t, open)
}
