package shift

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, minute int) time.Time {
	return time.Date(2025, 3, 10, hour, minute, 0, 0, time.UTC)
}

func TestStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusScheduled, StatusInProgress, true},
		{StatusScheduled, StatusCancelled, true},
		{StatusScheduled, StatusMissed, true},
		{StatusScheduled, StatusNoShow, true},
		{StatusScheduled, StatusCompleted, false},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusCancelled, false},
		{StatusCompleted, StatusInProgress, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusScheduled, false},
		{StatusMissed, StatusInProgress, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.from.CanTransitionTo(c.to), "%s -> %s", c.from, c.to)
	}
}

func TestSpan_OvernightWraps(t *testing.T) {
	assert.Equal(t, 8*time.Hour, Span(NewTimeOfDay(22, 0), NewTimeOfDay(6, 0)))
	assert.Equal(t, 8*time.Hour, Span(NewTimeOfDay(9, 0), NewTimeOfDay(17, 0)))
	assert.Equal(t, 30*time.Minute, Span(NewTimeOfDay(23, 45), NewTimeOfDay(0, 15)))
}

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("22:30")
	require.NoError(t, err)
	assert.Equal(t, NewTimeOfDay(22, 30), tod)
	assert.Equal(t, "22:30", tod.String())

	tod, err = ParseTimeOfDay("06:15:00")
	require.NoError(t, err)
	assert.Equal(t, "06:15", tod.String())

	_, err = ParseTimeOfDay("25:00")
	assert.Error(t, err)
}

func TestShift_Start_SetsInProgress(t *testing.T) {
	s := Shift{Status: StatusScheduled}
	require.NoError(t, s.Start(at(9, 0)))

	assert.Equal(t, StatusInProgress, s.Status)
	require.NotNil(t, s.PreviousStatus)
	assert.Equal(t, StatusScheduled, *s.PreviousStatus)
	assert.Equal(t, at(9, 0), *s.ActualStart)
	assert.Equal(t, at(9, 0), s.UpdatedAt)
}

func TestShift_Start_FromCompletedFails(t *testing.T) {
	s := Shift{Status: StatusCompleted}
	err := s.Start(at(9, 0))

	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StatusCompleted, s.Status)
}

func TestShift_End_TooShort(t *testing.T) {
	start := at(9, 0)
	s := Shift{Status: StatusInProgress, ActualStart: &start}

	err := s.End(at(15, 30), 8, time.UTC)

	var tooShort *DurationTooShortError
	require.True(t, errors.As(err, &tooShort))
	assert.ErrorIs(t, err, ErrDurationTooShort)
	assert.Equal(t, 1.5, tooShort.HoursRemaining)
	assert.Equal(t, StatusInProgress, s.Status)
	assert.Nil(t, s.ActualEnd)
}

func TestShift_End_AfterMinimum(t *testing.T) {
	start := at(9, 0)
	s := Shift{Status: StatusInProgress, ActualStart: &start}

	require.NoError(t, s.End(at(17, 5), 8, time.UTC))
	assert.Equal(t, StatusCompleted, s.Status)
	assert.Equal(t, at(17, 5), *s.ActualEnd)
}

func TestShift_End_OvernightWithoutActualStart(t *testing.T) {
	s := Shift{Status: StatusInProgress, StartTime: NewTimeOfDay(22, 0), EndTime: NewTimeOfDay(6, 0)}
	now := time.Date(2025, 3, 11, 6, 30, 0, 0, time.UTC)

	require.NoError(t, s.End(now, 8, time.UTC))
	assert.Equal(t, StatusCompleted, s.Status)
}

func TestShift_End_NotInProgress(t *testing.T) {
	s := Shift{Status: StatusScheduled}
	err := s.End(at(17, 0), 8, time.UTC)

	var invalid *InvalidTransitionError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, StatusScheduled, invalid.From)
	assert.Equal(t, StatusCompleted, invalid.To)
}

func TestShift_Cancel(t *testing.T) {
	s := Shift{Status: StatusScheduled}
	require.NoError(t, s.Cancel(at(8, 0)))
	assert.Equal(t, StatusCancelled, s.Status)

	for _, status := range []Status{StatusInProgress, StatusCompleted, StatusCancelled} {
		s := Shift{Status: status}
		assert.ErrorIs(t, s.Cancel(at(8, 0)), ErrInvalidTransition, "cancel from %s", status)
	}
}

func TestShift_TimerMessage(t *testing.T) {
	start, end := at(9, 0), at(17, 0)
	done := Shift{ActualStart: &start, ActualEnd: &end}
	assert.Equal(t, "Good work, shift done for today", done.TimerMessage(at(18, 0), 8))

	early := at(12, 0)
	short := Shift{ActualStart: &start, ActualEnd: &early}
	assert.Equal(t, "Shift not yet completed, continue working", short.TimerMessage(at(18, 0), 8))

	running := Shift{ActualStart: &start}
	assert.Equal(t, "Shift in progress (2.50 hours so far)", running.TimerMessage(at(11, 30), 8))

	assert.Equal(t, "Shift not started", Shift{}.TimerMessage(at(8, 0), 8))
}

func TestRoundHours(t *testing.T) {
	assert.Equal(t, 8.5, RoundHours(8*time.Hour+30*time.Minute))
	assert.Equal(t, 0.33, RoundHours(20*time.Minute))
}
