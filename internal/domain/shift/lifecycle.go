package shift

import (
	"fmt"
	"math"
	"time"
)

var transitions = map[Status][]Status{
	StatusScheduled:  {StatusInProgress, StatusCancelled, StatusMissed, StatusNoShow},
	StatusInProgress: {StatusCompleted},
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s *Shift) transition(next Status, at time.Time) error {
	if !s.Status.CanTransitionTo(next) {
		return &InvalidTransitionError{From: s.Status, To: next}
	}
	prev := s.Status
	s.PreviousStatus = &prev
	s.Status = next
	s.UpdatedAt = at
	return nil
}

// Start moves a scheduled shift into progress.
func (s *Shift) Start(at time.Time) error {
	if err := s.transition(StatusInProgress, at); err != nil {
		return err
	}
	s.ActualStart = &at
	return nil
}

// Complete closes an in-progress shift without the minimum-duration check.
// Clocking out uses this path.
func (s *Shift) Complete(at time.Time) error {
	if err := s.transition(StatusCompleted, at); err != nil {
		return err
	}
	s.ActualEnd = &at
	return nil
}

// End closes an in-progress shift once at least minHours have elapsed. On
// failure the shift is left untouched.
func (s *Shift) End(at time.Time, minHours float64, loc *time.Location) error {
	if s.Status != StatusInProgress {
		return &InvalidTransitionError{From: s.Status, To: StatusCompleted}
	}

	elapsed := s.Elapsed(at, loc)
	minimum := time.Duration(minHours * float64(time.Hour))
	if elapsed < minimum {
		return &DurationTooShortError{
			MinHours:       minHours,
			HoursRemaining: RoundHours(minimum - elapsed),
		}
	}
	return s.Complete(at)
}

func (s *Shift) Cancel(at time.Time) error {
	return s.transition(StatusCancelled, at)
}

func (s *Shift) MarkMissed(at time.Time) error {
	return s.transition(StatusMissed, at)
}

func (s *Shift) MarkNoShow(at time.Time) error {
	return s.transition(StatusNoShow, at)
}

// ScheduledDuration is the planned length, wrapping overnight shifts.
func (s Shift) ScheduledDuration() time.Duration {
	return Span(s.StartTime, s.EndTime)
}

// Elapsed measures from the recorded start. Without one it falls back to the
// scheduled wall-clock start, wrapping past midnight.
func (s Shift) Elapsed(now time.Time, loc *time.Location) time.Duration {
	if s.ActualStart != nil {
		return now.Sub(*s.ActualStart)
	}
	if loc == nil {
		loc = time.UTC
	}
	return Span(s.StartTime, TimeOfDayOf(now.In(loc)))
}

// TimerMessage summarises progress for display.
func (s Shift) TimerMessage(now time.Time, minHours float64) string {
	switch {
	case s.ActualStart != nil && s.ActualEnd != nil:
		if s.ActualEnd.Sub(*s.ActualStart).Hours() >= minHours {
			return "Good work, shift done for today"
		}
		return "Shift not yet completed, continue working"
	case s.ActualStart != nil:
		return fmt.Sprintf("Shift in progress (%.2f hours so far)", RoundHours(now.Sub(*s.ActualStart)))
	default:
		return "Shift not started"
	}
}

// RoundHours converts d to hours rounded to two decimal places.
func RoundHours(d time.Duration) float64 {
	return math.Round(d.Hours()*100) / 100
}
