package domain

import (
	"fmt"
	"math"
	"time"
)

// Duration is an amount of tracked time. Minutes stay in [0, 60).
type Duration struct {
	Hours   int `toml:"hours" yaml:"hours"`
	Minutes int `toml:"minutes" yaml:"minutes"`
}

// NewDuration builds a normalized duration, carrying overflowing minutes into hours.
func NewDuration(hours, minutes int) (Duration, error) {
	if hours < 0 || minutes < 0 {
		return Duration{}, fmt.Errorf("%w: negative time", ErrInvalidDuration)
	}
	return Duration{Hours: hours + minutes/60, Minutes: minutes % 60}, nil
}

// Validate enforces the minutes invariant.
func (d Duration) Validate() error {
	if d.Hours < 0 || d.Minutes < 0 {
		return fmt.Errorf("%w: negative time", ErrInvalidDuration)
	}
	if d.Minutes >= 60 {
		return fmt.Errorf("%w: %d minutes must be less than 60", ErrInvalidDuration, d.Minutes)
	}
	return nil
}

// TotalMinutes returns the duration in minutes.
func (d Duration) TotalMinutes() int {
	return d.Hours*60 + d.Minutes
}

// IsZero reports whether no time is recorded.
func (d Duration) IsZero() bool {
	return d.Hours == 0 && d.Minutes == 0
}

// Add returns the normalized sum of two durations.
func (d Duration) Add(other Duration) Duration {
	total := d.TotalMinutes() + other.TotalMinutes()
	return Duration{Hours: total / 60, Minutes: total % 60}
}

// Div splits the duration into n equal parts, rounded to the nearest minute.
func (d Duration) Div(n int) Duration {
	if n <= 0 {
		return d
	}
	mins := int(math.Round(float64(d.TotalMinutes()) / float64(n)))
	return Duration{Hours: mins / 60, Minutes: mins % 60}
}

// String formats as h:mm.
func (d Duration) String() string {
	return fmt.Sprintf("%d:%02d", d.Hours, d.Minutes)
}

// TimeEntry is a single block of time tracked against a task.
// Fields are ordered to minimize memory padding.
type TimeEntry struct {
	LoggedDate time.Time // Day the time was spent (date only)
	Message    string    // Optional label
	Duration   Duration
}

// NewTimeEntry creates a validated time entry.
func NewTimeEntry(hours, minutes int, date time.Time, message string) (TimeEntry, error) {
	d, err := NewDuration(hours, minutes)
	if err != nil {
		return TimeEntry{}, err
	}
	if d.IsZero() {
		return TimeEntry{}, fmt.Errorf("%w: no time given", ErrInvalidDuration)
	}
	y, m, day := date.Date()
	return TimeEntry{
		LoggedDate: time.Date(y, m, day, 0, 0, 0, 0, time.UTC),
		Message:    message,
		Duration:   d,
	}, nil
}

// TotalDuration adds up all entries.
func TotalDuration(entries []TimeEntry) Duration {
	var total Duration
	for _, e := range entries {
		total = total.Add(e.Duration)
	}
	return total
}
