package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/toru/internal/domain"
)

// TrackTimeInput contains the parameters for tracking time on a task.
// Fields are ordered to minimize memory padding.
type TrackTimeInput struct {
	Ref     string // Task ID or name
	Date    string // Day the time was spent, YYYY-MM-DD (empty = today)
	Message string // Optional label
	Hours   int
	Minutes int // Overflow carries into hours
}

// TrackTimeOutput contains the result of tracking time.
type TrackTimeOutput struct {
	Task  *domain.Task
	Entry domain.TimeEntry
	Total domain.Duration // Tracked time after the entry
}

// TrackTime is the use case for logging time against a task.
type TrackTime struct {
	vaults VaultOpener
	clock  domain.Clock
}

// NewTrackTime creates a new TrackTime use case.
func NewTrackTime(vaults VaultOpener, clock domain.Clock) *TrackTime {
	return &TrackTime{vaults: vaults, clock: clock}
}

// Execute appends a time entry.
func (uc *TrackTime) Execute(_ context.Context, in TrackTimeInput) (*TrackTimeOutput, error) {
	date := today(uc.clock)
	if in.Date != "" {
		d, err := domain.ParseDate(in.Date)
		if err != nil {
			return nil, fmt.Errorf("date: %w", err)
		}
		date = d
	}
	entry, err := domain.NewTimeEntry(in.Hours, in.Minutes, date, in.Message)
	if err != nil {
		return nil, err
	}

	v, err := openVault(uc.vaults)
	if err != nil {
		return nil, err
	}
	id, err := v.Resolve(in.Ref)
	if err != nil {
		return nil, err
	}
	task, err := v.UpdateTask(id, "track", func(t *domain.Task) error {
		t.TimeEntries = append(t.TimeEntries, entry)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &TrackTimeOutput{Task: task, Entry: entry, Total: task.TrackedTime()}, nil
}
