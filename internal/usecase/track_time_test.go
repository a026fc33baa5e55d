package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/toru/internal/domain"
	"github.com/runoshun/toru/internal/testutil"
)

func TestTrackTime_Execute_Success(t *testing.T) {
	// Setup
	vaults := newMockVaults(t, task(1, "report"))
	uc := NewTrackTime(vaults, &testutil.MockClock{NowTime: testNow})

	// Execute
	out, err := uc.Execute(context.Background(), TrackTimeInput{Ref: "report", Hours: 1, Minutes: 75, Message: "draft"})
	require.NoError(t, err)
	out, err = uc.Execute(context.Background(), TrackTimeInput{Ref: "1", Minutes: 30, Date: "2026-03-30"})

	// Assert
	require.NoError(t, err)
	entries := stored(t, vaults, 1).TimeEntries
	require.Len(t, entries, 2)
	assert.Equal(t, domain.Duration{Hours: 2, Minutes: 15}, entries[0].Duration)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), entries[0].LoggedDate)
	assert.Equal(t, "draft", entries[0].Message)
	assert.Equal(t, time.Date(2026, 3, 30, 0, 0, 0, 0, time.UTC), entries[1].LoggedDate)
	assert.Equal(t, domain.Duration{Hours: 2, Minutes: 45}, out.Total)
}

func TestTrackTime_Execute_Invalid(t *testing.T) {
	tests := []struct {
		name string
		in   TrackTimeInput
	}{
		{"no time", TrackTimeInput{Ref: "1"}},
		{"negative", TrackTimeInput{Ref: "1", Hours: -1}},
		{"bad date", TrackTimeInput{Ref: "1", Minutes: 5, Date: "01/04/2026"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vaults := newMockVaults(t, task(1, "report"))
			uc := NewTrackTime(vaults, &testutil.MockClock{NowTime: testNow})

			_, err := uc.Execute(context.Background(), tt.in)

			require.Error(t, err)
			assert.Empty(t, stored(t, vaults, 1).TimeEntries)
		})
	}
}
