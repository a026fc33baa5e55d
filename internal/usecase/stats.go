package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/toru/internal/domain"
)

// StatsInput contains the parameters for vault statistics.
type StatsInput struct {
	Days int // Window size in days, today included
}

// TrackedStatsOutput contains time tracked per tag.
type TrackedStatsOutput struct {
	Tags  []domain.TagTime
	Total domain.Duration
}

// CompletedStatsOutput contains recently completed tasks.
type CompletedStatsOutput struct {
	Tasks []*domain.Task // Most recent first
}

// Stats is the use case for vault statistics.
type Stats struct {
	vaults VaultOpener
	clock  domain.Clock
}

// NewStats creates a new Stats use case.
func NewStats(vaults VaultOpener, clock domain.Clock) *Stats {
	return &Stats{vaults: vaults, clock: clock}
}

// Tracked sums tracked time per tag over the window.
func (uc *Stats) Tracked(_ context.Context, in StatsInput) (*TrackedStatsOutput, error) {
	if err := checkDays(in.Days); err != nil {
		return nil, err
	}
	v, err := openVault(uc.vaults)
	if err != nil {
		return nil, err
	}
	out := &TrackedStatsOutput{Tags: domain.TrackedPerTag(v.Tasks(), uc.clock.Now(), in.Days)}
	for _, tt := range out.Tags {
		out.Total = out.Total.Add(tt.Time)
	}
	return out, nil
}

// Completed lists tasks completed within the window.
func (uc *Stats) Completed(_ context.Context, in StatsInput) (*CompletedStatsOutput, error) {
	if err := checkDays(in.Days); err != nil {
		return nil, err
	}
	v, err := openVault(uc.vaults)
	if err != nil {
		return nil, err
	}
	return &CompletedStatsOutput{Tasks: domain.CompletedSince(v.Tasks(), uc.clock.Now(), in.Days)}, nil
}

func checkDays(days int) error {
	if days < 1 {
		return fmt.Errorf("days must be at least 1, got %d", days)
	}
	return nil
}
