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

func TestCompleteTask_Execute_Success(t *testing.T) {
	// Setup
	vaults := newMockVaults(t, task(1, "report"))
	now := time.Date(2026, 4, 3, 17, 0, 0, 500, time.UTC)
	uc := NewCompleteTask(vaults, &testutil.MockClock{NowTime: now})

	// Execute
	out, err := uc.Execute(context.Background(), CompleteTaskInput{Ref: "report"})

	// Assert
	require.NoError(t, err)
	assert.False(t, out.AlreadyCompleted)
	require.NotNil(t, stored(t, vaults, 1).Completed)
	assert.Equal(t, now.Truncate(time.Second), *stored(t, vaults, 1).Completed)
	assert.Equal(t, domain.StatusComplete, out.Task.Status())
}

func TestCompleteTask_Execute_KeepsFirstCompletion(t *testing.T) {
	// Setup
	done := task(1, "report")
	first := testNow.Add(-time.Hour)
	done.Completed = &first
	vaults := newMockVaults(t, done)
	uc := NewCompleteTask(vaults, &testutil.MockClock{NowTime: testNow})

	// Execute
	out, err := uc.Execute(context.Background(), CompleteTaskInput{Ref: "1"})

	// Assert
	require.NoError(t, err)
	assert.True(t, out.AlreadyCompleted)
	assert.Equal(t, first, *out.Task.Completed)
	assert.Empty(t, vaults.store.Commits)
}

func TestCompleteTask_Execute_NotFound(t *testing.T) {
	vaults := newMockVaults(t)
	uc := NewCompleteTask(vaults, &testutil.MockClock{NowTime: testNow})

	_, err := uc.Execute(context.Background(), CompleteTaskInput{Ref: "report"})

	assert.ErrorIs(t, err, domain.ErrNameNotFound)
}
