package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/toru/internal/domain"
)

func TestDependTask_Depend(t *testing.T) {
	// Setup
	vaults := newMockVaults(t, task(1, "design"), task(2, "build"))
	uc := NewDependTask(vaults)

	// Execute
	out, err := uc.Depend(context.Background(), DependTaskInput{Ref: "build", OnRef: "design"})

	// Assert
	require.NoError(t, err)
	assert.True(t, out.Changed)
	assert.Equal(t, []int{1}, stored(t, vaults, 2).Deps)
	assert.True(t, vaults.store.State.Graph.HasEdge(2, 1))

	// Execute again: already recorded
	out, err = uc.Depend(context.Background(), DependTaskInput{Ref: "2", OnRef: "1"})
	require.NoError(t, err)
	assert.False(t, out.Changed)
}

func TestDependTask_Depend_Cycle(t *testing.T) {
	// Setup: 3 -> 2 -> 1
	vaults := newMockVaults(t, task(1, "a"), task(2, "b", 1), task(3, "c", 2))
	uc := NewDependTask(vaults)

	// Execute
	_, err := uc.Depend(context.Background(), DependTaskInput{Ref: "a", OnRef: "c"})

	// Assert
	var cycle *domain.CycleError
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, 1, cycle.Path[0])
	assert.Equal(t, cycle.Path[0], cycle.Path[len(cycle.Path)-1])
	assert.Empty(t, stored(t, vaults, 1).Deps)
	assert.Empty(t, vaults.store.Commits)
}

func TestDependTask_Depend_Self(t *testing.T) {
	vaults := newMockVaults(t, task(1, "a"))
	uc := NewDependTask(vaults)

	_, err := uc.Depend(context.Background(), DependTaskInput{Ref: "1", OnRef: "a"})

	assert.ErrorIs(t, err, domain.ErrCycle)
}

func TestDependTask_Undepend(t *testing.T) {
	// Setup
	vaults := newMockVaults(t, task(1, "a"), task(2, "b", 1))
	uc := NewDependTask(vaults)

	// Execute
	out, err := uc.Undepend(context.Background(), DependTaskInput{Ref: "b", OnRef: "a"})

	// Assert
	require.NoError(t, err)
	assert.True(t, out.Changed)
	assert.Empty(t, stored(t, vaults, 2).Deps)
	assert.False(t, vaults.store.State.Graph.HasEdge(2, 1))

	out, err = uc.Undepend(context.Background(), DependTaskInput{Ref: "b", OnRef: "a"})
	require.NoError(t, err)
	assert.False(t, out.Changed)
}

func TestDependTask_UnknownTask(t *testing.T) {
	vaults := newMockVaults(t, task(1, "a"))
	uc := NewDependTask(vaults)

	_, err := uc.Depend(context.Background(), DependTaskInput{Ref: "a", OnRef: "ghost"})

	assert.ErrorIs(t, err, domain.ErrNameNotFound)
}
