package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewState(t *testing.T) {
	s := NewState()

	assert.Equal(t, 1, s.NextID)
	assert.Equal(t, 0, s.Index.Len())
	assert.Empty(t, s.Graph.Nodes())
}

func TestState_AllocateID(t *testing.T) {
	s := NewState()

	assert.Equal(t, 1, s.AllocateID())
	assert.Equal(t, 2, s.AllocateID())
	assert.Equal(t, 3, s.NextID)
}

func TestDeriveState(t *testing.T) {
	tasks := []*Task{
		{ID: 2, Name: "b"},
		{ID: 5, Name: "a", Deps: []int{2}},
	}

	s, err := DeriveState(tasks)

	require.NoError(t, err)
	assert.Equal(t, 6, s.NextID)
	assert.Equal(t, []int{5}, s.Index.Lookup("a"))
	assert.True(t, s.Graph.HasEdge(5, 2))
	assert.NoError(t, s.Verify(tasks))
}

func TestDeriveState_Empty(t *testing.T) {
	s, err := DeriveState(nil)

	require.NoError(t, err)
	assert.Equal(t, 1, s.NextID)
}

func TestDeriveState_ReportsCycle(t *testing.T) {
	tasks := []*Task{
		{ID: 1, Name: "a", Deps: []int{2}},
		{ID: 2, Name: "b", Deps: []int{1}},
	}

	_, err := DeriveState(tasks)

	require.ErrorIs(t, err, ErrGraphInconsistent)
	assert.Contains(t, err.Error(), "circular dependency")
}

func TestState_CheckCounter(t *testing.T) {
	tasks := []*Task{{ID: 10, Name: "x"}}

	s := &State{NextID: 5, Index: BuildIndex(tasks), Graph: NewGraph()}
	err := s.CheckCounter(tasks)

	require.ErrorIs(t, err, ErrCounterInvariant)
	var counterErr *CounterError
	require.True(t, errors.As(err, &counterErr))
	assert.Equal(t, 5, counterErr.NextID)
	assert.Equal(t, 10, counterErr.MaxID)

	s.NextID = 10
	assert.ErrorIs(t, s.CheckCounter(tasks), ErrCounterInvariant)

	s.NextID = 11
	assert.NoError(t, s.CheckCounter(tasks))

	s.NextID = 0
	assert.ErrorIs(t, s.CheckCounter(nil), ErrCounterInvariant)
}

func TestState_Verify_JoinsFailures(t *testing.T) {
	tasks := []*Task{{ID: 3, Name: "x"}}
	s := NewState()

	err := s.Verify(tasks)

	assert.ErrorIs(t, err, ErrCounterInvariant)
	assert.ErrorIs(t, err, ErrIndexInconsistent)
	assert.ErrorIs(t, err, ErrGraphInconsistent)
}

func TestState_Verify_RejectsNumericName(t *testing.T) {
	tasks := []*Task{{ID: 1, Name: "42", Priority: PriorityLow}}
	s, err := DeriveState(tasks)
	require.NoError(t, err)

	err = s.Verify(tasks)

	require.ErrorIs(t, err, ErrInvalidName)
	var nameErr *InvalidNameError
	require.True(t, errors.As(err, &nameErr))
	assert.Equal(t, "42", nameErr.Name)
	assert.Contains(t, err.Error(), "task 1")
}

func TestCheckNames(t *testing.T) {
	assert.NoError(t, CheckNames(nil))
	assert.NoError(t, CheckNames([]*Task{{ID: 1, Name: "write report"}, {ID: 2, Name: "2026 plan"}}))
	assert.ErrorIs(t, CheckNames([]*Task{{ID: 1, Name: "a"}, {ID: 2, Name: "7"}}), ErrInvalidName)
}

func TestState_CloneIsIndependent(t *testing.T) {
	s := NewState()
	s.Graph.AddNode(1)
	s.Index.Insert("a", 1)
	s.NextID = 2

	c := s.Clone()
	c.AllocateID()
	c.Graph.AddNode(2)
	c.Index.Insert("b", 2)

	assert.Equal(t, 2, s.NextID)
	assert.False(t, s.Graph.HasNode(2))
	assert.Empty(t, s.Index.Lookup("b"))
	assert.False(t, s.Equal(c))
	assert.True(t, s.Equal(s.Clone()))
}
