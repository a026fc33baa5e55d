package vault

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/toru/internal/domain"
	"github.com/runoshun/toru/internal/testutil"
)

var testNow = time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC)

func openTest(t *testing.T, store *testutil.MockVaultStore) *Vault {
	t.Helper()
	v, err := Open(store, Options{Clock: &testutil.MockClock{NowTime: testNow}})
	require.NoError(t, err)
	return v
}

func create(t *testing.T, v *Vault, name string, deps ...int) *domain.Task {
	t.Helper()
	res, err := v.CreateTask(CreateInput{Name: name, Deps: deps})
	require.NoError(t, err)
	return res.Task
}

// assertConsistent checks the persisted and in-memory state against the records.
func assertConsistent(t *testing.T, v *Vault, store *testutil.MockVaultStore) {
	t.Helper()
	require.NoError(t, v.Verify())
	tasks, err := store.List()
	require.NoError(t, err)
	require.NotNil(t, store.State)
	assert.NoError(t, store.State.Verify(tasks))
	assert.True(t, store.State.Equal(v.State()), "persisted state differs from memory")
}

func TestOpen_DerivesMissingState(t *testing.T) {
	// Setup
	store := testutil.NewMockVaultStore()
	store.Tasks[2] = &domain.Task{ID: 2, Name: "b", Priority: domain.PriorityLow}
	store.Tasks[5] = &domain.Task{ID: 5, Name: "a", Priority: domain.PriorityLow, Deps: []int{2}}

	// Execute
	v := openTest(t, store)

	// Assert
	require.NoError(t, v.Err())
	require.NotNil(t, store.State)
	assert.Equal(t, 6, store.State.NextID)
	assert.True(t, store.State.Graph.HasEdge(5, 2))
	assertConsistent(t, v, store)
}

func TestOpen_CounterInvariantIsFatal(t *testing.T) {
	// Setup: max task ID is 10 but next_id is 5
	store := testutil.NewMockVaultStore().Seed(&domain.Task{ID: 10, Name: "x", Priority: domain.PriorityLow})
	store.State.NextID = 5

	// Execute
	_, err := Open(store, Options{})

	// Assert
	require.ErrorIs(t, err, domain.ErrCounterInvariant)
	var counterErr *domain.CounterError
	require.True(t, errors.As(err, &counterErr))
	assert.Equal(t, 5, counterErr.NextID)
	assert.Equal(t, 10, counterErr.MaxID)
}

func TestOpen_StoreErrors(t *testing.T) {
	store := testutil.NewMockVaultStore()
	store.ListErr = errors.New("disk gone")

	_, err := Open(store, Options{})
	assert.ErrorContains(t, err, "load tasks")

	store = testutil.NewMockVaultStore()
	store.LoadStateErr = errors.New("bad toml")

	_, err = Open(store, Options{})
	assert.ErrorContains(t, err, "load state")
}

func TestOpen_InconsistentStateBlocksMutation(t *testing.T) {
	// Setup: the snapshot misses task 2's index entry and edge
	store := testutil.NewMockVaultStore().Seed(
		&domain.Task{ID: 1, Name: "a", Priority: domain.PriorityLow},
	)
	store.Tasks[2] = &domain.Task{ID: 2, Name: "b", Priority: domain.PriorityLow, Deps: []int{1}}
	store.State.NextID = 3

	// Execute
	v := openTest(t, store)

	// Assert
	require.Error(t, v.Err())
	assert.ErrorIs(t, v.Err(), domain.ErrIndexInconsistent)
	assert.ErrorIs(t, v.Err(), domain.ErrGraphInconsistent)

	_, err := v.CreateTask(CreateInput{Name: "c"})
	assert.ErrorIs(t, err, domain.ErrGraphInconsistent)
	assert.Len(t, store.Commits, 0)
}

func TestOpen_NumericNameBlocksMutationAndRepair(t *testing.T) {
	// Setup: a record renamed to a number outside of toru
	store := testutil.NewMockVaultStore()
	store.Tasks[1] = &domain.Task{ID: 1, Name: "42", Priority: domain.PriorityLow}

	// Execute
	v := openTest(t, store)

	// Assert
	require.ErrorIs(t, v.Err(), domain.ErrInvalidName)
	assert.Nil(t, store.State, "derived state is not persisted")
	assert.ErrorIs(t, v.Verify(), domain.ErrInvalidName)

	_, err := v.Repair()
	assert.ErrorIs(t, err, domain.ErrInvalidName)
	_, err = v.CreateTask(CreateInput{Name: "shopping"})
	assert.ErrorIs(t, err, domain.ErrInvalidName)
	assert.Empty(t, store.Commits)
}

func TestOpen_NumericNameWithSnapshot(t *testing.T) {
	// Setup: the snapshot was saved before the record was renamed to a number
	store := testutil.NewMockVaultStore().Seed(
		&domain.Task{ID: 1, Name: "shopping", Priority: domain.PriorityLow},
	)
	store.Tasks[1].Name = "42"

	// Execute
	v := openTest(t, store)

	// Assert
	assert.ErrorIs(t, v.Err(), domain.ErrInvalidName)
	assert.ErrorIs(t, v.Err(), domain.ErrIndexInconsistent)
	_, err := v.Repair()
	assert.ErrorIs(t, err, domain.ErrInvalidName)
	assert.Empty(t, store.Commits)
}

func TestCreateTask(t *testing.T) {
	store := testutil.NewMockVaultStore()
	v := openTest(t, store)

	due := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	res, err := v.CreateTask(CreateInput{
		Name:     "write report",
		Info:     "quarterly",
		Tags:     []string{"work", "work", "q2"},
		Priority: domain.PriorityHigh,
		Due:      &due,
	})

	require.NoError(t, err)
	task := res.Task
	assert.Equal(t, 1, task.ID)
	assert.Equal(t, []string{"q2", "work"}, task.Tags)
	assert.Equal(t, domain.PriorityHigh, task.Priority)
	assert.True(t, task.Created.Equal(testNow))
	assert.Empty(t, res.Dropped)
	assert.Less(t, task.ID, v.State().NextID)
	assertConsistent(t, v, store)
}

func TestCreateTask_DefaultsPriority(t *testing.T) {
	v := openTest(t, testutil.NewMockVaultStore())

	task := create(t, v, "a")

	assert.Equal(t, domain.PriorityLow, task.Priority)
}

func TestCreateTask_NumericNameRejected(t *testing.T) {
	store := testutil.NewMockVaultStore()
	v := openTest(t, store)
	before := v.State()

	_, err := v.CreateTask(CreateInput{Name: "42"})

	assert.ErrorIs(t, err, domain.ErrInvalidName)
	assert.True(t, before.Equal(v.State()))
	assert.Empty(t, v.Tasks())
}

func TestCreateTask_WithDependencies(t *testing.T) {
	store := testutil.NewMockVaultStore()
	v := openTest(t, store)
	a := create(t, v, "a")
	b := create(t, v, "b")

	c := create(t, v, "c", b.ID, a.ID, a.ID)

	assert.Equal(t, []int{a.ID, b.ID}, c.Deps)
	assert.Equal(t, []int{c.ID}, v.Dependents(a.ID))
	assertConsistent(t, v, store)
}

func TestCreateTask_MissingDependencyRollsBack(t *testing.T) {
	store := testutil.NewMockVaultStore()
	v := openTest(t, store)
	create(t, v, "a")
	before := v.State()

	_, err := v.CreateTask(CreateInput{Name: "b", Deps: []int{1, 99}})

	var nf *domain.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, 99, nf.ID)
	assert.True(t, before.Equal(v.State()), "no ID is consumed by a failed create")
	assert.Len(t, v.Tasks(), 1)
}

func TestCreateTask_IDsNeverReused(t *testing.T) {
	store := testutil.NewMockVaultStore()
	v := openTest(t, store)
	a := create(t, v, "a")
	_, err := v.DeleteTask(a.ID, "")
	require.NoError(t, err)

	b := create(t, v, "b")

	assert.Equal(t, 2, b.ID)
}

func TestCreateTask_CommitFailureLeavesVaultUnchanged(t *testing.T) {
	store := testutil.NewMockVaultStore()
	v := openTest(t, store)
	create(t, v, "a")
	before := v.State()
	store.CommitErr = errors.New("disk full")

	_, err := v.CreateTask(CreateInput{Name: "b", Deps: []int{1}})

	require.ErrorContains(t, err, "disk full")
	assert.True(t, before.Equal(v.State()))
	assert.Len(t, v.Tasks(), 1)

	store.CommitErr = nil
	b := create(t, v, "b")
	assert.Equal(t, 2, b.ID)
	assertConsistent(t, v, store)
}

func TestCreateTask_IncompleteCommitBlocksFurtherChanges(t *testing.T) {
	// Setup
	store := testutil.NewMockVaultStore()
	v := openTest(t, store)
	create(t, v, "a")
	store.CommitErr = fmt.Errorf("apply tasks/2.toml: %w", domain.ErrCommitIncomplete)

	// Execute
	_, err := v.CreateTask(CreateInput{Name: "b"})
	store.CommitErr = nil
	_, retryErr := v.CreateTask(CreateInput{Name: "c"})

	// Assert
	require.ErrorIs(t, err, domain.ErrCommitIncomplete)
	require.ErrorIs(t, retryErr, domain.ErrCommitIncomplete)
	assert.Len(t, v.Tasks(), 1)
	assert.Len(t, store.Commits, 1)
}

func TestResolve(t *testing.T) {
	// Setup: tasks 3 and 4 are both named "shopping"
	store := testutil.NewMockVaultStore().Seed(
		&domain.Task{ID: 3, Name: "shopping", Priority: domain.PriorityLow},
		&domain.Task{ID: 4, Name: "shopping", Priority: domain.PriorityLow},
		&domain.Task{ID: 5, Name: "laundry", Priority: domain.PriorityLow},
	)
	v := openTest(t, store)

	_, err := v.Resolve("shopping")
	var ambErr *domain.AmbiguousNameError
	require.True(t, errors.As(err, &ambErr))
	assert.Equal(t, []int{3, 4}, ambErr.IDs)

	id, err := v.Resolve("4")
	require.NoError(t, err)
	assert.Equal(t, 4, id)

	id, err = v.Resolve("laundry")
	require.NoError(t, err)
	assert.Equal(t, 5, id)

	_, err = v.Resolve("9")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	_, err = v.Resolve("gardening")
	assert.ErrorIs(t, err, domain.ErrNameNotFound)

	task, err := v.ResolveTask("laundry")
	require.NoError(t, err)
	assert.Equal(t, "laundry", task.Name)
}

func TestRenameTask(t *testing.T) {
	store := testutil.NewMockVaultStore()
	v := openTest(t, store)
	a := create(t, v, "a")

	renamed, err := v.RenameTask(a.ID, "b")

	require.NoError(t, err)
	assert.Equal(t, "b", renamed.Name)
	_, err = v.Resolve("a")
	assert.ErrorIs(t, err, domain.ErrNameNotFound)
	id, err := v.Resolve("b")
	require.NoError(t, err)
	assert.Equal(t, a.ID, id)
	assertConsistent(t, v, store)
}

func TestRenameTask_Errors(t *testing.T) {
	store := testutil.NewMockVaultStore()
	v := openTest(t, store)
	a := create(t, v, "a")
	before := v.State()

	_, err := v.RenameTask(a.ID, "123")
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = v.RenameTask(99, "b")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	assert.True(t, before.Equal(v.State()))
}

func TestAddDependency(t *testing.T) {
	store := testutil.NewMockVaultStore()
	v := openTest(t, store)
	a := create(t, v, "a")
	b := create(t, v, "b")

	require.NoError(t, v.AddDependency(a.ID, b.ID))

	err := v.AddDependency(b.ID, a.ID)
	require.ErrorIs(t, err, domain.ErrCycle)
	var cycleErr *domain.CycleError
	require.True(t, errors.As(err, &cycleErr))
	assert.Equal(t, []int{2, 1, 2}, cycleErr.Path)

	state := v.State()
	assert.Equal(t, 1, state.Graph.EdgeCount())
	assert.True(t, state.Graph.HasEdge(a.ID, b.ID))
	got, _ := v.Task(b.ID)
	assert.Empty(t, got.Deps)
	got, _ = v.Task(a.ID)
	assert.Equal(t, []int{b.ID}, got.Deps)
	assertConsistent(t, v, store)
}

func TestAddDependency_SelfLoop(t *testing.T) {
	store := testutil.NewMockVaultStore()
	v := openTest(t, store)
	a := create(t, v, "a")
	commits := len(store.Commits)

	err := v.AddDependency(a.ID, a.ID)

	assert.ErrorIs(t, err, domain.ErrCycle)
	assert.Len(t, store.Commits, commits)
}

func TestAddDependency_ExistingEdgeIsNoop(t *testing.T) {
	store := testutil.NewMockVaultStore()
	v := openTest(t, store)
	a := create(t, v, "a")
	b := create(t, v, "b", a.ID)
	commits := len(store.Commits)

	require.NoError(t, v.AddDependency(b.ID, a.ID))

	assert.Len(t, store.Commits, commits)
}

func TestAddDependency_MissingTask(t *testing.T) {
	v := openTest(t, testutil.NewMockVaultStore())
	a := create(t, v, "a")

	assert.ErrorIs(t, v.AddDependency(a.ID, 7), domain.ErrTaskNotFound)
	assert.ErrorIs(t, v.AddDependency(7, a.ID), domain.ErrTaskNotFound)
}

func TestRemoveDependency(t *testing.T) {
	store := testutil.NewMockVaultStore()
	v := openTest(t, store)
	a := create(t, v, "a")
	b := create(t, v, "b", a.ID)

	removed, err := v.RemoveDependency(b.ID, a.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = v.RemoveDependency(b.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	got, _ := v.Task(b.ID)
	assert.Empty(t, got.Deps)
	assertConsistent(t, v, store)
}

func TestDeleteTask_BlockPolicy(t *testing.T) {
	store := testutil.NewMockVaultStore()
	v := openTest(t, store)
	create(t, v, "a")
	b := create(t, v, "b")
	require.NoError(t, v.AddDependency(1, b.ID))
	before := v.State()

	_, err := v.DeleteTask(b.ID, domain.DeleteBlock)

	require.ErrorIs(t, err, domain.ErrDependentsExist)
	var depErr *domain.DependentsError
	require.True(t, errors.As(err, &depErr))
	assert.Equal(t, []int{1}, depErr.Dependents)
	assert.True(t, before.Equal(v.State()))
	got, _ := v.Task(1)
	assert.Equal(t, []int{2}, got.Deps)
}

func TestDeleteTask_CascadePolicy(t *testing.T) {
	store := testutil.NewMockVaultStore()
	v := openTest(t, store)
	create(t, v, "a")
	b := create(t, v, "b")
	require.NoError(t, v.AddDependency(1, b.ID))

	res, err := v.DeleteTask(b.ID, domain.DeleteCascade)

	require.NoError(t, err)
	assert.Equal(t, []int{1}, res.Unlinked)
	assert.Equal(t, "b", res.Task.Name)
	got, _ := v.Task(1)
	assert.Empty(t, got.Deps)
	assert.Empty(t, v.Dependencies(1))
	assert.False(t, v.State().Graph.HasNode(2))
	_, err = v.Resolve("b")
	assert.ErrorIs(t, err, domain.ErrNameNotFound)
	assertConsistent(t, v, store)

	last := store.Commits[len(store.Commits)-1]
	assert.Equal(t, []int{2}, last.Delete)
	require.Len(t, last.Save, 1)
	assert.Equal(t, 1, last.Save[0].ID)
}

func TestDeleteTask_DefaultPolicyFromOptions(t *testing.T) {
	store := testutil.NewMockVaultStore()
	v, err := Open(store, Options{DeletePolicy: domain.DeleteCascade})
	require.NoError(t, err)
	create(t, v, "a")
	create(t, v, "b", 1)

	_, err = v.DeleteTask(1, "")

	require.NoError(t, err)
	assert.Equal(t, domain.DeleteCascade, v.DeletePolicy())
}

func TestDeleteTask_NotFound(t *testing.T) {
	v := openTest(t, testutil.NewMockVaultStore())

	_, err := v.DeleteTask(3, "")

	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestUpdateTask(t *testing.T) {
	store := testutil.NewMockVaultStore()
	v := openTest(t, store)
	a := create(t, v, "a")

	got, err := v.UpdateTask(a.ID, "complete", func(task *domain.Task) error {
		now := testNow
		task.Completed = &now
		task.Tags = append(task.Tags, "done", "done")
		return nil
	})

	require.NoError(t, err)
	assert.True(t, got.IsComplete())
	assert.Equal(t, []string{"done"}, got.Tags)
	assertConsistent(t, v, store)
}

func TestUpdateTask_RejectsCoreFields(t *testing.T) {
	v := openTest(t, testutil.NewMockVaultStore())
	a := create(t, v, "a")
	create(t, v, "b")

	_, err := v.UpdateTask(a.ID, "x", func(task *domain.Task) error {
		task.Name = "c"
		return nil
	})
	assert.Error(t, err)

	_, err = v.UpdateTask(a.ID, "x", func(task *domain.Task) error {
		task.Deps = []int{2}
		return nil
	})
	assert.Error(t, err)

	_, err = v.UpdateTask(a.ID, "x", func(task *domain.Task) error {
		task.ID = 2
		return nil
	})
	assert.ErrorIs(t, err, domain.ErrIDChanged)

	_, err = v.UpdateTask(a.ID, "x", func(task *domain.Task) error {
		task.TimeEntries = append(task.TimeEntries, domain.TimeEntry{Duration: domain.Duration{Minutes: 61}})
		return nil
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDuration)

	got, _ := v.Task(a.ID)
	assert.Equal(t, "a", got.Name)
	assert.Empty(t, got.TimeEntries)
}

func TestApplyEdit(t *testing.T) {
	store := testutil.NewMockVaultStore()
	v := openTest(t, store)
	create(t, v, "a")
	create(t, v, "b")
	c := create(t, v, "c", 1)

	edited := c.Clone()
	edited.Name = "renamed"
	edited.Deps = []int{2}
	edited.Info = "more"

	got, err := v.ApplyEdit(c.ID, edited)

	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)
	assert.Equal(t, []int{2}, got.Deps)
	assert.Equal(t, []int{2}, v.Dependencies(c.ID))
	assert.Empty(t, v.Dependents(1))
	assertConsistent(t, v, store)
}

func TestApplyEdit_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		edit    func(task *domain.Task)
		wantErr error
	}{
		{name: "id changed", edit: func(task *domain.Task) { task.ID = 9 }, wantErr: domain.ErrIDChanged},
		{name: "numeric name", edit: func(task *domain.Task) { task.Name = "17" }, wantErr: domain.ErrInvalidName},
		{name: "missing dependency", edit: func(task *domain.Task) { task.Deps = []int{42} }, wantErr: domain.ErrTaskNotFound},
		{name: "cycle", edit: func(task *domain.Task) { task.Deps = []int{3} }, wantErr: domain.ErrCycle},
		{name: "self dependency", edit: func(task *domain.Task) { task.Deps = []int{1} }, wantErr: domain.ErrCycle},
		{
			name: "minutes overflow",
			edit: func(task *domain.Task) {
				task.TimeEntries = []domain.TimeEntry{{Duration: domain.Duration{Hours: 1, Minutes: 60}}}
			},
			wantErr: domain.ErrInvalidDuration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup: 3 depends on 2 depends on 1
			store := testutil.NewMockVaultStore()
			v := openTest(t, store)
			create(t, v, "a")
			create(t, v, "b", 1)
			create(t, v, "c", 2)
			before := v.State()
			orig, _ := v.Task(1)
			edited := orig.Clone()
			tt.edit(edited)

			// Execute
			_, err := v.ApplyEdit(1, edited)

			// Assert
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, before.Equal(v.State()))
			got, _ := v.Task(1)
			assert.Equal(t, orig, got)
		})
	}
}

func TestIndexMatchesDerivedAfterEveryMutation(t *testing.T) {
	store := testutil.NewMockVaultStore()
	v := openTest(t, store)

	steps := []func() error{
		func() error { _, err := v.CreateTask(CreateInput{Name: "x"}); return err },
		func() error { _, err := v.CreateTask(CreateInput{Name: "x"}); return err },
		func() error { _, err := v.CreateTask(CreateInput{Name: "y", Deps: []int{1, 2}}); return err },
		func() error { _, err := v.RenameTask(2, "y"); return err },
		func() error { _, err := v.DeleteTask(1, domain.DeleteCascade); return err },
		func() error { return v.AddDependency(2, 3) },
		func() error { _, err := v.RemoveDependency(3, 2); return err },
	}

	for i, step := range steps {
		err := step()
		if i == 5 {
			// 3 still depends on 2, so 2 -> 3 closes a cycle.
			require.ErrorIs(t, err, domain.ErrCycle)
		} else {
			require.NoError(t, err, "step %d", i)
		}
		assert.True(t, v.State().Index.Equal(domain.BuildIndex(v.Tasks())), "step %d", i)
		assertConsistent(t, v, store)
	}
}

func TestRoundTrip_ReopenYieldsEqualState(t *testing.T) {
	store := testutil.NewMockVaultStore()
	v := openTest(t, store)
	create(t, v, "a")
	create(t, v, "b", 1)
	create(t, v, "a", 2)
	_, err := v.DeleteTask(3, "")
	require.NoError(t, err)

	reopened := openTest(t, store)

	require.NoError(t, reopened.Err())
	assert.True(t, v.State().Equal(reopened.State()))
	assert.Equal(t, 4, reopened.State().NextID)
}
