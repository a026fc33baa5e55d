package filestore

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/toru/internal/domain"
	"github.com/runoshun/toru/internal/vault"
)

func TestTOMLCodec_DecodeDefaults(t *testing.T) {
	// Setup
	data := []byte("id = 7\nname = \"plain\"\ncreated = 2026-04-01T09:30:00Z\ntags = [\"b\", \"a\", \"b\"]\ndependencies = [3, 1, 3]\n")

	// Execute
	task, err := TOMLCodec{}.Decode(data)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 7, task.ID)
	assert.Equal(t, domain.PriorityLow, task.Priority)
	assert.Equal(t, []string{"a", "b"}, task.Tags)
	assert.Equal(t, []int{1, 3}, task.Deps)
	assert.Nil(t, task.Due)
	assert.False(t, task.Discarded)
}

func TestTOMLCodec_EncodeLayout(t *testing.T) {
	// Setup
	task := sampleTask(1, "write report")
	entry, err := domain.NewTimeEntry(0, 45, testCreated, "")
	require.NoError(t, err)
	task.TimeEntries = []domain.TimeEntry{entry}

	// Execute
	data, err := TOMLCodec{}.Encode(task)

	// Assert
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.HasPrefix(text, "id = 1\nname = 'write report'\n"), text)
	assert.Contains(t, text, "tags = []")
	assert.Contains(t, text, "dependencies = []")
	assert.Contains(t, text, "logged_date = 2026-04-01")
	assert.NotContains(t, text, "due =")
	assert.NotContains(t, text, "info =")
}

func TestTOMLCodec_RoundTrip(t *testing.T) {
	// Setup
	due := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	task := sampleTask(12, "ship it", 3, 4)
	task.Due = &due
	task.Discarded = true
	task.Info = "multi\nline \"quoted\""

	// Execute
	data, err := TOMLCodec{}.Encode(task)
	require.NoError(t, err)
	got, err := TOMLCodec{}.Decode(data)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, task, got)
}

func TestPointerToPath(t *testing.T) {
	tests := []struct {
		ptr  string
		want string
	}{
		{"", ""},
		{"/", ""},
		{"/name", "name"},
		{"/time_entries/0/duration", "time_entries[0].duration"},
		{"/tags/2", "tags[2]"},
		{"/a~1b", "a/b"},
	}
	for _, tt := range tests {
		t.Run(tt.ptr, func(t *testing.T) {
			assert.Equal(t, tt.want, pointerToPath(tt.ptr))
		})
	}
}

func TestVaultOnFileStore(t *testing.T) {
	// Setup
	s := newVault(t)
	v, err := vault.Open(s, vault.Options{})
	require.NoError(t, err)

	// Execute
	a, err := v.CreateTask(vault.CreateInput{Name: "design"})
	require.NoError(t, err)
	b, err := v.CreateTask(vault.CreateInput{Name: "build", Deps: []int{a.Task.ID}})
	require.NoError(t, err)
	_, err = v.CreateTask(vault.CreateInput{Name: "build"})
	require.NoError(t, err)
	_, err = v.DeleteTask(b.Task.ID, domain.DeleteCascade)
	require.NoError(t, err)

	// Assert
	reopened, err := Open(s.Dir())
	require.NoError(t, err)
	v2, err := vault.Open(reopened, vault.Options{})
	require.NoError(t, err)
	require.NoError(t, v2.Verify())
	assert.Equal(t, []int{1, 3}, domain.TaskIDs(v2.Tasks()))
	assert.Equal(t, 4, v2.State().NextID)
	id, err := v2.Resolve("build")
	require.NoError(t, err)
	assert.Equal(t, 3, id)
}
