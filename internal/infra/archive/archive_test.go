package archive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/toru/internal/domain"
)

func TestYAMLCodec_RoundTrip(t *testing.T) {
	// Setup
	created := time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC)
	due := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	entry, err := domain.NewTimeEntry(2, 15, created, "first pass")
	require.NoError(t, err)
	in := &domain.Archive{
		NextID: 7,
		Tasks: []*domain.Task{
			{
				ID:          1,
				Name:        "write report",
				Info:        "numbers\nand charts",
				Priority:    domain.PriorityHigh,
				Tags:        []string{"work"},
				Created:     created,
				Due:         &due,
				TimeEntries: []domain.TimeEntry{entry},
			},
			{
				ID:        4,
				Name:      "send report",
				Priority:  domain.PriorityLow,
				Deps:      []int{1},
				Created:   created,
				Discarded: true,
			},
		},
	}

	// Execute
	data, err := YAMLCodec{}.Encode(in)
	require.NoError(t, err)
	out, err := YAMLCodec{}.Decode(data)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.Contains(t, string(data), "next_id: 7")
}

func TestYAMLCodec_DecodeNormalizes(t *testing.T) {
	data := []byte(`next_id: 3
tasks:
  - id: 2
    name: b
    created: 2026-04-01T09:30:00Z
    tags: [z, a, z]
    dependencies: [1, 1]
`)

	a, err := YAMLCodec{}.Decode(data)

	require.NoError(t, err)
	require.Len(t, a.Tasks, 1)
	assert.Equal(t, domain.PriorityLow, a.Tasks[0].Priority)
	assert.Equal(t, []string{"a", "z"}, a.Tasks[0].Tags)
	assert.Equal(t, []int{1}, a.Tasks[0].Deps)
}

func TestYAMLCodec_DecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not yaml", "tasks: [\n"},
		{"unknown field", "next_id: 1\nowner: me\n"},
		{"bad priority", "tasks:\n  - id: 1\n    name: a\n    created: 2026-04-01T09:30:00Z\n    priority: urgent\n"},
		{"bad logged date", "tasks:\n  - id: 1\n    name: a\n    created: 2026-04-01T09:30:00Z\n    time_entries:\n      - logged_date: yesterday\n        duration: {hours: 1, minutes: 0}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := YAMLCodec{}.Decode([]byte(tt.data))

			assert.Error(t, err)
		})
	}
}
