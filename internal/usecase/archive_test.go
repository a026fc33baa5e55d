package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/toru/internal/domain"
	"github.com/runoshun/toru/internal/infra/archive"
)

func TestArchive_ExportImport(t *testing.T) {
	// Setup: the counter is ahead of the highest ID
	source := listFixture(t)
	source.store.State.NextID = 9
	target := newMockVaults(t)

	// Execute
	exported, err := NewArchive(source, archive.YAMLCodec{}).Export(context.Background())
	require.NoError(t, err)
	imported, err := NewArchive(target, archive.YAMLCodec{}).Import(context.Background(), ImportInput{Data: exported.Data})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 4, exported.Tasks)
	assert.Equal(t, 4, imported.Tasks)
	assert.Equal(t, 9, imported.NextID)
	assert.Equal(t, source.store.Tasks, target.store.Tasks)
	tasks, err := target.store.List()
	require.NoError(t, err)
	assert.NoError(t, target.store.State.Verify(tasks))
	assert.True(t, target.store.State.Graph.HasEdge(3, 2))
}

func TestArchive_Import_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		vaults  func(t *testing.T) *mockVaults
		data    string
		wantErr error
	}{
		{
			name:    "vault not empty",
			vaults:  func(t *testing.T) *mockVaults { return newMockVaults(t, task(1, "a")) },
			data:    "next_id: 1\ntasks: []\n",
			wantErr: domain.ErrVaultNotEmpty,
		},
		{
			name:    "numeric name",
			vaults:  func(t *testing.T) *mockVaults { return newMockVaults(t) },
			data:    "tasks:\n  - id: 1\n    name: \"7\"\n    priority: low\n    created: 2026-04-01T09:30:00Z\n",
			wantErr: domain.ErrInvalidName,
		},
		{
			name:   "cycle",
			vaults: func(t *testing.T) *mockVaults { return newMockVaults(t) },
			data: "tasks:\n" +
				"  - {id: 1, name: a, priority: low, created: 2026-04-01T09:30:00Z, dependencies: [2]}\n" +
				"  - {id: 2, name: b, priority: low, created: 2026-04-01T09:30:00Z, dependencies: [1]}\n",
			wantErr: domain.ErrGraphInconsistent,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vaults := tt.vaults(t)
			before := len(vaults.store.Tasks)

			_, err := NewArchive(vaults, archive.YAMLCodec{}).Import(context.Background(), ImportInput{Data: []byte(tt.data)})

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Len(t, vaults.store.Tasks, before)
		})
	}
}
