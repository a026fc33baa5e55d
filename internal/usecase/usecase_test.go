package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/runoshun/toru/internal/domain"
	"github.com/runoshun/toru/internal/testutil"
	"github.com/runoshun/toru/internal/vault"
)

var testNow = time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC)

// mockVaults opens a vault over an in-memory store.
type mockVaults struct {
	store   *testutil.MockVaultStore
	v       *vault.Vault
	openErr error
	dir     string
}

func newMockVaults(t *testing.T, tasks ...*domain.Task) *mockVaults {
	t.Helper()
	return &mockVaults{
		store: testutil.NewMockVaultStore().Seed(tasks...),
		dir:   t.TempDir(),
	}
}

func (m *mockVaults) OpenVault() (*vault.Vault, error) {
	if m.openErr != nil {
		return nil, m.openErr
	}
	if m.v == nil {
		v, err := vault.Open(m.store, vault.Options{Clock: &testutil.MockClock{NowTime: testNow}})
		if err != nil {
			return nil, err
		}
		m.v = v
	}
	return m.v, nil
}

func (m *mockVaults) VaultDir() (string, error) {
	if m.openErr != nil {
		return "", m.openErr
	}
	return m.dir, nil
}

var _ VaultOpener = (*mockVaults)(nil)

func task(id int, name string, deps ...int) *domain.Task {
	return &domain.Task{
		ID:       id,
		Name:     name,
		Priority: domain.PriorityLow,
		Created:  testNow,
		Deps:     deps,
	}
}

func stored(t *testing.T, m *mockVaults, id int) *domain.Task {
	t.Helper()
	tk, ok := m.store.Tasks[id]
	require.True(t, ok, "task %d has no record", id)
	return tk
}
