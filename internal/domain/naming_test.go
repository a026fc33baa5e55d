package domain

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVaultPaths(t *testing.T) {
	vault := filepath.Join("home", "me", "tasks")

	assert.Equal(t, filepath.Join(vault, "state.toml"), StatePath(vault))
	assert.Equal(t, filepath.Join(vault, "tasks", "12.toml"), TaskPath(vault, 12))
	assert.Equal(t, filepath.Join(vault, ".staging"), StagingPath(vault))
	assert.Equal(t, filepath.Join(vault, "logs", "task-3.log"), TaskLogPath(vault, 3))
	assert.Equal(t, filepath.Join(vault, "logs", "toru.log"), GlobalLogPath(vault))
}

func TestGlobalConfigPath(t *testing.T) {
	dir := GlobalConfigDir(filepath.Join("home", ".config"))

	assert.Equal(t, filepath.Join("home", ".config", "toru", "config.toml"), GlobalConfigPath(dir))
}

func TestGitignoreContent(t *testing.T) {
	lines := strings.Split(strings.TrimSpace(GitignoreContent), "\n")

	assert.Equal(t, []string{"state.toml", "temp.toml", "temp.md", ".staging/", ".lock", "logs/"}, lines)
}
