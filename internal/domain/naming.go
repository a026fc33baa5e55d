package domain

import (
	"fmt"
	"path/filepath"
)

// Vault layout.
const (
	StateFileName = "state.toml"
	TasksDirName  = "tasks"
	LogsDirName   = "logs"
	StagingDir    = ".staging"
	LockFileName  = ".lock"
	TempTaskFile  = "temp.toml"
	TempInfoFile  = "temp.md"
)

// StatePath returns the path to the vault state snapshot.
func StatePath(vaultDir string) string {
	return filepath.Join(vaultDir, StateFileName)
}

// TasksDir returns the directory holding task records.
func TasksDir(vaultDir string) string {
	return filepath.Join(vaultDir, TasksDirName)
}

// TaskPath returns the path to a task record.
func TaskPath(vaultDir string, id int) string {
	return filepath.Join(TasksDir(vaultDir), fmt.Sprintf("%d.toml", id))
}

// StagingPath returns the directory used to stage commits.
func StagingPath(vaultDir string) string {
	return filepath.Join(vaultDir, StagingDir)
}

// LockPath returns the vault lock file.
func LockPath(vaultDir string) string {
	return filepath.Join(vaultDir, LockFileName)
}

// TaskLogPath returns the path to the task log file.
func TaskLogPath(vaultDir string, taskID int) string {
	return filepath.Join(vaultDir, LogsDirName, fmt.Sprintf("task-%d.log", taskID))
}

// GlobalLogPath returns the path to the vault-wide log file.
func GlobalLogPath(vaultDir string) string {
	return filepath.Join(vaultDir, LogsDirName, "toru.log")
}

// GitignoreContent lists the files that should stay out of version control.
// The snapshot is derivable from the task files, so only they are tracked.
const GitignoreContent = StateFileName + "\n" +
	TempTaskFile + "\n" +
	TempInfoFile + "\n" +
	StagingDir + "/\n" +
	LockFileName + "\n" +
	LogsDirName + "/\n"
