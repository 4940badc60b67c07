package cron

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/counterpos/internal/maintenance"
)

type fakeBackupper struct {
	dir string
	at  time.Time
	err error
}

func (f *fakeBackupper) Backup(_ context.Context, path string) (*maintenance.BackupResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	if path == "" {
		path = filepath.Join(f.dir, maintenance.DefaultBackupName(f.at))
	}
	if err := os.WriteFile(path, []byte("db"), 0o600); err != nil {
		return nil, err
	}
	f.at = f.at.Add(time.Hour)
	return &maintenance.BackupResult{Path: path, Bytes: 2}, nil
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestBackupJobPrunesOldestBackups(t *testing.T) {
	dir := t.TempDir()
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("keep me"), 0o600))

	fake := &fakeBackupper{dir: dir, at: start}
	job, err := NewBackupJob(BackupJobParams{Logger: quietLogger(), Maintenance: fake, Dir: dir, Keep: 2})
	require.NoError(t, err)
	assert.Equal(t, "store-backup", job.Name())

	for i := 0; i < 4; i++ {
		require.NoError(t, job.Run(context.Background()))
	}

	assert.ElementsMatch(t, []string{
		"notes.txt",
		maintenance.DefaultBackupName(start.Add(2 * time.Hour)),
		maintenance.DefaultBackupName(start.Add(3 * time.Hour)),
	}, listDir(t, dir))
}

func TestBackupJobSurfacesBackupFailure(t *testing.T) {
	dir := t.TempDir()
	job, err := NewBackupJob(BackupJobParams{Logger: quietLogger(), Maintenance: &fakeBackupper{err: errors.New("disk full")}, Dir: dir})
	require.NoError(t, err)

	err = job.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Empty(t, listDir(t, dir))
}

func TestNewBackupJobRequiresDir(t *testing.T) {
	_, err := NewBackupJob(BackupJobParams{Logger: quietLogger(), Maintenance: &fakeBackupper{}, Dir: " "})
	assert.Error(t, err)
}
