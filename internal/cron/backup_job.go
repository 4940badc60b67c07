package cron

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/multierr"

	"github.com/angelmondragon/counterpos/internal/maintenance"
	"github.com/angelmondragon/counterpos/pkg/logger"
)

const defaultBackupKeep = 7

type backupper interface {
	Backup(ctx context.Context, path string) (*maintenance.BackupResult, error)
}

type BackupJobParams struct {
	Logger      *logger.Logger
	Maintenance backupper
	Dir         string
	Keep        int
}

// NewBackupJob writes a timestamped backup into Dir and then deletes the
// oldest generated backups beyond Keep. Other files in Dir are left alone.
func NewBackupJob(params BackupJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Maintenance == nil {
		return nil, fmt.Errorf("maintenance service required")
	}
	if strings.TrimSpace(params.Dir) == "" {
		return nil, fmt.Errorf("backup dir required")
	}
	keep := params.Keep
	if keep <= 0 {
		keep = defaultBackupKeep
	}
	return &backupJob{logg: params.Logger, svc: params.Maintenance, dir: params.Dir, keep: keep}, nil
}

type backupJob struct {
	logg *logger.Logger
	svc  backupper
	dir  string
	keep int
}

func (j *backupJob) Name() string { return "store-backup" }

func (j *backupJob) Run(ctx context.Context) error {
	res, err := j.svc.Backup(ctx, "")
	if err != nil {
		return fmt.Errorf("backup: %w", err)
	}
	removed, err := j.prune()
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"path":    res.Path,
		"bytes":   res.Bytes,
		"keep":    j.keep,
		"removed": removed,
	})
	if err != nil {
		return fmt.Errorf("prune backups: %w", err)
	}
	j.logg.Info(logCtx, "scheduled backup complete")
	return nil
}

// prune relies on the timestamp in generated names sorting chronologically.
func (j *backupJob) prune() (int, error) {
	entries, err := os.ReadDir(j.dir)
	if err != nil {
		return 0, err
	}
	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.Type().IsRegular() && strings.HasPrefix(name, maintenance.BackupPrefix) && strings.HasSuffix(name, maintenance.BackupExt) {
			names = append(names, name)
		}
	}
	if len(names) <= j.keep {
		return 0, nil
	}
	sort.Strings(names)

	var errs error
	removed := 0
	for _, name := range names[:len(names)-j.keep] {
		if err := os.Remove(filepath.Join(j.dir, name)); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		removed++
	}
	return removed, errs
}
