// Package maintenance backs up the store file and reports its size.
package maintenance

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/angelmondragon/counterpos/internal/repo"
	"github.com/angelmondragon/counterpos/pkg/db"
	"github.com/angelmondragon/counterpos/pkg/db/models"
	pkgerrors "github.com/angelmondragon/counterpos/pkg/errors"
	"github.com/angelmondragon/counterpos/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

const (
	// BackupPrefix and BackupExt frame every generated backup file name.
	BackupPrefix = "store_backup_"
	BackupExt    = ".db"

	backupTimeLayout = "20060102_150405"
)

type BackupResult struct {
	Path  string `json:"path"`
	Bytes int64  `json:"bytes"`
}

type Stats struct {
	Categories  int64           `json:"categories"`
	Items       int64           `json:"items"`
	Sales       int64           `json:"sales"`
	SaleDetails int64           `json:"sale_details"`
	SizeBytes   int64           `json:"size_bytes"`
	SizeMB      decimal.Decimal `json:"size_mb"`
}

type Service interface {
	// Backup copies the store to path, or to a timestamped file in the
	// backup directory when path is empty.
	Backup(ctx context.Context, path string) (*BackupResult, error)
	Stats(ctx context.Context) (*Stats, error)
}

type Option func(*service)

// WithClock overrides the time source used to name backups.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

type service struct {
	db        *db.Client
	backupDir string
	logg      *logger.Logger
	now       func() time.Time
}

func NewService(dbClient *db.Client, backupDir string, logg *logger.Logger, opts ...Option) (Service, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	s := &service{db: dbClient, backupDir: backupDir, logg: logg, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// DefaultBackupName returns store_backup_YYYYMMDD_HHMMSS.db for at.
func DefaultBackupName(at time.Time) string {
	return BackupPrefix + at.Format(backupTimeLayout) + BackupExt
}

func (s *service) Backup(ctx context.Context, path string) (*BackupResult, error) {
	src := s.db.Path()
	if src == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store has no file to back up")
	}
	if path == "" {
		path = filepath.Join(s.backupDir, DefaultBackupName(s.now()))
	}
	if filepath.Clean(path) == filepath.Clean(src) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "backup path must differ from the store path").
			WithDetails(map[string]any{"path": path})
	}

	if err := s.db.Exec(ctx, "PRAGMA wal_checkpoint(TRUNCATE)").Error; err != nil {
		return nil, repo.Classify(err, "checkpoint store")
	}

	written, err := copyFile(src, path)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "copy store file").
			WithDetails(map[string]any{"path": path})
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{"path": path, "bytes": written}), "store backed up")
	return &BackupResult{Path: path, Bytes: written}, nil
}

func copyFile(src, dst string) (written int64, err error) {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, err
	}

	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer func() { err = multierr.Append(err, in.Close()) }()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, err
	}
	defer func() { err = multierr.Append(err, out.Close()) }()

	written, err = io.Copy(out, in)
	if err != nil {
		return written, err
	}
	return written, out.Sync()
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	counts := []struct {
		model any
		dest  *int64
	}{
		{&models.Category{}, &stats.Categories},
		{&models.Item{}, &stats.Items},
		{&models.Sale{}, &stats.Sales},
		{&models.SaleDetail{}, &stats.SaleDetails},
	}
	conn := s.db.DB().WithContext(ctx)
	for _, c := range counts {
		if err := conn.Model(c.model).Count(c.dest).Error; err != nil {
			return nil, repo.Classify(err, "count rows")
		}
	}

	if path := s.db.Path(); path != "" {
		info, err := os.Stat(path)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "stat store file")
		}
		stats.SizeBytes = info.Size()
	}
	stats.SizeMB = decimal.NewFromInt(stats.SizeBytes).Div(decimal.NewFromInt(1024 * 1024)).Round(2)
	return stats, nil
}
