package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	HTTP         HTTPConfig
	DB           DBConfig
	Store        StoreConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"COUNTERPOS_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"COUNTERPOS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"COUNTERPOS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// HTTPConfig controls the loopback API consumed by the desktop front end.
type HTTPConfig struct {
	Addr            string        `envconfig:"COUNTERPOS_HTTP_ADDR" default:"127.0.0.1:8765"`
	AllowedOrigins  []string      `envconfig:"COUNTERPOS_HTTP_ALLOWED_ORIGINS" default:"http://localhost:5173,http://127.0.0.1:5173"`
	ShutdownTimeout time.Duration `envconfig:"COUNTERPOS_HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
}

type DBConfig struct {
	DSN  string `envconfig:"COUNTERPOS_DB_DSN"`
	Path string `envconfig:"COUNTERPOS_DB_PATH" default:"store.db"`

	BusyTimeout time.Duration `envconfig:"COUNTERPOS_DB_BUSY_TIMEOUT" default:"5s"`
	JournalMode string        `envconfig:"COUNTERPOS_DB_JOURNAL_MODE" default:"WAL"`
	Synchronous string        `envconfig:"COUNTERPOS_DB_SYNCHRONOUS" default:"NORMAL"`

	MaxOpenConns    int           `envconfig:"COUNTERPOS_DB_MAX_OPEN_CONNS" default:"4"`
	MaxIdleConns    int           `envconfig:"COUNTERPOS_DB_MAX_IDLE_CONNS" default:"2"`
	ConnMaxLifetime time.Duration `envconfig:"COUNTERPOS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"COUNTERPOS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// StoreConfig controls backups. A zero BackupInterval disables scheduled backups.
type StoreConfig struct {
	BackupDir      string        `envconfig:"COUNTERPOS_BACKUP_DIR" default:"backups"`
	BackupInterval time.Duration `envconfig:"COUNTERPOS_BACKUP_INTERVAL" default:"0s"`
	BackupKeep     int           `envconfig:"COUNTERPOS_BACKUP_KEEP" default:"7"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"COUNTERPOS_AUTO_MIGRATE" default:"true"`
}

// ensureDSN builds a go-sqlite3 DSN from Path when no explicit DSN was provided.
func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if strings.TrimSpace(db.Path) == "" {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, EnvDBPath)
	}
	db.DSN = BuildSQLiteDSN(db.Path, db.BusyTimeout, db.JournalMode, db.Synchronous)
	return nil
}

// BuildSQLiteDSN returns a file DSN with the pragmas the store relies on: foreign keys,
// a bounded busy wait and immediate write locks.
func BuildSQLiteDSN(path string, busyTimeout time.Duration, journalMode, synchronous string) string {
	q := url.Values{}
	q.Set("_foreign_keys", "on")
	q.Set("_busy_timeout", fmt.Sprintf("%d", busyTimeout.Milliseconds()))
	q.Set("_txlock", "immediate")
	if journalMode != "" {
		q.Set("_journal_mode", strings.ToUpper(journalMode))
	}
	if synchronous != "" {
		q.Set("_synchronous", strings.ToUpper(synchronous))
	}
	return "file:" + filepath.ToSlash(path) + "?" + q.Encode()
}
