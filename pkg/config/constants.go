package config

const (
	EnvPrefix = "COUNTERPOS"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv      = "COUNTERPOS_APP_ENV"
	EnvLogLevel    = "COUNTERPOS_LOG_LEVEL"
	EnvHTTPAddr    = "COUNTERPOS_HTTP_ADDR"
	EnvHTTPOrigins = "COUNTERPOS_HTTP_ALLOWED_ORIGINS"
	EnvDBDSN       = "COUNTERPOS_DB_DSN"
	EnvDBPath      = "COUNTERPOS_DB_PATH"
	EnvDBBusy      = "COUNTERPOS_DB_BUSY_TIMEOUT"
	EnvBackupDir   = "COUNTERPOS_BACKUP_DIR"
	EnvAutoMigrate = "COUNTERPOS_AUTO_MIGRATE"
)
