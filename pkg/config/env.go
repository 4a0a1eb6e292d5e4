package config

const (
	EnvPrefix = "FOODCART"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	StorageDriverMemory   = "memory"
	StorageDriverSQLite   = "sqlite"
	StorageDriverPostgres = "postgres"
	StorageDriverRedis    = "redis"

	EnvAppEnv        = "FOODCART_APP_ENV"
	EnvPort          = "FOODCART_APP_PORT"
	EnvLogLevel      = "FOODCART_LOG_LEVEL"
	EnvStorageKey    = "FOODCART_STORAGE_KEY"
	EnvDeliveryFee   = "FOODCART_DELIVERY_FEE"
	EnvSyncInterval  = "FOODCART_SYNC_INTERVAL"
	EnvStorageDriver = "FOODCART_STORAGE_DRIVER"
	EnvSQLitePath    = "FOODCART_SQLITE_PATH"
	EnvDBDSN         = "FOODCART_DB_DSN"
	EnvDBHost        = "FOODCART_DB_HOST"
	EnvDBUser        = "FOODCART_DB_USER"
	EnvDBName        = "FOODCART_DB_NAME"
	EnvRedisURL      = "FOODCART_REDIS_URL"
	EnvRedisAddr     = "FOODCART_REDIS_ADDR"
	EnvBackendURL    = "FOODCART_BACKEND_BASE_URL"
	EnvBackendTO     = "FOODCART_BACKEND_TIMEOUT"
)

var storageDrivers = []string{
	StorageDriverMemory,
	StorageDriverSQLite,
	StorageDriverPostgres,
	StorageDriverRedis,
}

var postgresDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
