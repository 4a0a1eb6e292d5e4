package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	Engine       EngineConfig
	Storage      StorageConfig
	DB           DBConfig
	Redis        RedisConfig
	Backend      BackendConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Engine.validate(); err != nil {
		return nil, err
	}
	if cfg.Storage.UsesDB() {
		if err := cfg.DB.ensureDSN(cfg.Storage.Driver); err != nil {
			return nil, err
		}
	}
	if cfg.Storage.Driver == StorageDriverRedis && cfg.Redis.URL == "" && cfg.Redis.Address == "" {
		return nil, fmt.Errorf("%s or %s is required for the redis storage driver", EnvRedisURL, EnvRedisAddr)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FOODCART_APP_ENV" required:"true"`
	Port         string `envconfig:"FOODCART_APP_PORT" default:"8787"`
	LogLevel     string `envconfig:"FOODCART_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"FOODCART_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"FOODCART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"FOODCART_SERVICE_KIND" default:"engine"`
}

// EngineConfig tunes the cart engine itself.
type EngineConfig struct {
	StorageKey   string        `envconfig:"FOODCART_STORAGE_KEY" default:"food-store"`
	DeliveryFee  string        `envconfig:"FOODCART_DELIVERY_FEE" default:"0"`
	SyncInterval time.Duration `envconfig:"FOODCART_SYNC_INTERVAL" default:"5m"`
}

// DeliveryFeeAmount parses the configured flat delivery fee.
func (e EngineConfig) DeliveryFeeAmount() decimal.Decimal {
	fee, err := decimal.NewFromString(strings.TrimSpace(e.DeliveryFee))
	if err != nil || fee.IsNegative() {
		return decimal.Zero
	}
	return fee
}

func (e EngineConfig) validate() error {
	if strings.TrimSpace(e.StorageKey) == "" {
		return fmt.Errorf("%s must not be empty", EnvStorageKey)
	}
	fee, err := decimal.NewFromString(strings.TrimSpace(e.DeliveryFee))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", EnvDeliveryFee, err)
	}
	if fee.IsNegative() {
		return fmt.Errorf("%s must be non-negative", EnvDeliveryFee)
	}
	return nil
}

// StorageConfig selects where engine snapshots are written.
type StorageConfig struct {
	Driver string `envconfig:"FOODCART_STORAGE_DRIVER" default:"sqlite"`
}

// UsesDB reports whether snapshots live in a SQL database.
func (s StorageConfig) UsesDB() bool {
	return s.Driver == StorageDriverSQLite || s.Driver == StorageDriverPostgres
}

func (s *StorageConfig) validate() error {
	s.Driver = strings.ToLower(strings.TrimSpace(s.Driver))
	for _, known := range storageDrivers {
		if s.Driver == known {
			return nil
		}
	}
	return fmt.Errorf("unknown %s %q (expected one of %s)", EnvStorageDriver, s.Driver, strings.Join(storageDrivers, ", "))
}

type DBConfig struct {
	DSN    string `envconfig:"FOODCART_DB_DSN"`
	Driver string `envconfig:"FOODCART_DB_DRIVER"`

	SQLitePath string `envconfig:"FOODCART_SQLITE_PATH" default:"foodcart.db"`

	Host     string `envconfig:"FOODCART_DB_HOST"`
	Port     int    `envconfig:"FOODCART_DB_PORT" default:"5432"`
	User     string `envconfig:"FOODCART_DB_USER"`
	Password string `envconfig:"FOODCART_DB_PASSWORD"`
	Name     string `envconfig:"FOODCART_DB_NAME"`
	SSLMode  string `envconfig:"FOODCART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FOODCART_DB_MAX_OPEN_CONNS" default:"5"`
	MaxIdleConns    int           `envconfig:"FOODCART_DB_MAX_IDLE_CONNS" default:"2"`
	ConnMaxLifetime time.Duration `envconfig:"FOODCART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FOODCART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FOODCART_REDIS_URL"`
	Address      string        `envconfig:"FOODCART_REDIS_ADDR"`
	Password     string        `envconfig:"FOODCART_REDIS_PASSWORD"`
	DB           int           `envconfig:"FOODCART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FOODCART_REDIS_POOL_SIZE" default:"4"`
	MinIdleConns int           `envconfig:"FOODCART_REDIS_MIN_IDLE_CONNS" default:"1"`
	DialTimeout  time.Duration `envconfig:"FOODCART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FOODCART_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"FOODCART_REDIS_WRITE_TIMEOUT" default:"3s"`
	SnapshotTTL  time.Duration `envconfig:"FOODCART_REDIS_SNAPSHOT_TTL" default:"0"`
}

// BackendConfig points at the food backend consumed by the API client.
type BackendConfig struct {
	BaseURL   string        `envconfig:"FOODCART_BACKEND_BASE_URL" required:"true"`
	Timeout   time.Duration `envconfig:"FOODCART_BACKEND_TIMEOUT" default:"10s"`
	AuthToken string        `envconfig:"FOODCART_BACKEND_AUTH_TOKEN"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FOODCART_AUTO_MIGRATE" default:"true"`
	CatalogSync bool `envconfig:"FOODCART_CATALOG_SYNC" default:"true"`
	Metrics     bool `envconfig:"FOODCART_METRICS" default:"true"`
}

func (db *DBConfig) ensureDSN(storageDriver string) error {
	if db.Driver == "" {
		db.Driver = storageDriver
	}
	if db.DSN != "" {
		return nil
	}

	if db.Driver == StorageDriverSQLite {
		if strings.TrimSpace(db.SQLitePath) == "" {
			return fmt.Errorf("%s is required for the sqlite storage driver", EnvSQLitePath)
		}
		db.DSN = db.SQLitePath
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range postgresDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
