package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Inventory    InventoryConfig
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
	Env          string `envconfig:"MERADUKAAN_APP_ENV" required:"true"`
	Port         string `envconfig:"MERADUKAAN_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MERADUKAAN_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MERADUKAAN_LOG_WARN_STACK" default:"false"`
	LogFormat    string `envconfig:"MERADUKAAN_LOG_FORMAT" default:"json"`
	// CORSOrigins is a comma-separated list; empty keeps the built-in origins.
	CORSOrigins []string `envconfig:"MERADUKAAN_CORS_ALLOWED_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"MERADUKAAN_DB_DSN"`

	LegacyHost     string `envconfig:"MERADUKAAN_DB_HOST"`
	LegacyPort     int    `envconfig:"MERADUKAAN_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MERADUKAAN_DB_USER"`
	LegacyPassword string `envconfig:"MERADUKAAN_DB_PASSWORD"`
	LegacyName     string `envconfig:"MERADUKAAN_DB_NAME"`
	LegacySSLMode  string `envconfig:"MERADUKAAN_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MERADUKAAN_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MERADUKAAN_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MERADUKAAN_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MERADUKAAN_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MERADUKAAN_REDIS_URL"`
	Address      string        `envconfig:"MERADUKAAN_REDIS_ADDR"`
	Password     string        `envconfig:"MERADUKAAN_REDIS_PASSWORD"`
	DB           int           `envconfig:"MERADUKAAN_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MERADUKAAN_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MERADUKAAN_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MERADUKAAN_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MERADUKAAN_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MERADUKAAN_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"MERADUKAAN_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"MERADUKAAN_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"MERADUKAAN_JWT_EXPIRATION_MINUTES" default:"1440"`
}

// TTL returns the access token lifetime.
func (j JWTConfig) TTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"MERADUKAAN_AUTO_MIGRATE" default:"false"`
}

type InventoryConfig struct {
	MaxBatchItems  int           `envconfig:"MERADUKAAN_INVENTORY_MAX_BATCH_ITEMS" default:"200"`
	SweepBatchSize int           `envconfig:"MERADUKAAN_INVENTORY_SWEEP_BATCH_SIZE" default:"100"`
	SweepLockTTL   time.Duration `envconfig:"MERADUKAAN_INVENTORY_SWEEP_LOCK_TTL" default:"15m"`
	IdempotencyTTL time.Duration `envconfig:"MERADUKAAN_INVENTORY_IDEMPOTENCY_TTL" default:"24h"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
