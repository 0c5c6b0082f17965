package config

// EnvPrefix is handed to envconfig; every field carries an explicit name so it
// only matters for fields without one.
const EnvPrefix = "MERADUKAAN"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv   = "MERADUKAAN_APP_ENV"
	EnvPort     = "MERADUKAAN_APP_PORT"
	EnvLogLevel = "MERADUKAAN_LOG_LEVEL"

	EnvDBDSN  = "MERADUKAAN_DB_DSN"
	EnvDBHost = "MERADUKAAN_DB_HOST"
	EnvDBUser = "MERADUKAAN_DB_USER"
	EnvDBName = "MERADUKAAN_DB_NAME"

	EnvRedisURL = "MERADUKAAN_REDIS_URL"

	EnvJWTSecret  = "MERADUKAAN_JWT_SECRET"
	EnvJWTIssuer  = "MERADUKAAN_JWT_ISSUER"
	EnvJWTExpMins = "MERADUKAAN_JWT_EXPIRATION_MINUTES"

	EnvSweepBatchSize = "MERADUKAAN_INVENTORY_SWEEP_BATCH_SIZE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
