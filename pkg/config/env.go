package config

const EnvPrefix = "SITEADMIN"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	StorageDriverGCS    = "gcs"
	StorageDriverMemory = "memory"
)

const (
	EnvAppEnv        = "SITEADMIN_APP_ENV"
	EnvPort          = "SITEADMIN_APP_PORT"
	EnvDBDSN         = "SITEADMIN_DB_DSN"
	EnvDBHost        = "SITEADMIN_DB_HOST"
	EnvDBPort        = "SITEADMIN_DB_PORT"
	EnvDBUser        = "SITEADMIN_DB_USER"
	EnvDBPassword    = "SITEADMIN_DB_PASSWORD"
	EnvDBName        = "SITEADMIN_DB_NAME"
	EnvRedisURL      = "SITEADMIN_REDIS_URL"
	EnvJWTSecret     = "SITEADMIN_JWT_SECRET"
	EnvJWTIssuer     = "SITEADMIN_JWT_ISSUER"
	EnvStorageDriver = "SITEADMIN_STORAGE_DRIVER"
	EnvStorageBucket = "SITEADMIN_STORAGE_BUCKET"
	EnvMaxUploadMB   = "SITEADMIN_MAX_UPLOAD_MB"
	EnvCORSOrigins   = "SITEADMIN_CORS_ALLOWED_ORIGINS"
	EnvSweeperGrace  = "SITEADMIN_SWEEPER_GRACE_PERIOD"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
