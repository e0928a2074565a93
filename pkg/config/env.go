package config

const EnvPrefix = "LNMEDICO"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	StorageDriverFile     = "file"
	StorageDriverSQLite   = "sqlite"
	StorageDriverPostgres = "postgres"
	StorageDriverRedis    = "redis"
	StorageDriverS3       = "s3"
)

const (
	EnvAppEnv        = "LNMEDICO_APP_ENV"
	EnvPort          = "LNMEDICO_APP_PORT"
	EnvLogLevel      = "LNMEDICO_LOG_LEVEL"
	EnvStorageDriver = "LNMEDICO_STORAGE_DRIVER"
	EnvDataDir       = "LNMEDICO_DATA_DIR"
	EnvDBDSN         = "LNMEDICO_DB_DSN"
	EnvRedisURL      = "LNMEDICO_REDIS_URL"
	EnvRedisAddr     = "LNMEDICO_REDIS_ADDR"
	EnvS3Bucket      = "LNMEDICO_S3_BUCKET"
	EnvSeedCatalog   = "LNMEDICO_SEED_CATALOG"
	EnvClinicName    = "LNMEDICO_CLINIC_NAME"
)
