package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App       AppConfig
	Storage   StorageConfig
	DB        DBConfig
	Redis     RedisConfig
	S3        S3Config
	Inventory InventoryConfig
	Report    ReportConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings required by the selected storage driver.
func (c *Config) Validate() error {
	driver := c.Storage.NormalizedDriver()
	switch driver {
	case StorageDriverFile:
		if strings.TrimSpace(c.Storage.DataDir) == "" {
			return fmt.Errorf("%s is required for the %s driver", EnvDataDir, driver)
		}
	case StorageDriverSQLite, StorageDriverPostgres:
		if c.DB.DSN == "" {
			return fmt.Errorf("%s is required for the %s driver", EnvDBDSN, driver)
		}
	case StorageDriverRedis:
		if c.Redis.URL == "" && c.Redis.Address == "" {
			return fmt.Errorf("either %s or %s is required for the %s driver", EnvRedisURL, EnvRedisAddr, driver)
		}
	case StorageDriverS3:
		if c.S3.Bucket == "" {
			return fmt.Errorf("%s is required for the %s driver", EnvS3Bucket, driver)
		}
	default:
		return fmt.Errorf("unsupported %s %q", EnvStorageDriver, c.Storage.Driver)
	}
	return nil
}

type AppConfig struct {
	Env          string `envconfig:"LNMEDICO_APP_ENV" required:"true"`
	Port         string `envconfig:"LNMEDICO_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"LNMEDICO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LNMEDICO_LOG_WARN_STACK" default:"false"`
	LogFormat    string `envconfig:"LNMEDICO_LOG_FORMAT" default:"json"`

	CORSOrigins     []string      `envconfig:"LNMEDICO_CORS_ORIGINS"`
	ShutdownTimeout time.Duration `envconfig:"LNMEDICO_SHUTDOWN_TIMEOUT" default:"10s"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type StorageConfig struct {
	Driver  string `envconfig:"LNMEDICO_STORAGE_DRIVER" default:"file"`
	DataDir string `envconfig:"LNMEDICO_DATA_DIR" default:"data"`
}

// NormalizedDriver returns the lower-cased driver name, defaulting to file.
func (s StorageConfig) NormalizedDriver() string {
	driver := strings.ToLower(strings.TrimSpace(s.Driver))
	if driver == "" {
		return StorageDriverFile
	}
	return driver
}

type DBConfig struct {
	DSN         string `envconfig:"LNMEDICO_DB_DSN"`
	AutoMigrate bool   `envconfig:"LNMEDICO_DB_AUTO_MIGRATE" default:"true"`

	MaxOpenConns    int           `envconfig:"LNMEDICO_DB_MAX_OPEN_CONNS" default:"5"`
	MaxIdleConns    int           `envconfig:"LNMEDICO_DB_MAX_IDLE_CONNS" default:"2"`
	ConnMaxLifetime time.Duration `envconfig:"LNMEDICO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LNMEDICO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"LNMEDICO_REDIS_URL"`
	Address      string        `envconfig:"LNMEDICO_REDIS_ADDR"`
	Password     string        `envconfig:"LNMEDICO_REDIS_PASSWORD"`
	DB           int           `envconfig:"LNMEDICO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LNMEDICO_REDIS_POOL_SIZE" default:"4"`
	MinIdleConns int           `envconfig:"LNMEDICO_REDIS_MIN_IDLE_CONNS" default:"1"`
	DialTimeout  time.Duration `envconfig:"LNMEDICO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LNMEDICO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LNMEDICO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type S3Config struct {
	Bucket    string `envconfig:"LNMEDICO_S3_BUCKET"`
	Region    string `envconfig:"LNMEDICO_S3_REGION" default:"us-east-1"`
	Endpoint  string `envconfig:"LNMEDICO_S3_ENDPOINT"`
	Prefix    string `envconfig:"LNMEDICO_S3_PREFIX" default:"lnmedico/"`
	PathStyle bool   `envconfig:"LNMEDICO_S3_PATH_STYLE" default:"false"`

	// Static credentials are optional; the default AWS chain is used otherwise.
	AccessKeyID     string `envconfig:"LNMEDICO_S3_ACCESS_KEY_ID"`
	SecretAccessKey string `envconfig:"LNMEDICO_S3_SECRET_ACCESS_KEY"`
}

type InventoryConfig struct {
	SeedCatalog bool `envconfig:"LNMEDICO_SEED_CATALOG" default:"true"`
}

type ReportConfig struct {
	ClinicName  string `envconfig:"LNMEDICO_CLINIC_NAME" default:"LNMedico"`
	Tagline     string `envconfig:"LNMEDICO_CLINIC_TAGLINE" default:"Healthcare Management System"`
	ContactLine string `envconfig:"LNMEDICO_CLINIC_CONTACT" default:"Bhopal, Madhya Pradesh | contact@lnmedico.com"`
	Currency    string `envconfig:"LNMEDICO_CURRENCY" default:"Rs."`
}
