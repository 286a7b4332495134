package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Password  PasswordConfig
	RateLimit RateLimitConfig
	GCP       GCPConfig
	Storage   StorageConfig
	Sweeper   SweeperConfig
	CORS      CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SITEADMIN_APP_ENV" required:"true"`
	Port         string `envconfig:"SITEADMIN_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SITEADMIN_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SITEADMIN_LOG_WARN_STACK" default:"false"`
	AutoMigrate  bool   `envconfig:"SITEADMIN_AUTO_MIGRATE" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"SITEADMIN_DB_DSN"`

	LegacyHost     string `envconfig:"SITEADMIN_DB_HOST"`
	LegacyPort     int    `envconfig:"SITEADMIN_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SITEADMIN_DB_USER"`
	LegacyPassword string `envconfig:"SITEADMIN_DB_PASSWORD"`
	LegacyName     string `envconfig:"SITEADMIN_DB_NAME"`
	LegacySSLMode  string `envconfig:"SITEADMIN_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SITEADMIN_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SITEADMIN_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SITEADMIN_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SITEADMIN_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	SlowQueryThreshold time.Duration `envconfig:"SITEADMIN_DB_SLOW_QUERY_THRESHOLD" default:"500ms"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SITEADMIN_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SITEADMIN_REDIS_ADDR"`
	Password     string        `envconfig:"SITEADMIN_REDIS_PASSWORD"`
	DB           int           `envconfig:"SITEADMIN_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SITEADMIN_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SITEADMIN_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SITEADMIN_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SITEADMIN_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SITEADMIN_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"SITEADMIN_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"SITEADMIN_JWT_ISSUER" default:"siteadmin"`
	ExpirationMinutes      int    `envconfig:"SITEADMIN_JWT_EXPIRATION_MINUTES" default:"60"`
	RefreshTokenTTLMinutes int    `envconfig:"SITEADMIN_REFRESH_TOKEN_TTL_MINUTES" default:"10080"`
}

// AccessTokenTTL returns the access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SITEADMIN_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SITEADMIN_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SITEADMIN_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SITEADMIN_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SITEADMIN_ARGON_KEY_LEN" default:"32"`
}

type RateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"SITEADMIN_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"SITEADMIN_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"SITEADMIN_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	LeadWindow      time.Duration `envconfig:"SITEADMIN_RATE_LIMIT_LEAD_WINDOW" default:"10m"`
	LeadIPLimit     int           `envconfig:"SITEADMIN_RATE_LIMIT_LEAD_IP_LIMIT" default:"5"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"SITEADMIN_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"SITEADMIN_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"SITEADMIN_GOOGLE_APPLICATION_CREDENTIALS"`
}

type StorageConfig struct {
	Driver        string `envconfig:"SITEADMIN_STORAGE_DRIVER" default:"gcs"`
	Bucket        string `envconfig:"SITEADMIN_STORAGE_BUCKET" required:"true"`
	PublicBaseURL string `envconfig:"SITEADMIN_STORAGE_PUBLIC_BASE_URL" default:"https://storage.googleapis.com"`
	APIBaseURL    string `envconfig:"SITEADMIN_STORAGE_API_BASE_URL" default:"https://storage.googleapis.com"`
	CacheControl  string `envconfig:"SITEADMIN_STORAGE_CACHE_CONTROL" default:"public, max-age=3600"`
	MaxUploadMB   int    `envconfig:"SITEADMIN_MAX_UPLOAD_MB" default:"10"`
}

// MaxUploadBytes returns the per-file upload ceiling.
func (s StorageConfig) MaxUploadBytes() int64 {
	if s.MaxUploadMB <= 0 {
		return 10 << 20
	}
	return int64(s.MaxUploadMB) << 20
}

func (s StorageConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(s.Driver)) {
	case StorageDriverGCS, StorageDriverMemory:
		return nil
	default:
		return fmt.Errorf("%s must be %q or %q, got %q", EnvStorageDriver, StorageDriverGCS, StorageDriverMemory, s.Driver)
	}
}

type SweeperConfig struct {
	GracePeriod time.Duration `envconfig:"SITEADMIN_SWEEPER_GRACE_PERIOD" default:"24h"`
	Interval    time.Duration `envconfig:"SITEADMIN_SWEEPER_INTERVAL" default:"0"`
	DryRun      bool          `envconfig:"SITEADMIN_SWEEPER_DRY_RUN" default:"true"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"SITEADMIN_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
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
