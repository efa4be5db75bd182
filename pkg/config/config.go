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
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
	Eventing     EventingConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	BigQuery     BigQueryConfig
	Outbox       OutboxConfig
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
	Env          string `envconfig:"PRICEBOOK_APP_ENV" required:"true"`
	Port         string `envconfig:"PRICEBOOK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PRICEBOOK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PRICEBOOK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"PRICEBOOK_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"PRICEBOOK_DB_DSN"`
	Driver string `envconfig:"PRICEBOOK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PRICEBOOK_DB_HOST"`
	LegacyPort     int    `envconfig:"PRICEBOOK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PRICEBOOK_DB_USER"`
	LegacyPassword string `envconfig:"PRICEBOOK_DB_PASSWORD"`
	LegacyName     string `envconfig:"PRICEBOOK_DB_NAME"`
	LegacySSLMode  string `envconfig:"PRICEBOOK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PRICEBOOK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PRICEBOOK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PRICEBOOK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PRICEBOOK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PRICEBOOK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PRICEBOOK_REDIS_ADDR"`
	Password     string        `envconfig:"PRICEBOOK_REDIS_PASSWORD"`
	DB           int           `envconfig:"PRICEBOOK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PRICEBOOK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PRICEBOOK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PRICEBOOK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PRICEBOOK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PRICEBOOK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"PRICEBOOK_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"PRICEBOOK_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"PRICEBOOK_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenHours int    `envconfig:"PRICEBOOK_JWT_REFRESH_TOKEN_HOURS" default:"168"`
}

// Expiration returns the access token lifetime.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

// RefreshTokenTTL returns the refresh session lifetime.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenHours <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenHours) * time.Hour
}

type RateLimitConfig struct {
	Requests int           `envconfig:"PRICEBOOK_RATE_LIMIT_REQUESTS" default:"120"`
	Window   time.Duration `envconfig:"PRICEBOOK_RATE_LIMIT_WINDOW" default:"1m"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"PRICEBOOK_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"PRICEBOOK_AUTO_MIGRATE" default:"false"`
}

type EventingConfig struct {
	OutboxIdempotencyTTL time.Duration `envconfig:"PRICEBOOK_EVENTING_IDEMPOTENCY_TTL" default:"720h"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"PRICEBOOK_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"PRICEBOOK_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"PRICEBOOK_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	PriceTopic        string `envconfig:"PRICEBOOK_PUBSUB_PRICE_TOPIC" required:"true"`
	PriceSubscription string `envconfig:"PRICEBOOK_PUBSUB_PRICE_SUBSCRIPTION" required:"true"`
}

type BigQueryConfig struct {
	Dataset           string `envconfig:"PRICEBOOK_BIGQUERY_DATASET" default:"pricebook"`
	PriceHistoryTable string `envconfig:"PRICEBOOK_BIGQUERY_PRICE_HISTORY_TABLE" default:"price_history"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"PRICEBOOK_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"PRICEBOOK_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"PRICEBOOK_OUTBOX_MAX_ATTEMPTS" default:"10"`
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
