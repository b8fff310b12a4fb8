package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "sushka"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "SUSHKA_DB_DSN"
	EnvDBHost = "SUSHKA_DB_HOST"
	EnvDBUser = "SUSHKA_DB_USER"
	EnvDBName = "SUSHKA_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Cache        CacheConfig
	Mail         MailConfig
	NovaPoshta   NovaPoshtaConfig
	Cron         CronConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"SUSHKA_APP_ENV" required:"true"`
	Port         string `envconfig:"SUSHKA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SUSHKA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SUSHKA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SUSHKA_DB_DSN"`
	Driver string `envconfig:"SUSHKA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SUSHKA_DB_HOST"`
	LegacyPort     int    `envconfig:"SUSHKA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SUSHKA_DB_USER"`
	LegacyPassword string `envconfig:"SUSHKA_DB_PASSWORD"`
	LegacyName     string `envconfig:"SUSHKA_DB_NAME"`
	LegacySSLMode  string `envconfig:"SUSHKA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SUSHKA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SUSHKA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SUSHKA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SUSHKA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SUSHKA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SUSHKA_REDIS_ADDR"`
	Password     string        `envconfig:"SUSHKA_REDIS_PASSWORD"`
	DB           int           `envconfig:"SUSHKA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SUSHKA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SUSHKA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SUSHKA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SUSHKA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SUSHKA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"SUSHKA_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"SUSHKA_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"SUSHKA_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"SUSHKA_REFRESH_TOKEN_TTL_MINUTES" default:"10080"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SUSHKA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SUSHKA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SUSHKA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SUSHKA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SUSHKA_ARGON_KEY_LEN" default:"32"`
}

type CacheConfig struct {
	TTL     time.Duration `envconfig:"SUSHKA_CACHE_TTL" default:"1800s"`
	Enabled bool          `envconfig:"SUSHKA_CACHE_ENABLED" default:"true"`
}

type MailConfig struct {
	APIURL      string        `envconfig:"SUSHKA_MAIL_API_URL"`
	APIKey      string        `envconfig:"SUSHKA_MAIL_API_KEY"`
	FromAddress string        `envconfig:"SUSHKA_MAIL_FROM" default:"no-reply@sushka.shop"`
	AdminEmail  string        `envconfig:"SUSHKA_MAIL_ADMIN_EMAIL"`
	Timeout     time.Duration `envconfig:"SUSHKA_MAIL_TIMEOUT" default:"10s"`
	QueueSize   int           `envconfig:"SUSHKA_MAIL_QUEUE_SIZE" default:"64"`
}

type NovaPoshtaConfig struct {
	APIURL   string        `envconfig:"SUSHKA_NOVA_POSHTA_API_URL" default:"https://api.novaposhta.ua/v2.0/json/"`
	APIKey   string        `envconfig:"SUSHKA_NOVA_POSHTA_API_KEY"`
	Cities   []string      `envconfig:"SUSHKA_NOVA_POSHTA_CITIES" default:"Київ,Львів,Одеса,Харків,Дніпро"`
	PageSize int           `envconfig:"SUSHKA_NOVA_POSHTA_PAGE_SIZE" default:"500"`
	Timeout  time.Duration `envconfig:"SUSHKA_NOVA_POSHTA_TIMEOUT" default:"30s"`
}

type CronConfig struct {
	// SyncHour is the local wall-clock hour the warehouse sync fires at.
	SyncHour int           `envconfig:"SUSHKA_CRON_SYNC_HOUR" default:"22"`
	Interval time.Duration `envconfig:"SUSHKA_CRON_INTERVAL" default:"24h"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SUSHKA_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SUSHKA_AUTO_MIGRATE" default:"false"`
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
