package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	License       LicenseConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	CORS          CORSConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"POSCLOUD_APP_ENV" required:"true"`
	Port         string `envconfig:"POSCLOUD_APP_PORT" default:"3001"`
	LogLevel     string `envconfig:"POSCLOUD_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"POSCLOUD_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"POSCLOUD_DB_DSN"`
	Driver string `envconfig:"POSCLOUD_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"POSCLOUD_DB_HOST"`
	LegacyPort     int    `envconfig:"POSCLOUD_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"POSCLOUD_DB_USER"`
	LegacyPassword string `envconfig:"POSCLOUD_DB_PASSWORD"`
	LegacyName     string `envconfig:"POSCLOUD_DB_NAME"`
	LegacySSLMode  string `envconfig:"POSCLOUD_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"POSCLOUD_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"POSCLOUD_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"POSCLOUD_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"POSCLOUD_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"POSCLOUD_REDIS_URL"`
	Address      string        `envconfig:"POSCLOUD_REDIS_ADDR"`
	Password     string        `envconfig:"POSCLOUD_REDIS_PASSWORD"`
	DB           int           `envconfig:"POSCLOUD_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"POSCLOUD_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"POSCLOUD_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"POSCLOUD_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"POSCLOUD_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"POSCLOUD_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"POSCLOUD_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"POSCLOUD_JWT_ISSUER" default:"poscloud"`
	ExpirationMinutes int    `envconfig:"POSCLOUD_JWT_EXPIRATION_MINUTES" default:"10080"`
}

type LicenseConfig struct {
	// SigningSecret keys the HMAC attestation returned by license verification.
	SigningSecret string `envconfig:"POSCLOUD_LICENSE_SIGNING_SECRET" required:"true"`
	// DefaultMaxDevices caps authorized devices for businesses created without a plan.
	DefaultMaxDevices int `envconfig:"POSCLOUD_LICENSE_DEFAULT_MAX_DEVICES" default:"3"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"POSCLOUD_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"POSCLOUD_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"POSCLOUD_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"POSCLOUD_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"POSCLOUD_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"POSCLOUD_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"POSCLOUD_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"POSCLOUD_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"POSCLOUD_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"POSCLOUD_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"POSCLOUD_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"POSCLOUD_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"POSCLOUD_AUTO_MIGRATE" default:"false"`
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
