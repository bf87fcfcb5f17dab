package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix is passed to envconfig; individual fields carry explicit names.
	EnvPrefix = "luma"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvDBDSN  = "LUMA_DB_DSN"
	EnvDBHost = "LUMA_DB_HOST"
	EnvDBUser = "LUMA_DB_USER"
	EnvDBName = "LUMA_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Cart          CartConfig
	Pricing       PricingConfig
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
	Env          string `envconfig:"LUMA_APP_ENV" required:"true"`
	Port         string `envconfig:"LUMA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"LUMA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LUMA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"LUMA_DB_DSN"`
	Driver string `envconfig:"LUMA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"LUMA_DB_HOST"`
	LegacyPort     int    `envconfig:"LUMA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"LUMA_DB_USER"`
	LegacyPassword string `envconfig:"LUMA_DB_PASSWORD"`
	LegacyName     string `envconfig:"LUMA_DB_NAME"`
	LegacySSLMode  string `envconfig:"LUMA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"LUMA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"LUMA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"LUMA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LUMA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"LUMA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"LUMA_REDIS_ADDR"`
	Password     string        `envconfig:"LUMA_REDIS_PASSWORD"`
	DB           int           `envconfig:"LUMA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LUMA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LUMA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LUMA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LUMA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LUMA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"LUMA_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"LUMA_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"LUMA_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"LUMA_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"LUMA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"LUMA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"LUMA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"LUMA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"LUMA_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"LUMA_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"LUMA_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"LUMA_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"LUMA_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"LUMA_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"LUMA_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

// CartConfig tunes the cart slot persistence.
type CartConfig struct {
	// SlotTTL bounds how long an untouched cart survives in Redis. Zero keeps
	// slots forever.
	SlotTTL time.Duration `envconfig:"LUMA_CART_SLOT_TTL" default:"720h"`
}

// PricingConfig carries the storefront pricing knobs. Defaults match the
// published storefront behavior: 11% tax, free shipping from Rp500.000,
// flat Rp50.000 below that.
type PricingConfig struct {
	TaxRatePercent        int   `envconfig:"LUMA_PRICING_TAX_RATE_PERCENT" default:"11"`
	FreeShippingThreshold int64 `envconfig:"LUMA_PRICING_FREE_SHIPPING_THRESHOLD" default:"500000"`
	FlatShippingFee       int64 `envconfig:"LUMA_PRICING_FLAT_SHIPPING_FEE" default:"50000"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"LUMA_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"LUMA_AUTO_MIGRATE" default:"false"`
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
