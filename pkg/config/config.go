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
	Password     PasswordConfig
	CompanyCache CompanyCacheConfig
	FeatureFlags FeatureFlagsConfig
	Stripe       StripeConfig
	AzureBlob    AzureBlobConfig
	Sidecar      SidecarConfig
	Instagram    InstagramConfig
	Media        MediaConfig
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
	Env          string `envconfig:"FLEETDESK_APP_ENV" required:"true"`
	Port         string `envconfig:"FLEETDESK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FLEETDESK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FLEETDESK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FLEETDESK_DB_DSN"`
	Driver string `envconfig:"FLEETDESK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FLEETDESK_DB_HOST"`
	LegacyPort     int    `envconfig:"FLEETDESK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FLEETDESK_DB_USER"`
	LegacyPassword string `envconfig:"FLEETDESK_DB_PASSWORD"`
	LegacyName     string `envconfig:"FLEETDESK_DB_NAME"`
	LegacySSLMode  string `envconfig:"FLEETDESK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FLEETDESK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FLEETDESK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FLEETDESK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FLEETDESK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FLEETDESK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FLEETDESK_REDIS_ADDR"`
	Password     string        `envconfig:"FLEETDESK_REDIS_PASSWORD"`
	DB           int           `envconfig:"FLEETDESK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FLEETDESK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FLEETDESK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FLEETDESK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FLEETDESK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FLEETDESK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"FLEETDESK_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"FLEETDESK_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"FLEETDESK_JWT_EXPIRATION_MINUTES" default:"720"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FLEETDESK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FLEETDESK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FLEETDESK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FLEETDESK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FLEETDESK_ARGON_KEY_LEN" default:"32"`
}

// CompanyCacheConfig controls the per-company configuration cache.
type CompanyCacheConfig struct {
	TTL               time.Duration `envconfig:"FLEETDESK_COMPANY_CACHE_TTL" default:"15m"`
	InvalidateChannel string        `envconfig:"FLEETDESK_COMPANY_CACHE_CHANNEL" default:"fd:company-config:invalidate"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FLEETDESK_AUTO_MIGRATE" default:"false"`
}

type StripeConfig struct {
	APIKey string `envconfig:"FLEETDESK_STRIPE_API_KEY"`
	Env    string `envconfig:"FLEETDESK_STRIPE_ENV" default:"test"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

type AzureBlobConfig struct {
	AccountName string `envconfig:"FLEETDESK_AZURE_ACCOUNT_NAME" required:"true"`
	AccountKey  string `envconfig:"FLEETDESK_AZURE_ACCOUNT_KEY" required:"true"`
	// Endpoint overrides the default https://<account>.blob.core.windows.net,
	// used against Azurite in dev.
	Endpoint          string   `envconfig:"FLEETDESK_AZURE_BLOB_ENDPOINT"`
	AllowedContainers []string `envconfig:"FLEETDESK_AZURE_ALLOWED_CONTAINERS" default:"images,videos,documents,logos,banners"`
}

type SidecarConfig struct {
	BaseURL string        `envconfig:"FLEETDESK_IMAGE_SIDECAR_URL" default:"http://localhost:3050"`
	Timeout time.Duration `envconfig:"FLEETDESK_IMAGE_SIDECAR_TIMEOUT" default:"5s"`
}

type InstagramConfig struct {
	GraphBaseURL string `envconfig:"FLEETDESK_INSTAGRAM_GRAPH_URL" default:"https://graph.facebook.com"`
	APIVersion   string `envconfig:"FLEETDESK_INSTAGRAM_API_VERSION" default:"v19.0"`
}

type MediaConfig struct {
	MaxVideoMB   int64 `envconfig:"FLEETDESK_MEDIA_MAX_VIDEO_MB" default:"500"`
	MaxBannerMB  int64 `envconfig:"FLEETDESK_MEDIA_MAX_BANNER_MB" default:"10"`
	MaxLogoMB    int64 `envconfig:"FLEETDESK_MEDIA_MAX_LOGO_MB" default:"5"`
	MaxVehicleMB int64 `envconfig:"FLEETDESK_MEDIA_MAX_VEHICLE_MB" default:"10"`
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
