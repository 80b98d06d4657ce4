package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "BB"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv        = "BB_APP_ENV"
	EnvPort          = "BB_APP_PORT"
	EnvDBDSN         = "BB_DB_DSN"
	EnvDBHost        = "BB_DB_HOST"
	EnvDBUser        = "BB_DB_USER"
	EnvDBName        = "BB_DB_NAME"
	EnvRedisURL      = "BB_REDIS_URL"
	EnvJWTSecret     = "BB_JWT_SECRET"
	EnvJWTIssuer     = "BB_JWT_ISSUER"
	EnvJWTExpMins    = "BB_JWT_EXPIRATION_MINUTES"
	EnvGCPProjectID  = "BB_GCP_PROJECT_ID"
	EnvOrdersTopic   = "BB_PUBSUB_ORDERS_TOPIC"
	EnvOrdersSub     = "BB_PUBSUB_ORDERS_SUBSCRIPTION"
	EnvWhatsAppPhone = "BB_WHATSAPP_PHONE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	Firestore    FirestoreConfig
	PubSub       PubSubConfig
	BigQuery     BigQueryConfig
	Delivery     DeliveryConfig
	WhatsApp     WhatsAppConfig
	Reviews      ReviewsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if _, _, err := cfg.Delivery.CutoffClock(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BB_APP_ENV" required:"true"`
	Port         string `envconfig:"BB_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BB_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BB_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BB_DB_DSN"`
	Driver string `envconfig:"BB_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BB_DB_HOST"`
	LegacyPort     int    `envconfig:"BB_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BB_DB_USER"`
	LegacyPassword string `envconfig:"BB_DB_PASSWORD"`
	LegacyName     string `envconfig:"BB_DB_NAME"`
	LegacySSLMode  string `envconfig:"BB_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BB_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BB_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BB_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BB_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BB_REDIS_ADDR"`
	Password     string        `envconfig:"BB_REDIS_PASSWORD"`
	DB           int           `envconfig:"BB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"BB_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"BB_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"BB_JWT_EXPIRATION_MINUTES" default:"60"`
}

// TokenTTL returns the access token lifetime.
func (j JWTConfig) TokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"BB_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"BB_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"BB_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"BB_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"BB_GOOGLE_APPLICATION_CREDENTIALS"`
}

type FirestoreConfig struct {
	DatabaseID       string `envconfig:"BB_FIRESTORE_DATABASE" default:"(default)"`
	CollectionPrefix string `envconfig:"BB_FIRESTORE_COLLECTION_PREFIX"`
}

type PubSubConfig struct {
	OrdersTopic        string `envconfig:"BB_PUBSUB_ORDERS_TOPIC" required:"true"`
	OrdersSubscription string `envconfig:"BB_PUBSUB_ORDERS_SUBSCRIPTION" required:"true"`
}

type BigQueryConfig struct {
	Dataset          string `envconfig:"BB_BIGQUERY_DATASET" default:"biryaniboys"`
	OrderEventsTable string `envconfig:"BB_BIGQUERY_ORDER_EVENTS_TABLE" default:"order_events"`
}

// DeliveryConfig carries the ordering-window rule. Deliveries run on Friday
// and Saturday; the cutoff is the local time after which same-day ordering
// for an eligible day closes.
type DeliveryConfig struct {
	Cutoff   string `envconfig:"BB_DELIVERY_CUTOFF" default:"09:30"`
	Timezone string `envconfig:"BB_DELIVERY_TIMEZONE" default:"America/Chicago"`
}

// CutoffClock parses the configured cutoff into hour and minute.
func (d DeliveryConfig) CutoffClock() (int, int, error) {
	parts := strings.SplitN(strings.TrimSpace(d.Cutoff), ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid delivery cutoff %q", d.Cutoff)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid delivery cutoff hour %q", d.Cutoff)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid delivery cutoff minute %q", d.Cutoff)
	}
	return hour, minute, nil
}

// Location resolves the configured delivery timezone, falling back to UTC.
func (d DeliveryConfig) Location() *time.Location {
	loc, err := time.LoadLocation(d.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// WhatsAppConfig names the fixed destination the order summary is handed to.
type WhatsAppConfig struct {
	Phone string `envconfig:"BB_WHATSAPP_PHONE" required:"true"`
}

type ReviewsConfig struct {
	WindowSize int `envconfig:"BB_REVIEWS_WINDOW_SIZE" default:"10"`
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
