package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SARVESHVARADKAR123/bottle/internal/domain"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	// ───── Infrastructure ─────
	StoreDriver  string   `env:"STORE_DRIVER" envDefault:"postgres"`
	DatabaseURL  string   `env:"DATABASE_URL"`
	RedisAddr    string   `env:"REDIS_ADDR"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`

	// ───── Runtime ─────
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":8080"`
	GRPCAddr        string        `env:"GRPC_ADDR" envDefault:":9090"`
	ObsHTTPAddr     string        `env:"OBS_HTTP_ADDR" envDefault:":9100"`
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"bottle"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	BasePath        string        `env:"BASE_PATH" envDefault:"/api"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`
	StoreTimeout    time.Duration `env:"STORE_TIMEOUT" envDefault:"3s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	SeedOnStart     bool          `env:"SEED_ON_START" envDefault:"false"`

	// ───── Moderator Security ─────
	JWTSecret     string        `env:"JWT_SECRET,required"`
	JWTIssuer     string        `env:"JWT_ISSUER" envDefault:"bottle"`
	JWTAudience   string        `env:"JWT_AUDIENCE" envDefault:"bottle-admin"`
	TokenTTL      time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	AdminSetupKey string        `env:"ADMIN_SETUP_KEY,required"`

	// ───── Submission ─────
	ContentMinLen    int           `env:"CONTENT_MIN_LEN" envDefault:"10"`
	ContentMaxLen    int           `env:"CONTENT_MAX_LEN" envDefault:"500"`
	AuthorMinLen     int           `env:"AUTHOR_MIN_LEN" envDefault:"2"`
	AuthorMaxLen     int           `env:"AUTHOR_MAX_LEN" envDefault:"50"`
	SubmitRateLimit  int           `env:"SUBMIT_RATE_LIMIT" envDefault:"10"`
	SubmitRateWindow time.Duration `env:"SUBMIT_RATE_WINDOW" envDefault:"1m"`
	TrustProxy       bool          `env:"TRUST_PROXY_HEADERS" envDefault:"false"`
	GeoLookupURL     string        `env:"GEO_LOOKUP_URL"`
	GeoTimeout       time.Duration `env:"GEO_TIMEOUT" envDefault:"2s"`

	// ───── Selection ─────
	OwnMessageEvery int `env:"OWN_MESSAGE_EVERY" envDefault:"0"`

	// ───── Observability ─────
	TracingEnabled  bool          `env:"TRACING_ENABLED" envDefault:"false"`
	JaegerURL       string        `env:"JAEGER_URL" envDefault:"http://jaeger:14268/api/traces"`
	OutboxBatchSize int           `env:"OUTBOX_BATCH_SIZE" envDefault:"100"`
	OutboxPollDelay time.Duration `env:"OUTBOX_POLL_DELAY" envDefault:"500ms"`
}

// Load reads an optional .env file, then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load(".env")
	return parse(env.Options{})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.HTTPAddr = fixPort(cfg.HTTPAddr)
	cfg.GRPCAddr = fixPort(cfg.GRPCAddr)
	cfg.ObsHTTPAddr = fixPort(cfg.ObsHTTPAddr)
	cfg.BasePath = "/" + strings.Trim(cfg.BasePath, "/")

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var errs []error

	switch c.StoreDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres store"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}

	if c.ContentMinLen < 1 || c.ContentMinLen > c.ContentMaxLen {
		errs = append(errs, errors.New("CONTENT_MIN_LEN must be positive and not above CONTENT_MAX_LEN"))
	}
	if c.AuthorMinLen < 1 || c.AuthorMinLen > c.AuthorMaxLen {
		errs = append(errs, errors.New("AUTHOR_MIN_LEN must be positive and not above AUTHOR_MAX_LEN"))
	}
	if c.OwnMessageEvery < 0 {
		errs = append(errs, errors.New("OWN_MESSAGE_EVERY must not be negative"))
	}

	return errors.Join(errs...)
}

func (c Config) Limits() domain.Limits {
	return domain.Limits{
		ContentMin: c.ContentMinLen,
		ContentMax: c.ContentMaxLen,
		AuthorMin:  c.AuthorMinLen,
		AuthorMax:  c.AuthorMaxLen,
	}
}

func fixPort(port string) string {
	if port != "" && !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
