package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Resolver modes accepted in DNS.Resolver.
const (
	// ResolverSystem uses the operating system resolver.
	ResolverSystem = "system"
	// ResolverDirect queries DNS.Server directly.
	ResolverDirect = "direct"
	// ResolverStatic answers from DNS.Static only, without any network access.
	ResolverStatic = "static"
)

// Config represents the application configuration structure.
type Config struct {
	// Environment specifies the current running environment (development, production, etc.)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`

	// HTTP contains all HTTP server related configurations
	HTTP struct {
		// Addr is the address and port the HTTP server will listen on
		Addr string `env:"HTTP_ADDR" env-default:":8080" yaml:"addr"`
		// ReadTimeout is the maximum duration for reading the entire request, including the body
		ReadTimeout time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"1m" yaml:"readTimeout"`
		// ReadHeaderTimeout is the amount of time allowed to read request headers
		ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" env-default:"10s" yaml:"readHeaderTimeout"`
		// WriteTimeout is the maximum duration before timing out writes of the response
		WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"2m" yaml:"writeTimeout"`
		// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled
		IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"2m" yaml:"idleTimeout"`
		// RequestTimeout bounds the handling of a single request, MX lookups included
		RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" env-default:"10s" yaml:"requestTimeout"`
		// MaxHeaderBytes controls the maximum number of bytes the server will read parsing the request header
		MaxHeaderBytes int `env:"HTTP_MAX_HEADER_BYTES" env-default:"0" yaml:"maxHeaderBytes"`
		// MaxBodyBytes limits the size of request bodies
		MaxBodyBytes int64 `env:"HTTP_MAX_BODY_BYTES" env-default:"1048576" yaml:"maxBodyBytes"`
		// MetricsPath defines the URL path where metrics are exposed
		MetricsPath string `env:"HTTP_METRICS_PATH" env-default:"/metrics" yaml:"metricsPath"`
	} `yaml:"http"`

	// JWT holds the RS256 key pair used for API bearer tokens. Authentication is
	// disabled when PublicKey is empty.
	JWT struct {
		PublicKey  string `env:"JWT_PUBLIC_KEY"  yaml:"publicKey"`
		PrivateKey string `env:"JWT_PRIVATE_KEY" yaml:"privateKey"`
	} `yaml:"jwt"`

	// DNS configures the MX lookup service
	DNS struct {
		// Resolver is one of "system", "direct" or "static"
		Resolver string `env:"DNS_RESOLVER" env-default:"system" yaml:"resolver"`
		// Server is the host:port queried in direct mode
		Server string `env:"DNS_SERVER" env-default:"8.8.8.8:53" yaml:"server"`
		// Net is the transport used in direct mode: udp, tcp or tcp-tls
		Net string `env:"DNS_NET" env-default:"udp" yaml:"net"`
		// Timeout bounds one MX lookup, retries included
		Timeout time.Duration `env:"DNS_TIMEOUT" env-default:"5s" yaml:"timeout"`
		// MaxRetries is the number of retries after a failed lookup
		MaxRetries uint64 `env:"DNS_MAX_RETRIES" env-default:"2" yaml:"maxRetries"`
		// RetryInitialInterval is the first backoff delay between retries
		RetryInitialInterval time.Duration `env:"DNS_RETRY_INITIAL_INTERVAL" env-default:"100ms" yaml:"retryInitialInterval"` //nolint: lll
		// RetryMaxInterval caps the backoff delay
		RetryMaxInterval time.Duration `env:"DNS_RETRY_MAX_INTERVAL" env-default:"1s" yaml:"retryMaxInterval"`
		// Static maps domains to MX hosts; used by the static resolver
		Static map[string][]string `yaml:"static"`
	} `yaml:"dns"`

	// Canonicalizer configures the canonicalization service
	Canonicalizer struct {
		// BatchConcurrency is the number of addresses of a batch processed at once
		BatchConcurrency int `env:"CANONICALIZER_BATCH_CONCURRENCY" env-default:"8" yaml:"batchConcurrency"`
		// MaxBatchSize is the maximum number of addresses in one batch
		MaxBatchSize int `env:"CANONICALIZER_MAX_BATCH_SIZE" env-default:"100" yaml:"maxBatchSize"`
		// AssumeOtherOnLookupFailure treats domains whose MX lookup failed as not handled by Google
		AssumeOtherOnLookupFailure bool `env:"CANONICALIZER_ASSUME_OTHER_ON_LOOKUP_FAILURE" env-default:"false" yaml:"assumeOtherOnLookupFailure"` //nolint: lll
	} `yaml:"canonicalizer"`

	// GracefulShutdownTimeout is the maximum duration to wait for ongoing requests to complete during shutdown
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"10s" yaml:"gracefulShutdownTimeout"` //nolint: lll
}

// Validate reports configuration values that cannot work.
func (c *Config) Validate() error {
	switch c.DNS.Resolver {
	case ResolverSystem, ResolverStatic:
	case ResolverDirect:
		if c.DNS.Server == "" {
			return errors.New("dns.server is required by the direct resolver")
		}
	default:
		return fmt.Errorf("unknown dns.resolver %q", c.DNS.Resolver)
	}

	if c.Canonicalizer.BatchConcurrency < 1 {
		return fmt.Errorf("canonicalizer.batchConcurrency must be positive, got %d", c.Canonicalizer.BatchConcurrency)
	}
	if c.Canonicalizer.MaxBatchSize < 1 {
		return fmt.Errorf("canonicalizer.maxBatchSize must be positive, got %d", c.Canonicalizer.MaxBatchSize)
	}

	return nil
}

// Load reads the yaml config file at configPath, applies environment
// overrides and validates the result. When the file does not exist the
// configuration comes from the environment and defaults only.
func Load(configPath string) (*Config, error) {
	var cfg Config

	_, statErr := os.Stat(configPath)
	switch {
	case statErr == nil:
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, fmt.Errorf("could not read config: %w", err)
		}
	case errors.Is(statErr, fs.ErrNotExist):
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("could not read config from env: %w", err)
		}
	default:
		return nil, fmt.Errorf("could not stat config file: %w", statErr)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
