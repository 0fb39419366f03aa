package testcfg

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds test-specific configuration for ipinfo client acceptance tests
type Config struct {
	Token       string        `env:"IPINFO_TEST_TOKEN,required,notEmpty"`
	IP          string        `env:"IPINFO_TEST_IP" envDefault:"8.8.8.8"`
	HTTPTimeout time.Duration `env:"IPINFO_TEST_HTTP_TIMEOUT" envDefault:"30s"`
	BaseURL     string        `env:"IPINFO_TEST_BASE_URL" envDefault:"https://ipinfo.io"`
}

// parseConfig wraps env.Parse to return (Config, error) for use with env.Must
func parseConfig() (Config, error) {
	var cfg Config
	err := env.Parse(&cfg)
	return cfg, err
}

// New loads test configuration from environment variables
func New() Config {
	return env.Must(parseConfig())
}
