package testcfg

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds test-specific configuration for collector acceptance tests.
// They run the installed Solana CLI and the real geolocation API, so a small
// cluster such as devnet keeps the enrichment step short.
type Config struct {
	SolanaCLIPath     string        `env:"COLLECTOR_TEST_SOLANA_CLI_PATH,expand" envDefault:"${HOME}/.local/share/solana/install/active_release/bin/solana"`
	SolanaCluster     string        `env:"COLLECTOR_TEST_SOLANA_CLUSTER" envDefault:"devnet"`
	IPInfoAPIURL      string        `env:"COLLECTOR_TEST_IPINFO_API_URL" envDefault:"https://ipinfo.io"`
	IPInfoToken       string        `env:"COLLECTOR_TEST_IPINFO_TOKEN,required,notEmpty"`
	HttpClientTimeout time.Duration `env:"COLLECTOR_TEST_HTTP_CLIENT_TIMEOUT" envDefault:"30s"`

	// Whole-run timeout
	RunTimeout time.Duration `env:"COLLECTOR_TEST_RUN_TIMEOUT" envDefault:"10m"`
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
