package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all configuration loaded from environment variables
type Config struct {
	// Solana CLI
	SolanaCLIPath string `env:"COLLECTOR_SOLANA_CLI_PATH,expand" envDefault:"${HOME}/.local/share/solana/install/active_release/bin/solana"`
	SolanaCluster string `env:"COLLECTOR_SOLANA_CLUSTER"`

	// Geolocation
	IPInfoAPIURL      string        `env:"COLLECTOR_IPINFO_API_URL" envDefault:"https://ipinfo.io"`
	IPInfoToken       string        `env:"COLLECTOR_IPINFO_TOKEN,required,notEmpty"`
	HttpClientTimeout time.Duration `env:"COLLECTOR_HTTP_CLIENT_TIMEOUT" envDefault:"30s"`

	// Output
	OutputPath string `env:"COLLECTOR_OUTPUT_PATH" envDefault:"validators.xlsx"`
	SheetName  string `env:"COLLECTOR_SHEET_NAME" envDefault:"Sheet1"`

	// Run summary table on stdout
	PrintSummary bool `env:"COLLECTOR_PRINT_SUMMARY" envDefault:"true"`

	// Optional snapshot store, disabled when empty
	DatabaseURL string `env:"COLLECTOR_DATABASE_URL"`

	LogLevel         string `env:"LOG_LEVEL" envDefault:"info"`
	LogHumanFriendly bool   `env:"LOG_HUMAN_FRIENDLY" envDefault:"false"`
}

// Parse loads the configuration, reporting every missing or malformed variable
func Parse() (Config, error) {
	var cfg Config
	err := env.Parse(&cfg)
	return cfg, err
}

// New loads all configuration from environment variables
func New() Config {
	return env.Must(Parse())
}
