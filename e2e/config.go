package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// MASTER_ADDR points at a running master; the suites are skipped without it
	MasterAddr string `envconfig:"MASTER_ADDR"`
	// AUTH_SECRET must match the master's to mint tokens for the test users
	AuthSecret string `envconfig:"AUTH_SECRET"`
	// E2E_DEBUG_JSON allows dumping full gRPC request/response bodies as JSON
	DebugJSON bool `envconfig:"E2E_DEBUG_JSON" default:"false"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
