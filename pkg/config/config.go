// Package config defines the environment configuration for the verifier
// processor and the attestation registry.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/caarlos0/env/v11"
)

// Static error variables for err113 compliance
var (
	errUnknownNetwork  = errors.New("unknown bitcoin network")
	errUnknownLogLevel = errors.New("unknown log level")
	errInvalidMaxSize  = errors.New("max instruction data size must be positive")
)

// Config holds all environment-derived settings.
type Config struct {
	ProgramEnvConfig
	MongoEnvConfig
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// ProgramEnvConfig configures verification.
type ProgramEnvConfig struct {
	Network                string `env:"BTC_NETWORK" envDefault:"mainnet"`
	MaxInstructionDataSize int    `env:"MAX_INSTRUCTION_DATA_SIZE" envDefault:"1232"`
}

// MongoEnvConfig configures the attestation registry.
type MongoEnvConfig struct {
	MongoURI      string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"btc_ownership"`
}

// Load parses the process environment into a Config and validates it.
func Load() (*Config, error) {
	return LoadFrom(nil)
}

// LoadFrom parses environ instead of the process environment when it is
// non-nil.
func LoadFrom(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the network and log level are known and the size
// limit is positive.
func (c *Config) Validate() error {
	if _, err := c.ChainParams(); err != nil {
		return err
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if c.MaxInstructionDataSize <= 0 {
		return fmt.Errorf("%w: %d", errInvalidMaxSize, c.MaxInstructionDataSize)
	}
	return nil
}

// ChainParams maps the configured network name to its chain parameters.
func (c *ProgramEnvConfig) ChainParams() (*chaincfg.Params, error) {
	switch strings.ToLower(strings.TrimSpace(c.Network)) {
	case "", "mainnet", "main":
		return &chaincfg.MainNetParams, nil
	case "testnet3", "testnet":
		return &chaincfg.TestNet3Params, nil
	case "regtest":
		return &chaincfg.RegressionNetParams, nil
	case "signet":
		return &chaincfg.SigNetParams, nil
	case "simnet":
		return &chaincfg.SimNetParams, nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownNetwork, c.Network)
	}
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: %q", errUnknownLogLevel, c.LogLevel)
	}
	return level, nil
}
