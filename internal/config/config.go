// Package config declares the typed process configuration for a QFC
// node, parsed with ardanlabs/conf the same way the teacher's node
// service configures itself: a nested struct of named groups with
// `conf:"default:..."` tags, read from environment variables and flags.
package config

import (
	"fmt"

	"github.com/ardanlabs/conf/v3"
)

// build is the version string reported in conf.Version; set via
// -ldflags at build time, matching the teacher's main.build convention.
var build = "develop"

// Config is the full set of tunables for a QFC node.
type Config struct {
	conf.Version
	Ledger struct {
		ShardCount uint16 `conf:"default:4"`
	}
	Consensus struct {
		InitialDifficulty uint16 `conf:"default:4"`
		TargetBlockTime   string `conf:"default:60s"`
		AdjustmentWindow  uint16 `conf:"default:10"`
		BaseReward        uint64 `conf:"default:50"`
		HalvingInterval   uint64 `conf:"default:210000"`
	}
}

// Parse reads configuration from environment variables prefixed QFC_ and
// from command-line flags, applying the defaults declared above. It
// returns conf.ErrHelpWanted (via the wrapped error) when the caller
// passed -h/--help; callers should print help and exit 0 in that case.
func Parse() (Config, string, error) {
	cfg := Config{
		Version: conf.Version{
			Build: build,
			Desc:  "QFC sharded proof-of-work ledger",
		},
	}

	const prefix = "QFC"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		return Config{}, help, err
	}

	out, err := conf.String(&cfg)
	if err != nil {
		return Config{}, "", fmt.Errorf("generating config for output: %w", err)
	}

	return cfg, out, nil
}
