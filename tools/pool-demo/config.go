package main

import (
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/rdeusser/tagpool/records"
)

type Config struct {
	BatchSize int      `env:"POOL_BATCH_SIZE"`
	LogLevel  string   `env:"POOL_LOG_LEVEL"`
	Kinds     []string `env:"POOL_KINDS" envSeparator:","`
	Rounds    int      `env:"POOL_ROUNDS"`
}

func defaultConfig() Config {
	return Config{
		BatchSize: 1,
		LogLevel:  "info",
		Kinds:     []string{records.KindBase.String(), records.KindExtended.String()},
		Rounds:    1,
	}
}

// ParseConfig layers defaults, then flags, then environment variables.
func ParseConfig(args []string) (Config, error) {
	cfg := defaultConfig()

	flags := pflag.NewFlagSet("pool-demo", pflag.ContinueOnError)

	flags.IntVarP(&cfg.BatchSize, "batch-size", "b", cfg.BatchSize, "factory calls per refill pass")
	flags.StringVarP(&cfg.LogLevel, "log-level", "l", cfg.LogLevel, "log level")
	flags.StringSliceVarP(&cfg.Kinds, "kinds", "k", cfg.Kinds, "record kinds to allocate each round")
	flags.IntVarP(&cfg.Rounds, "rounds", "r", cfg.Rounds, "allocate/release rounds")

	if err := flags.Parse(args); err != nil {
		return cfg, errors.Wrap(err, "parsing flags")
	}

	if flags.NArg() > 0 {
		return cfg, errors.Errorf("unexpected arguments: %s", strings.Join(flags.Args(), " "))
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, errors.Wrap(err, "parsing environment")
	}

	if cfg.Rounds < 1 {
		return cfg, errors.Errorf("rounds must be positive, got %d", cfg.Rounds)
	}

	return cfg, nil
}

// ParseKinds converts kind names into kinds.
func (c Config) ParseKinds() ([]records.Kind, error) {
	kinds := make([]records.Kind, 0, len(c.Kinds))

	for _, name := range c.Kinds {
		kind, err := records.ParseKind(strings.TrimSpace(name))
		if err != nil {
			return nil, errors.Wrapf(err, "kind %q", name)
		}

		kinds = append(kinds, kind)
	}

	return kinds, nil
}
