package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rdeusser/tagpool/records"
	"github.com/rdeusser/tagpool/tagpool"
	"github.com/rdeusser/tagpool/zappretty"
)

func main() {
	cfg, err := ParseConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := zappretty.NewLogger(zapcore.Lock(os.Stderr), zappretty.ParseLevel(cfg.LogLevel), "pool-demo")
	defer logger.Sync()

	if err := run(cfg, logger, os.Stdout); err != nil {
		logger.Error("demo failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg Config, logger *zap.Logger, out io.Writer) error {
	kinds, err := cfg.ParseKinds()
	if err != nil {
		return err
	}

	factory := &records.Factory{}
	pool := records.NewPool(factory,
		tagpool.WithBatchSize[records.Record](cfg.BatchSize),
		tagpool.WithLogger[records.Record](logger.Named("pool")),
	)

	created := 0

	for round := 1; round <= cfg.Rounds; round++ {
		held := make([]*records.Record, 0, len(kinds))

		for _, kind := range kinds {
			r, ok := pool.Allocate(kind.Tag())
			if !ok {
				return errors.Errorf("round %d: no record available for kind %s", round, kind)
			}

			if err := verify(kind, r); err != nil {
				return errors.Wrapf(err, "round %d", round)
			}

			logger.Info("allocated", zap.Int("round", round), zap.Object("record", r))
			held = append(held, r)
		}

		for _, r := range held {
			if !pool.Release(r) {
				return errors.Errorf("round %d: release of %s record rejected", round, r.Kind)
			}

			logger.Debug("released", zap.Int("round", round), zap.Object("record", r))
		}

		if round == 1 {
			created = factory.Created()
		} else if factory.Created() != created {
			return errors.Errorf("round %d: pool created %d new records instead of reusing", round, factory.Created()-created)
		}
	}

	stats := pool.Stats()

	color.New(color.FgGreen, color.Bold).Fprintf(out, "reused %d records over %d rounds\n", created, cfg.Rounds)
	color.New(color.FgWhite).Fprintf(out, "free=%d in_use=%d tags=%v\n", stats.Free, stats.InUse, stats.Tags)

	return errors.Wrap(pool.Clear(), "clearing pool")
}

func verify(kind records.Kind, r *records.Record) error {
	want := (&records.Factory{}).New(kind.Tag())

	if r.Kind != kind || r.Base != want.Base {
		return errors.Errorf("record %+v does not match kind %s", r.Base, kind)
	}

	got, gotExt := r.Extended()
	wantExt, wantHasExt := want.Extended()

	if gotExt != wantHasExt || (gotExt && *got != *wantExt) {
		return errors.Errorf("extension of %s record is %+v", kind, got)
	}

	return nil
}
