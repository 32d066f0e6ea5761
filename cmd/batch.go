package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var batchConcurrency int

var batchCmd = &cobra.Command{
	Use:   "batch FILE...",
	Short: "Price multiple proposal files concurrently",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		zap.L().Info("pricing batch",
			zap.Int("proposals", len(args)),
			zap.Int("concurrency", batchConcurrency),
		)

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(batchConcurrency)

		var succeeded, failed atomic.Int64

		for _, path := range args {
			g.Go(func() error {
				log := zap.L().With(zap.String("file", path))

				if err := priceFile(gctx, env, path); err != nil {
					failed.Add(1)
					log.Error("proposal pricing failed", zap.Error(err))
					return nil // don't abort batch on individual failure
				}
				succeeded.Add(1)
				log.Info("proposal priced", zap.String("output", outputPath(path)))
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return err
		}

		zap.L().Info("batch complete",
			zap.Int64("succeeded", succeeded.Load()),
			zap.Int64("failed", failed.Load()),
		)
		if failed.Load() > 0 {
			return eris.Errorf("%d of %d proposals failed", failed.Load(), len(args))
		}
		return nil
	},
}

// priceFile prices one proposal file and writes the result next to it.
func priceFile(ctx context.Context, env *engineEnv, path string) error {
	proposal, err := readProposal(path)
	if err != nil {
		return err
	}

	priced, err := env.Pricer.PriceProposal(ctx, *proposal)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(priced, "", "  ")
	if err != nil {
		return eris.Wrap(err, "marshal priced proposal")
	}
	return eris.Wrapf(os.WriteFile(outputPath(path), out, 0o644), "write %s", outputPath(path))
}

func outputPath(input string) string {
	return strings.TrimSuffix(input, ".json") + ".priced.json"
}

func init() {
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 4, "max proposals priced in parallel")
	rootCmd.AddCommand(batchCmd)
}
