// Package pipeline sequences the batch GCD run end to end: ingest the
// input table, build the product tree, descend the remainder tree, then
// extract compromised moduli. Each stage's error is wrapped with the stage
// it occurred in, per spec.md §7's error design.
package pipeline

import (
	"context"
	"math/big"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/batchgcd/batchgcd/internal/bgerrors"
	"github.com/batchgcd/batchgcd/internal/config"
	"github.com/batchgcd/batchgcd/internal/gcdextract"
	"github.com/batchgcd/batchgcd/internal/ingest"
	"github.com/batchgcd/batchgcd/internal/levelstore"
	"github.com/batchgcd/batchgcd/internal/manifest"
	"github.com/batchgcd/batchgcd/internal/producttree"
	"github.com/batchgcd/batchgcd/internal/remaindertree"
	"github.com/batchgcd/batchgcd/internal/telemetry"
)

// Result is the outcome of one full run.
type Result struct {
	gcdextract.Result
	InputCount int
	Levels     int
	Elapsed    time.Duration
}

// Run executes the pipeline described by cfg, logging stage progress to log
// and emitting OpenTelemetry spans (if tracing is configured) around each
// of the three expensive stages.
func Run(ctx context.Context, cfg *config.Config, log zerolog.Logger) (Result, error) {
	start := time.Now()

	ctx, span := telemetry.StartSpan(ctx, "batchgcd.run")
	defer span.End()

	ids, moduli, err := loadInput(ctx, cfg, log)
	if err != nil {
		return Result{}, bgerrors.Wrap(bgerrors.StageIngest, err)
	}

	store, err := levelstore.Open(cfg.TreeDir)
	if err != nil {
		return Result{}, bgerrors.Wrap(bgerrors.StageProductTree, err)
	}
	defer store.Close()

	manifestPath := filepath.Join(store.Root(), "manifest")
	idsPath := filepath.Join(store.Root(), "ids")

	var levels int
	var m manifest.Manifest
	if existing, loadErr := manifest.Load(manifestPath); loadErr == nil {
		// A prior run already folded this input into a product tree under
		// this root; reuse it rather than rebuilding (spec.md §6's resume
		// scenario) as long as the persisted leaf count still matches.
		if existing.FloorSizes[0] == len(moduli) {
			log.Info().Msg("reusing persisted product tree")
			m, levels = existing, existing.Levels()
			if persistedIDs, idsErr := manifest.LoadIDs(idsPath); idsErr == nil {
				ids = persistedIDs
			}
		}
	}
	if levels == 0 {
		levels, m, err = buildTree(ctx, cfg, log, store, moduli)
		if err != nil {
			return Result{}, bgerrors.Wrap(bgerrors.StageProductTree, err)
		}
		if err := manifest.Save(manifestPath, m); err != nil {
			return Result{}, bgerrors.Wrap(bgerrors.StageProductTree, err)
		}
		if err := manifest.SaveIDs(idsPath, ids); err != nil {
			return Result{}, bgerrors.Wrap(bgerrors.StageProductTree, err)
		}
	}

	remainders, err := descend(ctx, cfg, log, store, m, len(moduli), levels)
	if err != nil {
		return Result{}, bgerrors.Wrap(bgerrors.StageRemainders, err)
	}

	res, err := extract(ctx, log, ids, moduli, remainders)
	if err != nil {
		return Result{}, bgerrors.Wrap(bgerrors.StageGCD, err)
	}

	return Result{
		Result:     res,
		InputCount: len(moduli),
		Levels:     levels,
		Elapsed:    time.Since(start),
	}, nil
}

func loadInput(ctx context.Context, cfg *config.Config, log zerolog.Logger) ([]int64, []*big.Int, error) {
	_, span := telemetry.StartSpan(ctx, "batchgcd.ingest")
	defer span.End()

	done := telemetry.Stage(log, "ingest", 0)
	ids, moduli, err := ingest.LoadModuli(cfg.InputPath)
	if err != nil {
		return nil, nil, err
	}
	done()
	return ids, moduli, nil
}

func buildTree(ctx context.Context, cfg *config.Config, log zerolog.Logger, store *levelstore.Store, moduli []*big.Int) (int, manifest.Manifest, error) {
	_, span := telemetry.StartSpan(ctx, "batchgcd.product_tree")
	defer span.End()

	leaves := producttree.NewLeaves(moduli)

	done := telemetry.Stage(log, "product_tree", leaves.Len())
	levels, m, err := producttree.Build(store, leaves, producttree.Options{
		Workers: cfg.Workers,
		OnLevel: func(level, count int) {
			log.Debug().Int("level", level).Int("count", count).Msg("level persisted")
		},
	})
	if err != nil {
		return 0, manifest.Manifest{}, err
	}
	done()
	return levels, m, nil
}

func descend(ctx context.Context, cfg *config.Config, log zerolog.Logger, store *levelstore.Store, m manifest.Manifest, k, levels int) ([]*big.Int, error) {
	_, span := telemetry.StartSpan(ctx, "batchgcd.remainder_tree")
	defer span.End()

	done := telemetry.Stage(log, "remainder_tree:"+cfg.Variant, k)
	defer done()

	opts := remaindertree.Options{
		Workers: cfg.Workers,
		OnLevel: func(level, count int) {
			log.Debug().Int("level", level).Int("count", count).Msg("level reduced")
		},
	}

	switch config.Variant(cfg.Variant) {
	case config.VariantFast:
		return remaindertree.ComputeFast(store, m, opts)
	default:
		return remaindertree.ComputeFrugal(store, k, levels, opts)
	}
}

func extract(ctx context.Context, log zerolog.Logger, ids []int64, moduli, remainders []*big.Int) (gcdextract.Result, error) {
	_, span := telemetry.StartSpan(ctx, "batchgcd.gcd_extract")
	defer span.End()

	done := telemetry.Stage(log, "gcd_extract", len(moduli))
	res, err := gcdextract.Extract(ids, moduli, remainders)
	if err != nil {
		return gcdextract.Result{}, err
	}
	done()
	log.Info().Int("compromised", res.TotalCount).Msg("extraction complete")
	return res, nil
}
