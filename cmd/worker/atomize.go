package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/RuleWorld/PyBioNetGen-sub000/config"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/oracle"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/atomization/service"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/bootstrap"
	"github.com/RuleWorld/PyBioNetGen-sub000/internal/observability"
)

// RunAtomize atomizes one network file and writes the outputs to outDir.
// Oracle answers are cached on disk so repeated runs stay offline.
func RunAtomize(args []string) error {
	var svg bool
	var pos []string
	for _, a := range args {
		if a == "--svg" {
			svg = true
			continue
		}
		pos = append(pos, a)
	}
	if len(pos) < 1 {
		return fmt.Errorf("usage: atomize <networkPath> [outDir] [--svg]")
	}
	in := pos[0]
	out := "out"
	if len(pos) > 1 {
		out = pos[1]
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := observability.NewLogger(cfg.App.Environment, cfg.App.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	var cache oracle.Cache
	if cfg.Oracle.URL != "" {
		bc, err := oracle.OpenBadgerCache(cfg.Oracle.CacheDir)
		if err != nil {
			return err
		}
		defer bc.Close()
		cache = bc
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := bootstrap.PipelineOptions(cfg, bootstrap.NewOracle(cfg.Oracle, cache, logger, nil), logger, nil)
	res, err := service.AtomizeFile(ctx, in, out, opts)
	if err != nil {
		return err
	}

	fmt.Printf("Wrote: %s, %s, %s, %s\n",
		filepath.Join(out, "result.json"), filepath.Join(out, "result.yaml"),
		filepath.Join(out, "sct.dot"), filepath.Join(out, "model.bngl"))
	if svg {
		path, err := service.RenderSVG(out, cfg.App.DotBin)
		if err != nil {
			logger.Warn("svg render skipped", zap.Error(err))
		} else {
			fmt.Printf("Wrote: %s\n", path)
		}
	}

	fmt.Printf("Species (%d), passes %d, votes %d\n", len(res.Species), res.Passes, res.Votes)
	for _, sp := range res.Species {
		fmt.Printf(" - %s: %s\n", sp.ID, sp.Pattern)
	}
	if len(res.Unresolved) > 0 {
		fmt.Printf("Unresolved (%d):\n", len(res.Unresolved))
		for _, u := range res.Unresolved {
			fmt.Printf(" - %s %v\n", u.Species, u.Pairs)
		}
	}
	fmt.Printf("Assumptions (%d):\n", len(res.Assumptions))
	for _, a := range res.Assumptions {
		fmt.Printf(" - [%s] %v: %s\n", a.Kind, a.Species, a.Message)
	}
	return nil
}
