package engine

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/lottietrim/internal/config"
	"github.com/ivlev/lottietrim/internal/report"
)

// TrimmedPath returns <dir>/<name>_trimmed.json for an input animation.
func TrimmedPath(dir, input string) string {
	name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(dir, name+"_trimmed.json")
}

// RunBatch trims several animations with at most cfg.Workers in flight.
// Each input gets its own source; frames of one input are still scanned
// one at a time. The first failure cancels the remaining inputs.
func RunBatch(ctx context.Context, cfg *config.Config, inputs []string, logger *log.Logger) ([]*Summary, error) {
	if len(inputs) > 1 && cfg.ReportInput != "" {
		return nil, fmt.Errorf("отчёт можно использовать только для одной анимации")
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Workers, 1))

	summaries := make([]*Summary, len(inputs))
	for i, input := range inputs {
		g.Go(func() error {
			c := *cfg
			c.InputPath = input
			c.OutputPath = TrimmedPath(cfg.OutputDir, input)
			if cfg.ReportDir != "" {
				c.ReportPath = report.GenerateReportPath(cfg.ReportDir, input)
			}

			project := NewTrimProject(&c, nil)
			if logger != nil {
				project.Logger = logger
			}
			s, err := project.Run(ctx)
			if err != nil {
				return fmt.Errorf("%s: %w", filepath.Base(input), err)
			}
			summaries[i] = s
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}
