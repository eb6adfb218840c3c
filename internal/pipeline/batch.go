package pipeline

import (
	"fmt"
	"runtime"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"receipts/internal"
	"receipts/internal/config"
	"receipts/internal/logger"
	"receipts/internal/util"
)

type BatchRunner struct {
	cfg       config.Config
	log       zerolog.Logger
	processor *FileProcessor
}

func NewBatchRunner(cfg config.Config, log zerolog.Logger) *BatchRunner {
	return &BatchRunner{cfg: cfg, log: log, processor: NewFileProcessor(log)}
}

// Run extracts purchases from every regular file in dir and writes them to the
// configured outputs. Only a failure to list dir or to write an output is
// returned; bad files are logged and skipped.
func (r *BatchRunner) Run(dir string) (int, error) {
	files, err := util.ListRegularFiles(dir)
	if err != nil {
		return 0, fmt.Errorf("list %s: %w", dir, err)
	}

	// Each task owns its slot, so output order follows the sorted listing.
	outcomes := make([]FileOutcome, len(files))
	var g errgroup.Group
	g.SetLimit(r.workers())
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			outcomes[i] = r.processor.Process(path)
			return nil
		})
	}
	_ = g.Wait()

	purchases := collectPurchases(outcomes)
	if err := WritePurchasesCSV(purchases, r.cfg.OutputCSV); err != nil {
		return 0, fmt.Errorf("write %s: %w", r.cfg.OutputCSV, err)
	}
	if r.cfg.OutputXLSX != "" {
		if err := ExportPurchasesToXLSX(purchases, r.cfg.OutputXLSX); err != nil {
			return 0, fmt.Errorf("write %s: %w", r.cfg.OutputXLSX, err)
		}
	}

	r.log.Info().Int("files", len(files)).Msgf("Found %d purchases.", len(purchases))
	return len(purchases), nil
}

func (r *BatchRunner) workers() int {
	if r.cfg.Workers > 0 {
		return r.cfg.Workers
	}
	return runtime.NumCPU()
}

func collectPurchases(outcomes []FileOutcome) []internal.Purchase {
	total := 0
	for _, o := range outcomes {
		total += len(o.Purchases)
	}
	out := make([]internal.Purchase, 0, total)
	for _, o := range outcomes {
		if !o.OK {
			continue
		}
		out = append(out, o.Purchases...)
	}
	return out
}

// ProcessFolder is the minimal embedding boundary: 0 on success, 1 on any
// fatal error.
func ProcessFolder(dir string) int {
	cfg, err := config.Load()
	if err != nil {
		return 1
	}
	runner := NewBatchRunner(cfg, logger.New(cfg.LogLevel))
	if _, err := runner.Run(dir); err != nil {
		return 1
	}
	return 0
}
