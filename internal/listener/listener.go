package listener

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"

	"receipts/internal/config"
	"receipts/internal/connectors"
	"receipts/internal/logger"
	"receipts/internal/pipeline"
)

// Service periodically pulls new receipt mail into RawMailDir and rebuilds
// the purchase export from the whole directory. It logs through the logger
// carried by the context it is run with.
type Service struct {
	cfg       config.Config
	connector connectors.MailConnector
}

func NewService(cfg config.Config, connector connectors.MailConnector) *Service {
	return &Service{cfg: cfg, connector: connector}
}

// Run repeats fetch-then-extract every interval until ctx is cancelled. A
// failed cycle is logged and retried on the next tick.
func (s *Service) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info().
		Str("provider", s.cfg.MailProvider).
		Str("dir", s.cfg.RawMailDir).
		Dur("interval", s.interval()).
		Msg("listener started")
	for {
		if err := s.runCycle(log); err != nil {
			log.Error().Err(err).Msg("listener cycle failed")
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(s.interval()):
		}
	}
}

// RunOnce performs a single cycle and returns its error.
func (s *Service) RunOnce(ctx context.Context) error {
	return s.runCycle(logger.FromContext(ctx))
}

func (s *Service) runCycle(log zerolog.Logger) error {
	if err := os.MkdirAll(s.cfg.RawMailDir, 0o755); err != nil {
		return err
	}
	fetch := connectors.NewFetchService(s.cfg.RawMailDir, s.connector, log)
	fetchResult, err := fetch.FetchAndStore(s.cfg.MailLabel, s.cfg.MailFromFilter, s.cfg.MailFetchMax)
	if err != nil {
		return err
	}

	purchases, err := pipeline.NewBatchRunner(s.cfg, log).Run(s.cfg.RawMailDir)
	if err != nil {
		return err
	}

	log.Info().
		Str("provider", s.cfg.MailProvider).
		Int("fetched", fetchResult.Fetched).
		Int("stored", fetchResult.Stored).
		Int("purchases", purchases).
		Msg("listener cycle done")
	return nil
}

func (s *Service) interval() time.Duration {
	if s.cfg.MailListenerIntervalSec <= 0 {
		return time.Minute
	}
	return time.Duration(s.cfg.MailListenerIntervalSec) * time.Second
}
