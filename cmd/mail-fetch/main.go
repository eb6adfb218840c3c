package main

import (
	"flag"
	"fmt"
	"os"

	"receipts/internal/config"
	"receipts/internal/connectors"
	"receipts/internal/logger"
)

func main() {
	cfg, err := config.Load()
	must(err)

	fs := flag.NewFlagSet("mail-fetch", flag.ExitOnError)
	provider := fs.String("provider", cfg.MailProvider, "gmail|imap")
	label := fs.String("label", cfg.MailLabel, "mailbox/label")
	from := fs.String("from", cfg.MailFromFilter, "only messages from this sender (empty for all)")
	limit := fs.Int("max", cfg.MailFetchMax, "max messages")
	out := fs.String("out", cfg.RawMailDir, "directory to store .eml files in")
	_ = fs.Parse(os.Args[1:])

	cfg.MailProvider = *provider
	conn, err := connectors.NewFromConfig(cfg)
	must(err)

	fetch := connectors.NewFetchService(*out, conn, logger.New(cfg.LogLevel))
	result, err := fetch.FetchAndStore(*label, *from, *limit)
	must(err)
	fmt.Printf("mail fetch done provider=%s fetched=%d stored=%d dir=%s\n", *provider, result.Fetched, result.Stored, *out)
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
