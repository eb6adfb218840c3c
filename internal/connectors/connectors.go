package connectors

import (
	"fmt"
	"strings"

	"receipts/internal"
	"receipts/internal/config"
	gmailconnector "receipts/internal/connectors/gmail"
	imapconnector "receipts/internal/connectors/imap"
)

// MailConnector fetches up to max raw messages from label, optionally only
// those sent by from.
type MailConnector interface {
	FetchInbox(label, from string, max int) ([]internal.FetchedMailMessage, error)
}

func NewFromConfig(cfg config.Config) (MailConnector, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.MailProvider)) {
	case "gmail":
		return gmailconnector.NewConnector(cfg)
	case "imap":
		return imapconnector.NewConnector(cfg)
	default:
		return nil, fmt.Errorf("unsupported mail provider: %s", cfg.MailProvider)
	}
}
