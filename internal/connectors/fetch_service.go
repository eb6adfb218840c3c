package connectors

import (
	"github.com/rs/zerolog"
)

type FetchService struct {
	connector MailConnector
	store     *MailStoreService
	log       zerolog.Logger
}

type FetchResult struct {
	Fetched int
	Stored  int
}

func NewFetchService(rawMailDir string, connector MailConnector, log zerolog.Logger) *FetchService {
	return &FetchService{
		connector: connector,
		store:     NewMailStoreService(rawMailDir),
		log:       log,
	}
}

func (s *FetchService) FetchAndStore(label, from string, max int) (FetchResult, error) {
	messages, err := s.connector.FetchInbox(label, from, max)
	if err != nil {
		return FetchResult{}, err
	}

	stored := 0
	for _, msg := range messages {
		path, isNew, err := s.store.Store(msg)
		if err != nil {
			return FetchResult{}, err
		}
		if isNew {
			stored++
			s.log.Debug().Str("provider", msg.Provider).Str("messageId", msg.MessageID).Str("file", path).Msg("stored message")
		}
	}

	return FetchResult{Fetched: len(messages), Stored: stored}, nil
}
