package gmail

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/jhillyerd/enmime"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"receipts/internal"
	"receipts/internal/config"
)

type Connector struct {
	service *gmail.Service
	limiter *RateLimiter
}

func NewConnector(cfg config.Config) (*Connector, error) {
	required := [][2]string{
		{"GMAIL_CLIENT_ID", cfg.GmailClientID},
		{"GMAIL_CLIENT_SECRET", cfg.GmailClientSecret},
		{"GMAIL_REFRESH_TOKEN", cfg.GmailRefreshToken},
	}
	for _, kv := range required {
		if err := cfg.Require(kv[0], kv[1]); err != nil {
			return nil, err
		}
	}

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.GmailClientID,
		ClientSecret: cfg.GmailClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  cfg.GmailRedirectURI,
		Scopes:       []string{gmail.GmailReadonlyScope},
	}

	ctx := context.Background()
	tokenSource := oauthCfg.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.GmailRefreshToken})
	svc, err := gmail.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, err
	}

	return &Connector{service: svc, limiter: NewRateLimiter(cfg.GmailRateLimitRPS)}, nil
}

// FetchInbox pages through label until max message ids are collected, then
// downloads each one in raw RFC 822 form. Headers are read from the raw
// message itself, so one API call per message is enough. A non-positive max
// fetches nothing.
func (c *Connector) FetchInbox(label, from string, max int) ([]internal.FetchedMailMessage, error) {
	ids, err := c.listMessageIDs(label, from, max)
	if err != nil {
		return nil, err
	}

	out := make([]internal.FetchedMailMessage, 0, len(ids))
	for _, id := range ids {
		c.limiter.WaitTurn()
		resp, err := c.service.Users.Messages.Get("me", id).Format("raw").Do()
		if err != nil {
			return nil, fmt.Errorf("get message %s: %w", id, err)
		}
		if resp.Raw == "" {
			continue
		}
		raw, err := decodeBase64URL(resp.Raw)
		if err != nil {
			return nil, err
		}
		out = append(out, toFetchedMessage(id, raw))
	}
	return out, nil
}

func (c *Connector) listMessageIDs(label, from string, max int) ([]string, error) {
	if max <= 0 {
		return nil, nil
	}
	call := c.service.Users.Messages.List("me").LabelIds(label)
	if from = strings.TrimSpace(from); from != "" {
		call = call.Q("from:" + from)
	}

	ids := make([]string, 0, max)
	pageToken := ""
	for len(ids) < max {
		call = call.MaxResults(int64(max - len(ids)))
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		c.limiter.WaitTurn()
		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("list messages: %w", err)
		}
		for _, ref := range resp.Messages {
			if ref.Id != "" {
				ids = append(ids, ref.Id)
			}
		}
		if resp.NextPageToken == "" || len(resp.Messages) == 0 {
			break
		}
		pageToken = resp.NextPageToken
	}
	return ids, nil
}

func toFetchedMessage(id string, raw []byte) internal.FetchedMailMessage {
	msg := internal.FetchedMailMessage{
		Provider:   "gmail",
		MessageID:  id,
		ReceivedAt: time.Now().UTC().Format(time.RFC3339),
		Raw:        raw,
	}

	// Header parse failures only lose metadata; the raw bytes are still stored.
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return msg
	}
	msg.Subject = env.GetHeader("Subject")
	msg.From = env.GetHeader("From")
	if messageID := env.GetHeader("Message-ID"); messageID != "" {
		msg.MessageID = messageID
	}
	if sent, err := env.Date(); err == nil {
		msg.ReceivedAt = sent.UTC().Format(time.RFC3339)
	}
	return msg
}

func decodeBase64URL(input string) ([]byte, error) {
	decoded, err := base64.RawURLEncoding.DecodeString(input)
	if err == nil {
		return decoded, nil
	}
	decoded, err = base64.URLEncoding.DecodeString(input)
	if err == nil {
		return decoded, nil
	}
	return nil, fmt.Errorf("decode gmail raw payload: %w", err)
}
