package imap

import (
	"crypto/tls"
	"fmt"
	"io"
	"net/textproto"
	"strings"
	"time"

	"github.com/emersion/go-imap"
	imapclient "github.com/emersion/go-imap/client"

	"receipts/internal"
	"receipts/internal/config"
)

const providerName = "imap"

type Connector struct {
	addr       string
	serverName string
	secure     bool
	user       string
	password   string
	markSeen   bool
}

func NewConnector(cfg config.Config) (*Connector, error) {
	required := [][2]string{
		{"IMAP_HOST", cfg.IMAPHost},
		{"IMAP_USER", cfg.IMAPUser},
		{"IMAP_PASSWORD", cfg.IMAPPassword},
	}
	for _, kv := range required {
		if err := cfg.Require(kv[0], kv[1]); err != nil {
			return nil, err
		}
	}

	return &Connector{
		addr:       fmt.Sprintf("%s:%d", cfg.IMAPHost, cfg.IMAPPort),
		serverName: cfg.IMAPHost,
		secure:     cfg.IMAPSecure,
		user:       cfg.IMAPUser,
		password:   cfg.IMAPPassword,
		markSeen:   cfg.IMAPMarkSeen,
	}, nil
}

// FetchInbox returns the newest max messages in label, optionally only those
// from the given sender. Already-seen messages are included; the store
// dedupes by content. A non-positive max fetches nothing.
func (c *Connector) FetchInbox(label, from string, max int) ([]internal.FetchedMailMessage, error) {
	if max <= 0 {
		return nil, nil
	}
	client, err := c.open(label)
	if err != nil {
		return nil, err
	}
	defer client.Logout()

	uids, err := client.UidSearch(searchCriteria(from))
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", label, err)
	}
	uids = newest(uids, max)
	if len(uids) == 0 {
		return nil, nil
	}

	out, fetched, err := fetchMessages(client, uids)
	if err != nil {
		return nil, err
	}

	if c.markSeen && !fetched.Empty() {
		op := imap.FormatFlagsOp(imap.AddFlags, true)
		if err := client.UidStore(fetched, op, []interface{}{imap.SeenFlag}, nil); err != nil {
			return nil, fmt.Errorf("mark seen: %w", err)
		}
	}
	return out, nil
}

// open dials, authenticates and selects label. The mailbox is opened
// read-only unless messages are to be flagged as seen.
func (c *Connector) open(label string) (*imapclient.Client, error) {
	var (
		client *imapclient.Client
		err    error
	)
	if c.secure {
		client, err = imapclient.DialTLS(c.addr, &tls.Config{ServerName: c.serverName})
	} else {
		client, err = imapclient.Dial(c.addr)
	}
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", c.addr, err)
	}

	if err := client.Login(c.user, c.password); err != nil {
		client.Logout()
		return nil, fmt.Errorf("login: %w", err)
	}
	if _, err := client.Select(label, !c.markSeen); err != nil {
		client.Logout()
		return nil, fmt.Errorf("select %s: %w", label, err)
	}
	return client, nil
}

// fetchMessages downloads the full RFC 822 body of every uid. It returns the
// converted messages and the set of uids actually received. Flags may only
// be stored after the fetch channel has drained.
func fetchMessages(client *imapclient.Client, uids []uint32) ([]internal.FetchedMailMessage, *imap.SeqSet, error) {
	set := new(imap.SeqSet)
	set.AddNum(uids...)

	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{imap.FetchEnvelope, imap.FetchInternalDate, imap.FetchUid, section.FetchItem()}

	stream := make(chan *imap.Message, len(uids))
	done := make(chan error, 1)
	go func() { done <- client.UidFetch(set, items, stream) }()

	out := make([]internal.FetchedMailMessage, 0, len(uids))
	fetched := new(imap.SeqSet)
	var readErr error
	for msg := range stream {
		if msg == nil || readErr != nil {
			continue
		}
		body := msg.GetBody(section)
		if body == nil {
			continue
		}
		raw, err := io.ReadAll(body)
		if err != nil {
			readErr = err
			continue
		}
		out = append(out, toFetchedMessage(msg, raw))
		fetched.AddNum(msg.Uid)
	}

	if err := <-done; err != nil {
		return nil, nil, fmt.Errorf("fetch: %w", err)
	}
	if readErr != nil {
		return nil, nil, readErr
	}
	return out, fetched, nil
}

func toFetchedMessage(msg *imap.Message, raw []byte) internal.FetchedMailMessage {
	out := internal.FetchedMailMessage{
		Provider:   providerName,
		MessageID:  fmt.Sprintf("imap-%d", msg.Uid),
		ReceivedAt: time.Now().UTC().Format(time.RFC3339),
		Raw:        raw,
	}
	if env := msg.Envelope; env != nil {
		if env.MessageId != "" {
			out.MessageID = env.MessageId
		}
		out.Subject = env.Subject
		out.From = formatAddresses(env.From)
	}
	if !msg.InternalDate.IsZero() {
		out.ReceivedAt = msg.InternalDate.UTC().Format(time.RFC3339)
	}
	return out
}

// newest keeps the last max uids. Servers return search results in
// ascending order.
func newest(uids []uint32, max int) []uint32 {
	if max <= 0 {
		return nil
	}
	if len(uids) > max {
		return uids[len(uids)-max:]
	}
	return uids
}

func searchCriteria(from string) *imap.SearchCriteria {
	criteria := imap.NewSearchCriteria()
	if from = strings.TrimSpace(from); from != "" {
		criteria.Header = textproto.MIMEHeader{"From": {from}}
	}
	return criteria
}

func formatAddresses(addrs []*imap.Address) string {
	parts := make([]string, 0, len(addrs))
	for _, a := range addrs {
		if a == nil {
			continue
		}
		email := a.Address()
		if a.PersonalName == "" {
			parts = append(parts, email)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s <%s>", a.PersonalName, email))
	}
	return strings.Join(parts, ", ")
}
