package pipeline

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"receipts/internal/logger"
)

func mimeMessage(htmlBody string) string {
	return strings.Join([]string{
		`From: "App Store" <no_reply@email.apple.com>`,
		"Subject: Your receipt from Apple.",
		"MIME-Version: 1.0",
		`Content-Type: multipart/alternative; boundary="b1"`,
		"",
		"--b1",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"plain receipt",
		"--b1",
		"Content-Type: text/html; charset=utf-8",
		"",
		htmlBody,
		"--b1--",
		"",
	}, "\r\n")
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func copyFixture(t *testing.T, dir, name string) string {
	t.Helper()
	blob, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatal(err)
	}
	return writeFile(t, dir, name, string(blob))
}

func TestProcessReceiptFixture(t *testing.T) {
	path := copyFixture(t, t.TempDir(), "receipt.eml")
	buf := &bytes.Buffer{}

	outcome := NewFileProcessor(logger.NewWithWriter(buf)).Process(path)
	if !outcome.OK {
		t.Fatalf("not ok, log=%s", buf.String())
	}
	if len(outcome.Purchases) != 2 {
		t.Fatalf("len=%d", len(outcome.Purchases))
	}
	if outcome.Purchases[0].Item != "Widget" || outcome.Purchases[1].Item != "Gadget" {
		t.Fatalf("purchases=%+v", outcome.Purchases)
	}
	if buf.Len() != 0 {
		t.Fatalf("unexpected log output: %s", buf.String())
	}
}

func TestProcessEmptyReceipt(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty.eml", mimeMessage(receiptHTML("j@example.com")))

	outcome := NewFileProcessor(logger.NewWithWriter(&bytes.Buffer{})).Process(path)
	if !outcome.OK || len(outcome.Purchases) != 0 {
		t.Fatalf("outcome=%+v", outcome)
	}
}

func TestProcessFailures(t *testing.T) {
	dir := t.TempDir()
	singlePart := strings.Join([]string{
		"From: someone@example.com",
		"Subject: hello",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"no html here",
		"",
	}, "\r\n")

	cases := []struct {
		name string
		path string
		want error
	}{
		{name: "missing file", path: filepath.Join(dir, "missing.eml"), want: ErrUnreadable},
		{name: "single part", path: writeFile(t, dir, "single.eml", singlePart), want: ErrMissingBody},
		{name: "newsletter", path: writeFile(t, dir, "news.eml", mimeMessage("<html><body><p>Weekly picks</p></body></html>")), want: ErrNotReceipt},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			p := NewFileProcessor(logger.NewWithWriter(buf))

			if _, err := p.extractFile(tc.path); !errors.Is(err, tc.want) {
				t.Fatalf("got %v want %v", err, tc.want)
			}

			outcome := p.Process(tc.path)
			if outcome.OK || outcome.Purchases != nil {
				t.Fatalf("outcome=%+v", outcome)
			}
			if got := strings.Count(buf.String(), `"level":"warn"`); got != 1 {
				t.Fatalf("warnings=%d log=%s", got, buf.String())
			}
			if !strings.Contains(buf.String(), tc.path) {
				t.Fatalf("warning does not name the file: %s", buf.String())
			}
		})
	}
}

func TestExtractMessageReadFailure(t *testing.T) {
	p := NewFileProcessor(logger.NewWithWriter(&bytes.Buffer{}))
	broken := iotest.ErrReader(errors.New("disk gone"))

	if _, err := p.extractMessage(broken, p.log); !errors.Is(err, ErrNotEmail) {
		t.Fatalf("got %v want %v", err, ErrNotEmail)
	}
}

func TestProcessPlainTextFile(t *testing.T) {
	path := copyFixture(t, t.TempDir(), "notes.txt")
	buf := &bytes.Buffer{}

	outcome := NewFileProcessor(logger.NewWithWriter(buf)).Process(path)
	if outcome.OK {
		t.Fatalf("outcome=%+v", outcome)
	}
	if got := strings.Count(buf.String(), "file failed to be processed"); got != 1 {
		t.Fatalf("warnings=%d", got)
	}
}
