package connectors

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"receipts/internal"
)

// MailStoreService saves raw messages into the directory the extractor reads.
// Files are named by content hash, so refetching a message is a no-op.
type MailStoreService struct {
	rawMailDir string
}

func NewMailStoreService(rawMailDir string) *MailStoreService {
	return &MailStoreService{rawMailDir: rawMailDir}
}

// Store writes msg.Raw to <sha256>.eml and reports whether the file is new.
func (s *MailStoreService) Store(msg internal.FetchedMailMessage) (path string, isNew bool, err error) {
	sum := sha256.Sum256(msg.Raw)
	path = filepath.Join(s.rawMailDir, hex.EncodeToString(sum[:])+".eml")

	if err := os.MkdirAll(s.rawMailDir, 0o755); err != nil {
		return "", false, err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return path, false, nil
	}
	if err != nil {
		return "", false, err
	}
	if _, err := f.Write(msg.Raw); err != nil {
		f.Close()
		os.Remove(path)
		return "", false, fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", false, err
	}
	return path, true, nil
}
