package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jhillyerd/enmime"
	"github.com/rs/zerolog"

	"receipts/internal"
)

var (
	ErrUnreadable  = errors.New("file unreadable")
	ErrNotEmail    = errors.New("not a MIME message")
	ErrMissingBody = errors.New("html body part missing")
)

// FileOutcome is the result for one input file. OK is false when the file was
// not a recognizable receipt; Purchases may be empty even when OK is true.
type FileOutcome struct {
	Path      string
	Purchases []internal.Purchase
	OK        bool
}

type FileProcessor struct {
	log zerolog.Logger
}

func NewFileProcessor(log zerolog.Logger) *FileProcessor {
	return &FileProcessor{log: log}
}

// Process never fails the caller. Every rejected file is reported with one
// warning naming the file.
func (p *FileProcessor) Process(path string) FileOutcome {
	purchases, err := p.extractFile(path)
	if err != nil {
		p.log.Warn().Str("file", path).Err(err).Msg("file failed to be processed")
		return FileOutcome{Path: path}
	}
	return FileOutcome{Path: path, Purchases: purchases, OK: true}
}

func (p *FileProcessor) extractFile(path string) ([]internal.Purchase, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return p.extractMessage(bytes.NewReader(raw), p.log.With().Str("file", path).Logger())
}

// extractMessage parses one MIME message from r. enmime accepts almost any
// header block, so ErrNotEmail mostly comes from read failures.
func (p *FileProcessor) extractMessage(r io.Reader, log zerolog.Logger) ([]internal.Purchase, error) {
	env, err := enmime.ReadEnvelope(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotEmail, err)
	}

	part := topLevelPart(env.Root, bodyPartIndex)
	if part == nil {
		return nil, ErrMissingBody
	}
	for _, perr := range part.Errors {
		if perr.Severe {
			return nil, fmt.Errorf("%w: %s", ErrMissingBody, perr.Error())
		}
	}

	return ExtractReceipt(string(part.Content), log)
}

func topLevelPart(root *enmime.Part, index int) *enmime.Part {
	if root == nil {
		return nil
	}
	part := root.FirstChild
	for i := 0; part != nil && i < index; i++ {
		part = part.NextSibling
	}
	return part
}
