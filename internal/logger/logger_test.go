package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewLevel(t *testing.T) {
	cases := []struct {
		input string
		want  zerolog.Level
	}{
		{input: "debug", want: zerolog.DebugLevel},
		{input: " WARN ", want: zerolog.WarnLevel},
		{input: "", want: zerolog.InfoLevel},
		{input: "loud", want: zerolog.InfoLevel},
	}
	for _, tc := range cases {
		if got := New(tc.input).GetLevel(); got != tc.want {
			t.Fatalf("level(%q) got %v want %v", tc.input, got, tc.want)
		}
	}
}

func TestNewWithWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf)
	log.Warn().Str("file", "a.eml").Msg("file failed to be processed")

	if !strings.Contains(buf.String(), `"file":"a.eml"`) {
		t.Fatalf("unexpected output: %s", buf.String())
	}
}

func TestFromContext(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := WithContext(context.Background(), NewWithWriter(buf))

	log := FromContext(ctx)
	log.Info().Msg("test")
	if buf.Len() == 0 {
		t.Fatal("expected log output from context logger")
	}
}

func TestFromContextDefault(t *testing.T) {
	log := FromContext(context.Background())
	if log.GetLevel() != zerolog.InfoLevel {
		t.Fatalf("level=%v", log.GetLevel())
	}
}
