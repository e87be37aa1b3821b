package console_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-anchorlink/internal/logging"
	"github.com/goliatone/go-anchorlink/internal/logging/console"
)

func TestConsoleLogger_WritesStructuredEntry(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2024, 3, 14, 15, 9, 26, 0, time.UTC)

	minLevel := console.LevelDebug
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: func() time.Time { return now },
		MinLevel: &minLevel,
	})

	logger := provider.GetLogger("anchorlink.metasync")
	logger = logger.WithContext(logging.ContextWithFields(context.Background(), map[string]any{
		"invocation_id": "run-1",
	}))
	logger.Info("metasync.flag.set", "post_id", int64(22), "meta_key", "dmg-read-more")

	got := strings.TrimSpace(buf.String())
	want := "2024-03-14T15:09:26Z INFO metasync.flag.set invocation_id=run-1 logger=anchorlink.metasync meta_key=dmg-read-more post_id=22"
	if got != want {
		t.Fatalf("unexpected log entry\nwant: %s\ngot:  %s", want, got)
	}
}

func TestConsoleLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	provider := console.NewProvider(console.Options{Writer: &buf})

	logger := provider.GetLogger("anchorlink.test")
	logger.Debug("ignored.debug")
	logger.Info("included.info", "ids", []int64{10, 22})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected single log line, got %d: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "ids=[10,22]") {
		t.Fatalf("expected formatted ids, got %s", lines[0])
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]console.Level{
		"debug":   console.LevelDebug,
		" WARN ":  console.LevelWarn,
		"warning": console.LevelWarn,
		"error":   console.LevelError,
	}
	for input, want := range cases {
		got, ok := console.ParseLevel(input)
		if !ok || got != want {
			t.Fatalf("ParseLevel(%q) = %v,%v want %v", input, got, ok, want)
		}
	}
	if _, ok := console.ParseLevel("verbose"); ok {
		t.Fatal("expected unknown level to report false")
	}
}
