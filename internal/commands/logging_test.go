package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/goliatone/go-anchorlink/internal/logging/console"
)

func TestCommandLoggerTagsGroup(t *testing.T) {
	var buf bytes.Buffer
	provider := console.NewProvider(console.Options{Writer: &buf})

	CommandLogger(provider, " Search ").Info("command.execute.completed")
	CommandLogger(provider, "").Info("command.execute.completed")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 entries, got %q", buf.String())
	}
	for _, want := range []string{"logger=anchorlink.commands.search", "command_group=search", "component=command"} {
		if !strings.Contains(lines[0], want) {
			t.Fatalf("expected %q in %q", want, lines[0])
		}
	}
	if !strings.Contains(lines[1], "logger=anchorlink.commands.core") {
		t.Fatalf("expected core group for blank name, got %q", lines[1])
	}
}
