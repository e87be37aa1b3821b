package commands

import (
	"strings"

	"github.com/goliatone/go-anchorlink/internal/logging"
	"github.com/goliatone/go-anchorlink/pkg/interfaces"
)

const commandModuleRoot = "anchorlink.commands"

// CommandLogger names the logger of one command group, such as
// anchorlink.commands.search, and tags every entry with the group so search,
// resync and import output can be told apart on stderr. A blank group logs
// under anchorlink.commands.core.
func CommandLogger(provider interfaces.LoggerProvider, group string) interfaces.Logger {
	group = strings.ToLower(strings.TrimSpace(group))
	if group == "" {
		group = "core"
	}
	return logging.WithFields(logging.ModuleLogger(provider, commandModuleRoot+"."+group), map[string]any{
		"component":     "command",
		"command_group": group,
	})
}
