package commands

import (
	"context"
	"time"

	"github.com/goliatone/go-anchorlink/internal/logging"
	"github.com/goliatone/go-anchorlink/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

// TelemetryStatus is the outcome class of an execution.
type TelemetryStatus string

const (
	TelemetryStatusSuccess      TelemetryStatus = "success"
	TelemetryStatusFailed       TelemetryStatus = "failed"
	TelemetryStatusContextError TelemetryStatus = "context_error"
)

// TelemetryInfo describes one execution that passed validation.
type TelemetryInfo struct {
	Command   string
	Operation string
	Duration  time.Duration
	Status    TelemetryStatus
	Error     error
}

// Telemetry is invoked after every execution that passed validation.
type Telemetry[T command.Message] func(ctx context.Context, msg T, info TelemetryInfo)

// LogTelemetry reports executions as a single "command.telemetry" entry,
// at debug level on success and at warn level otherwise.
func LogTelemetry[T command.Message](logger interfaces.Logger) Telemetry[T] {
	if logger == nil {
		logger = logging.NoOp()
	}
	return func(_ context.Context, _ T, info TelemetryInfo) {
		args := []any{
			"command", info.Command,
			"status", string(info.Status),
			"duration_ms", info.Duration.Milliseconds(),
		}
		if info.Operation != "" {
			args = append(args, "operation", info.Operation)
		}
		if info.Error != nil {
			logger.Warn("command.telemetry", append(args, "error", info.Error)...)
			return
		}
		logger.Debug("command.telemetry", args...)
	}
}
