package searchcmd

import (
	"context"
	"errors"

	"github.com/goliatone/go-anchorlink/internal/commands"
	"github.com/goliatone/go-anchorlink/internal/search"
	"github.com/goliatone/go-anchorlink/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

const searchOperation = "read_more.search"

var _ command.Commander[ReadMoreSearchCommand] = (*ReadMoreSearchHandler)(nil)

// ReadMoreSearchHandler runs the flagged search and prints its result.
type ReadMoreSearchHandler struct {
	inner *commands.Handler[ReadMoreSearchCommand]
}

// NewReadMoreSearchHandler creates a handler bound to the search service.
// Identifiers are printed as one comma separated line followed by a success
// status; an empty result prints a single informational line.
func NewReadMoreSearchHandler(service search.Service, printer Printer, logger interfaces.Logger, opts ...commands.HandlerOption[ReadMoreSearchCommand]) *ReadMoreSearchHandler {
	exec := func(ctx context.Context, msg ReadMoreSearchCommand) error {
		result, err := service.Search(ctx, msg.request())
		if errors.Is(err, search.ErrInvalidDate) {
			return commands.AsValidation(err)
		}
		if err != nil {
			return err
		}
		return Print(printer, result)
	}

	handlerOpts := []commands.HandlerOption[ReadMoreSearchCommand]{
		commands.WithLogger[ReadMoreSearchCommand](logger),
		commands.WithOperation[ReadMoreSearchCommand](searchOperation),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ReadMoreSearchHandler{
		inner: commands.NewHandler[ReadMoreSearchCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ReadMoreSearchCommand].Execute.
func (h *ReadMoreSearchHandler) Execute(ctx context.Context, msg ReadMoreSearchCommand) error {
	return h.inner.Execute(ctx, msg)
}

// Print renders result through printer.
func Print(printer Printer, result *search.Result) error {
	if result.Empty() {
		return printer.Line(NoResultsMessage)
	}
	if err := printer.Line(search.FormatIDs(result.IDs)); err != nil {
		return err
	}
	return printer.Success(FoundMessage(result.Total))
}
