package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	searchcmd "github.com/goliatone/go-anchorlink/internal/commands/search"
)

const (
	colorSuccess = "#04B575"
	colorError   = "#FF0000"
	colorInfo    = "#626262"
)

// printer writes command output. Prefixes are colored only when the target
// is a terminal; otherwise the renderer degrades to plain text.
type printer struct {
	out     io.Writer
	errOut  io.Writer
	success lipgloss.Style
	failure lipgloss.Style
	info    lipgloss.Style
}

var _ searchcmd.Printer = (*printer)(nil)

func newPrinter(out, errOut io.Writer) *printer {
	outRenderer := lipgloss.NewRenderer(out)
	errRenderer := lipgloss.NewRenderer(errOut)
	return &printer{
		out:     out,
		errOut:  errOut,
		success: outRenderer.NewStyle().Foreground(lipgloss.Color(colorSuccess)),
		info:    outRenderer.NewStyle().Foreground(lipgloss.Color(colorInfo)),
		failure: errRenderer.NewStyle().Foreground(lipgloss.Color(colorError)),
	}
}

func (p *printer) Line(text string) error {
	_, err := fmt.Fprintln(p.out, text)
	return err
}

func (p *printer) Success(text string) error {
	_, err := fmt.Fprintln(p.out, p.success.Render("Success:")+" "+text)
	return err
}

func (p *printer) Info(text string) error {
	_, err := fmt.Fprintln(p.out, p.info.Render(text))
	return err
}

func (p *printer) Error(text string) {
	fmt.Fprintln(p.errOut, p.failure.Render("Error:")+" "+text)
}
