package searchcmd

import (
	"fmt"
	"io"
)

const (
	// NoResultsMessage is printed when no flagged post matches.
	NoResultsMessage   = "No posts/pages found with DMG Anchor Link Block within the specified date range."
	foundMessageFormat = "Found %d posts/pages with DMG Anchor Link Block within the specified date range."
)

// FoundMessage is the status line printed after the identifiers.
func FoundMessage(total int) string {
	return fmt.Sprintf(foundMessageFormat, total)
}

// Printer receives the command output. Implementations decide how the
// success status is decorated.
type Printer interface {
	Line(text string) error
	Success(text string) error
}

// PlainPrinter writes undecorated lines, prefixing success with "Success: ".
type PlainPrinter struct {
	Out io.Writer
}

func (p PlainPrinter) Line(text string) error {
	_, err := fmt.Fprintln(p.Out, text)
	return err
}

func (p PlainPrinter) Success(text string) error {
	_, err := fmt.Fprintln(p.Out, "Success: "+text)
	return err
}
