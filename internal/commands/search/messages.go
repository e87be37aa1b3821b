package searchcmd

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-anchorlink/internal/search"
)

const readMoreSearchMessageType = "anchorlink.read_more.search"

// ReadMoreSearchCommand lists flagged posts modified within a date range.
type ReadMoreSearchCommand struct {
	// DateBefore is the inclusive upper bound in Layout format. Defaults to today.
	DateBefore string `json:"date_before,omitempty"`
	// DateAfter is the inclusive lower bound in Layout format. Defaults to DateBefore minus the window.
	DateAfter string `json:"date_after,omitempty"`
	// PostType is a comma-separated list of post types. Defaults to "post,page".
	PostType string `json:"post_type,omitempty"`
	// Layout overrides the date layout used for validation.
	Layout string `json:"layout,omitempty"`
}

// Type implements command.Message.
func (ReadMoreSearchCommand) Type() string { return readMoreSearchMessageType }

// Validate rejects dates that do not match the layout before any query runs.
func (cmd ReadMoreSearchCommand) Validate() error {
	layout := cmd.Layout
	if layout == "" {
		layout = search.DefaultDateLayout
	}
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.DateBefore, validation.Date(layout).
			ErrorObject(validation.NewError("anchorlink.read_more.search.date_before_invalid", "date-before must use the dd-mm-yyyy format"))),
		validation.Field(&cmd.DateAfter, validation.Date(layout).
			ErrorObject(validation.NewError("anchorlink.read_more.search.date_after_invalid", "date-after must use the dd-mm-yyyy format"))),
	)
}

func (cmd ReadMoreSearchCommand) request() search.Request {
	return search.Request{
		DateBefore: cmd.DateBefore,
		DateAfter:  cmd.DateAfter,
		PostTypes:  cmd.PostType,
	}
}
