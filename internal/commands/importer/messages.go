package importcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const importMarkdownMessageType = "anchorlink.markdown.import"

// ImportMarkdownCommand imports a directory of markdown documents as posts.
type ImportMarkdownCommand struct {
	Directory string `json:"directory"`
	Pattern   string `json:"pattern,omitempty"`
	Recursive bool   `json:"recursive,omitempty"`
	DryRun    bool   `json:"dry_run,omitempty"`
}

// Type implements command.Message.
func (ImportMarkdownCommand) Type() string { return importMarkdownMessageType }

// Validate ensures the directory is set.
func (cmd ImportMarkdownCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("anchorlink.markdown.directory_blank", "directory cannot be blank")
			}
			return nil
		})),
	)
}
