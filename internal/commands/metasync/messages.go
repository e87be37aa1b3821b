package metasynccmd

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const resyncMessageType = "anchorlink.read_more.resync"

// ResyncPostMetaCommand recomputes the read-more flag of stored posts as if
// each had just been updated.
type ResyncPostMetaCommand struct {
	PostIDs []int64 `json:"post_ids"`
}

// Type implements command.Message.
func (ResyncPostMetaCommand) Type() string { return resyncMessageType }

// Validate ensures at least one positive post identifier is supplied.
func (cmd ResyncPostMetaCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.PostIDs,
			validation.Required.Error("at least one post id is required"),
			validation.Each(
				validation.Required.Error("post ids must be positive"),
				validation.Min(int64(1)).Error("post ids must be positive"),
			),
		),
	)
}
