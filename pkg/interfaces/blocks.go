package interfaces

// AnchorLinkDetector reports whether a serialized post body embeds the
// anchor-link block. Implementations must not depend on anything but the body.
type AnchorLinkDetector interface {
	ContainsAnchorLinkBlock(body string) bool
}
