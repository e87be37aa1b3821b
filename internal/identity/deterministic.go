package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// PostUUID derives the GUID of a post from an external source key such as an
// import path. Blank keys yield uuid.Nil so callers can fall back to random ids.
func PostUUID(sourceKey string) uuid.UUID {
	trimmed := strings.TrimSpace(sourceKey)
	if trimmed == "" {
		return uuid.Nil
	}
	return UUID("anchorlink:post:" + trimmed)
}

// AutosaveUUID derives the GUID of the single autosave revision kept per post.
func AutosaveUUID(parent uuid.UUID) uuid.UUID {
	if parent == uuid.Nil {
		return uuid.Nil
	}
	return UUID("anchorlink:autosave:" + parent.String())
}
