package identity

import (
	"testing"

	"github.com/google/uuid"
)

func TestPostUUIDIsStable(t *testing.T) {
	first := PostUUID("content/hello.md")
	second := PostUUID("  content/hello.md ")
	if first == uuid.Nil {
		t.Fatal("expected non-nil uuid")
	}
	if first != second {
		t.Fatalf("expected surrounding whitespace to be ignored, got %s and %s", first, second)
	}
	if other := PostUUID("content/other.md"); other == first {
		t.Fatal("expected distinct keys to produce distinct uuids")
	}
}

func TestBlankKeysYieldNil(t *testing.T) {
	if got := PostUUID("   "); got != uuid.Nil {
		t.Fatalf("expected nil uuid, got %s", got)
	}
	if got := AutosaveUUID(uuid.Nil); got != uuid.Nil {
		t.Fatalf("expected nil uuid, got %s", got)
	}
}

func TestAutosaveUUIDDiffersFromParent(t *testing.T) {
	parent := PostUUID("content/hello.md")
	autosave := AutosaveUUID(parent)
	if autosave == parent || autosave == uuid.Nil {
		t.Fatalf("unexpected autosave uuid %s", autosave)
	}
	if AutosaveUUID(parent) != autosave {
		t.Fatal("expected autosave uuid to be deterministic")
	}
}
