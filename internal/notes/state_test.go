package notes

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/dshills/opennotes/internal/settings"
)

func TestState_KeysStable(t *testing.T) {
	s, _ := settings.Decode([]byte(threeNotes))
	st := NewState(s)

	keys := st.Keys()
	if len(keys) != 3 || keys[0] == keys[1] {
		t.Fatalf("Keys() = %v", keys)
	}

	if err := st.Remove(keys[0]); err != nil {
		t.Fatal(err)
	}
	if err := st.Set(keys[2], settings.FieldID, "cc"); err != nil {
		t.Fatal(err)
	}
	sc, ok := st.Get(keys[2])
	if !ok || sc.ID != "cc" {
		t.Errorf("Get() = %+v, %v", sc, ok)
	}

	k, err := st.KeyAt(1)
	if err != nil || k != keys[2] {
		t.Errorf("KeyAt(1) = %v, %v, want %v", k, err, keys[2])
	}

	if err := st.Remove(keys[0]); !errors.Is(err, ErrUnknownEntry) {
		t.Errorf("Remove(removed) = %v, want ErrUnknownEntry", err)
	}
	if err := st.Set(uuid.New(), settings.FieldID, "x"); !errors.Is(err, ErrUnknownEntry) {
		t.Errorf("Set(unknown) = %v, want ErrUnknownEntry", err)
	}
}

func TestState_SnapshotDetached(t *testing.T) {
	st := NewState(settings.Default())
	key := st.Append()

	snap := st.Snapshot()
	_ = st.Set(key, settings.FieldName, "later")

	if len(snap.SpecificNotes) != 2 || snap.SpecificNotes[1].Name != "" {
		t.Errorf("Snapshot() = %+v, want detached copy", snap.SpecificNotes)
	}
	if st.Len() != 2 {
		t.Errorf("Len() = %d, want 2", st.Len())
	}
}

func TestState_ReplaceAssignsNewKeys(t *testing.T) {
	st := NewState(settings.Default())
	before := st.Keys()[0]

	st.Replace(settings.Default())
	if st.Keys()[0] == before {
		t.Error("Replace() should assign fresh keys")
	}
}
