package cursor

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStoreLoadMissingFileYieldsEmptyDocument(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "state.json"))
	doc := s.Load()
	if doc.Version != stateVersion || len(doc.Sessions) != 0 {
		t.Fatalf("doc = %#v", doc)
	}
}

func TestStoreLoadMalformedJSONYieldsEmptyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	doc := NewStore(path).Load()
	if doc.Version != stateVersion || len(doc.Sessions) != 0 {
		t.Fatalf("doc = %#v", doc)
	}
}

func TestStoreLoadVersionMismatchYieldsEmptyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte(`{"version":2,"sessions":{"a":{"cursor_seq":9}}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	doc := NewStore(path).Load()
	if doc.Version != stateVersion || len(doc.Sessions) != 0 {
		t.Fatalf("doc = %#v, want version mismatch discarded", doc)
	}
}

func TestStoreSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	s := NewStore(path)

	doc := emptyDocument()
	doc.Sessions["session-a"] = SessionState{
		CursorSeq:  3,
		Missing:    map[string]int64{"rsp:4": 1000},
		LastMsgSeq: 3,
		LastRspSeq: 3,
	}

	if err := s.Save(doc); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file should not survive a successful Save, stat err = %v", err)
	}

	got := s.Load()
	if got.Sessions["session-a"].CursorSeq != 3 {
		t.Fatalf("got = %#v", got)
	}
	if got.Sessions["session-a"].Missing["rsp:4"] != 1000 {
		t.Fatalf("got.Missing = %#v", got.Sessions["session-a"].Missing)
	}
}
