package kvstore

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := New("redis://" + mr.Addr())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestGetPresentAndAbsent(t *testing.T) {
	c, mr := newTestClient(t)
	mr.Set("session:A:seq", "3")

	b, ok, err := c.Get("session:A:seq")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !ok || string(b) != "3" {
		t.Fatalf("Get() = (%q, %v), want (3, true)", b, ok)
	}

	_, ok, err = c.Get("session:A:req:1:response")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok {
		t.Fatalf("Get() on absent key reported present")
	}
}

func TestMGetSameLengthSameOrderWithAbsentAsNil(t *testing.T) {
	c, mr := newTestClient(t)
	mr.Set("session:A:req:1:messages", `[{"role":"user","content":"hi"}]`)
	mr.Set("session:A:req:1:response", `{"choices":[]}`)

	values, err := c.MGet([]string{
		"session:A:req:1:messages",
		"session:A:req:1:response",
		"session:A:req:2:messages",
	})
	if err != nil {
		t.Fatalf("MGet() error = %v", err)
	}
	if len(values) != 3 {
		t.Fatalf("got %d values, want 3", len(values))
	}
	if string(values[0]) != `[{"role":"user","content":"hi"}]` {
		t.Errorf("values[0] = %q", values[0])
	}
	if string(values[1]) != `{"choices":[]}` {
		t.Errorf("values[1] = %q", values[1])
	}
	if values[2] != nil {
		t.Errorf("values[2] = %q, want nil (absent key)", values[2])
	}
}

func TestScanTerminatesWhenCursorReturnsToZero(t *testing.T) {
	c, mr := newTestClient(t)
	mr.Set("session:A:info", "1")
	mr.Set("session:B:info", "1")
	mr.Set("session:A:seq", "1") // not an :info key

	seen := map[string]bool{}
	var cursor uint64
	for {
		next, keys, err := c.Scan(cursor, "session:*:info", 1000)
		if err != nil {
			t.Fatalf("Scan() error = %v", err)
		}
		for _, k := range keys {
			seen[k] = true
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	if !seen["session:A:info"] || !seen["session:B:info"] {
		t.Fatalf("seen = %v, want both info keys", seen)
	}
	if seen["session:A:seq"] {
		t.Fatalf("scan matched a non-:info key")
	}
}
