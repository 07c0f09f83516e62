package uuid

import (
	"sort"
	"testing"
	"time"

	googleuuid "github.com/google/uuid"
)

func TestNew(t *testing.T) {
	t.Run("valid_uuid", func(t *testing.T) {
		id := New()
		parsed, err := googleuuid.Parse(id)
		if err != nil {
			t.Fatalf("generated UUID %q does not parse: %v", id, err)
		}
		if parsed.Version() != 7 {
			t.Errorf("expected version 7, got %d", parsed.Version())
		}
		if parsed.Variant() != googleuuid.RFC4122 {
			t.Errorf("expected RFC 4122 variant, got %v", parsed.Variant())
		}
	})

	t.Run("unique", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 1000; i++ {
			id := New()
			if seen[id] {
				t.Fatalf("duplicate UUID generated: %s", id)
			}
			seen[id] = true
		}
	})

	t.Run("time_ordered", func(t *testing.T) {
		first := New()
		time.Sleep(2 * time.Millisecond)
		second := New()

		ids := []string{second, first}
		sort.Strings(ids)
		if ids[0] != first {
			t.Errorf("expected %s to sort before %s", first, second)
		}
	})
}
