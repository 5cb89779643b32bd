package fuzztests

import (
	"testing"

	"facet/internal/typeref"
)

func FuzzTypeRefParse(f *testing.F) {
	addSeeds(f, typeRefSeeds)
	f.Fuzz(func(t *testing.T, data []byte) {
		ref, err := typeref.Parse(string(data))
		if err != nil {
			return
		}
		// печать и повторный разбор должны сходиться
		again, err := typeref.Parse(ref.String())
		if err != nil {
			t.Fatalf("reparse %q: %v", ref.String(), err)
		}
		if again.String() != ref.String() {
			t.Fatalf("round trip %q -> %q", ref.String(), again.String())
		}
	})
}
