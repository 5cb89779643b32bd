package fuzztests

import (
	"testing"

	"facet/internal/model"
	"facet/internal/testkit"
)

const maxDeclBytes = 64 << 10

func FuzzModelLoad(f *testing.F) {
	addSeeds(f, declSeeds)
	f.Fuzz(func(t *testing.T, data []byte) {
		if len(data) > maxDeclBytes {
			t.Skip()
		}
		m, err := model.Load(1, data)
		if err != nil {
			return
		}
		if err := testkit.CheckModelInvariants(m); err != nil {
			t.Fatalf("loaded model violates invariants: %v", err)
		}
	})
}
