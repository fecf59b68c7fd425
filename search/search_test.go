package search

import (
	"os"
	"strings"
	"testing"

	st "github.com/simdex/simdex/settings"
	"github.com/simdex/simdex/store"
)

func TestMain(m *testing.M) {
	st.ResetSettings()
	os.Exit(m.Run())
}

// dig returns a digest hex string with the first n nibbles set. Digests made
// with close n values agree on most bits, distant n values disagree more.
func dig(n int) string {
	return strings.Repeat("f", n) + strings.Repeat("0", 64-n)
}

func fcWith(name string, digests ...string) store.FeatureCollection {
	fc := store.FeatureCollection{}
	if name != "" {
		fc.Add("NAME", name, 1)
	}
	for _, d := range digests {
		fc.Add("nilsimsa_all", d, 1)
	}
	return fc
}

func cand(id string, fc store.FeatureCollection) Candidate {
	return Candidate{ID: id, FC: fc}
}

func ids(candidates []Candidate) []string {
	res := []string{}
	for _, c := range candidates {
		res = append(res, c.ID)
	}
	return res
}
