/*
Package similarity provides locality sensitive digests and kernels for comparing them.

The 256 bit digests are compared by bit agreement: identical digests score 128,
digests with every bit flipped score -128. A normalised convenience kernel is
provided for comparing whole digest sets.
*/
package similarity

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math/bits"
)

const (
	// DigestBytes is the width of a digest.
	DigestBytes = 32
	// MaxScore is the score of two bit-identical digests.
	MaxScore = 128
	// MinScore is the score of two fully disagreeing digests.
	MinScore = -128

	digestWords = DigestBytes / 4
	bitsPerWord = 32
)

// Digest is a fixed width locality sensitive hash digest.
// Similar inputs produce digests with low hamming distance.
type Digest [DigestBytes]byte

// ParseDigest decodes the canonical 64 hex character form of a digest.
func ParseDigest(s string) (Digest, error) {
	var d Digest
	if len(s) != hex.EncodedLen(DigestBytes) {
		return d, fmt.Errorf("digest must be %d hex characters, got %d", hex.EncodedLen(DigestBytes), len(s))
	}
	if _, err := hex.Decode(d[:], []byte(s)); err != nil {
		return d, fmt.Errorf("digest is not valid hex: %w", err)
	}
	return d, nil
}

func (d Digest) Hex() string {
	return hex.EncodeToString(d[:])
}

// Compare returns the exact bit agreement score of two digests in [-128, 128].
func Compare(d1, d2 Digest) int {
	diff := 0
	for i := 0; i < digestWords; i++ {
		w1 := binary.BigEndian.Uint32(d1[i*4:])
		w2 := binary.BigEndian.Uint32(d2[i*4:])
		diff += bits.OnesCount32(w1 ^ w2)
	}
	return MaxScore - diff
}

// CompareThreshold scores two digests like Compare but may stop early once the
// score provably cannot reach threshold. The returned value is then a lower
// bound on the true score, never an overestimate. Callers needing the exact
// score must use Compare.
func CompareThreshold(d1, d2 Digest, threshold int) int {
	diff := 0
	for i := 0; i < digestWords; i++ {
		w1 := binary.BigEndian.Uint32(d1[i*4:])
		w2 := binary.BigEndian.Uint32(d2[i*4:])
		diff += bits.OnesCount32(w1 ^ w2)
		remaining := (digestWords - i - 1) * bitsPerWord
		if MaxScore-diff < threshold {
			// even if every remaining bit agrees the threshold is unreachable
			return MaxScore - diff - remaining
		}
	}
	return MaxScore - diff
}

// MaxSimilarity returns the maximum pairwise Compare score over two digest
// sets, normalised to [0, 1]. Two empty sets score 0. A perfect match returns
// 1.0 immediately without scoring the remaining pairs.
func MaxSimilarity(s1, s2 []Digest) float64 {
	best := MinScore - 1
	for _, d1 := range s1 {
		for _, d2 := range s2 {
			score := Compare(d1, d2)
			if score == MaxScore {
				return 1.0
			}
			if score > best {
				best = score
			}
		}
	}
	if best < 0 {
		// no pairs at all, or only disagreeing pairs
		return 0
	}
	return float64(best) / MaxScore
}
