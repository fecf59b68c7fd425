package similarity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"

	ssdeep "github.com/dutchcoders/gossdeep"
	"github.com/glaslos/tlsh"

	"github.com/simdex/simdex/store"
)

// feature names populated by the hasher
const (
	FeatureNilsimsa = "nilsimsa_all"
	FeatureTLSH     = "tlsh"
	FeatureSsdeep   = "ssdeep"
	FeatureSha256   = "sha256"
)

// Hasher cooks the similarity features for a stream of content bytes.
type Hasher struct {
	minimal  bool
	size     int
	sha256   hash.Hash
	nilsimsa *Nilsimsa
	ssdeep   *ssdeep.FuzzyState
	tlsh     *tlsh.TLSH
}

// NewHasher returns a hasher; minimal restricts output to sha256 and nilsimsa.
func NewHasher(minimal bool) *Hasher {
	ssdeepBuf, err := ssdeep.New()
	if err != nil {
		// initialising this should never fail
		panic(err)
	}
	return &Hasher{
		minimal:  minimal,
		size:     0,
		sha256:   sha256.New(),
		nilsimsa: NewNilsimsa(),
		ssdeep:   ssdeepBuf,
		tlsh:     tlsh.New(),
	}
}

func (h *Hasher) Write(buf []byte) error {
	var err error
	var written int
	genericError := "failed to calculate the %s hash with error %s"
	written, err = h.sha256.Write(buf)
	h.size += written
	if err != nil {
		return fmt.Errorf(genericError, "sha256", err.Error())
	}
	_, err = h.nilsimsa.Write(buf)
	if err != nil {
		return fmt.Errorf(genericError, "nilsimsa", err.Error())
	}
	if !h.minimal {
		_, err = h.tlsh.Write(buf)
		if err != nil {
			return fmt.Errorf(genericError, "tlsh", err.Error())
		}
		err = h.ssdeep.Update(string(buf))
		if err != nil {
			return fmt.Errorf(genericError, "ssdeep", err.Error())
		}
	}
	return nil
}

// Cook returns the similarity features of the bytes written so far as a
// feature collection ready to be stored.
func (h *Hasher) Cook() (store.FeatureCollection, error) {
	fc := store.FeatureCollection{}
	fc.Add(FeatureSha256, fmt.Sprintf("%x", h.sha256.Sum(nil)), 1)
	fc.Add(FeatureNilsimsa, h.nilsimsa.Digest().Hex(), 1)
	if h.minimal {
		return fc, nil
	}

	// files smaller than 4kb may produce an ssdeep hash, but it can't be used for anything useful
	if h.size >= 4096 {
		hashSsdeep, err := h.ssdeep.Digest()
		if err != nil {
			return nil, fmt.Errorf("failed to calculate ssdeep with internal error: %v", err)
		}
		fc.Add(FeatureSsdeep, hashSsdeep, 1)
	}

	// If we don't have at least 50 bytes can't calculate tlsh
	if h.size > 50 {
		// Manually adding the T1 here because the golang library hasn't added it.
		hashTlsh := "T1" + hex.EncodeToString(h.tlsh.Sum(nil))
		// If the TLSH isn't 72 characters it's invalid and it should be skipped.
		if len(hashTlsh) >= 72 {
			fc.Add(FeatureTLSH, hashTlsh, 1)
		}
	}
	return fc, nil
}
