package similarity

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinimalHasher(t *testing.T) {
	h := NewHasher(true)
	require.Nil(t, h.Write([]byte("This is some test text data.\n")))
	fc, err := h.Cook()
	require.Nil(t, err)

	sha := fc.Feature(FeatureSha256).Keys()
	require.Len(t, sha, 1)
	assert.Equal(t, "4d07389cc8be738474d240946a8094be4c89db028958a8e5b28290e4502ec8e2", sha[0])

	nilsimsa := fc.Feature(FeatureNilsimsa).Keys()
	require.Len(t, nilsimsa, 1)
	assert.Len(t, nilsimsa[0], 64)

	assert.Nil(t, fc.Feature(FeatureTLSH), "minimal must not cook tlsh")
	assert.Nil(t, fc.Feature(FeatureSsdeep), "minimal must not cook ssdeep")
}

func TestFullHasher(t *testing.T) {
	rng := rand.New(rand.NewPCG(31, 41))
	buf := make([]byte, 8192)
	for i := range buf {
		buf[i] = byte(rng.UintN(256))
	}

	h := NewHasher(false)
	require.Nil(t, h.Write(buf[:4096]))
	require.Nil(t, h.Write(buf[4096:]))
	fc, err := h.Cook()
	require.Nil(t, err)

	require.NotNil(t, fc.Feature(FeatureSha256))
	require.NotNil(t, fc.Feature(FeatureNilsimsa))

	tlshKeys := fc.Feature(FeatureTLSH).Keys()
	require.Len(t, tlshKeys, 1)
	assert.True(t, strings.HasPrefix(tlshKeys[0], "T1"))
	assert.Len(t, tlshKeys[0], 72)

	ssdeepKeys := fc.Feature(FeatureSsdeep).Keys()
	require.Len(t, ssdeepKeys, 1)
	assert.Contains(t, ssdeepKeys[0], ":")
}

func TestSmallInputSkipsFuzzyHashes(t *testing.T) {
	h := NewHasher(false)
	require.Nil(t, h.Write([]byte("tiny")))
	fc, err := h.Cook()
	require.Nil(t, err)
	assert.Nil(t, fc.Feature(FeatureTLSH), "tlsh needs more than 50 bytes")
	assert.Nil(t, fc.Feature(FeatureSsdeep), "ssdeep needs at least 4kb")
}

func TestHasherCookedDigestMatchesHashBytes(t *testing.T) {
	content := []byte(loremText)
	h := NewHasher(true)
	require.Nil(t, h.Write(content))
	fc, err := h.Cook()
	require.Nil(t, err)
	assert.Equal(t, HashBytes(content).Hex(), fc.Feature(FeatureNilsimsa).Keys()[0])
}
