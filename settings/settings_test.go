package settings

import (
	"os"
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func restoreEnv(envs []string) {
	os.Clearenv()
	for _, e := range envs {
		pair := strings.SplitN(e, "=", 2)
		os.Setenv(pair[0], pair[1])
	}
}

func TestReadAllConfig(t *testing.T) {
	// backup env
	envs := os.Environ()
	os.Clearenv()
	defer restoreEnv(envs)

	ResetSettings()
	require.Equal(t, "memory", Settings.Store.Backend)
	require.Equal(t, 0.85, Settings.Search.Threshold)
	require.Equal(t, "nilsimsa_all", Settings.Search.DigestFeature)

	os.Setenv("SX__STORE__CACHE__SIZE_BYTES", "10Ki")
	ResetSettings()
	require.Equal(t, HumanReadableBytes(0x2800), Settings.Store.Cache.SizeBytes)
	require.Equal(t, int64(32), Settings.Store.Cache.Shards)

	os.Unsetenv("SX__STORE__CACHE__SIZE_BYTES")
	os.Setenv("SX.STORE.CACHE.SIZE_BYTES", "30Ki")
	os.Setenv("SX.SEARCH.THRESHOLD", "0.6")
	os.Setenv("SX.SEARCH.ON_MISSING_SIGNAL", "reject")
	os.Setenv("SX.REDIS.ENDPOINT", "localhost:6379")
	ResetSettings()
	require.Equal(t, HumanReadableBytes(0x7800), Settings.Store.Cache.SizeBytes)
	require.Equal(t, 0.6, Settings.Search.Threshold)
	require.Equal(t, "reject", Settings.Search.OnMissingSignal)
	require.Equal(t, "localhost:6379", Settings.Redis.Endpoint)
	// untouched defaults survive overrides
	require.Equal(t, 1000, Settings.Search.APIMaxResultLimit)
}

func TestConfigFileOverrides(t *testing.T) {
	envs := os.Environ()
	os.Clearenv()
	defer restoreEnv(envs)

	cfg := path.Join(t.TempDir(), "simdex.yaml")
	content := "search:\n  threshold: 0.5\n  digest_feature: tlsh\nstore:\n  backend: redis\n"
	require.NoError(t, os.WriteFile(cfg, []byte(content), 0600))

	os.Setenv("SX_CONFIG_FILE", cfg)
	// env still beats the file
	os.Setenv("SX__STORE__BACKEND", "memory")
	ResetSettings()
	require.Equal(t, 0.5, Settings.Search.Threshold)
	require.Equal(t, "tlsh", Settings.Search.DigestFeature)
	require.Equal(t, "memory", Settings.Store.Backend)
	// file did not clobber unrelated defaults
	require.Equal(t, "pass", Settings.Search.OnMissingSignal)
}

func TestHumanToBytes(t *testing.T) {
	cases := map[string]HumanReadableBytes{
		"0":     0,
		"1024":  1024,
		"1Ki":   1024,
		"3Mi":   3 * 1024 * 1024,
		"2G":    2e9,
		"500Ki": 500 * 1024,
	}
	for in, expect := range cases {
		got, err := HumanToBytes(in)
		require.NoError(t, err, in)
		require.Equal(t, expect, got, in)
	}
	_, err := HumanToBytes("plenty")
	require.Error(t, err)
}
