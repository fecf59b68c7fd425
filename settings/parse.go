package settings

import (
	"log"
	"os"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Logger is the process wide logger, configured from settings on ResetSettings.
var Logger zerolog.Logger

// env var naming: SX__STORE__CACHE__SIZE_BYTES or SX.STORE.CACHE.SIZE_BYTES
func envToKey(prefix string) func(string) string {
	return func(s string) string {
		s = strings.TrimPrefix(s, prefix)
		s = strings.ToLower(s)
		s = strings.ReplaceAll(s, "__", ".")
		return strings.TrimLeft(s, "._")
	}
}

// loadOverridesFile merges an optional yaml config file over the built in defaults.
// Env vars still take precedence over both.
func loadOverridesFile(base SXSettings) SXSettings {
	path := os.Getenv("SX_CONFIG_FILE")
	if path == "" {
		return base
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("could not read config file '%s': %s", path, err.Error())
	}
	fileCfg := SXSettings{}
	if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
		log.Fatalf("could not parse config file '%s': %s", path, err.Error())
	}
	if err := mergo.Merge(&fileCfg, base); err != nil {
		log.Fatalf("could not merge config file '%s' over defaults: %s", path, err.Error())
	}
	return fileCfg
}

func parseSettings(base SXSettings, prefix string) *SXSettings {
	base = loadOverridesFile(base)

	k := koanf.New(".")
	if err := k.Load(structs.Provider(base, "koanf"), nil); err != nil {
		log.Fatalf("could not load default settings: %s", err.Error())
	}
	if err := k.Load(env.Provider(prefix, ".", envToKey(prefix)), nil); err != nil {
		log.Fatalf("could not load settings from environment: %s", err.Error())
	}

	out := SXSettings{}
	err := k.UnmarshalWithConf("", &out, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &out,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				HumanReadableBytesHookFunc(),
			),
		},
	})
	if err != nil {
		log.Fatalf("could not decode settings: %s", err.Error())
	}
	return &out
}

func setupLogger(settings *SXSettings) {
	level, err := zerolog.ParseLevel(settings.LogLevel)
	if err != nil {
		log.Fatalf("bad log level '%s': %s", settings.LogLevel, err.Error())
	}
	zerolog.SetGlobalLevel(level)
	if settings.LogPretty {
		Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	} else {
		Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
}
