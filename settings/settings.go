/*
Package settings controls reading configuration from environment and assigning defaults
*/
package settings

import (
	"log" // cannot use zerolog as log options not initialised
	"os"
)

var Settings *SXSettings
var Store *SXStore
var Labels *SXLabels
var Search *SXSearch

type SXRedis struct {
	Endpoint string `koanf:"endpoint" yaml:"endpoint"`
	Username string `koanf:"username" yaml:"username"`
	Password string `koanf:"password" yaml:"password"`
	// attempts before a redis call is reported as failed
	MaxRetries int `koanf:"max_retries" yaml:"max_retries"`
	// dial/read/write timeout, also the pause between retries
	ConnectionTimeoutSeconds int64 `koanf:"connection_timeout_seconds" yaml:"connection_timeout_seconds"`
}

type SXStoreCache struct {
	// In memory feature collection cache size, 0 disables the cache
	SizeBytes HumanReadableBytes `koanf:"size_bytes" yaml:"size_bytes"`
	// Number of cache shards, concurrency vs max object size
	Shards int64 `koanf:"shards" yaml:"shards"`
	// Max TimeToLive for cached feature collections, in seconds.
	TTLSeconds int64 `koanf:"ttl_seconds" yaml:"ttl_seconds"`
}

type SXStore struct {
	// valid backends: redis, memory
	Backend string       `koanf:"backend" yaml:"backend"`
	Cache   SXStoreCache `koanf:"cache" yaml:"cache"`
	// comma separated feature names maintained as scan indexes
	Indexes string `koanf:"indexes" yaml:"indexes"`
}

type SXLabels struct {
	// valid backends: redis, memory
	Backend string `koanf:"backend" yaml:"backend"`
}

type SXSearch struct {
	// feature holding the similarity digests of a collection
	DigestFeature string `koanf:"digest_feature" yaml:"digest_feature"`
	// normalised similarity score above which a candidate is a near duplicate
	Threshold float64 `koanf:"threshold" yaml:"threshold"`
	// behaviour when the query has no digests: pass or reject
	OnMissingSignal string `koanf:"on_missing_signal" yaml:"on_missing_signal"`
	// the max results a client can request in one call
	APIMaxResultLimit int `koanf:"api_max_result_limit" yaml:"api_max_result_limit"`
	// results returned when the client does not say
	APIDefaultResultLimit int `koanf:"api_default_result_limit" yaml:"api_default_result_limit"`
	// candidates considered by the sampler per result requested
	ScanLimitFactor int `koanf:"scan_limit_factor" yaml:"scan_limit_factor"`
	// bytes to allocate for the scan dedupe cache
	DedupeCacheBytes HumanReadableBytes `koanf:"dedupe_cache_bytes" yaml:"dedupe_cache_bytes"`
}

type SXKafka struct {
	// Kafka bootstrap server list, empty disables label hooks
	Endpoint string `koanf:"endpoint" yaml:"endpoint"`
	// topic that label events are published to
	Topic string `koanf:"topic" yaml:"topic"`
	// Max size of single message
	MessageMaxBytes HumanReadableBytes `koanf:"message_max_bytes" yaml:"message_max_bytes"`
	// expose the sarama client metrics through prometheus
	EnableExtendedKafkaMetrics bool `koanf:"enable_extended_kafka_metrics" yaml:"enable_extended_kafka_metrics"`
}

type SXHooks struct {
	Kafka SXKafka `koanf:"kafka" yaml:"kafka"`
}

type SXSettings struct {
	// restapi server will listen for connections from this address
	ListenAddr string `koanf:"listen_addr" yaml:"listen_addr"`
	// for custom log files, the folder to place these file in
	LogPath string `koanf:"log_path" yaml:"log_path"`
	// zerolog level: trace, debug, info, warn, error
	LogLevel string `koanf:"log_level" yaml:"log_level"`
	// render logs for a terminal instead of json
	LogPretty bool     `koanf:"log_pretty" yaml:"log_pretty"`
	Redis     SXRedis  `koanf:"redis" yaml:"redis"`
	Store     SXStore  `koanf:"store" yaml:"store"`
	Labels    SXLabels `koanf:"labels" yaml:"labels"`
	Search    SXSearch `koanf:"search" yaml:"search"`
	Hooks     SXHooks  `koanf:"hooks" yaml:"hooks"`
}

var defaults SXSettings = SXSettings{
	ListenAddr: ":8190",
	LogPath:    "/tmp/logs/simdex/",
	LogLevel:   "info",
	LogPretty:  false,
	Redis: SXRedis{
		Endpoint:                 "",
		Username:                 "",
		Password:                 "",
		MaxRetries:               3,
		ConnectionTimeoutSeconds: 5,
	},
	Store: SXStore{
		Backend: "memory",
		Cache: SXStoreCache{
			SizeBytes:  0, // cache is off by default
			Shards:     32,
			TTLSeconds: 900,
		},
		Indexes: "NAME,nilsimsa_all",
	},
	Labels: SXLabels{
		Backend: "memory",
	},
	Search: SXSearch{
		DigestFeature:         "nilsimsa_all",
		Threshold:             0.85,
		OnMissingSignal:       "pass",
		APIMaxResultLimit:     1000,
		APIDefaultResultLimit: 30,
		ScanLimitFactor:       10,
		DedupeCacheBytes:      HumanToBytesFatal("1Mi"),
	},
	Hooks: SXHooks{
		Kafka: SXKafka{
			Endpoint:        "",
			Topic:           "simdex-labels",
			MessageMaxBytes: HumanToBytesFatal("1Mi"),
		},
	},
}

func setupLogPaths(settings *SXSettings) {
	createFileLoggers(settings.LogPath)
	if _, err := os.Stat(settings.LogPath); err != nil {
		if os.IsNotExist(err) {
			err = os.MkdirAll(settings.LogPath, 0770)
			if err != nil {
				log.Fatalf("The log path '%s' could not be created with error: %s", settings.LogPath, err.Error())
			}
		} else {
			log.Fatalf("The log path '%s' exists but there is an error: %s", settings.LogPath, err.Error())
		}
	}
}

func ResetSettings() {
	Settings = parseSettings(defaults, "SX")
	setupLogger(Settings)
	setupLogPaths(Settings)
	Store = &Settings.Store
	Labels = &Settings.Labels
	Search = &Settings.Search
}
