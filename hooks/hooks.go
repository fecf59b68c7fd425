/*
Package hooks publishes label events to external consumers. A hook fires
after a label is stored; delivery is best effort and never blocks the store
write that triggered it from having happened.
*/
package hooks

import (
	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"github.com/rcrowley/go-metrics"

	"github.com/simdex/simdex/label"
	"github.com/simdex/simdex/prom"
	st "github.com/simdex/simdex/settings"
)

// A LabelHook is told about every label accepted through the API.
type LabelHook interface {
	Publish(l label.Label) error
	Close() error
}

// producer is the slice of the sarama sync producer the hook needs.
type producer interface {
	SendMessage(msg *sarama.ProducerMessage) (partition int32, offset int64, err error)
	Close() error
}

// KafkaLabelHook publishes each label as a JSON message, keyed by the id
// pair so every judgement about a pair lands on the same partition.
type KafkaLabelHook struct {
	producer producer
	topic    string
}

// NewFromSettings returns the configured hook, or nil when no kafka endpoint
// is configured. A nil hook is valid and means labels are not published.
func NewFromSettings() (*KafkaLabelHook, error) {
	if len(st.Settings.Hooks.Kafka.Endpoint) == 0 {
		return nil, nil
	}
	config := sarama.NewConfig()
	config.ClientID = "simdexLabelHook"
	config.Metadata.Full = false
	config.MetricRegistry = metrics.DefaultRegistry
	config.Producer.MaxMessageBytes = int(st.Settings.Hooks.Kafka.MessageMaxBytes)
	config.Producer.Compression = sarama.CompressionLZ4
	config.Producer.Partitioner = sarama.NewHashPartitioner
	config.Producer.Return.Successes = true
	config.Producer.Return.Errors = true
	prod, err := sarama.NewSyncProducer([]string{st.Settings.Hooks.Kafka.Endpoint}, config)
	if err != nil {
		return nil, err
	}
	return &KafkaLabelHook{producer: prod, topic: st.Settings.Hooks.Kafka.Topic}, nil
}

func (h *KafkaLabelHook) Publish(l label.Label) error {
	raw, err := json.Marshal(l)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{
		Topic: h.topic,
		Key:   sarama.StringEncoder(l.CID1 + "|" + l.CID2),
		Value: sarama.ByteEncoder(raw),
	}
	_, _, err = h.producer.SendMessage(msg)
	if err != nil {
		prom.LabelHookErrors.Inc()
		return err
	}
	prom.LabelHookPublished.Inc()
	return nil
}

func (h *KafkaLabelHook) Close() error {
	return h.producer.Close()
}
