package hooks

import (
	"errors"
	"os"
	"testing"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simdex/simdex/label"
	st "github.com/simdex/simdex/settings"
)

func TestMain(m *testing.M) {
	st.ResetSettings()
	os.Exit(m.Run())
}

type fakeProducer struct {
	messages []*sarama.ProducerMessage
	err      error
	closed   bool
}

func (p *fakeProducer) SendMessage(msg *sarama.ProducerMessage) (int32, int64, error) {
	if p.err != nil {
		return 0, 0, p.err
	}
	p.messages = append(p.messages, msg)
	return 0, int64(len(p.messages)), nil
}

func (p *fakeProducer) Close() error {
	p.closed = true
	return nil
}

func TestDisabledWithoutEndpoint(t *testing.T) {
	hook, err := NewFromSettings()
	require.Nil(t, err)
	assert.Nil(t, hook)
}

func TestPublishEncodesLabel(t *testing.T) {
	prod := &fakeProducer{}
	hook := &KafkaLabelHook{producer: prod, topic: "simdex-labels"}

	l := label.New("b", "a", "tester", label.Positive)
	require.Nil(t, hook.Publish(l))
	require.Len(t, prod.messages, 1)

	msg := prod.messages[0]
	assert.Equal(t, "simdex-labels", msg.Topic)
	key, err := msg.Key.Encode()
	require.Nil(t, err)
	assert.Equal(t, "a|b", string(key), "key uses the canonical pair order")

	raw, err := msg.Value.Encode()
	require.Nil(t, err)
	back := label.Label{}
	require.Nil(t, json.Unmarshal(raw, &back))
	assert.Equal(t, l, back)
}

func TestPublishReportsProducerError(t *testing.T) {
	boom := errors.New("broker gone")
	hook := &KafkaLabelHook{producer: &fakeProducer{err: boom}, topic: "simdex-labels"}
	assert.True(t, errors.Is(hook.Publish(label.New("a", "b", "tester", label.Negative)), boom))
}

func TestClose(t *testing.T) {
	prod := &fakeProducer{}
	hook := &KafkaLabelHook{producer: prod, topic: "simdex-labels"}
	require.Nil(t, hook.Close())
	assert.True(t, prod.closed)
}
