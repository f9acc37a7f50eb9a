package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingProducer struct {
	topics   []string
	payloads [][]byte
	err      error
}

func (p *capturingProducer) Publish(ctx context.Context, topic string, key string, payload []byte) error {
	p.topics = append(p.topics, topic)
	p.payloads = append(p.payloads, payload)
	return p.err
}

func TestStreamNotifierLifecycle(t *testing.T) {
	producer := &capturingProducer{}
	n := NewStreamNotifier(producer, "events")

	h := n.Loading("Sending...")
	n.Success("Sent")
	n.Error("Failed")
	n.Dismiss(h)

	require.Len(t, producer.payloads, 4)
	assert.Equal(t, []string{"events", "events", "events", "events"}, producer.topics)

	var events []NoticeEvent
	for _, raw := range producer.payloads {
		var ev NoticeEvent
		require.NoError(t, json.Unmarshal(raw, &ev))
		events = append(events, ev)
	}

	assert.Equal(t, "loading", events[0].Kind)
	assert.Equal(t, uint64(h), events[0].Handle)
	assert.Equal(t, "Sending...", events[0].Message)
	assert.NotZero(t, events[0].Timestamp)

	assert.Equal(t, "success", events[1].Kind)
	assert.Equal(t, "error", events[2].Kind)

	assert.Equal(t, "dismiss", events[3].Kind)
	assert.Equal(t, uint64(h), events[3].Handle)
}

func TestStreamNotifierHandlesAreUnique(t *testing.T) {
	n := NewStreamNotifier(&capturingProducer{}, "events")

	first := n.Loading("a")
	second := n.Loading("b")

	assert.NotEqual(t, first, second)
}

func TestStreamNotifierSwallowsTransportErrors(t *testing.T) {
	producer := &capturingProducer{err: errors.New("broker down")}
	n := NewStreamNotifier(producer, "events")

	// Must not panic or propagate: a broken transport never fails a
	// submission.
	n.Error("Failed")

	assert.Len(t, producer.payloads, 1)
}
