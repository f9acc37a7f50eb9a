package notify

import (
	"context"
	"encoding/json"
	"strconv"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"metasecure-core/internal/service/mq"
	"metasecure-core/pkg/logger"
)

const publishTimeout = 3 * time.Second

// NoticeEvent is the wire form consumed by presentation layers
// (metasecure-cli watch, or a browser bridge).
type NoticeEvent struct {
	Kind      string `json:"kind"` // loading, success, error, dismiss
	Handle    uint64 `json:"handle,omitempty"`
	Message   string `json:"message,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// StreamNotifier publishes lifecycle events over the notification
// transport. Publishing is best effort: a broken transport must never
// fail a submission, so errors are logged and swallowed.
type StreamNotifier struct {
	producer   mq.Producer
	topic      string
	nextHandle atomic.Uint64
}

func NewStreamNotifier(producer mq.Producer, topic string) *StreamNotifier {
	return &StreamNotifier{producer: producer, topic: topic}
}

func (n *StreamNotifier) Loading(msg string) Handle {
	h := Handle(n.nextHandle.Add(1))
	n.publish(NoticeEvent{Kind: "loading", Handle: uint64(h), Message: msg})
	return h
}

func (n *StreamNotifier) Success(msg string) {
	n.publish(NoticeEvent{Kind: "success", Message: msg})
}

func (n *StreamNotifier) Error(msg string) {
	n.publish(NoticeEvent{Kind: "error", Message: msg})
}

func (n *StreamNotifier) Dismiss(h Handle) {
	n.publish(NoticeEvent{Kind: "dismiss", Handle: uint64(h)})
}

func (n *StreamNotifier) publish(ev NoticeEvent) {
	ev.Timestamp = time.Now().Unix()
	payload, err := json.Marshal(ev)
	if err != nil {
		logger.Error("notice marshal failed", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	key := strconv.FormatUint(ev.Handle, 10)
	if err := n.producer.Publish(ctx, n.topic, key, payload); err != nil {
		logger.Error("notice publish failed", zap.String("kind", ev.Kind), zap.Error(err))
	}
}
