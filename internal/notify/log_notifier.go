package notify

import (
	"sync/atomic"

	"go.uber.org/zap"

	"metasecure-core/pkg/logger"
)

// LogNotifier writes lifecycle events to the service log. Used when no
// notification transport is configured.
type LogNotifier struct {
	nextHandle atomic.Uint64
}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Loading(msg string) Handle {
	h := Handle(n.nextHandle.Add(1))
	logger.Info("notice: loading", zap.String("msg", msg), zap.Uint64("handle", uint64(h)))
	return h
}

func (n *LogNotifier) Success(msg string) {
	logger.Info("notice: success", zap.String("msg", msg))
}

func (n *LogNotifier) Error(msg string) {
	logger.Warn("notice: error", zap.String("msg", msg))
}

func (n *LogNotifier) Dismiss(h Handle) {
	logger.Debug("notice: dismiss", zap.Uint64("handle", uint64(h)))
}
