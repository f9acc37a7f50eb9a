package mq

import "context"

// Message is one event on the notification transport.
type Message struct {
	ID      string // transport message id (e.g. redis stream id)
	Topic   string
	Key     string // partition key
	Payload []byte // JSON body
}

// Producer publishes notification events.
type Producer interface {
	// Publish sends payload to topic. key selects the partition; empty
	// means any.
	Publish(ctx context.Context, topic string, key string, payload []byte) error
}

// Consumer subscribes to notification events.
type Consumer interface {
	// Subscribe blocks, delivering each message to handler. A handler
	// error leaves the message un-acked for redelivery.
	Subscribe(ctx context.Context, topic string, handler func(msg *Message) error) error

	// Close shuts the consumer down.
	Close() error
}
