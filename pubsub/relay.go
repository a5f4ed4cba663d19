// Package pubsub implements the in-process event relay: a topic registry
// where publish delivers to every currently-subscribed listener on that
// exact topic, with no retained history. The relay is an explicitly
// constructed instance injected into the resolvers, not a global.
package pubsub

import (
	"context"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Event is one delivered payload, tagged with the topic that matched. A
// payload published to two topics a subscriber holds arrives twice.
type Event struct {
	Topic   string
	Payload []byte
}

// Decode unmarshals the event payload into v.
func (e Event) Decode(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// Relay is a process-local publish/subscribe registry backed by watermill's
// GoChannel. It holds no durable queue: a subscriber that joins after a
// publish never sees it.
type Relay struct {
	channel *gochannel.GoChannel
	logger  *zap.Logger
}

// NewRelay constructs a relay. The logger may be nil.
func NewRelay(logger *zap.Logger) *Relay {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Relay{
		channel: gochannel.NewGoChannel(gochannel.Config{}, newWatermillLogger(logger)),
		logger:  logger,
	}
}

// Publish marshals payload and delivers it to every active subscription on
// the exact topic string. Publishing to a topic with no subscribers is not
// an error.
func (r *Relay) Publish(topic string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	if err := r.channel.Publish(topic, msg); err != nil {
		r.logger.Error("publish failed", zap.String("topic", topic), zap.Error(err))
		return err
	}
	return nil
}

// Subscribe returns a lazy stream of events for the given topic set, merged
// into a single channel. Delivery is once per matching topic, not
// deduplicated across overlapping topics. The stream closes when ctx is
// cancelled or the relay shuts down.
func (r *Relay) Subscribe(ctx context.Context, topics ...string) (<-chan Event, error) {
	out := make(chan Event)
	subCtx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup

	for _, topic := range topics {
		messages, err := r.channel.Subscribe(subCtx, topic)
		if err != nil {
			// Tear down the forwarders already started for earlier topics
			// so none stays parked on an out channel nobody will read.
			cancel()
			return nil, err
		}
		wg.Add(1)
		go func(topic string, messages <-chan *message.Message) {
			defer wg.Done()
			for msg := range messages {
				msg.Ack()
				select {
				case out <- Event{Topic: topic, Payload: msg.Payload}:
				case <-subCtx.Done():
					return
				}
			}
		}(topic, messages)
	}

	go func() {
		wg.Wait()
		cancel()
		close(out)
	}()
	return out, nil
}

// Close tears down every active subscription.
func (r *Relay) Close() error {
	return r.channel.Close()
}

// watermillLogger adapts zap to watermill's LoggerAdapter.
type watermillLogger struct {
	logger *zap.Logger
}

func newWatermillLogger(logger *zap.Logger) watermill.LoggerAdapter {
	return &watermillLogger{logger: logger}
}

func (l *watermillLogger) Error(msg string, err error, fields watermill.LogFields) {
	l.logger.Error(msg, append(zapFields(fields), zap.Error(err))...)
}

func (l *watermillLogger) Info(msg string, fields watermill.LogFields) {
	l.logger.Debug(msg, zapFields(fields)...)
}

func (l *watermillLogger) Debug(msg string, fields watermill.LogFields) {
	l.logger.Debug(msg, zapFields(fields)...)
}

func (l *watermillLogger) Trace(msg string, fields watermill.LogFields) {
	l.logger.Debug(msg, zapFields(fields)...)
}

func (l *watermillLogger) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &watermillLogger{logger: l.logger.With(zapFields(fields)...)}
}

func zapFields(fields watermill.LogFields) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		out = append(out, zap.Any(k, v))
	}
	return out
}
