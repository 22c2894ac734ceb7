// Package bus implements the in-process change bus that keeps independent
// readers of the persistent store consistent. Notifications are named events
// with no payload: a subscriber always re-reads the collection the topic
// announces instead of trusting data carried on the event.
package bus

import (
	"log/slog"
	"sync"

	"github.com/vitrinshop/vitrin/internal/telemetry"
)

// Listener is invoked synchronously for every publish on a subscribed topic.
type Listener func()

type subscriber struct {
	id int64
	fn Listener
}

// ChangeBus broadcasts collection-change notifications to subscribers of a
// topic, in subscription order, on the publisher's goroutine. There is no
// buffering: a publish with no subscribers is dropped.
type ChangeBus struct {
	logger  *slog.Logger
	metrics *telemetry.Metrics

	mu     sync.Mutex
	nextID int64
	subs   map[string][]subscriber
}

// New creates an empty change bus. logger and metrics may be nil.
func New(logger *slog.Logger, metrics *telemetry.Metrics) *ChangeBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChangeBus{
		logger:  logger,
		metrics: metrics,
		subs:    make(map[string][]subscriber),
	}
}

// Subscribe registers fn for a topic and returns the disposer that removes
// the registration. Not calling the disposer on consumer teardown leaks a
// dangling listener that keeps firing into a dead consumer.
func (b *ChangeBus) Subscribe(topic string, fn Listener) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], subscriber{id: id, fn: fn})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			current := b.subs[topic]
			for i := range current {
				if current[i].id == id {
					b.subs[topic] = append(current[:i:i], current[i+1:]...)
					break
				}
			}
			if len(b.subs[topic]) == 0 {
				delete(b.subs, topic)
			}
		})
	}
}

// Publish notifies every listener currently subscribed to topic, in
// subscription order. Delivery is synchronous: Publish returns after the
// last listener has run.
func (b *ChangeBus) Publish(topic string) {
	b.mu.Lock()
	current := make([]subscriber, len(b.subs[topic]))
	copy(current, b.subs[topic])
	b.mu.Unlock()

	if b.metrics != nil {
		b.metrics.BusPublished.WithLabelValues(topic).Inc()
	}
	b.logger.Debug("publishing change notification",
		"topic", topic,
		"listeners", len(current),
	)

	for _, sub := range current {
		sub.fn()
		if b.metrics != nil {
			b.metrics.BusDelivered.WithLabelValues(topic).Inc()
		}
	}
}

// Subscribers returns the number of live listeners for a topic.
func (b *ChangeBus) Subscribers(topic string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[topic])
}
