// Package pubsub broadcasts values to subscriber channels by topic.
//
// Published values travel through one internal unbuffered channel and a
// single loop goroutine delivers them, so every subscriber sees the values
// of a topic in publish order. Delivery is asynchronous: the loop queues a
// put on each subscriber and moves on without waiting for it to be taken.
package pubsub

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	gferrors "github.com/vnykmshr/gocsp/pkg/common/errors"
	"github.com/vnykmshr/gocsp/pkg/common/logging"
	"github.com/vnykmshr/gocsp/pkg/common/validation"
	"github.com/vnykmshr/gocsp/pkg/csp/channel"
	"github.com/vnykmshr/gocsp/pkg/metrics"
)

// Config holds configuration for a PubSub.
type Config struct {
	// Name labels the broker in logs and metrics.
	Name string

	// Logger receives loop lifecycle events. Nil discards them.
	Logger logrus.FieldLogger

	// Metrics enables publish, delivery and subscriber metrics.
	Metrics metrics.Config
}

type envelope[T any] struct {
	topic string
	value T
}

// PubSub is a topic-based broker.
type PubSub[T any] struct {
	mu          sync.RWMutex
	subscribers map[string][]*channel.Channel[T]

	publisher *channel.Channel[envelope[T]]
	done      chan struct{}

	name     string
	logger   logrus.FieldLogger
	registry *metrics.Registry
}

// New creates a PubSub and starts its delivery loop.
func New[T any]() *PubSub[T] {
	return NewWithConfig[T](Config{})
}

// NewWithConfig creates a PubSub with logging and metrics.
func NewWithConfig[T any](config Config) *PubSub[T] {
	name := config.Name
	if name == "" {
		name = "unnamed"
	}

	ps := &PubSub[T]{
		subscribers: make(map[string][]*channel.Channel[T]),
		publisher:   channel.New[envelope[T]](0),
		done:        make(chan struct{}),
		name:        name,
		logger:      logging.Component(config.Logger, "pubsub", config.Name),
		registry:    metrics.ForConfig(config.Metrics),
	}

	go ps.loop()
	return ps
}

// Pub publishes value on every non-empty topic. It blocks until the delivery
// loop has picked up each envelope; after Close it returns without publishing.
func (ps *PubSub[T]) Pub(value T, topics ...string) error {
	if err := validateTopics(topics); err != nil {
		return err
	}

	for _, topic := range topics {
		if topic == "" {
			continue
		}
		outcome, err := ps.publisher.Put(context.Background(), envelope[T]{topic: topic, value: value})
		if err != nil {
			return err
		}
		if outcome != channel.Accepted {
			return gferrors.NewOperationError("pubsub", "Pub", gferrors.ErrClosed).WithContext("topic " + topic)
		}
		if ps.registry != nil {
			ps.registry.PubSubPublished.WithLabelValues(ps.name, topic).Inc()
		}
	}
	return nil
}

// Sub subscribes ch to every non-empty topic. Subscribing the same channel
// twice to a topic delivers each value twice.
func (ps *PubSub[T]) Sub(ch *channel.Channel[T], topics ...string) error {
	if err := validateSubscriber(ch, topics); err != nil {
		return err
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()

	for _, topic := range topics {
		if topic == "" {
			continue
		}
		ps.subscribers[topic] = append(ps.subscribers[topic], ch)
		ps.updateSubscribers(topic)
	}
	return nil
}

// Unsub removes ch from every listed topic.
func (ps *PubSub[T]) Unsub(ch *channel.Channel[T], topics ...string) error {
	if err := validateSubscriber(ch, topics); err != nil {
		return err
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()

	for _, topic := range topics {
		if topic == "" {
			continue
		}
		subs := slices.DeleteFunc(ps.subscribers[topic], func(s *channel.Channel[T]) bool {
			return s == ch
		})
		if len(subs) == 0 {
			delete(ps.subscribers, topic)
		} else {
			ps.subscribers[topic] = subs
		}
		ps.updateSubscribers(topic)
	}
	return nil
}

// Topics returns the sorted topics that have at least one subscriber.
func (ps *PubSub[T]) Topics() []string {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	topics := make([]string, 0, len(ps.subscribers))
	for topic := range ps.subscribers {
		topics = append(topics, topic)
	}
	sort.Strings(topics)
	return topics
}

// Close stops the delivery loop and waits for it to exit. Subscriber channels
// are left open.
func (ps *PubSub[T]) Close() error {
	_ = ps.publisher.Close()
	<-ps.done
	return nil
}

// Done is closed once the delivery loop has exited.
func (ps *PubSub[T]) Done() <-chan struct{} {
	return ps.done
}

func (ps *PubSub[T]) loop() {
	defer close(ps.done)
	ps.logger.Debug("pubsub loop started")

	for {
		env, err := ps.publisher.Take(context.Background())
		if err != nil {
			ps.logger.WithError(err).Debug("pubsub loop stopped")
			return
		}

		ps.mu.RLock()
		subs := slices.Clone(ps.subscribers[env.topic])
		ps.mu.RUnlock()

		for _, sub := range subs {
			sub.PutAsync(env.value)
		}
		if ps.registry != nil && len(subs) > 0 {
			ps.registry.PubSubDelivered.WithLabelValues(ps.name, env.topic).Add(float64(len(subs)))
		}
	}
}

// updateSubscribers refreshes the subscriber gauge. Callers must hold mu.
func (ps *PubSub[T]) updateSubscribers(topic string) {
	if ps.registry == nil {
		return
	}
	ps.registry.PubSubSubscribers.WithLabelValues(ps.name, topic).Set(float64(len(ps.subscribers[topic])))
}

func validateTopics(topics []string) error {
	if len(topics) == 0 {
		return gferrors.NewValidationError("pubsub", "topics", topics, "at least one topic is required")
	}
	return nil
}

func validateSubscriber[T any](ch *channel.Channel[T], topics []string) error {
	if err := validateTopics(topics); err != nil {
		return err
	}
	return validation.ValidateNotNil("pubsub", "subscriber", ch)
}
