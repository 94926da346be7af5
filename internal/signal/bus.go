// Package signal carries named change notifications between the mutation
// paths (user actions, chat-driven actions) and the per-resource refresh
// coordinators. A signal carries no payload: it only means "this resource
// kind may be stale", and consumers re-fetch rather than receive the
// mutation's result.
package signal

import (
	"sync"

	"go.uber.org/zap"
)

// Topic names one resource kind that can be invalidated out of band.
type Topic string

const (
	TopicProducts Topic = "products"
	TopicCart     Topic = "cart"
	TopicWishlist Topic = "wishlist"
	TopicOrders   Topic = "orders"
)

// Handler is invoked synchronously on publish.
type Handler func()

// Bus is a process-wide topic publish/subscribe channel. Publish delivers to
// every current subscriber synchronously, in subscription order. A handler
// subscribed twice is invoked twice; deduplication is the caller's job.
type Bus struct {
	mu     sync.RWMutex
	subs   map[Topic][]*Subscription
	logger *zap.Logger
}

// Subscription identifies one registered handler so it can be removed.
type Subscription struct {
	bus   *Bus
	topic Topic
	fn    Handler
}

// NewBus creates an empty bus. A nil logger disables publish logging.
func NewBus(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{
		subs:   make(map[Topic][]*Subscription),
		logger: logger,
	}
}

// Subscribe registers fn for topic and returns its subscription handle.
func (b *Bus) Subscribe(topic Topic, fn Handler) *Subscription {
	sub := &Subscription{bus: b, topic: topic, fn: fn}
	b.mu.Lock()
	b.subs[topic] = append(b.subs[topic], sub)
	b.mu.Unlock()
	return sub
}

// Unsubscribe removes the subscription from its bus. Removing twice is a
// no-op.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.bus == nil {
		return
	}
	b := s.bus
	b.mu.Lock()
	list := b.subs[s.topic]
	for i, sub := range list {
		if sub == s {
			b.subs[s.topic] = append(list[:i], list[i+1:]...)
			break
		}
	}
	b.mu.Unlock()
	s.bus = nil
}

// Publish notifies every subscriber of topic, in subscription order. The
// handler list is snapshotted first, so handlers may subscribe, unsubscribe
// or publish without deadlocking; such changes take effect on the next
// publish.
func (b *Bus) Publish(topic Topic) {
	b.mu.RLock()
	list := b.subs[topic]
	snapshot := make([]*Subscription, len(list))
	copy(snapshot, list)
	b.mu.RUnlock()

	b.logger.Debug("signal published",
		zap.String("topic", string(topic)),
		zap.Int("subscribers", len(snapshot)))

	for _, sub := range snapshot {
		sub.fn()
	}
}

// SubscriberCount reports the current number of subscriptions for topic.
func (b *Bus) SubscriberCount(topic Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}
