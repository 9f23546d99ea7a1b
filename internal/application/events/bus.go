package events

import "sync"

// Topic names a class of change notification.
type Topic string

// Topics published by the orchestrators. Subscribers re-fetch whatever the
// topic invalidates; the only ordering guarantee is that the triggering
// write committed before the event was published.
const (
	TopicPricingChanged  Topic = "pricing-changed"
	TopicMemberChanged   Topic = "member-changed"
	TopicPaymentsChanged Topic = "payments-changed"
)

// Event is a change notification. ID optionally names the affected record.
type Event struct {
	Topic Topic
	ID    string
}

// subscriberBuffer is the per-subscriber channel depth. A subscriber that
// falls this far behind loses notifications; it re-fetches on the next one.
const subscriberBuffer = 16

// Bus is an in-process typed publish/subscribe fan-out. It is passed by
// reference to whoever needs it instead of living in ambient global state.
type Bus struct {
	mu   sync.Mutex
	subs map[Topic][]chan Event
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[Topic][]chan Event)}
}

// Subscribe registers interest in a topic.
// POST: Returns a receive channel and a cancel function; cancel is
// idempotent and closes the channel
func (b *Bus) Subscribe(topic Topic) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	b.mu.Lock()
	b.subs[topic] = append(b.subs[topic], ch)
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			chans := b.subs[topic]
			for i, c := range chans {
				if c == ch {
					b.subs[topic] = append(chans[:i], chans[i+1:]...)
					break
				}
			}
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers an event to every subscriber of its topic. Delivery is
// non-blocking: a subscriber with a full buffer misses the event rather
// than stalling the publisher. Sends happen under the lock so a concurrent
// cancel cannot close a channel between lookup and send.
// PRE: The write the event describes has already committed
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs[e.Topic] {
		select {
		case ch <- e:
		default:
		}
	}
}
