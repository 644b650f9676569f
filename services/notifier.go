package services

import "sync"

// Change-notification topics, one per watched table.
const (
	TopicHotSpots        = "hot_spots"
	TopicVideos          = "videos"
	TopicScheduledVideos = "scheduled_videos"
)

// Notifier is the in-process change-notification channel. Write handlers
// publish a topic after committing; subscribers get a coalesced "something
// changed" signal carrying only the topic name, no payload diff. Delivery
// is best-effort: a subscriber that already has a pending signal does not
// get a second one, which is fine because consumers re-fetch everything.
type Notifier struct {
	mu   sync.RWMutex
	subs map[chan string]map[string]bool // channel -> subscribed topics
}

func NewNotifier() *Notifier {
	return &Notifier{
		subs: make(map[chan string]map[string]bool),
	}
}

// Subscribe returns a buffered channel receiving the topic name whenever
// one of the given topics is published. Callers must Unsubscribe on
// teardown.
func (n *Notifier) Subscribe(topics ...string) chan string {
	ch := make(chan string, 1)
	set := make(map[string]bool, len(topics))
	for _, t := range topics {
		set[t] = true
	}

	n.mu.Lock()
	n.subs[ch] = set
	n.mu.Unlock()
	return ch
}

func (n *Notifier) Unsubscribe(ch chan string) {
	n.mu.Lock()
	if _, ok := n.subs[ch]; ok {
		delete(n.subs, ch)
		close(ch)
	}
	n.mu.Unlock()
}

func (n *Notifier) Publish(topic string) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	for ch, topics := range n.subs {
		if !topics[topic] {
			continue
		}
		select {
		case ch <- topic:
		default: // already has a pending signal
		}
	}
}
