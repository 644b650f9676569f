package services

import "testing"

func TestNotifierDeliversSubscribedTopics(t *testing.T) {
	n := NewNotifier()
	ch := n.Subscribe(TopicVideos, TopicScheduledVideos)
	defer n.Unsubscribe(ch)

	n.Publish(TopicVideos)

	select {
	case topic := <-ch:
		if topic != TopicVideos {
			t.Errorf("Got topic %q, want %q", topic, TopicVideos)
		}
	default:
		t.Fatal("Expected a pending signal")
	}
}

func TestNotifierIgnoresOtherTopics(t *testing.T) {
	n := NewNotifier()
	ch := n.Subscribe(TopicVideos)
	defer n.Unsubscribe(ch)

	n.Publish(TopicHotSpots)

	select {
	case topic := <-ch:
		t.Fatalf("Unexpected signal for topic %q", topic)
	default:
	}
}

func TestNotifierCoalescesPendingSignals(t *testing.T) {
	n := NewNotifier()
	ch := n.Subscribe(TopicScheduledVideos)
	defer n.Unsubscribe(ch)

	// A subscriber that has not drained yet gets at most one signal; it
	// re-fetches everything anyway.
	n.Publish(TopicScheduledVideos)
	n.Publish(TopicScheduledVideos)
	n.Publish(TopicScheduledVideos)

	<-ch
	select {
	case <-ch:
		t.Fatal("Signals must coalesce while pending")
	default:
	}
}

func TestNotifierUnsubscribeClosesChannel(t *testing.T) {
	n := NewNotifier()
	ch := n.Subscribe(TopicVideos)

	n.Unsubscribe(ch)

	if _, ok := <-ch; ok {
		t.Fatal("Expected channel to be closed")
	}

	// Publishing after unsubscribe must not panic.
	n.Publish(TopicVideos)
}
