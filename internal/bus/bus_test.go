package bus

import (
	"testing"
)

func TestPublishReachesSubscribers(t *testing.T) {
	b := New()

	var got []string
	b.Subscribe(TopicComponentUpdated, func(ev Event) {
		got = append(got, ev.Payload.(string))
	})
	b.Subscribe(TopicComponentUpdated, func(ev Event) {
		got = append(got, "second:"+ev.Payload.(string))
	})

	b.Publish(TopicComponentUpdated, "PO-1001")

	if len(got) != 2 {
		t.Fatalf("expected 2 deliveries, got %d", len(got))
	}
}

func TestPublishSkipsOtherTopics(t *testing.T) {
	b := New()

	delivered := false
	b.Subscribe(TopicMaterialIn, func(Event) { delivered = true })

	b.Publish(TopicReturnSubmitted, nil)

	if delivered {
		t.Error("handler for a different topic was invoked")
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := New()

	count := 0
	unsub := b.Subscribe(TopicComponentUpdated, func(Event) { count++ })

	b.Publish(TopicComponentUpdated, nil)
	unsub()
	b.Publish(TopicComponentUpdated, nil)

	if count != 1 {
		t.Errorf("expected 1 delivery after unsubscribe, got %d", count)
	}
}

func TestHandlerMayUnsubscribeDuringPublish(t *testing.T) {
	b := New()

	var unsub func()
	count := 0
	unsub = b.Subscribe(TopicComponentUpdated, func(Event) {
		count++
		unsub()
	})

	b.Publish(TopicComponentUpdated, nil)
	b.Publish(TopicComponentUpdated, nil)

	if count != 1 {
		t.Errorf("expected reentrant unsubscribe to take effect, got %d deliveries", count)
	}
}
