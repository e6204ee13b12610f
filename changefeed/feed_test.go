package changefeed

import "testing"

func TestFeedSubscribePublish(t *testing.T) {
	feed := New()

	var got []Event
	feed.Subscribe("list-view", func(evt Event) {
		got = append(got, evt)
	})

	feed.Publish(Event{Type: EventInsert, Table: TableStudyMaterials, Payload: "m1"})

	if len(got) != 1 {
		t.Fatalf("events: got=%d want=1", len(got))
	}
	if got[0].Type != EventInsert {
		t.Errorf("event type: got=%q want=INSERT", got[0].Type)
	}

	// Sau khi unsubscribe không nhận thêm sự kiện nào
	feed.Unsubscribe("list-view")
	feed.Publish(Event{Type: EventDelete, Table: TableStudyMaterials, Payload: "m1"})

	if len(got) != 1 {
		t.Errorf("events after unsubscribe: got=%d want=1", len(got))
	}
}

// Đăng ký lại cùng tên phải thay thế subscription cũ, không nhân đôi callback
func TestFeedResubscribeSameName(t *testing.T) {
	feed := New()

	calls := 0
	feed.Subscribe("list-view", func(Event) { calls++ })
	feed.Subscribe("list-view", func(Event) { calls++ })

	feed.Publish(Event{Type: EventUpdate, Table: TableStudyMaterials})

	if calls != 1 {
		t.Errorf("calls: got=%d want=1 (duplicate delivery)", calls)
	}
	if feed.SubscriberCount() != 1 {
		t.Errorf("subscriber count: got=%d want=1", feed.SubscriberCount())
	}
}

func TestFeedUnsubscribeIdempotent(t *testing.T) {
	feed := New()

	feed.Unsubscribe("never-registered")
	feed.Subscribe("a", func(Event) {})
	feed.Unsubscribe("a")
	feed.Unsubscribe("a")

	if feed.SubscriberCount() != 0 {
		t.Errorf("subscriber count: got=%d want=0", feed.SubscriberCount())
	}
}

func TestFeedFanOut(t *testing.T) {
	feed := New()

	gotA, gotB := 0, 0
	feed.Subscribe("a", func(Event) { gotA++ })
	feed.Subscribe("b", func(Event) { gotB++ })

	feed.Publish(Event{Type: EventInsert, Table: TableStudyMaterials})
	feed.Publish(Event{Type: EventUpdate, Table: TableStudyMaterials})

	if gotA != 2 || gotB != 2 {
		t.Errorf("fan-out: a=%d b=%d want 2/2", gotA, gotB)
	}
}

// Subscriber đăng ký sau khi sự kiện đã phát thì không nhận lại sự kiện cũ
func TestFeedNoReplay(t *testing.T) {
	feed := New()

	feed.Publish(Event{Type: EventInsert, Table: TableStudyMaterials})

	got := 0
	feed.Subscribe("late", func(Event) { got++ })

	if got != 0 {
		t.Errorf("late subscriber received replayed events: %d", got)
	}
}

// Subscriber được phép Unsubscribe chính mình trong callback
func TestFeedUnsubscribeInsideCallback(t *testing.T) {
	feed := New()

	calls := 0
	feed.Subscribe("once", func(Event) {
		calls++
		feed.Unsubscribe("once")
	})

	feed.Publish(Event{Type: EventInsert, Table: TableStudyMaterials})
	feed.Publish(Event{Type: EventInsert, Table: TableStudyMaterials})

	if calls != 1 {
		t.Errorf("calls: got=%d want=1", calls)
	}
}
