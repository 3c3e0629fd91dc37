package broadcast

import (
	"testing"

	"karrakolla-be/internal/service/game"
)

func TestBroadcaster_PublishDeliversToSubscriber(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.Publish(game.WrapResponse(game.EVT_SESSION_RESET, game.SessionResetEvent{}))

	got := <-ch
	if got.RespType != game.EVT_SESSION_RESET {
		t.Errorf("got event %q, want %q", got.RespType, game.EVT_SESSION_RESET)
	}
}

func TestBroadcaster_PublishDeliversToMultipleSubscribers(t *testing.T) {
	b := NewBroadcaster()
	ch1 := b.Subscribe()
	ch2 := b.Subscribe()
	defer b.Unsubscribe(ch1)
	defer b.Unsubscribe(ch2)

	b.Publish(game.WrapResponse(game.EVT_INVALID_INPUT, game.InvalidInputEvent{ActorName: "alice"}))

	if got := <-ch1; got.RespType != game.EVT_INVALID_INPUT {
		t.Errorf("ch1 got %q, want InvalidInput", got.RespType)
	}
	if got := <-ch2; got.RespType != game.EVT_INVALID_INPUT {
		t.Errorf("ch2 got %q, want InvalidInput", got.RespType)
	}
}

func TestBroadcaster_PreservesPublishOrder(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.Publish(game.WrapResponse(game.EVT_PLAYER_REGISTERED, nil))
	b.Publish(game.WrapResponse(game.EVT_PLAYER_SELECTED, nil))
	b.Publish(game.WrapResponse(game.EVT_CELL_REVEALED, nil))

	want := []string{game.EVT_PLAYER_REGISTERED, game.EVT_PLAYER_SELECTED, game.EVT_CELL_REVEALED}
	for i, respType := range want {
		if got := <-ch; got.RespType != respType {
			t.Fatalf("event %d: got %q, want %q", i, got.RespType, respType)
		}
	}
}

func TestBroadcaster_UnsubscribeClosesChannel(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Subscribe()
	b.Unsubscribe(ch)

	if _, open := <-ch; open {
		t.Error("channel should be closed after Unsubscribe")
	}

	// 重复退订不应 panic
	b.Unsubscribe(ch)
}

func TestBroadcaster_UnsubscribedChannelStopsReceiving(t *testing.T) {
	b := NewBroadcaster()
	ch1 := b.Subscribe()
	ch2 := b.Subscribe()
	b.Unsubscribe(ch1)

	b.Publish(game.WrapResponse(game.EVT_SESSION_RESET, game.SessionResetEvent{}))

	if got := <-ch2; got.RespType != game.EVT_SESSION_RESET {
		t.Errorf("ch2 got %q, want SessionReset", got.RespType)
	}

	b.Unsubscribe(ch2)
}

func TestBroadcaster_FullSubscriberDoesNotBlockPublish(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	// 填满订阅通道后继续发布，不得阻塞
	for i := 0; i < cap(ch)+10; i++ {
		b.Publish(game.WrapResponse(game.EVT_INVALID_INPUT, nil))
	}
}
