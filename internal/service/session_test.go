package service

import (
	"errors"
	"testing"
	"time"

	"karrakolla-be/internal/service/game"
)

func newTestSession(t *testing.T) *SessionService {
	t.Helper()

	ss := NewSessionService("!katıl", time.Minute)
	t.Cleanup(ss.Close)

	return ss
}

// 名册查询与之前的请求走同一条队列，因此天然等待它们处理完毕
func TestSessionService_RequestsAreSerialized(t *testing.T) {
	ss := newTestSession(t)

	if err := ss.SubmitChat("alice", "!katıl"); err != nil {
		t.Fatalf("chat submit failed: %v", err)
	}

	players, err := ss.Roster()
	if err != nil {
		t.Fatalf("roster query failed: %v", err)
	}
	if len(players) != 1 || players[0].Name != "alice" {
		t.Fatalf("unexpected roster: %+v", players)
	}

	if err := ss.SelectPlayer(players[0].ID); err != nil {
		t.Fatalf("select player failed: %v", err)
	}

	if err := ss.SubmitChat("alice", "abc"); err != nil {
		t.Fatalf("chat submit failed: %v", err)
	}

	players, err = ss.Roster()
	if err != nil {
		t.Fatalf("roster query failed: %v", err)
	}
	if !players[0].HasActed {
		t.Fatal("invalid input should have consumed alice's turn")
	}

	if err := ss.Reset(); err != nil {
		t.Fatalf("reset failed: %v", err)
	}

	players, err = ss.Roster()
	if err != nil {
		t.Fatalf("roster query failed: %v", err)
	}
	if len(players) != 0 {
		t.Fatalf("roster should be empty after reset, got %d", len(players))
	}
}

func TestSessionService_SelectUnknownPlayerSurfacesError(t *testing.T) {
	ss := newTestSession(t)

	if err := ss.SelectPlayer("missing"); !errors.Is(err, game.ErrUnknownPlayer) {
		t.Fatalf("want ErrUnknownPlayer, got %v", err)
	}
}

func TestSessionService_EventsReachSubscribers(t *testing.T) {
	ss := newTestSession(t)

	ch := ss.Subscribe()
	defer ss.Unsubscribe(ch)

	if err := ss.SubmitChat("bob", "!katıl"); err != nil {
		t.Fatalf("chat submit failed: %v", err)
	}

	select {
	case resp := <-ch:
		if resp.RespType != game.EVT_PLAYER_REGISTERED {
			t.Fatalf("want PlayerRegistered, got %q", resp.RespType)
		}
	case <-time.After(time.Second):
		t.Fatal("no event reached the subscriber")
	}
}

func TestSessionService_ScreenFollowsEvents(t *testing.T) {
	ss := newTestSession(t)

	if err := ss.SubmitChat("carol", "!katıl"); err != nil {
		t.Fatalf("chat submit failed: %v", err)
	}

	// 渲染器经广播通道异步消费事件
	deadline := time.After(time.Second)
	for {
		screen := ss.Screen()
		if len(screen.Players) == 1 && screen.Players[0].Name == "carol" {
			break
		}

		select {
		case <-deadline:
			t.Fatal("host screen never picked up the registration")
		case <-time.After(5 * time.Millisecond):
		}
	}

	ss.Shuffle()

	if got := len(ss.Screen().Shuffled); got != 1 {
		t.Fatalf("shuffle board should hold the one eligible player, got %d", got)
	}
}
