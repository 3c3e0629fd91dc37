package presenter

import (
	"testing"
	"time"

	"karrakolla-be/internal/broadcast"
	"karrakolla-be/internal/service/game"
)

func newTestPresenter(t *testing.T, noticeTTL time.Duration) *Presenter {
	t.Helper()

	b := broadcast.NewBroadcaster()
	p := NewPresenter(b, noticeTTL)
	t.Cleanup(p.Close)

	return p
}

func registeredEvent(id, name string, joinOrder int) game.ResponseWrapper {
	return game.WrapResponse(game.EVT_PLAYER_REGISTERED, game.PlayerRegisteredEvent{
		Player: game.Player{
			ID:        id,
			Name:      name,
			Color:     "#FF0000",
			JoinOrder: joinOrder,
			Lives:     1,
		},
	})
}

func TestPresenter_BuildsRosterFromEvents(t *testing.T) {
	p := newTestPresenter(t, time.Minute)

	p.Apply(registeredEvent("p1", "alice", 1))
	p.Apply(registeredEvent("p2", "bob", 2))
	p.Apply(registeredEvent("p1", "alice", 1)) // duplicate must be ignored

	screen := p.Snapshot()
	if len(screen.Players) != 2 {
		t.Fatalf("want 2 player cards, got %d", len(screen.Players))
	}
	if screen.Players[0].Name != "alice" || screen.Players[1].Name != "bob" {
		t.Fatalf("cards out of join order: %+v", screen.Players)
	}
}

func TestPresenter_ClampsLivesForDisplayOnly(t *testing.T) {
	p := newTestPresenter(t, time.Minute)

	p.Apply(registeredEvent("p1", "alice", 1))
	p.Apply(game.WrapResponse(game.EVT_CELL_REVEALED, game.CellRevealedEvent{
		Cell:      3,
		Outcome:   game.OUTCOME_SKULL,
		ActorID:   "p1",
		ActorName: "alice",
		Lives:     -1, // 引擎侧允许为负
	}))

	screen := p.Snapshot()
	card := screen.Players[0]
	if card.Lives != 0 {
		t.Fatalf("display lives must be clamped at 0, got %d", card.Lives)
	}
	if !card.Eliminated {
		t.Fatal("negative lives must render as eliminated")
	}
	if screen.RevealedCells[3] != game.OUTCOME_SKULL {
		t.Fatal("revealed cell missing from render state")
	}
}

func TestPresenter_TargetShotUpdatesTarget(t *testing.T) {
	p := newTestPresenter(t, time.Minute)

	p.Apply(registeredEvent("p1", "alice", 1))
	p.Apply(registeredEvent("p2", "bob", 2))
	p.Apply(game.WrapResponse(game.EVT_TARGET_SHOT, game.TargetShotEvent{
		ActorID:     "p1",
		ActorName:   "alice",
		TargetID:    "p2",
		TargetName:  "bob",
		TargetLives: 0,
		Success:     true,
	}))

	screen := p.Snapshot()
	if !screen.Players[1].Eliminated {
		t.Fatal("shot target should render as eliminated")
	}
	if screen.Notice == nil || screen.Notice.Kind != NOTICE_TARGET_HIT {
		t.Fatalf("want target-hit notice, got %+v", screen.Notice)
	}
}

func TestPresenter_NoticeClearsAfterTimeout(t *testing.T) {
	p := newTestPresenter(t, 30*time.Millisecond)

	p.Apply(registeredEvent("p1", "alice", 1))
	p.Apply(game.WrapResponse(game.EVT_INVALID_INPUT, game.InvalidInputEvent{
		ActorID:   "p1",
		ActorName: "alice",
	}))

	if p.Snapshot().Notice == nil {
		t.Fatal("notice should be visible right after the event")
	}

	time.Sleep(100 * time.Millisecond)

	if notice := p.Snapshot().Notice; notice != nil {
		t.Fatalf("notice should clear itself, still showing %+v", notice)
	}
}

func TestPresenter_ShuffleCoversExactlyEligiblePlayers(t *testing.T) {
	p := newTestPresenter(t, time.Minute)

	p.Apply(registeredEvent("p1", "alice", 1))
	p.Apply(registeredEvent("p2", "bob", 2))
	p.Apply(registeredEvent("p3", "carol", 3))
	p.Apply(game.WrapResponse(game.EVT_CELL_REVEALED, game.CellRevealedEvent{
		Cell: 1, Outcome: game.OUTCOME_SKULL, ActorID: "p2", ActorName: "bob", Lives: 0,
	}))

	p.Shuffle()

	screen := p.Snapshot()
	if len(screen.Shuffled) != 2 {
		t.Fatalf("shuffle must cover only eligible players, got %d", len(screen.Shuffled))
	}

	seen := make(map[string]bool)
	for _, card := range screen.Shuffled {
		seen[card.ID] = true
	}
	if !seen["p1"] || !seen["p3"] || seen["p2"] {
		t.Fatalf("unexpected shuffle membership: %+v", screen.Shuffled)
	}
}

func TestPresenter_SelectionClearsShuffleBoard(t *testing.T) {
	p := newTestPresenter(t, time.Minute)

	p.Apply(registeredEvent("p1", "alice", 1))
	p.Shuffle()
	p.Apply(game.WrapResponse(game.EVT_PLAYER_SELECTED, game.PlayerSelectedEvent{
		PlayerID:  "p1",
		Name:      "alice",
		JoinOrder: 1,
	}))

	screen := p.Snapshot()
	if len(screen.Shuffled) != 0 {
		t.Fatal("selection should clear the shuffle board")
	}
	if screen.SelectedID != "p1" || screen.SelectedName != "alice" {
		t.Fatalf("selected player not tracked: %+v", screen)
	}
}

func TestPresenter_ResetClearsEverything(t *testing.T) {
	p := newTestPresenter(t, time.Minute)

	p.Apply(registeredEvent("p1", "alice", 1))
	p.Apply(game.WrapResponse(game.EVT_PLAYER_SELECTED, game.PlayerSelectedEvent{PlayerID: "p1", Name: "alice"}))
	p.Apply(game.WrapResponse(game.EVT_CELL_REVEALED, game.CellRevealedEvent{
		Cell: 7, Outcome: game.OUTCOME_APPLE, ActorID: "p1", ActorName: "alice", Lives: 2,
	}))

	p.Apply(game.WrapResponse(game.EVT_SESSION_RESET, game.SessionResetEvent{}))

	screen := p.Snapshot()
	if len(screen.Players) != 0 || len(screen.RevealedCells) != 0 {
		t.Fatalf("reset should clear the render state: %+v", screen)
	}
	if screen.SelectedID != "" || screen.Notice != nil {
		t.Fatalf("reset should clear selection and notice: %+v", screen)
	}
}

func TestPresenter_ConsumesBroadcastStream(t *testing.T) {
	b := broadcast.NewBroadcaster()
	p := NewPresenter(b, time.Minute)
	defer p.Close()

	b.Publish(registeredEvent("p1", "alice", 1))

	// 事件经由订阅通道异步送达
	deadline := time.After(time.Second)
	for {
		if len(p.Snapshot().Players) == 1 {
			return
		}

		select {
		case <-deadline:
			t.Fatal("presenter never consumed the broadcast event")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
