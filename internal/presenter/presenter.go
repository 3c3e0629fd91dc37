package presenter

import (
	"math/rand"
	"sync"
	"time"

	"karrakolla-be/internal/broadcast"
	"karrakolla-be/internal/service/game"

	"go.uber.org/zap"
)

// 提示条类型
const (
	NOTICE_INVALID_INPUT = "InvalidInput"
	NOTICE_CELL_REVEALED = "CellRevealed"
	NOTICE_GUN_DRAWN     = "GunDrawn"
	NOTICE_TARGET_HIT    = "TargetHit"
	NOTICE_TARGET_MISS   = "TargetMiss"
)

// PlayerCard 是主持人界面上的一张玩家卡片
type PlayerCard struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	JoinOrder int    `json:"join_order"`
	// 展示用生命值，下限夹取为 0；真实值允许为负，由引擎持有
	Lives      int  `json:"lives"`
	Eliminated bool `json:"eliminated"`
}

// Notice 是限时展示的提示条，文案由前端按类型本地化
type Notice struct {
	Kind          string `json:"kind"`
	Actor         string `json:"actor,omitempty"`
	Target        string `json:"target,omitempty"`
	Cell          int    `json:"cell,omitempty"`
	Outcome       string `json:"outcome,omitempty"`
	EligibleCount int    `json:"eligible_count,omitempty"`
}

// Screen 是主持人界面渲染状态的一次快照
type Screen struct {
	Players       []PlayerCard   `json:"players"`
	RevealedCells map[int]string `json:"revealed_cells"`
	SelectedID    string         `json:"selected_id,omitempty"`
	SelectedName  string         `json:"selected_name,omitempty"`
	Shuffled      []PlayerCard   `json:"shuffled"`
	Notice        *Notice        `json:"notice,omitempty"`
}

// Presenter 消费广播事件和主持人本地动作，维护派生的渲染状态。
// 这里的状态都可以从事件流重建，不包含任何权威游戏数据，
// 也绝不产生影响游戏结果的随机性。
type Presenter struct {
	mu sync.Mutex

	// 以玩家 ID 为键，lives 保存事件流中的原始值
	players map[string]*PlayerCard
	order   []string

	revealed     map[int]string
	selectedID   string
	selectedName string

	// 洗牌展示顺序，只由主持人的洗牌动作重新生成
	shuffled []PlayerCard

	notice      *Notice
	noticeTTL   time.Duration
	noticeTimer *time.Timer

	events      chan game.ResponseWrapper
	broadcaster *broadcast.Broadcaster
}

func NewPresenter(b *broadcast.Broadcaster, noticeTTL time.Duration) *Presenter {
	p := &Presenter{
		players:     make(map[string]*PlayerCard),
		revealed:    make(map[int]string),
		noticeTTL:   noticeTTL,
		events:      b.Subscribe(),
		broadcaster: b,
	}

	go p.run()

	return p
}

// run 消费事件直到退订关闭通道
func (p *Presenter) run() {
	for resp := range p.events {
		p.Apply(resp)
	}

	zap.L().Debug("主持人渲染器事件循环退出")
}

// Close 退订事件流并停止提示条定时器
func (p *Presenter) Close() {
	p.broadcaster.Unsubscribe(p.events)

	p.mu.Lock()
	if p.noticeTimer != nil {
		p.noticeTimer.Stop()
	}
	p.mu.Unlock()
}

// Apply 把一条广播事件归并进渲染状态
func (p *Presenter) Apply(resp game.ResponseWrapper) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch resp.RespType {
	case game.EVT_PLAYER_REGISTERED:
		ev, ok := resp.Data.(game.PlayerRegisteredEvent)
		if !ok {
			return
		}

		if _, exists := p.players[ev.Player.ID]; exists {
			return
		}

		p.players[ev.Player.ID] = &PlayerCard{
			ID:        ev.Player.ID,
			Name:      ev.Player.Name,
			Color:     ev.Player.Color,
			JoinOrder: ev.Player.JoinOrder,
			Lives:     ev.Player.Lives,
		}
		p.order = append(p.order, ev.Player.ID)

	case game.EVT_PLAYER_SELECTED:
		ev, ok := resp.Data.(game.PlayerSelectedEvent)
		if !ok {
			return
		}

		p.selectedID = ev.PlayerID
		p.selectedName = ev.Name
		// 选人后洗牌面板清空，与主持人界面的交互节奏一致
		p.shuffled = nil

	case game.EVT_CELL_REVEALED:
		ev, ok := resp.Data.(game.CellRevealedEvent)
		if !ok {
			return
		}

		p.revealed[ev.Cell] = ev.Outcome

		if card, exists := p.players[ev.ActorID]; exists {
			card.Lives = ev.Lives
		}

		kind := NOTICE_CELL_REVEALED
		if ev.Outcome == game.OUTCOME_GUN {
			kind = NOTICE_GUN_DRAWN
		}

		p.setNotice(&Notice{
			Kind:          kind,
			Actor:         ev.ActorName,
			Cell:          ev.Cell,
			Outcome:       ev.Outcome,
			EligibleCount: ev.EligibleCount,
		})

	case game.EVT_TARGET_SHOT:
		ev, ok := resp.Data.(game.TargetShotEvent)
		if !ok {
			return
		}

		if !ev.Success {
			p.setNotice(&Notice{
				Kind:  NOTICE_TARGET_MISS,
				Actor: ev.ActorName,
			})
			return
		}

		if card, exists := p.players[ev.TargetID]; exists {
			card.Lives = ev.TargetLives
		}

		p.setNotice(&Notice{
			Kind:   NOTICE_TARGET_HIT,
			Actor:  ev.ActorName,
			Target: ev.TargetName,
		})

	case game.EVT_INVALID_INPUT:
		ev, ok := resp.Data.(game.InvalidInputEvent)
		if !ok {
			return
		}

		p.setNotice(&Notice{
			Kind:  NOTICE_INVALID_INPUT,
			Actor: ev.ActorName,
		})

	case game.EVT_SESSION_RESET:
		p.players = make(map[string]*PlayerCard)
		p.order = nil
		p.revealed = make(map[int]string)
		p.selectedID = ""
		p.selectedName = ""
		p.shuffled = nil
		p.clearNotice()
	}
}

// setNotice 更新提示条并重置自动清除定时器。
// 定时器只影响展示，对游戏状态没有任何作用。
func (p *Presenter) setNotice(n *Notice) {
	p.notice = n

	if p.noticeTimer != nil {
		p.noticeTimer.Stop()
	}

	p.noticeTimer = time.AfterFunc(p.noticeTTL, func() {
		p.mu.Lock()
		if p.notice == n {
			p.notice = nil
		}
		p.mu.Unlock()
	})
}

func (p *Presenter) clearNotice() {
	if p.noticeTimer != nil {
		p.noticeTimer.Stop()
	}
	p.notice = nil
}

// Shuffle 对当前存活玩家做一次均匀洗牌，结果只用于展示
func (p *Presenter) Shuffle() {
	p.mu.Lock()
	defer p.mu.Unlock()

	alive := make([]PlayerCard, 0, len(p.order))
	for _, id := range p.order {
		if card := p.players[id]; card.Lives > 0 {
			alive = append(alive, *card)
		}
	}

	rand.Shuffle(len(alive), func(i, j int) {
		alive[i], alive[j] = alive[j], alive[i]
	})

	p.shuffled = alive
	p.selectedID = ""
	p.selectedName = ""
}

// Snapshot 返回当前渲染状态的拷贝，生命值已夹取为非负
func (p *Presenter) Snapshot() Screen {
	p.mu.Lock()
	defer p.mu.Unlock()

	players := make([]PlayerCard, 0, len(p.order))
	for _, id := range p.order {
		card := *p.players[id]
		card.Eliminated = card.Lives <= 0
		if card.Lives < 0 {
			card.Lives = 0
		}
		players = append(players, card)
	}

	revealed := make(map[int]string, len(p.revealed))
	for cell, outcome := range p.revealed {
		revealed[cell] = outcome
	}

	shuffled := make([]PlayerCard, len(p.shuffled))
	copy(shuffled, p.shuffled)

	return Screen{
		Players:       players,
		RevealedCells: revealed,
		SelectedID:    p.selectedID,
		SelectedName:  p.selectedName,
		Shuffled:      shuffled,
		Notice:        p.notice,
	}
}
