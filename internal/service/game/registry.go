package game

import "go.uber.org/zap"

// Registry 持有本局会话的玩家名册。
// 名册只在会话生命周期内有效，Reset 时整体清空；
// 除此之外玩家只增不减，淘汰的玩家保留在名册中用于展示。
type Registry struct {
	// 以聊天昵称为键
	players map[string]*Player
	// 按加入顺序排列，JoinOrder 即下标 + 1
	order []*Player
	// 已分配的展示颜色，保证一局内不重复
	usedColors map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		players:    make(map[string]*Player),
		order:      make([]*Player, 0),
		usedColors: make(map[string]struct{}),
	}
}

// Register 以聊天昵称注册一名新玩家，初始 1 条生命。
// 同名玩家重复注册是无害的空操作，返回已有玩家和 false。
func (r *Registry) Register(name string) (*Player, bool) {
	if existing, ok := r.players[name]; ok {
		return existing, false
	}

	player := &Player{
		ID:        ShortID(),
		Name:      name,
		Color:     r.pickColor(),
		JoinOrder: len(r.order) + 1,
		Lives:     1,
	}

	r.players[name] = player
	r.order = append(r.order, player)

	zap.L().Info(
		"玩家注册",
		zap.String("player_id", player.ID),
		zap.String("player_name", player.Name),
		zap.Int("join_order", player.JoinOrder),
	)

	return player, true
}

// pickColor 生成一局内唯一的展示颜色
func (r *Registry) pickColor() string {
	for {
		color := RandHexColor()
		if _, taken := r.usedColors[color]; !taken {
			r.usedColors[color] = struct{}{}
			return color
		}
	}
}

func (r *Registry) FindByName(name string) *Player {
	return r.players[name]
}

func (r *Registry) FindByID(id string) *Player {
	for _, p := range r.order {
		if p.ID == id {
			return p
		}
	}

	return nil
}

// FindEligibleByJoinOrder 按加入序号在存活玩家中查找瞄准目标
func (r *Registry) FindEligibleByJoinOrder(joinOrder int) *Player {
	for _, p := range r.order {
		if p.JoinOrder == joinOrder && !p.Eliminated() {
			return p
		}
	}

	return nil
}

// ApplyLifeDelta 调整玩家生命值。
// 不设下限，负数生命与 0 一样按淘汰处理，展示层自行夹取。
func (r *Registry) ApplyLifeDelta(name string, delta int) (*Player, bool) {
	player, ok := r.players[name]
	if !ok {
		return nil, false
	}

	player.Lives += delta

	return player, true
}

// EligiblePlayers 返回所有存活玩家，按加入顺序升序
func (r *Registry) EligiblePlayers() []*Player {
	eligible := make([]*Player, 0, len(r.order))

	for _, p := range r.order {
		if !p.Eliminated() {
			eligible = append(eligible, p)
		}
	}

	return eligible
}

// AllPlayers 返回全体玩家的值拷贝快照，按加入顺序升序
func (r *Registry) AllPlayers() []Player {
	snapshot := make([]Player, 0, len(r.order))

	for _, p := range r.order {
		snapshot = append(snapshot, *p)
	}

	return snapshot
}

// ResetTurnStates 清零所有玩家的本回合行动状态
func (r *Registry) ResetTurnStates() {
	for _, p := range r.order {
		p.HasActed = false
		p.AwaitingTarget = false
	}
}

func (r *Registry) Size() int {
	return len(r.order)
}

// Clear 清空名册，仅供会话重置使用
func (r *Registry) Clear() {
	r.players = make(map[string]*Player)
	r.order = r.order[:0]
	r.usedColors = make(map[string]struct{})
}
