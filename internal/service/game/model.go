package game

// 棋盘格子数量，聊天输入的选格编号范围为 1..CELL_COUNT
const CELL_COUNT = 70

// 格子揭示结果
const (
	// 苹果：+1 生命
	OUTCOME_APPLE = "Apple"
	// 手枪：获得额外行动权，进入瞄准阶段
	OUTCOME_GUN = "Gun"
	// 骷髅：-1 生命
	OUTCOME_SKULL = "Skull"
)

// Player 是本局会话中的参与者。
// 以聊天昵称作为唯一身份键，注册后在整局内不变；
// 淘汰只是状态（Lives <= 0），玩家不会从名册中移除。
type Player struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	JoinOrder int    `json:"join_order"`
	Lives     int    `json:"lives"`

	// 本回合的行动状态，每次主持人重新选人时清零
	HasActed       bool `json:"has_acted"`
	AwaitingTarget bool `json:"awaiting_target"`
}

// Eliminated 表示玩家是否已被淘汰。
// 生命值允许为负（连续扣减不设下限），一律视为淘汰。
func (p *Player) Eliminated() bool {
	return p.Lives <= 0
}
