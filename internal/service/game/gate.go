package game

// TurnGate 记录当前持有行动权的玩家。
// 同一时刻最多一名玩家可以通过聊天提交有效指令；
// 无人持有行动权时，除注册指令外的聊天输入一律被忽略。
type TurnGate struct {
	// 当前玩家的聊天昵称，空串表示无人持有行动权
	currentName string
}

func NewTurnGate() *TurnGate {
	return &TurnGate{}
}

func (g *TurnGate) Select(name string) {
	g.currentName = name
}

func (g *TurnGate) Current() string {
	return g.currentName
}

// Holds 判断该昵称是否为当前行动权持有者
func (g *TurnGate) Holds(name string) bool {
	return g.currentName != "" && g.currentName == name
}

func (g *TurnGate) Clear() {
	g.currentName = ""
}
