package game

import "go.uber.org/zap"

// GameContext 是一局会话的全部权威状态。
// 只在引擎事件循环的 goroutine 内被读写，状态机之外不得直接修改。
type GameContext struct {
	SessionID string
	GameStage string

	// 注册口令，大小写不敏感
	JoinCmd string

	Registry *Registry
	Ledger   *RevealLedger
	Gate     *TurnGate

	// 事件出口，由会话服务注入；为空时事件被丢弃（测试场景）
	Publish func(ResponseWrapper)

	// 格子结果抽取，默认为加权随机，测试中可替换
	Draw func() string
}

func NewGameContext(sessionID, joinCmd string) *GameContext {
	return &GameContext{
		SessionID: sessionID,
		GameStage: STAGE_IDLE,
		JoinCmd:   joinCmd,
		Registry:  NewRegistry(),
		Ledger:    NewRevealLedger(),
		Gate:      NewTurnGate(),
		Draw:      DrawOutcome,
	}
}

// Emit 向所有观察者广播一条事件
func (gc *GameContext) Emit(respType string, data any) {
	resp := WrapResponse(respType, data)

	zap.L().Debug(
		"广播事件",
		zap.String("session_id", gc.SessionID),
		zap.String("event_type", respType),
	)

	if gc.Publish != nil {
		gc.Publish(resp)
	}
}
