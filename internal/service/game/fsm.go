package game

import (
	"time"

	"go.uber.org/zap"
)

// GameMachine 是游戏会话引擎，负责管理会话状态和事件循环。
// 聊天指令和主持人控制请求全部汇入同一条请求通道，
// 逐条完整处理，构成规约要求的临界区。
type GameMachine struct {
	ctx     *GameContext
	handler StageHandler
	// 所有请求汇总的通道
	reqCh chan RequestWrapper
	// 结束通道，用于通知引擎退出事件循环
	doneCh chan struct{}

	createdAt time.Time
}

func NewGameMachine(
	sessionID string,
	joinCmd string,
	publish func(ResponseWrapper),
	doneCh chan struct{},
) *GameMachine {
	ctx := NewGameContext(sessionID, joinCmd)
	ctx.Publish = publish

	gm := &GameMachine{
		ctx:       ctx,
		handler:   NewIdleStageHandler(),
		reqCh:     make(chan RequestWrapper, 64),
		doneCh:    doneCh,
		createdAt: time.Now(),
	}

	// 设置 onSwitch 回调
	onSwitch := func(nextStage string) {
		gm.ctx.GameStage = nextStage
	}

	gm.handler.SetOnSwitch(onSwitch)

	return gm
}

func (gm *GameMachine) GetReqCh() chan RequestWrapper {
	return gm.reqCh
}

func (gm *GameMachine) Start() {
	// 执行初始 handler 的 OnEnter
	gm.handler.OnEnter(gm.ctx)

	// 进入事件循环
	for {
		var req RequestWrapper

		select {
		case req = <-gm.reqCh:
			zap.L().Debug(
				"接收到请求",
				zap.String("session_id", gm.ctx.SessionID),
				zap.String("request_type", req.ReqType),
			)
		case <-gm.doneCh:
			zap.L().Info(
				"收到退出信号，结束会话引擎",
				zap.String("session_id", gm.ctx.SessionID),
			)
			return
		}

		// 处理请求
		err := gm.handler.OnHandle(gm.ctx, req)
		if err != nil {
			zap.L().Debug(
				"处理请求失败",
				zap.Error(err),
				zap.String("stage", gm.handler.Stage()),
				zap.String("request_type", req.ReqType),
			)
		}

		// 检查状态是否发生变化
		if gm.ctx.GameStage != gm.handler.Stage() {
			gm.switchStage()

			// 执行新阶段的 OnEnter
			gm.handler.OnEnter(gm.ctx)
		}
	}
}

func (gm *GameMachine) switchStage() {
	// 执行当前 handler 的 OnExit
	gm.handler.OnExit(gm.ctx)

	// 根据新状态创建对应的 handler
	var newHandler StageHandler

	switch gm.ctx.GameStage {
	case STAGE_IDLE:
		newHandler = NewIdleStageHandler()
	case STAGE_PICKING:
		newHandler = NewPickStageHandler()
	case STAGE_TARGETING:
		newHandler = NewTargetStageHandler()
	default:
		zap.L().Error(
			"未知的会话阶段",
			zap.String("stage", gm.ctx.GameStage),
		)
		return
	}

	// 设置 onSwitch 回调
	onSwitch := func(nextStage string) {
		gm.ctx.GameStage = nextStage
	}

	newHandler.SetOnSwitch(onSwitch)

	// 更新当前 handler
	gm.handler = newHandler
}

func (gm *GameMachine) CreatedAt() time.Time {
	return gm.createdAt
}
