package game

import (
	"errors"

	"go.uber.org/zap"
)

// 会话总体分为 3 个阶段，分别是：
// 1. 空闲阶段（Idle）：无人持有行动权，只接受注册和主持人控制请求
// 2. 选格阶段（Picking）：主持人已选定玩家，等待其从棋盘选格
// 3. 瞄准阶段（Targeting）：当前玩家抽到手枪，等待其提交目标序号
const (
	STAGE_IDLE      = "Idle"
	STAGE_PICKING   = "Picking"
	STAGE_TARGETING = "Targeting"
)

// ErrUnknownPlayer 表示主持人引用了名册中不存在的玩家
var ErrUnknownPlayer = errors.New("未知玩家")

type StageHandler interface {
	Stage() string

	OnEnter(ctx *GameContext)
	OnHandle(ctx *GameContext, req RequestWrapper) error
	OnExit(ctx *GameContext)

	SetOnSwitch(func(nextStage string))
}

// 空闲阶段是会话的初始阶段，重置后也回到这里
type idleStageHandler struct {
	onSwitch func(string)
}

func NewIdleStageHandler() *idleStageHandler {
	return &idleStageHandler{}
}

func (ish *idleStageHandler) Stage() string {
	return STAGE_IDLE
}

func (ish *idleStageHandler) OnEnter(ctx *GameContext) {
	zap.L().Info(
		"会话进入空闲阶段",
		zap.String("session_id", ctx.SessionID),
		zap.Int("roster_size", ctx.Registry.Size()),
	)
}

func (ish *idleStageHandler) OnHandle(ctx *GameContext, req RequestWrapper) error {
	if chat := TryUnwrapChatRequest(req); chat != nil {
		// 空闲阶段无人持有行动权，除注册外的聊天输入都会被解析器忽略
		cmd := InterpretChat(ctx.Registry, ctx.Gate, ctx.JoinCmd, chat.Sender, chat.Text)
		if cmd.Kind == CMD_REGISTER {
			onRegister(ctx, cmd.Sender)
		}

		return nil
	}

	if handled, err := handleControl(ctx, req, ish.onSwitch); handled {
		return err
	}

	return errors.New("空闲阶段不支持该请求类型")
}

func (ish *idleStageHandler) OnExit(ctx *GameContext) {
}

func (ish *idleStageHandler) SetOnSwitch(onSwitch func(string)) {
	ish.onSwitch = onSwitch
}

// 选格阶段处理器
type pickStageHandler struct {
	onSwitch func(string)
}

func NewPickStageHandler() *pickStageHandler {
	return &pickStageHandler{}
}

func (psh *pickStageHandler) Stage() string {
	return STAGE_PICKING
}

func (psh *pickStageHandler) OnEnter(ctx *GameContext) {
	zap.L().Info(
		"会话进入选格阶段",
		zap.String("session_id", ctx.SessionID),
		zap.String("current_player", ctx.Gate.Current()),
	)
}

func (psh *pickStageHandler) OnHandle(ctx *GameContext, req RequestWrapper) error {
	if chat := TryUnwrapChatRequest(req); chat != nil {
		cmd := InterpretChat(ctx.Registry, ctx.Gate, ctx.JoinCmd, chat.Sender, chat.Text)

		switch cmd.Kind {
		case CMD_REGISTER:
			onRegister(ctx, cmd.Sender)
		case CMD_PICK:
			handlePick(ctx, psh.onSwitch, cmd)
		case CMD_INVALID:
			handleInvalid(ctx, cmd.Sender)
		}

		return nil
	}

	if handled, err := handleControl(ctx, req, psh.onSwitch); handled {
		return err
	}

	return errors.New("选格阶段不支持该请求类型")
}

func (psh *pickStageHandler) OnExit(ctx *GameContext) {
}

func (psh *pickStageHandler) SetOnSwitch(onSwitch func(string)) {
	psh.onSwitch = onSwitch
}

// 瞄准阶段处理器
type targetStageHandler struct {
	onSwitch func(string)
}

func NewTargetStageHandler() *targetStageHandler {
	return &targetStageHandler{}
}

func (tsh *targetStageHandler) Stage() string {
	return STAGE_TARGETING
}

func (tsh *targetStageHandler) OnEnter(ctx *GameContext) {
	zap.L().Info(
		"会话进入瞄准阶段",
		zap.String("session_id", ctx.SessionID),
		zap.String("current_player", ctx.Gate.Current()),
		zap.Int("eligible_count", len(ctx.Registry.EligiblePlayers())),
	)
}

func (tsh *targetStageHandler) OnHandle(ctx *GameContext, req RequestWrapper) error {
	if chat := TryUnwrapChatRequest(req); chat != nil {
		cmd := InterpretChat(ctx.Registry, ctx.Gate, ctx.JoinCmd, chat.Sender, chat.Text)

		switch cmd.Kind {
		case CMD_REGISTER:
			onRegister(ctx, cmd.Sender)
		case CMD_TARGET:
			handleTarget(ctx, tsh.onSwitch, cmd)
		case CMD_INVALID:
			// 无效输入同样消耗本回合的额外行动权
			handleInvalid(ctx, cmd.Sender)
			tsh.onSwitch(STAGE_PICKING)
		}

		return nil
	}

	if handled, err := handleControl(ctx, req, tsh.onSwitch); handled {
		return err
	}

	return errors.New("瞄准阶段不支持该请求类型")
}

func (tsh *targetStageHandler) OnExit(ctx *GameContext) {
}

func (tsh *targetStageHandler) SetOnSwitch(onSwitch func(string)) {
	tsh.onSwitch = onSwitch
}

// onRegister 注册一名来自聊天的新玩家，重复注册是无害的空操作
func onRegister(ctx *GameContext, sender string) {
	player, created := ctx.Registry.Register(sender)
	if !created {
		zap.L().Debug(
			"玩家已注册，忽略重复注册",
			zap.String("session_id", ctx.SessionID),
			zap.String("player_name", sender),
		)
		return
	}

	ctx.Emit(EVT_PLAYER_REGISTERED, PlayerRegisteredEvent{Player: *player})
}

// handlePick 结算一次选格。
// 已翻开的格子被拒绝但不消耗回合，这是唯一可重试的拒绝路径：
// 玩家看不到棋盘的竞态，理应可以直接换一个格子。
func handlePick(ctx *GameContext, onSwitch func(string), cmd ChatCommand) {
	player := ctx.Registry.FindByName(cmd.Sender)
	if player == nil {
		return
	}

	if ctx.Ledger.Revealed(cmd.Number) {
		zap.L().Info(
			"格子已翻开，等待玩家重新选择",
			zap.String("session_id", ctx.SessionID),
			zap.String("player_name", player.Name),
			zap.Int("cell", cmd.Number),
		)
		return
	}

	outcome := ctx.Draw()
	ctx.Ledger.Reveal(cmd.Number, outcome)

	switch outcome {
	case OUTCOME_APPLE:
		ctx.Registry.ApplyLifeDelta(player.Name, 1)
		player.HasActed = true
	case OUTCOME_SKULL:
		ctx.Registry.ApplyLifeDelta(player.Name, -1)
		player.HasActed = true
	case OUTCOME_GUN:
		// 额外行动权：同一玩家进入瞄准窗口
		player.HasActed = false
		player.AwaitingTarget = true
		onSwitch(STAGE_TARGETING)
	}

	zap.L().Info(
		"格子揭示",
		zap.String("session_id", ctx.SessionID),
		zap.String("player_name", player.Name),
		zap.Int("cell", cmd.Number),
		zap.String("outcome", outcome),
		zap.Int("lives", player.Lives),
	)

	ctx.Emit(EVT_CELL_REVEALED, CellRevealedEvent{
		Cell:          cmd.Number,
		Outcome:       outcome,
		ActorID:       player.ID,
		ActorName:     player.Name,
		Lives:         player.Lives,
		EligibleCount: len(ctx.Registry.EligiblePlayers()),
	})
}

// handleTarget 结算一次瞄准射击，无论命中与否回合都被消耗
func handleTarget(ctx *GameContext, onSwitch func(string), cmd ChatCommand) {
	player := ctx.Registry.FindByName(cmd.Sender)
	if player == nil {
		return
	}

	player.HasActed = true
	player.AwaitingTarget = false

	target := ctx.Registry.FindEligibleByJoinOrder(cmd.Number)
	if target == nil {
		zap.L().Info(
			"瞄准目标不存在或已淘汰",
			zap.String("session_id", ctx.SessionID),
			zap.String("player_name", player.Name),
			zap.Int("target_join_order", cmd.Number),
		)

		ctx.Emit(EVT_TARGET_SHOT, TargetShotEvent{
			ActorID:         player.ID,
			ActorName:       player.Name,
			TargetJoinOrder: cmd.Number,
			Success:         false,
		})

		onSwitch(STAGE_PICKING)
		return
	}

	// 生命扣减作用于目标而不是行动者
	ctx.Registry.ApplyLifeDelta(target.Name, -1)

	zap.L().Info(
		"瞄准射击命中",
		zap.String("session_id", ctx.SessionID),
		zap.String("player_name", player.Name),
		zap.String("target_name", target.Name),
		zap.Int("target_lives", target.Lives),
	)

	ctx.Emit(EVT_TARGET_SHOT, TargetShotEvent{
		ActorID:         player.ID,
		ActorName:       player.Name,
		TargetID:        target.ID,
		TargetName:      target.Name,
		TargetJoinOrder: cmd.Number,
		TargetLives:     target.Lives,
		Success:         true,
	})

	onSwitch(STAGE_PICKING)
}

// handleInvalid 处理无法解析的聊天输入：消耗回合，不改动其他任何状态
func handleInvalid(ctx *GameContext, sender string) {
	player := ctx.Registry.FindByName(sender)
	if player == nil {
		return
	}

	player.HasActed = true
	player.AwaitingTarget = false

	ctx.Emit(EVT_INVALID_INPUT, InvalidInputEvent{
		ActorID:   player.ID,
		ActorName: player.Name,
	})
}

// handleControl 处理各阶段通用的主持人控制请求，
// 返回值的第一项表示请求是否属于控制类。
func handleControl(ctx *GameContext, req RequestWrapper, onSwitch func(string)) (bool, error) {
	if req := TryUnwrapSelectPlayerRequest(req); req != nil {
		req.ResCh <- onSelectPlayer(ctx, req.PlayerID, onSwitch)
		return true, nil
	}

	if req := TryUnwrapTriggerGunRequest(req); req != nil {
		req.ResCh <- onTriggerGun(ctx, req.PlayerID, onSwitch)
		return true, nil
	}

	if req := TryUnwrapResetRequest(req); req != nil {
		onReset(ctx, onSwitch)
		req.ResCh <- struct{}{}
		return true, nil
	}

	if req := TryUnwrapRosterRequest(req); req != nil {
		req.ResCh <- ctx.Registry.AllPlayers()
		return true, nil
	}

	return false, nil
}

// onSelectPlayer 把行动权移交给指定玩家，所有人的回合状态清零
func onSelectPlayer(ctx *GameContext, playerID string, onSwitch func(string)) error {
	player := ctx.Registry.FindByID(playerID)
	if player == nil {
		return ErrUnknownPlayer
	}

	ctx.Registry.ResetTurnStates()
	ctx.Gate.Select(player.Name)

	zap.L().Info(
		"主持人选定玩家",
		zap.String("session_id", ctx.SessionID),
		zap.String("player_id", player.ID),
		zap.String("player_name", player.Name),
	)

	ctx.Emit(EVT_PLAYER_SELECTED, PlayerSelectedEvent{
		PlayerID:  player.ID,
		Name:      player.Name,
		JoinOrder: player.JoinOrder,
	})

	onSwitch(STAGE_PICKING)

	return nil
}

// onTriggerGun 由主持人在选格流程之外强制打开瞄准窗口，
// 无论该玩家之前处于什么状态。
func onTriggerGun(ctx *GameContext, playerID string, onSwitch func(string)) error {
	player := ctx.Registry.FindByID(playerID)
	if player == nil {
		return ErrUnknownPlayer
	}

	// 瞄准窗口同一时刻只属于一名玩家，先清掉其他人的状态
	ctx.Registry.ResetTurnStates()
	ctx.Gate.Select(player.Name)

	player.HasActed = false
	player.AwaitingTarget = true

	zap.L().Info(
		"主持人触发手枪",
		zap.String("session_id", ctx.SessionID),
		zap.String("player_id", player.ID),
		zap.String("player_name", player.Name),
	)

	onSwitch(STAGE_TARGETING)

	return nil
}

// onReset 把会话恢复到与新建时完全一致的状态，可重复调用
func onReset(ctx *GameContext, onSwitch func(string)) {
	ctx.Registry.Clear()
	ctx.Ledger.Clear()
	ctx.Gate.Clear()

	zap.L().Info(
		"会话已重置",
		zap.String("session_id", ctx.SessionID),
	)

	ctx.Emit(EVT_SESSION_RESET, SessionResetEvent{})

	onSwitch(STAGE_IDLE)
}
