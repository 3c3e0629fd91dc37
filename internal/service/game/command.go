package game

import (
	"strconv"
	"strings"
)

// 聊天指令解析结果
const (
	// 静默忽略：非当前玩家、本回合已行动、空消息等
	CMD_IGNORE   = "Ignore"
	CMD_REGISTER = "Register"
	CMD_PICK     = "Pick"
	CMD_TARGET   = "Target"
	CMD_INVALID  = "Invalid"
)

type ChatCommand struct {
	Kind   string
	Sender string
	// CMD_PICK 时为格子编号，CMD_TARGET 时为目标的加入序号
	Number int
}

// InterpretChat 把一条原始聊天消息解析为类型化的游戏指令。
//
// 行动权的独占性和每回合一次的限制都在这里做掉，
// 引擎之后只会收到合法行动者发出的指令，
// 并发到达的聊天消息不会再引入乱序问题。
//
// 解析优先级：
//  1. 加入口令（大小写不敏感）→ 注册；
//  2. 发送者不是当前行动权持有者 → 静默忽略；
//  3. 本回合已行动且不在瞄准窗口 → 静默忽略；
//  4. 整数解析：失败或选格越界 → 无效指令（消耗回合）；
//     瞄准窗口内任意整数 → 瞄准目标；1..70 → 选格。
func InterpretChat(reg *Registry, gate *TurnGate, joinCmd, sender, text string) ChatCommand {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ChatCommand{Kind: CMD_IGNORE, Sender: sender}
	}

	if strings.EqualFold(trimmed, joinCmd) {
		return ChatCommand{Kind: CMD_REGISTER, Sender: sender}
	}

	player := reg.FindByName(sender)
	if player == nil || !gate.Holds(sender) {
		return ChatCommand{Kind: CMD_IGNORE, Sender: sender}
	}

	if player.HasActed && !player.AwaitingTarget {
		return ChatCommand{Kind: CMD_IGNORE, Sender: sender}
	}

	num, err := strconv.Atoi(trimmed)
	if err != nil {
		return ChatCommand{Kind: CMD_INVALID, Sender: sender}
	}

	if player.AwaitingTarget {
		return ChatCommand{Kind: CMD_TARGET, Sender: sender, Number: num}
	}

	if num >= 1 && num <= CELL_COUNT {
		return ChatCommand{Kind: CMD_PICK, Sender: sender, Number: num}
	}

	return ChatCommand{Kind: CMD_INVALID, Sender: sender}
}
