package game

import (
	"encoding/json"

	"go.uber.org/zap"
)

// 请求类型
const (
	REQ_CHAT          = "Chat"
	REQ_SELECT_PLAYER = "SelectPlayer"
	REQ_TRIGGER_GUN   = "TriggerGun"
	REQ_RESET         = "Reset"
	REQ_ROSTER        = "Roster"
)

// RequestWrapper 是进入引擎事件循环的统一信封。
// 来自聊天桥接的请求带 JSON 载荷，
// 主持人控制请求在进程内直接构造，带应答通道，走 Native。
type RequestWrapper struct {
	ReqType string          `json:"request_type"`
	Data    json.RawMessage `json:"data,omitempty"`

	Native any `json:"-"`
}

// ChatRequest 是聊天接入边界投递的一条原始消息。
// 发送者身份由接入层负责归属，这里不做任何鉴权。
type ChatRequest struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

type SelectPlayerRequest struct {
	PlayerID string `json:"player_id"`

	ResCh chan error `json:"-"`
}

type TriggerGunRequest struct {
	PlayerID string `json:"player_id"`

	ResCh chan error `json:"-"`
}

type ResetRequest struct {
	ResCh chan struct{} `json:"-"`
}

type RosterRequest struct {
	ResCh chan []Player `json:"-"`
}

func TryUnwrapChatRequest(wrapper RequestWrapper) *ChatRequest {
	if wrapper.ReqType != REQ_CHAT {
		return nil
	}

	if native, ok := wrapper.Native.(*ChatRequest); ok {
		return native
	}

	var chatRequest ChatRequest

	if err := json.Unmarshal(wrapper.Data, &chatRequest); err != nil {
		zap.L().Error(
			"Failed to unwrap ChatRequest",
			zap.Error(err),
			zap.Any("wrapper", wrapper),
		)
		return nil
	}

	return &chatRequest
}

func TryUnwrapSelectPlayerRequest(wrapper RequestWrapper) *SelectPlayerRequest {
	if wrapper.ReqType != REQ_SELECT_PLAYER {
		return nil
	}

	native, ok := wrapper.Native.(*SelectPlayerRequest)
	if !ok {
		zap.L().Error("SelectPlayerRequest 必须在进程内构造", zap.Any("wrapper", wrapper))
		return nil
	}

	return native
}

func TryUnwrapTriggerGunRequest(wrapper RequestWrapper) *TriggerGunRequest {
	if wrapper.ReqType != REQ_TRIGGER_GUN {
		return nil
	}

	native, ok := wrapper.Native.(*TriggerGunRequest)
	if !ok {
		zap.L().Error("TriggerGunRequest 必须在进程内构造", zap.Any("wrapper", wrapper))
		return nil
	}

	return native
}

func TryUnwrapResetRequest(wrapper RequestWrapper) *ResetRequest {
	if wrapper.ReqType != REQ_RESET {
		return nil
	}

	native, ok := wrapper.Native.(*ResetRequest)
	if !ok {
		zap.L().Error("ResetRequest 必须在进程内构造", zap.Any("wrapper", wrapper))
		return nil
	}

	return native
}

func TryUnwrapRosterRequest(wrapper RequestWrapper) *RosterRequest {
	if wrapper.ReqType != REQ_ROSTER {
		return nil
	}

	native, ok := wrapper.Native.(*RosterRequest)
	if !ok {
		zap.L().Error("RosterRequest 必须在进程内构造", zap.Any("wrapper", wrapper))
		return nil
	}

	return native
}

// 事件类型，完整的观察者流契约
const (
	EVT_PLAYER_REGISTERED = "PlayerRegistered"
	EVT_PLAYER_SELECTED   = "PlayerSelected"
	EVT_CELL_REVEALED     = "CellRevealed"
	EVT_TARGET_SHOT       = "TargetShot"
	EVT_INVALID_INPUT     = "InvalidInput"
	EVT_SESSION_RESET     = "SessionReset"
)

// ResponseWrapper 是引擎对外广播的统一事件信封
type ResponseWrapper struct {
	RespType string `json:"response_type"`
	Data     any    `json:"data,omitempty"`
}

func WrapResponse(respType string, data any) ResponseWrapper {
	return ResponseWrapper{
		RespType: respType,
		Data:     data,
	}
}

type PlayerRegisteredEvent struct {
	Player Player `json:"player"`
}

type PlayerSelectedEvent struct {
	PlayerID  string `json:"player_id"`
	Name      string `json:"name"`
	JoinOrder int    `json:"join_order"`
}

type CellRevealedEvent struct {
	Cell      int    `json:"cell"`
	Outcome   string `json:"outcome"`
	ActorID   string `json:"actor_id"`
	ActorName string `json:"actor_name"`
	// 行动者结算后的生命值
	Lives int `json:"lives"`
	// 手枪结果时展示层据此提示可选目标范围
	EligibleCount int `json:"eligible_count"`
}

type TargetShotEvent struct {
	ActorID         string `json:"actor_id"`
	ActorName       string `json:"actor_name"`
	TargetID        string `json:"target_id,omitempty"`
	TargetName      string `json:"target_name,omitempty"`
	TargetJoinOrder int    `json:"target_join_order"`
	// 目标结算后的生命值，未命中时无意义
	TargetLives int  `json:"target_lives"`
	Success     bool `json:"success"`
}

type InvalidInputEvent struct {
	ActorID   string `json:"actor_id"`
	ActorName string `json:"actor_name"`
}

type SessionResetEvent struct{}
