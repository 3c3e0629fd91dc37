package dto

// 主持人控制接口的请求体，select-player 和 trigger-gun 共用
type HostPlayerActionRequest struct {
	PlayerID string `json:"player_id"`
}
