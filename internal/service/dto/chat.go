package dto

// ChatLine 是聊天桥接经 WebSocket 推送的一条消息。
// 传输层保证按到达顺序投递且 sender 已完成归属，这里不做鉴权。
type ChatLine struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}
