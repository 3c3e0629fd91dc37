package websocket

import (
	"encoding/json"
	"time"

	"karrakolla-be/internal/service/dto"
	"karrakolla-be/internal/state"

	"github.com/gorilla/websocket"
	"github.com/kataras/iris/v12"
	"go.uber.org/zap"
)

// ChatBridge 接收外部聊天桥接（如 Kick 机器人）推送的消息。
// 桥接方按到达顺序逐条推送 {sender, text}，
// 这里原样转入引擎队列，消息的取舍全部由引擎决定。
func ChatBridge(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		conn, err := upgrader.Upgrade(
			ctx.ResponseWriter(),
			ctx.Request(),
			nil,
		)
		if err != nil {
			zap.L().Error("升级到WebSocket失败", zap.Error(err))
			ctx.StatusCode(iris.StatusBadRequest)
			return
		}

		defer conn.Close()

		conn.SetReadDeadline(time.Now().Add(HEARTBEAT_TIMEOUT))
		conn.SetPongHandler(heartbeatHandler(conn))

		clientIP := ctx.RemoteAddr()

		zap.L().Info(
			"聊天桥接已连接",
			zap.String("client_ip", clientIP),
		)

		// 写协程只负责心跳
		writeDoneCh := make(chan struct{})
		defer close(writeDoneCh)

		go func() {
			ticker := time.NewTicker(HEARTBEAT_INTERVAL)
			defer ticker.Stop()

			for {
				select {
				case <-writeDoneCh:
					return

				case <-ticker.C:
					if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
						zap.L().Error(
							"发送心跳失败",
							zap.String("client_ip", clientIP),
							zap.Error(err),
						)
						return
					}

					conn.SetWriteDeadline(time.Now().Add(HEARTBEAT_TIMEOUT))
				}
			}
		}()

		// 读取循环（主协程）：逐条读入聊天消息
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(
					err,
					websocket.CloseGoingAway,
					websocket.CloseAbnormalClosure,
				) {
					zap.L().Error(
						"读取消息失败",
						zap.String("client_ip", clientIP),
						zap.Error(err),
					)
				}

				break
			}

			var line dto.ChatLine

			if err := json.Unmarshal(msg, &line); err != nil {
				zap.L().Error(
					"解析聊天消息失败",
					zap.String("client_ip", clientIP),
					zap.Error(err),
				)

				continue
			}

			if line.Sender == "" {
				zap.L().Debug(
					"丢弃无发送者的聊天消息",
					zap.String("client_ip", clientIP),
				)

				continue
			}

			if err := appState.SessionSvc.SubmitChat(line.Sender, line.Text); err != nil {
				// 队列满时丢弃这条消息，聊天侧自然会重试
				zap.L().Warn(
					"聊天消息未能入队",
					zap.String("client_ip", clientIP),
					zap.String("sender", line.Sender),
					zap.Error(err),
				)
			}
		}

		zap.L().Info(
			"聊天桥接连接断开",
			zap.String("client_ip", clientIP),
		)
	}
}
