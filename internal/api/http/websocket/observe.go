package websocket

import (
	"time"

	"karrakolla-be/internal/state"

	"github.com/gorilla/websocket"
	"github.com/kataras/iris/v12"
	"go.uber.org/zap"
)

// Observe 是观察者订阅端点：按引擎产生的顺序推送事件流。
// 不回放历史，中途接入的观察者先调用名册查询补齐状态。
func Observe(appState *state.AppState) iris.Handler {
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

		respCh := appState.SessionSvc.Subscribe()
		defer appState.SessionSvc.Unsubscribe(respCh)

		zap.L().Info(
			"观察者已接入",
			zap.String("client_ip", clientIP),
		)

		// 写协程：推送事件和心跳
		writeDoneCh := make(chan struct{})
		defer close(writeDoneCh)

		go func() {
			ticker := time.NewTicker(HEARTBEAT_INTERVAL)
			defer ticker.Stop()

			for {
				select {
				case <-writeDoneCh:
					zap.L().Debug(
						"观察者写协程退出",
						zap.String("client_ip", clientIP),
					)
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

				case resp, ok := <-respCh:
					if !ok {
						zap.L().Info(
							"事件通道已关闭，退出观察者写协程",
							zap.String("client_ip", clientIP),
						)
						return
					}

					if err := conn.WriteJSON(resp); err != nil {
						zap.L().Error(
							"推送事件失败",
							zap.String("client_ip", clientIP),
							zap.Error(err),
						)
						return
					}
				}
			}
		}()

		// 读取循环（主协程）：观察者不发送业务消息，只用于感知断开
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
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
		}

		zap.L().Info(
			"观察者连接断开",
			zap.String("client_ip", clientIP),
		)
	}
}
