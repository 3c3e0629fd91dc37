package http

import (
	"fmt"

	"karrakolla-be/internal/api/http/websocket"
	"karrakolla-be/internal/state"

	"github.com/kataras/iris/v12"
)

func RunServer(appState *state.AppState) {
	app := iris.Default()

	app.HandleDir(
		"/",
		iris.Dir(appState.Cfg.StaticDir),
		iris.DirOptions{
			IndexName: "index.html",
			SPA:       true,
			Compress:  true,
		},
	)

	api := app.Party("/api/v1")

	// 主持人控制面
	api.Post("/host/select-player", SelectPlayer(appState))
	api.Post("/host/trigger-gun", TriggerGun(appState))
	api.Post("/host/reset", ResetGame(appState))
	api.Post("/host/shuffle", ShufflePlayers(appState))
	api.Get("/host/screen", HostScreen(appState))
	api.Get("/host/join-qr", JoinQR(appState))

	// 名册查询，中途接入的观察者用它补齐状态
	api.Get("/players", ListPlayers(appState))

	// 聊天桥接推送与观察者订阅
	api.Get("/ws/chat", websocket.ChatBridge(appState))
	api.Get("/ws/observe", websocket.Observe(appState))

	addr := fmt.Sprintf(
		"%s:%d",
		appState.Cfg.Host,
		appState.Cfg.Port,
	)

	app.Listen(addr)
}
