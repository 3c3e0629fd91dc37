package http

import (
	"karrakolla-be/internal/service/dto"
	"karrakolla-be/internal/state"

	"github.com/kataras/iris/v12"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

// SelectPlayer 把行动权移交给请求体中指定的玩家
func SelectPlayer(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		var req dto.HostPlayerActionRequest

		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StatusCode(iris.StatusBadRequest)
			ctx.JSON(iris.Map{
				"error": "请求参数无效",
			})
			return
		}

		if err := appState.SessionSvc.SelectPlayer(req.PlayerID); err != nil {
			ctx.StatusCode(iris.StatusBadRequest)
			ctx.JSON(iris.Map{
				"error": err.Error(),
			})
			return
		}

		ctx.JSON(iris.Map{"success": true})
	}
}

// TriggerGun 在选格流程之外为指定玩家打开瞄准窗口
func TriggerGun(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		var req dto.HostPlayerActionRequest

		if err := ctx.ReadJSON(&req); err != nil {
			ctx.StatusCode(iris.StatusBadRequest)
			ctx.JSON(iris.Map{
				"error": "请求参数无效",
			})
			return
		}

		if err := appState.SessionSvc.TriggerGun(req.PlayerID); err != nil {
			ctx.StatusCode(iris.StatusBadRequest)
			ctx.JSON(iris.Map{
				"error": err.Error(),
			})
			return
		}

		ctx.JSON(iris.Map{"success": true})
	}
}

// ResetGame 清空整局会话
func ResetGame(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		if err := appState.SessionSvc.Reset(); err != nil {
			ctx.StatusCode(iris.StatusInternalServerError)
			ctx.JSON(iris.Map{
				"error": err.Error(),
			})
			return
		}

		ctx.JSON(iris.Map{"success": true})
	}
}

// ShufflePlayers 主持人本地洗牌，只影响展示顺序
func ShufflePlayers(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		appState.SessionSvc.Shuffle()
		ctx.JSON(iris.Map{"success": true})
	}
}

// HostScreen 返回主持人界面的渲染状态快照
func HostScreen(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		ctx.JSON(appState.SessionSvc.Screen())
	}
}

// ListPlayers 返回全体玩家快照
func ListPlayers(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		players, err := appState.SessionSvc.Roster()
		if err != nil {
			ctx.StatusCode(iris.StatusInternalServerError)
			ctx.JSON(iris.Map{
				"error": err.Error(),
			})
			return
		}

		ctx.JSON(players)
	}
}

// JoinQR 生成指向公开页面地址的二维码，供直播画面展示
func JoinQR(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		png, err := qrcode.Encode(appState.Cfg.PublicURL, qrcode.Medium, 256)
		if err != nil {
			zap.L().Error("生成二维码失败", zap.Error(err))
			ctx.StatusCode(iris.StatusInternalServerError)
			ctx.JSON(iris.Map{
				"error": "生成二维码失败",
			})
			return
		}

		ctx.ContentType("image/png")
		ctx.Write(png)
	}
}
