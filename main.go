package main

import (
	"time"

	"karrakolla-be/internal/api/http"
	"karrakolla-be/internal/config"
	"karrakolla-be/internal/logger"
	"karrakolla-be/internal/service"
	"karrakolla-be/internal/state"

	"github.com/spf13/cobra"
)

func main() {
	cobra.CheckErr(newRootCmd().Execute())
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "karrakolla-be",
		Short:         "聊天驱动的扫雷淘汰游戏后端",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		SilenceUsage:  true,
		Run: func(cmd *cobra.Command, args []string) {
			// 加载配置，命令行参数优先于配置文件
			cfg := config.InitConfig(cmd.Flags())

			// 初始化日志器
			logger.InitLogger(cfg.LogLevel)

			// 组装应用状态
			sessionSvc := service.NewSessionService(
				cfg.JoinCommand,
				time.Duration(cfg.NoticeSeconds)*time.Second,
			)
			defer sessionSvc.Close()

			appState := state.NewAppState(cfg, sessionSvc)

			// 启动服务器
			http.RunServer(appState)
		},
	}

	fs := cmd.Flags()

	fs.StringP("host", "H", "0.0.0.0", "监听地址 (env: KARRAKOLLA_HOST)")
	fs.IntP("port", "p", 3001, "监听端口 (env: KARRAKOLLA_PORT)")
	fs.String("log-level", "info", "日志级别 debug/info/warn/error (env: KARRAKOLLA_LOG_LEVEL)")
	fs.String("join-command", "!katıl", "聊天注册口令 (env: KARRAKOLLA_JOIN_COMMAND)")
	fs.String("static-dir", "./karrakolla-fe", "主持人界面静态文件目录 (env: KARRAKOLLA_STATIC_DIR)")
	fs.String("public-url", "http://localhost:3001", "加入二维码指向的页面地址 (env: KARRAKOLLA_PUBLIC_URL)")
	fs.Int("notice-seconds", 4, "提示条展示秒数 (env: KARRAKOLLA_NOTICE_SECONDS)")

	return cmd
}
