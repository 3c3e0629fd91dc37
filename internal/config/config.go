package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type AppConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	LogLevel string `mapstructure:"log_level"`

	// 聊天中的注册口令，大小写不敏感
	JoinCommand string `mapstructure:"join_command"`
	// 主持人界面静态文件目录
	StaticDir string `mapstructure:"static_dir"`
	// 对外公开的页面地址，加入二维码指向这里
	PublicURL string `mapstructure:"public_url"`
	// 主持人界面提示条的展示秒数
	NoticeSeconds int `mapstructure:"notice_seconds"`
}

// InitConfig 加载配置，优先级：命令行参数 > 环境变量 > 配置文件 > 默认值。
// 配置文件 app_config 可缺省。
func InitConfig(flags *pflag.FlagSet) *AppConfig {
	v := viper.New()

	v.SetConfigName("app_config")
	v.SetConfigType("json")
	v.AddConfigPath(".")

	v.SetEnvPrefix("KARRAKOLLA")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 3001)
	v.SetDefault("log_level", "info")
	v.SetDefault("join_command", "!katıl")
	v.SetDefault("static_dir", "./karrakolla-fe")
	v.SetDefault("public_url", "http://localhost:3001")
	v.SetDefault("notice_seconds", 4)

	if flags != nil {
		flags.VisitAll(func(f *pflag.Flag) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			_ = v.BindPFlag(key, f)
		})
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			panic(fmt.Errorf("加载配置失败: %w", err))
		}
	}

	var config AppConfig

	if err := v.Unmarshal(&config); err != nil {
		panic(fmt.Errorf("解析配置失败: %w", err))
	}

	return &config
}
