package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const (
	defaultConfigPath = "configs/config.yaml"
	envPrefix         = "xiadan"
)

// Load 读取配置文件并结合环境变量返回 Config。
func Load(path string) (*Config, error) {
	v := viper.New()

	if path == "" {
		path = defaultConfigPath
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix(envPrefix)
	replacer := strings.NewReplacer(".", "_")
	v.SetEnvKeyReplacer(replacer)
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("未找到配置文件 %q: %w", path, err)
		}
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	// DashScope 的密钥习惯上放在 DASHSCOPE_API_KEY 里，保持兼容。
	if cfg.Vision.APIKey == "" {
		cfg.Vision.APIKey = os.Getenv("DASHSCOPE_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.environment", "development")

	v.SetDefault("window.process_name", "xiadan.exe")
	v.SetDefault("window.title_keyword", "")
	v.SetDefault("window.exe_path", "")
	v.SetDefault("window.launch_wait", "5s")

	v.SetDefault("input.key_settle", "200ms")
	v.SetDefault("input.char_interval", "150ms")
	v.SetDefault("input.backspace_interval", "100ms")
	v.SetDefault("input.enter_interval", "200ms")
	v.SetDefault("input.confirm_interval", "250ms")
	v.SetDefault("input.field_settle", "300ms")
	v.SetDefault("input.query_settle", "1s")

	v.SetDefault("trading.code_table", map[string]string{})

	v.SetDefault("vision.enabled", true)
	v.SetDefault("vision.base_url", "https://dashscope.aliyuncs.com/compatible-mode/v1")
	v.SetDefault("vision.model", "qwen3-vl-plus")
	v.SetDefault("vision.timeout", "60s")

	v.SetDefault("retention.base_dir", "data")
	v.SetDefault("retention.days", 7)

	v.SetDefault("database.path", "data/xiadan_agent.db")
	v.SetDefault("database.max_open_conns", 4)
	v.SetDefault("database.max_idle_conns", 4)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.in_memory", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.encoding", "console")
	v.SetDefault("logging.development", true)
	v.SetDefault("logging.enable_file", true)
	v.SetDefault("logging.max_size_mb", 50)
	v.SetDefault("logging.max_backups", 7)
	v.SetDefault("logging.max_age_days", 7)
	v.SetDefault("logging.compress", false)
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}
