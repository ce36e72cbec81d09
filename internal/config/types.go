package config

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"
)

// Config 聚合了自动化引擎运行所需的全部配置项。
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Window    WindowConfig    `mapstructure:"window"`
	Input     InputConfig     `mapstructure:"input"`
	Trading   TradingConfig   `mapstructure:"trading"`
	Vision    VisionConfig    `mapstructure:"vision"`
	Retention RetentionConfig `mapstructure:"retention"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// AppConfig 控制应用级参数。
type AppConfig struct {
	Environment string `mapstructure:"environment"`
}

// WindowConfig 描述目标交易终端窗口的定位与启动方式。
type WindowConfig struct {
	ProcessName  string        `mapstructure:"process_name"`
	TitleKeyword string        `mapstructure:"title_keyword"`
	ExePath      string        `mapstructure:"exe_path"`
	LaunchWait   time.Duration `mapstructure:"launch_wait"`
}

// InputConfig 控制合成输入的节奏。所有间隔必须为正：
// 目标程序在字段切换期间会丢弃到达过快的按键事件。
type InputConfig struct {
	KeySettle         time.Duration `mapstructure:"key_settle"`
	CharInterval      time.Duration `mapstructure:"char_interval"`
	BackspaceInterval time.Duration `mapstructure:"backspace_interval"`
	EnterInterval     time.Duration `mapstructure:"enter_interval"`
	ConfirmInterval   time.Duration `mapstructure:"confirm_interval"`
	FieldSettle       time.Duration `mapstructure:"field_settle"`
	QuerySettle       time.Duration `mapstructure:"query_settle"`
}

// TradingConfig 管理委托相关参数。CodeTable 维护股票名称到
// 六位代码的映射，未命中的名称原样透传给终端。
type TradingConfig struct {
	CodeTable map[string]string `mapstructure:"code_table"`
}

// VisionConfig 描述视觉模型调用参数（DashScope 的 OpenAI 兼容模式）。
type VisionConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// RetentionConfig 控制截图与资产快照文件的保留策略。
type RetentionConfig struct {
	BaseDir string `mapstructure:"base_dir"`
	Days    int    `mapstructure:"days"`
}

// DatabaseConfig 管理委托流水数据库连接。
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	InMemory        bool          `mapstructure:"in_memory"`
}

// LoggingConfig 控制日志输出。EnableFile 打开后日志同时写入
// <retention.base_dir>/logs 下的滚动文件。
type LoggingConfig struct {
	Level       string `mapstructure:"level"`
	Encoding    string `mapstructure:"encoding"`
	Development bool   `mapstructure:"development"`
	EnableFile  bool   `mapstructure:"enable_file"`
	MaxSizeMB   int    `mapstructure:"max_size_mb"`
	MaxBackups  int    `mapstructure:"max_backups"`
	MaxAgeDays  int    `mapstructure:"max_age_days"`
	Compress    bool   `mapstructure:"compress"`
}

// Validate 对配置进行基本校验。
func (c *Config) Validate() error {
	var err error

	if c.App.Environment == "" {
		err = multierr.Append(err, errors.New("app.environment 不能为空"))
	}
	if c.Window.ProcessName == "" && c.Window.TitleKeyword == "" {
		err = multierr.Append(err, errors.New("window.process_name 与 window.title_keyword 至少配置一项"))
	}
	if c.Window.LaunchWait < 0 {
		err = multierr.Append(err, errors.New("window.launch_wait 不能为负"))
	}
	if c.Input.KeySettle <= 0 {
		err = multierr.Append(err, errors.New("input.key_settle 必须大于0"))
	}
	if c.Input.CharInterval <= 0 {
		err = multierr.Append(err, errors.New("input.char_interval 必须大于0"))
	}
	if c.Input.BackspaceInterval <= 0 {
		err = multierr.Append(err, errors.New("input.backspace_interval 必须大于0"))
	}
	if c.Input.EnterInterval <= 0 {
		err = multierr.Append(err, errors.New("input.enter_interval 必须大于0"))
	}
	if c.Input.ConfirmInterval <= 0 {
		err = multierr.Append(err, errors.New("input.confirm_interval 必须大于0"))
	}
	if c.Input.FieldSettle <= 0 {
		err = multierr.Append(err, errors.New("input.field_settle 必须大于0"))
	}
	if c.Input.QuerySettle <= 0 {
		err = multierr.Append(err, errors.New("input.query_settle 必须大于0"))
	}
	if c.Vision.Enabled {
		if c.Vision.APIKey == "" {
			err = multierr.Append(err, errors.New("vision.api_key 不能为空"))
		}
		if c.Vision.Model == "" {
			err = multierr.Append(err, errors.New("vision.model 不能为空"))
		}
		if c.Vision.Timeout <= 0 {
			err = multierr.Append(err, errors.New("vision.timeout 必须大于0"))
		}
	}
	if c.Retention.BaseDir == "" {
		err = multierr.Append(err, errors.New("retention.base_dir 不能为空"))
	}
	if c.Retention.Days <= 0 {
		err = multierr.Append(err, errors.New("retention.days 必须大于0"))
	}
	if c.Database.Path == "" && !c.Database.InMemory {
		err = multierr.Append(err, errors.New("database.path 不能为空"))
	}
	if c.Database.MaxOpenConns <= 0 {
		err = multierr.Append(err, errors.New("database.max_open_conns 必须大于0"))
	}
	if c.Database.MaxIdleConns < 0 {
		err = multierr.Append(err, errors.New("database.max_idle_conns 不能为负"))
	}
	if c.Database.ConnMaxLifetime < 0 {
		err = multierr.Append(err, errors.New("database.conn_max_lifetime 不能为负"))
	}
	if c.Logging.Level == "" {
		err = multierr.Append(err, errors.New("logging.level 不能为空"))
	}
	if c.Logging.Encoding == "" {
		err = multierr.Append(err, errors.New("logging.encoding 不能为空"))
	}
	if c.Logging.EnableFile {
		if c.Logging.MaxSizeMB <= 0 {
			err = multierr.Append(err, errors.New("logging.max_size_mb 必须大于0"))
		}
		if c.Logging.MaxAgeDays <= 0 {
			err = multierr.Append(err, errors.New("logging.max_age_days 必须大于0"))
		}
	}

	if err != nil {
		return fmt.Errorf("配置校验失败: %w", err)
	}

	return nil
}
