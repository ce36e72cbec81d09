package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"xiadan-agent/internal/app"
	"xiadan-agent/internal/config"
	"xiadan-agent/internal/log"
	"xiadan-agent/internal/store"
)

func main() {
	var (
		configPath string
		cmd        app.Command
	)
	flag.StringVar(&configPath, "config", "", "配置文件路径，默认使用 configs/config.yaml")
	flag.StringVar(&cmd.Name, "cmd", "", "命令: buy/sell/cancel/assets/position/filled/pending/click")
	flag.StringVar(&cmd.Code, "code", "", "证券代码或名称")
	flag.StringVar(&cmd.Price, "price", "", "委托价格，留空跳过价格输入")
	flag.StringVar(&cmd.Quantity, "qty", "", "委托数量，留空跳过数量输入")
	flag.StringVar(&cmd.Mode, "mode", "limit", "价格模式: limit 原样输入，market 按参考价上下浮动1%")
	flag.StringVar(&cmd.Element, "element", "", "click 命令的目标元素名")
	flag.Parse()

	if cmd.Name == "" {
		fmt.Fprintln(os.Stderr, "缺少 -cmd 参数")
		flag.Usage()
		os.Exit(2)
	}

	// .env 不存在不是错误，密钥也可以来自真实环境变量。
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logger, err := log.NewLogger(cfg.Logging, filepath.Join(cfg.Retention.BaseDir, "logs"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)

	journal, err := store.NewSQLite(cfg.Database)
	if err != nil {
		logger.Error("初始化数据库失败", zap.Error(err))
		os.Exit(1)
	}
	defer func() {
		if closeErr := journal.Close(); closeErr != nil {
			logger.Warn("关闭数据库失败", zap.Error(closeErr))
		}
	}()

	agent, err := app.New(cfg, logger, journal)
	if err != nil {
		logger.Error("初始化失败", zap.Error(err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := agent.Run(ctx, cmd); err != nil {
		logger.Error("命令执行失败", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("命令执行完成", zap.String("command", cmd.Name))
}
