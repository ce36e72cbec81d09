// Package app 负责组装各组件并执行单条命令。
package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"xiadan-agent/internal/artifact"
	"xiadan-agent/internal/config"
	"xiadan-agent/internal/store"
	"xiadan-agent/internal/trade"
)

// Command 是 CLI 解析出的一条待执行命令。
type Command struct {
	Name     string // buy/sell/cancel/assets/position/filled/pending/click
	Code     string
	Price    string
	Quantity string
	Mode     string // limit/market
	Element  string // click 命令的目标元素名
}

// clickFunc 按名称点击界面元素，由平台层实现。
type clickFunc func(ctx context.Context, name string) error

// App 聚合核心依赖并驱动命令执行。
type App struct {
	cfg       *config.Config
	logger    *zap.Logger
	journal   *store.Store
	artifacts *artifact.Store
	engine    *trade.Executor
	click     clickFunc
}

// New 创建 App 实例：初始化工件仓库，连接交易终端窗口并组装
// 命令执行器。
func New(cfg *config.Config, logger *zap.Logger, journal *store.Store) (*App, error) {
	artifacts, err := artifact.NewStore(cfg.Retention, logger)
	if err != nil {
		return nil, err
	}

	engine, click, err := buildEngine(cfg, artifacts, logger)
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:       cfg,
		logger:    logger,
		journal:   journal,
		artifacts: artifacts,
		engine:    engine,
		click:     click,
	}, nil
}

// Run 执行一条命令。
func (a *App) Run(ctx context.Context, cmd Command) error {
	a.logger.Info("开始执行命令",
		zap.String("command", cmd.Name),
		zap.String("environment", a.cfg.App.Environment),
	)

	switch cmd.Name {
	case "buy", "sell":
		return a.runOrder(ctx, cmd)
	case "cancel":
		return a.engine.Cancel(ctx)
	case "assets":
		return a.runQueryAssets(ctx)
	case "position":
		return a.engine.ViewPosition(ctx)
	case "filled":
		return a.engine.ViewFilledOrders(ctx)
	case "pending":
		return a.engine.ViewPendingOrders(ctx)
	case "click":
		if cmd.Element == "" {
			return errors.New("click 命令需要 -element 参数")
		}
		return a.click(ctx, cmd.Element)
	default:
		return fmt.Errorf("未知命令 %q", cmd.Name)
	}
}

func (a *App) runOrder(ctx context.Context, cmd Command) error {
	order := trade.OrderCommand{
		Code:     cmd.Code,
		Price:    cmd.Price,
		Quantity: cmd.Quantity,
		Mode:     trade.PriceMode(cmd.Mode),
	}

	var err error
	if cmd.Name == "buy" {
		err = a.engine.Buy(ctx, order)
		order.Side = trade.SideBuy
	} else {
		err = a.engine.Sell(ctx, order)
		order.Side = trade.SideSell
	}

	detail := ""
	if err != nil {
		detail = err.Error()
	}
	if jerr := a.journal.RecordOrder(ctx, order, err == nil, detail); jerr != nil {
		a.logger.Warn("委托流水记录失败", zap.Error(jerr))
	}
	return err
}

func (a *App) runQueryAssets(ctx context.Context) error {
	snap, err := a.engine.QueryAssets(ctx, a.cfg.Vision.Enabled)
	if err != nil {
		return err
	}
	if snap == nil {
		return nil
	}

	path, err := a.artifacts.WriteSnapshot(snap)
	if err != nil {
		return err
	}
	if jerr := a.journal.RecordSnapshot(ctx, snap.Screenshot, path, snap); jerr != nil {
		a.logger.Warn("快照索引记录失败", zap.Error(jerr))
	}

	a.logger.Info("资产查询完成",
		zap.String("total_assets", snap.TotalAssets),
		zap.Int("positions", len(snap.Positions)),
		zap.Bool("degraded", snap.Raw != ""),
	)
	return nil
}
