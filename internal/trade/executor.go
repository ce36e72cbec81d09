package trade

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Keyboard 是命令序列依赖的按键注入能力。
type Keyboard interface {
	SendKey(vk uint16, settle time.Duration) error
	SendText(text string, perChar time.Duration) error
	SendBackspace(times int, perKey time.Duration) error
	SendEnter(times int, perKey time.Duration) error
}

// Capturer 截取交易窗口，返回截图文件路径。
type Capturer interface {
	Capture(savePath string) (string, error)
}

// Extractor 从截图中解析资产快照。
type Extractor interface {
	Extract(ctx context.Context, imagePath string) (*AssetSnapshot, error)
}

// 终端的功能键。F1 买入、F2 卖出、F3 撤单、F4 资产查询，
// F6/F7/F8 为持仓、成交、委托页面。
const (
	vkBuy         = 0x70
	vkSell        = 0x71
	vkCancel      = 0x72
	vkQueryAssets = 0x73
	vkPosition    = 0x75
	vkFilled      = 0x76
	vkPending     = 0x77
)

const (
	// 代码输入框最多残留 6 个字符，进场先清空。
	codeFieldBackspaces = 6
	// 提交委托需要连按两次回车走完确认弹窗。
	confirmEnterCount = 2
)

// Timing 控制命令序列各环节的等待时间。终端处理输入有延迟，
// 压缩这些间隔会导致按键丢失。
type Timing struct {
	KeySettle         time.Duration
	CharInterval      time.Duration
	BackspaceInterval time.Duration
	EnterInterval     time.Duration
	ConfirmInterval   time.Duration
	FieldSettle       time.Duration
	QuerySettle       time.Duration
}

// DefaultTiming 返回实测可靠的缺省节奏。
func DefaultTiming() Timing {
	return Timing{
		KeySettle:         200 * time.Millisecond,
		CharInterval:      150 * time.Millisecond,
		BackspaceInterval: 100 * time.Millisecond,
		EnterInterval:     200 * time.Millisecond,
		ConfirmInterval:   250 * time.Millisecond,
		FieldSettle:       300 * time.Millisecond,
		QuerySettle:       time.Second,
	}
}

// Executor 把高层交易命令翻译成按键序列。任何一步失败立即中止，
// 绝不自动重试：盲目重发按键可能造成重复委托。
type Executor struct {
	kb        Keyboard
	capturer  Capturer
	extractor Extractor
	codes     CodeTable
	timing    Timing
	logger    *zap.Logger

	now   func() time.Time
	sleep func(time.Duration)
}

// NewExecutor 创建命令执行器。extractor 可为 nil，此时资产查询
// 只截图不解析。
func NewExecutor(kb Keyboard, capturer Capturer, extractor Extractor, codes CodeTable, timing Timing, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{
		kb:        kb,
		capturer:  capturer,
		extractor: extractor,
		codes:     codes,
		timing:    timing,
		logger:    logger,
		now:       time.Now,
		sleep:     time.Sleep,
	}
}

// Buy 提交买入委托。
func (e *Executor) Buy(ctx context.Context, cmd OrderCommand) error {
	cmd.Side = SideBuy
	return e.submit(ctx, cmd)
}

// Sell 提交卖出委托。
func (e *Executor) Sell(ctx context.Context, cmd OrderCommand) error {
	cmd.Side = SideSell
	return e.submit(ctx, cmd)
}

// Cancel 打开撤单页面（F3）。
func (e *Executor) Cancel(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.logger.Info("发送撤单命令")
	if err := e.kb.SendKey(vkCancel, e.timing.KeySettle); err != nil {
		return fmt.Errorf("%w: %v", ErrInputFailed, err)
	}
	return nil
}

// QueryAssets 打开资产页面（F4）、截图并按需做视觉解析。
// useVision 为 false 或未配置解析器时返回 (nil, nil)，只留下截图。
func (e *Executor) QueryAssets(ctx context.Context, useVision bool) (*AssetSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.logger.Info("发送资产查询命令")
	if err := e.kb.SendKey(vkQueryAssets, e.timing.KeySettle); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInputFailed, err)
	}
	// 资产页面的行情数据加载比普通页面慢。
	e.sleep(e.timing.QuerySettle)

	path, err := e.capturer.Capture("")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCaptureFailed, err)
	}

	if !useVision || e.extractor == nil {
		e.logger.Info("跳过视觉解析，仅保留截图", zap.String("screenshot", path))
		return nil, nil
	}

	snap, err := e.extractor.Extract(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	snap.Screenshot = path
	if snap.Positions == nil {
		snap.Positions = []PositionRecord{}
	}
	return snap, nil
}

// ViewPosition 打开持仓页面（F6）。
func (e *Executor) ViewPosition(ctx context.Context) error {
	return e.view(ctx, vkPosition, "持仓")
}

// ViewFilledOrders 打开成交页面（F7）。
func (e *Executor) ViewFilledOrders(ctx context.Context) error {
	return e.view(ctx, vkFilled, "成交")
}

// ViewPendingOrders 打开委托页面（F8）。
func (e *Executor) ViewPendingOrders(ctx context.Context) error {
	return e.view(ctx, vkPending, "委托")
}

// view 先走一遍空买入序列把终端切回已知状态，再按页面键。
// 直接按 F6/F7/F8 在部分页面下不生效。
func (e *Executor) view(ctx context.Context, vk uint16, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.logger.Info("切换页面", zap.String("page", name))
	if err := e.selectSide(SideBuy); err != nil {
		return err
	}
	e.sleep(e.timing.FieldSettle)
	if err := e.kb.SendKey(vk, e.timing.KeySettle); err != nil {
		return fmt.Errorf("%w: %v", ErrInputFailed, err)
	}
	return nil
}

// submit 驱动完整的委托序列：
// 交易时段检查 → 方向键 → 清空代码框 → 代码 → 价格 → 数量 → 确认。
// Code 为空时只切换方向，不填单。
func (e *Executor) submit(ctx context.Context, cmd OrderCommand) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if ok, reason := IsTradingTime(e.now()); !ok {
		e.logger.Warn("拒绝委托",
			zap.String("side", string(cmd.Side)),
			zap.String("code", cmd.Code),
			zap.String("reason", reason),
		)
		return fmt.Errorf("%w: %s", ErrOutsideTradingHours, reason)
	}

	if err := e.selectSide(cmd.Side); err != nil {
		return err
	}
	if cmd.Code == "" {
		return nil
	}

	code, resolved := e.codes.Resolve(cmd.Code)
	if !resolved {
		e.logger.Warn("未识别的证券名称，原样输入", zap.String("input", cmd.Code))
	}

	e.logger.Info("开始填写委托",
		zap.String("side", string(cmd.Side)),
		zap.String("code", code),
		zap.String("price", cmd.Price),
		zap.String("quantity", cmd.Quantity),
		zap.String("mode", string(cmd.Mode)),
	)

	// 代码框可能残留上一笔的内容，先清空再输入。
	if err := e.kb.SendBackspace(codeFieldBackspaces, e.timing.BackspaceInterval); err != nil {
		return fmt.Errorf("%w: %v", ErrInputFailed, err)
	}
	e.sleep(e.timing.FieldSettle)

	if err := e.enterField(code); err != nil {
		return err
	}

	price := cmd.Price
	if price != "" && cmd.Mode == PriceModeMarket {
		adjusted, err := MarketPrice(price, cmd.Side)
		if err != nil {
			return fmt.Errorf("计算市价委托价格失败: %w", err)
		}
		e.logger.Info("市价模式调价",
			zap.String("reference", price),
			zap.String("adjusted", adjusted),
		)
		price = adjusted
	}
	if err := e.enterField(price); err != nil {
		return err
	}

	if err := e.enterField(cmd.Quantity); err != nil {
		return err
	}

	// 两次回车：第一次提交，第二次确认弹窗。
	if err := e.kb.SendEnter(confirmEnterCount, e.timing.ConfirmInterval); err != nil {
		return fmt.Errorf("%w: %v", ErrInputFailed, err)
	}

	e.logger.Info("委托序列发送完成",
		zap.String("side", string(cmd.Side)),
		zap.String("code", code),
	)
	return nil
}

// selectSide 切换到买入/卖出页面。先按一次对侧方向键把终端
// 从未知页面拽回来，再按目标方向键。
func (e *Executor) selectSide(side Side) error {
	target, opposite := uint16(vkBuy), uint16(vkSell)
	if side == SideSell {
		target, opposite = vkSell, vkBuy
	}
	if err := e.kb.SendKey(opposite, e.timing.KeySettle); err != nil {
		return fmt.Errorf("%w: %v", ErrInputFailed, err)
	}
	if err := e.kb.SendKey(target, e.timing.KeySettle); err != nil {
		return fmt.Errorf("%w: %v", ErrInputFailed, err)
	}
	return nil
}

// enterField 填写一个输入框并回车进入下一个；值为空时只回车跳过。
func (e *Executor) enterField(value string) error {
	if value != "" {
		if err := e.kb.SendText(value, e.timing.CharInterval); err != nil {
			return fmt.Errorf("%w: %v", ErrInputFailed, err)
		}
	}
	if err := e.kb.SendEnter(1, e.timing.EnterInterval); err != nil {
		return fmt.Errorf("%w: %v", ErrInputFailed, err)
	}
	e.sleep(e.timing.FieldSettle)
	return nil
}
