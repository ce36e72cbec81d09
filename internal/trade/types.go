// Package trade 把买卖、撤单、查询等高层命令翻译成发往交易终端
// 的按键序列。
package trade

// Side 表示买卖方向。
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// PriceMode 控制价格字段的填写方式。
type PriceMode string

const (
	// PriceModeLimit 原样输入给定价格。
	PriceModeLimit PriceMode = "limit"
	// PriceModeMarket 把给定参考价上调/下调 1% 后输入，
	// 模拟市价单的快速成交。
	PriceModeMarket PriceMode = "market"
)

// OrderCommand 描述一笔待提交的委托。Code/Price/Quantity 均为
// 字符串：引擎只负责把它们敲进终端，为空的字段跳过不填。
type OrderCommand struct {
	Side     Side
	Code     string
	Price    string
	Quantity string
	Mode     PriceMode
}

// PositionRecord 是视觉解析出的一条持仓。所有字段保持屏幕上的
// 原始字符串，不做数值转换。
type PositionRecord struct {
	Code           string `json:"证券代码"`
	Name           string `json:"证券名称"`
	Quantity       string `json:"持仓数量"`
	Available      string `json:"可用数量"`
	CostPrice      string `json:"成本价"`
	CurrentPrice   string `json:"当前价"`
	MarketValue    string `json:"市值"`
	ProfitLoss     string `json:"盈亏"`
	ProfitLossRate string `json:"盈亏比例"`
}

// AssetSnapshot 是一次资产查询的结构化结果。解析失败降级时
// 数值字段为空串、Positions 为空切片、Raw 保留模型原文。
type AssetSnapshot struct {
	TotalAssets   string           `json:"总资产"`
	AvailableCash string           `json:"可用资金"`
	MarketValue   string           `json:"总市值"`
	FrozenAmount  string           `json:"冻结金额"`
	Positions     []PositionRecord `json:"持仓列表"`
	Screenshot    string           `json:"screenshot,omitempty"`
	Raw           string           `json:"raw_result,omitempty"`
}
