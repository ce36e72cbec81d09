package vision

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"xiadan-agent/internal/trade"
)

const assetPrompt = `分析这张股票交易软件的资金股票页面截图，提取以下信息并以JSON格式返回：
{
  "总资产": "数值",
  "可用资金": "数值",
  "总市值": "数值",
  "冻结金额": "数值",
  "持仓列表": [
    {
      "证券代码": "代码",
      "证券名称": "名称",
      "持仓数量": "数量",
      "可用数量": "数量",
      "成本价": "价格",
      "当前价": "价格",
      "市值": "数值",
      "盈亏": "数值",
      "盈亏比例": "比例"
    }
  ]
}
要求：所有数值保留为字符串；截图中没有的字段填空字符串；
没有持仓时"持仓列表"为空数组；只输出JSON，不要任何解释。`

// Extractor 把资产页面截图解析为结构化快照。
type Extractor struct {
	backend Backend
	logger  *zap.Logger
}

var _ trade.Extractor = (*Extractor)(nil)

// NewExtractor 创建视觉解析器。
func NewExtractor(backend Backend, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{backend: backend, logger: logger}
}

// Extract 调用视觉模型读取截图。模型调用失败返回错误；应答
// 无法解析为 JSON 时降级为只含原文的快照，不算失败。
func (e *Extractor) Extract(ctx context.Context, imagePath string) (*trade.AssetSnapshot, error) {
	content, err := e.backend.Describe(ctx, imagePath, assetPrompt)
	if err != nil {
		return nil, err
	}

	payload, ok := ExtractJSON(content)
	if !ok {
		return e.degraded(content, "应答中没有 JSON"), nil
	}

	var snap trade.AssetSnapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return e.degraded(content, err.Error()), nil
	}

	if snap.Positions == nil {
		snap.Positions = []trade.PositionRecord{}
	}
	e.logger.Info("资产快照解析完成",
		zap.String("total_assets", snap.TotalAssets),
		zap.Int("positions", len(snap.Positions)),
	)
	return &snap, nil
}

// degraded 构造保留模型原文的降级快照。
func (e *Extractor) degraded(content, reason string) *trade.AssetSnapshot {
	e.logger.Warn("资产快照解析降级，保留原始应答", zap.String("reason", reason))
	return &trade.AssetSnapshot{
		Positions: []trade.PositionRecord{},
		Raw:       content,
	}
}
