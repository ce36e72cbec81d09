package vision

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	reply   string
	err     error
	prompts []string
}

func (b *fakeBackend) Describe(_ context.Context, _, prompt string) (string, error) {
	b.prompts = append(b.prompts, prompt)
	if b.err != nil {
		return "", b.err
	}
	return b.reply, nil
}

func (b *fakeBackend) Recognize(context.Context, string) ([]TextRegion, error) {
	return nil, nil
}

func TestExtractParsesWellFormedReply(t *testing.T) {
	backend := &fakeBackend{reply: "```json\n" + `{
  "总资产": "100000.00",
  "可用资金": "50000.00",
  "总市值": "48000.00",
  "冻结金额": "0.00",
  "持仓列表": [
    {"证券代码": "600519", "证券名称": "贵州茅台", "持仓数量": "100"}
  ]
}` + "\n```"}
	e := NewExtractor(backend, nil)

	snap, err := e.Extract(context.Background(), "a.png")
	require.NoError(t, err)
	assert.Equal(t, "100000.00", snap.TotalAssets)
	assert.Equal(t, "50000.00", snap.AvailableCash)
	require.Len(t, snap.Positions, 1)
	assert.Equal(t, "600519", snap.Positions[0].Code)
	assert.Empty(t, snap.Raw)
}

func TestExtractDegradesOnGarbageReply(t *testing.T) {
	backend := &fakeBackend{reply: "抱歉，这张截图太模糊了，无法提取数据。"}
	e := NewExtractor(backend, nil)

	snap, err := e.Extract(context.Background(), "a.png")
	require.NoError(t, err, "解析失败应降级而不是报错")
	assert.Equal(t, backend.reply, snap.Raw, "降级快照必须保留模型原文")
	assert.NotNil(t, snap.Positions)
	assert.Empty(t, snap.Positions)
	assert.Empty(t, snap.TotalAssets)
}

func TestExtractDegradesOnMalformedJSON(t *testing.T) {
	backend := &fakeBackend{reply: `{"总资产": 12345}`} // 数值类型不符
	e := NewExtractor(backend, nil)

	snap, err := e.Extract(context.Background(), "a.png")
	require.NoError(t, err)
	assert.NotEmpty(t, snap.Raw)
	assert.NotNil(t, snap.Positions)
}

func TestExtractPropagatesBackendError(t *testing.T) {
	wantErr := errors.New("请求超时")
	e := NewExtractor(&fakeBackend{err: wantErr}, nil)

	_, err := e.Extract(context.Background(), "a.png")
	assert.ErrorIs(t, err, wantErr)
}

func TestExtractEmptyPositionsStaysEmptySlice(t *testing.T) {
	backend := &fakeBackend{reply: `{"总资产": "100.00", "持仓列表": []}`}
	e := NewExtractor(backend, nil)

	snap, err := e.Extract(context.Background(), "a.png")
	require.NoError(t, err)
	assert.NotNil(t, snap.Positions)
	assert.Empty(t, snap.Positions)
}
