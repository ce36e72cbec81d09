package trade

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

type fakeKeyboard struct {
	events []string
	failOn string
}

func (k *fakeKeyboard) record(ev string) error {
	if k.failOn != "" && strings.HasPrefix(ev, k.failOn) {
		return fmt.Errorf("注入失败: %s", ev)
	}
	k.events = append(k.events, ev)
	return nil
}

func (k *fakeKeyboard) SendKey(vk uint16, _ time.Duration) error {
	return k.record(fmt.Sprintf("key:%#x", vk))
}

func (k *fakeKeyboard) SendText(text string, _ time.Duration) error {
	return k.record("text:" + text)
}

func (k *fakeKeyboard) SendBackspace(times int, _ time.Duration) error {
	return k.record(fmt.Sprintf("backspace:%d", times))
}

func (k *fakeKeyboard) SendEnter(times int, _ time.Duration) error {
	return k.record(fmt.Sprintf("enter:%d", times))
}

type fakeCapturer struct {
	path  string
	err   error
	calls int
}

func (c *fakeCapturer) Capture(string) (string, error) {
	c.calls++
	return c.path, c.err
}

type fakeExtractor struct {
	snap  *AssetSnapshot
	err   error
	paths []string
}

func (e *fakeExtractor) Extract(_ context.Context, imagePath string) (*AssetSnapshot, error) {
	e.paths = append(e.paths, imagePath)
	if e.err != nil {
		return nil, e.err
	}
	return e.snap, nil
}

// 周二上午，处于交易时段。
var tradingMoment = time.Date(2024, 6, 4, 10, 0, 0, 0, beijing)

func newTestExecutor(kb Keyboard, capturer Capturer, extractor Extractor, codes CodeTable) *Executor {
	e := NewExecutor(kb, capturer, extractor, codes, Timing{}, nil)
	e.now = func() time.Time { return tradingMoment }
	e.sleep = func(time.Duration) {}
	return e
}

func assertEvents(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("按键事件数量不符: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("事件[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestBuyFullOrderSequence(t *testing.T) {
	kb := &fakeKeyboard{}
	e := newTestExecutor(kb, &fakeCapturer{}, nil, nil)

	err := e.Buy(context.Background(), OrderCommand{
		Code:     "600519",
		Price:    "10.50",
		Quantity: "100",
		Mode:     PriceModeLimit,
	})
	if err != nil {
		t.Fatalf("Buy 返回错误: %v", err)
	}

	assertEvents(t, kb.events, []string{
		"key:0x71", // 先按对侧键复位页面
		"key:0x70",
		"backspace:6",
		"text:600519",
		"enter:1",
		"text:10.50",
		"enter:1",
		"text:100",
		"enter:1",
		"enter:2",
	})
}

func TestSellPressesOppositeKeyFirst(t *testing.T) {
	kb := &fakeKeyboard{}
	e := newTestExecutor(kb, &fakeCapturer{}, nil, nil)

	if err := e.Sell(context.Background(), OrderCommand{}); err != nil {
		t.Fatalf("Sell 返回错误: %v", err)
	}

	assertEvents(t, kb.events, []string{"key:0x70", "key:0x71"})
}

func TestBuyWithoutCodeOnlySwitchesPage(t *testing.T) {
	kb := &fakeKeyboard{}
	e := newTestExecutor(kb, &fakeCapturer{}, nil, nil)

	if err := e.Buy(context.Background(), OrderCommand{}); err != nil {
		t.Fatalf("Buy 返回错误: %v", err)
	}

	assertEvents(t, kb.events, []string{"key:0x71", "key:0x70"})
}

func TestBlankFieldsSkippedWithSingleEnter(t *testing.T) {
	kb := &fakeKeyboard{}
	e := newTestExecutor(kb, &fakeCapturer{}, nil, nil)

	err := e.Buy(context.Background(), OrderCommand{Code: "000001"})
	if err != nil {
		t.Fatalf("Buy 返回错误: %v", err)
	}

	assertEvents(t, kb.events, []string{
		"key:0x71",
		"key:0x70",
		"backspace:6",
		"text:000001",
		"enter:1",
		"enter:1", // 价格留给终端默认值
		"enter:1", // 数量同上
		"enter:2",
	})
}

func TestMarketModeAdjustsPrice(t *testing.T) {
	kb := &fakeKeyboard{}
	e := newTestExecutor(kb, &fakeCapturer{}, nil, nil)

	err := e.Buy(context.Background(), OrderCommand{
		Code:  "600519",
		Price: "0.784",
		Mode:  PriceModeMarket,
	})
	if err != nil {
		t.Fatalf("Buy 返回错误: %v", err)
	}

	found := false
	for _, ev := range kb.events {
		if ev == "text:0.792" {
			found = true
		}
		if ev == "text:0.784" {
			t.Error("市价模式不应输入原始参考价")
		}
	}
	if !found {
		t.Errorf("缺少调价后的输入事件, events=%v", kb.events)
	}
}

func TestOrderRejectedOutsideTradingHours(t *testing.T) {
	kb := &fakeKeyboard{}
	e := newTestExecutor(kb, &fakeCapturer{}, nil, nil)
	e.now = func() time.Time {
		return time.Date(2024, 6, 1, 10, 0, 0, 0, beijing) // 周六
	}

	err := e.Buy(context.Background(), OrderCommand{Code: "600519"})
	if !errors.Is(err, ErrOutsideTradingHours) {
		t.Fatalf("err = %v, want ErrOutsideTradingHours", err)
	}
	if len(kb.events) != 0 {
		t.Errorf("非交易时段不应注入任何按键, events=%v", kb.events)
	}
}

func TestOrderAbortsOnKeyboardFailure(t *testing.T) {
	kb := &fakeKeyboard{failOn: "backspace"}
	e := newTestExecutor(kb, &fakeCapturer{}, nil, nil)

	err := e.Buy(context.Background(), OrderCommand{Code: "600519", Quantity: "100"})
	if !errors.Is(err, ErrInputFailed) {
		t.Fatalf("err = %v, want ErrInputFailed", err)
	}
	// 失败后序列立即中止，不能再发出任何确认回车。
	for _, ev := range kb.events {
		if strings.HasPrefix(ev, "enter") {
			t.Errorf("中止后仍发出了回车事件: %v", kb.events)
		}
	}
}

func TestNameResolvedThroughCodeTable(t *testing.T) {
	kb := &fakeKeyboard{}
	codes := CodeTable{"平安银行": "000001"}
	e := newTestExecutor(kb, &fakeCapturer{}, nil, codes)

	if err := e.Buy(context.Background(), OrderCommand{Code: "平安银行"}); err != nil {
		t.Fatalf("Buy 返回错误: %v", err)
	}

	found := false
	for _, ev := range kb.events {
		if ev == "text:000001" {
			found = true
		}
	}
	if !found {
		t.Errorf("名称未被映射为代码, events=%v", kb.events)
	}
}

func TestCancelSendsF3(t *testing.T) {
	kb := &fakeKeyboard{}
	e := newTestExecutor(kb, &fakeCapturer{}, nil, nil)

	if err := e.Cancel(context.Background()); err != nil {
		t.Fatalf("Cancel 返回错误: %v", err)
	}
	assertEvents(t, kb.events, []string{"key:0x72"})
}

func TestViewPagesRequireBuyPrefix(t *testing.T) {
	cases := []struct {
		name string
		call func(*Executor, context.Context) error
		vk   string
	}{
		{"position", (*Executor).ViewPosition, "key:0x75"},
		{"filled", (*Executor).ViewFilledOrders, "key:0x76"},
		{"pending", (*Executor).ViewPendingOrders, "key:0x77"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			kb := &fakeKeyboard{}
			e := newTestExecutor(kb, &fakeCapturer{}, nil, nil)
			if err := tc.call(e, context.Background()); err != nil {
				t.Fatalf("返回错误: %v", err)
			}
			assertEvents(t, kb.events, []string{"key:0x71", "key:0x70", tc.vk})
		})
	}
}

func TestQueryAssetsCapturesAndExtracts(t *testing.T) {
	kb := &fakeKeyboard{}
	capturer := &fakeCapturer{path: "shots/a.png"}
	extractor := &fakeExtractor{snap: &AssetSnapshot{TotalAssets: "10000.00"}}
	e := newTestExecutor(kb, capturer, extractor, nil)

	snap, err := e.QueryAssets(context.Background(), true)
	if err != nil {
		t.Fatalf("QueryAssets 返回错误: %v", err)
	}

	assertEvents(t, kb.events, []string{"key:0x73"})
	if capturer.calls != 1 {
		t.Errorf("截图次数 = %d, want 1", capturer.calls)
	}
	if len(extractor.paths) != 1 || extractor.paths[0] != "shots/a.png" {
		t.Errorf("解析器收到的路径不对: %v", extractor.paths)
	}
	if snap.Screenshot != "shots/a.png" {
		t.Errorf("Screenshot = %q", snap.Screenshot)
	}
	if snap.Positions == nil {
		t.Error("Positions 不能为 nil")
	}
}

func TestQueryAssetsWithoutVisionReturnsNil(t *testing.T) {
	kb := &fakeKeyboard{}
	capturer := &fakeCapturer{path: "shots/a.png"}
	extractor := &fakeExtractor{snap: &AssetSnapshot{}}
	e := newTestExecutor(kb, capturer, extractor, nil)

	snap, err := e.QueryAssets(context.Background(), false)
	if err != nil {
		t.Fatalf("QueryAssets 返回错误: %v", err)
	}
	if snap != nil {
		t.Errorf("snap = %+v, want nil", snap)
	}
	if len(extractor.paths) != 0 {
		t.Error("关闭视觉解析时不应调用解析器")
	}
	if capturer.calls != 1 {
		t.Error("即使不解析也应保留截图")
	}
}

func TestQueryAssetsCaptureFailure(t *testing.T) {
	kb := &fakeKeyboard{}
	capturer := &fakeCapturer{err: errors.New("区域无效")}
	e := newTestExecutor(kb, capturer, nil, nil)

	_, err := e.QueryAssets(context.Background(), true)
	if !errors.Is(err, ErrCaptureFailed) {
		t.Fatalf("err = %v, want ErrCaptureFailed", err)
	}
}

func TestQueryAssetsExtractionFailure(t *testing.T) {
	kb := &fakeKeyboard{}
	capturer := &fakeCapturer{path: "shots/a.png"}
	extractor := &fakeExtractor{err: errors.New("模型超时")}
	e := newTestExecutor(kb, capturer, extractor, nil)

	_, err := e.QueryAssets(context.Background(), true)
	if !errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("err = %v, want ErrExtractionFailed", err)
	}
}
