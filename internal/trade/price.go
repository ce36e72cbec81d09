package trade

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// 市价模式的滑点系数：买单上浮 1%，卖单下浮 1%，保证快速成交。
var (
	buyFactor  = decimal.NewFromFloat(1.01)
	sellFactor = decimal.NewFromFloat(0.99)
)

// DecimalPlaces 返回价格字符串的小数位数，末尾的零也计入：
// "10.50" 为 2 位，"8" 为 0 位。
func DecimalPlaces(price string) int {
	if i := strings.IndexByte(price, '.'); i >= 0 {
		return len(price) - i - 1
	}
	return 0
}

// MarketPrice 按参考价计算市价模式的委托价。买单上浮 1%、卖单
// 下浮 1%，结果四舍五入到与参考价相同的小数位数，并保留末尾零。
// 卖单结果不会降到 0 或负数，下限为该精度的最小正值。
func MarketPrice(reference string, side Side) (string, error) {
	ref, err := decimal.NewFromString(reference)
	if err != nil {
		return "", fmt.Errorf("解析参考价 %q 失败: %w", reference, err)
	}
	if ref.Sign() <= 0 {
		return "", fmt.Errorf("参考价 %q 必须为正", reference)
	}

	places := DecimalPlaces(reference)

	factor := buyFactor
	if side == SideSell {
		factor = sellFactor
	}

	result := ref.Mul(factor).Round(int32(places))
	if result.Sign() <= 0 {
		// 10^-places，该精度下的最小正价格。
		result = decimal.New(1, int32(-places))
	}
	return result.StringFixed(int32(places)), nil
}
