package trade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecimalPlaces(t *testing.T) {
	cases := map[string]int{
		"10.50": 2,
		"0.784": 3,
		"8":     0,
		"8.0":   1,
		"100":   0,
	}
	for price, want := range cases {
		assert.Equal(t, want, DecimalPlaces(price), "price=%s", price)
	}
}

func TestMarketPrice(t *testing.T) {
	cases := []struct {
		name string
		ref  string
		side Side
		want string
	}{
		{"买单上浮并保留两位", "10.50", SideBuy, "10.61"},
		{"买单三位小数", "0.784", SideBuy, "0.792"},
		{"卖单下浮三位小数", "2.512", SideSell, "2.487"},
		{"整数价格买单", "8", SideBuy, "8"},
		{"整数价格卖单", "8", SideSell, "8"},
		{"末尾零保留", "10.00", SideSell, "9.90"},
		{"低价卖单不归零", "0.01", SideSell, "0.01"},
		{"极低价卖单取精度下限", "0.004", SideSell, "0.004"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := MarketPrice(tc.ref, tc.side)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMarketPriceRejectsInvalidReference(t *testing.T) {
	for _, ref := range []string{"", "abc", "0", "-1.5"} {
		_, err := MarketPrice(ref, SideBuy)
		assert.Error(t, err, "ref=%q", ref)
	}
}
