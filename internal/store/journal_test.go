package store

import (
	"context"
	"testing"

	"xiadan-agent/internal/config"
	"xiadan-agent/internal/trade"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewSQLite(config.DatabaseConfig{
		InMemory:     true,
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	if err != nil {
		t.Fatalf("初始化存储失败: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRecordOrderAndQuery(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	accepted := trade.OrderCommand{
		Side: trade.SideBuy, Code: "600519", Price: "10.50", Quantity: "100",
		Mode: trade.PriceModeLimit,
	}
	rejected := trade.OrderCommand{Side: trade.SideSell, Code: "000001"}

	if err := s.RecordOrder(ctx, accepted, true, ""); err != nil {
		t.Fatalf("RecordOrder 失败: %v", err)
	}
	if err := s.RecordOrder(ctx, rejected, false, "周末休市"); err != nil {
		t.Fatalf("RecordOrder 失败: %v", err)
	}

	entries, err := s.RecentOrders(ctx, 10)
	if err != nil {
		t.Fatalf("RecentOrders 失败: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("流水条数 = %d, want 2", len(entries))
	}

	// 倒序：最新的在前。
	if entries[0].Code != "000001" || entries[0].Accepted {
		t.Errorf("第一条流水不对: %+v", entries[0])
	}
	if entries[0].Detail != "周末休市" {
		t.Errorf("拒绝原因未记录: %+v", entries[0])
	}
	if entries[1].Code != "600519" || !entries[1].Accepted {
		t.Errorf("第二条流水不对: %+v", entries[1])
	}
}

func TestRecordSnapshot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	snap := &trade.AssetSnapshot{
		TotalAssets:   "100000.00",
		AvailableCash: "50000.00",
		Positions:     []trade.PositionRecord{{Code: "600519"}},
	}
	if err := s.RecordSnapshot(ctx, "shots/a.png", "assets/a.json", snap); err != nil {
		t.Fatalf("RecordSnapshot 失败: %v", err)
	}

	var (
		total     string
		positions int
		degraded  int
	)
	row := s.DB().QueryRowContext(ctx,
		`SELECT total_assets, positions, degraded FROM snapshot_index LIMIT 1`)
	if err := row.Scan(&total, &positions, &degraded); err != nil {
		t.Fatalf("读取快照索引失败: %v", err)
	}
	if total != "100000.00" || positions != 1 || degraded != 0 {
		t.Errorf("快照索引记录不对: total=%q positions=%d degraded=%d", total, positions, degraded)
	}
}
