package store

import (
	"context"
	"fmt"

	"xiadan-agent/internal/trade"
)

// RecordOrder 记录一次委托命令的提交结果。detail 在被拒绝时
// 保存原因，成功时可为空。
func (s *Store) RecordOrder(ctx context.Context, cmd trade.OrderCommand, accepted bool, detail string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO order_journal (side, code, price, quantity, mode, accepted, detail)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(cmd.Side), cmd.Code, cmd.Price, cmd.Quantity, string(cmd.Mode),
		boolToInt(accepted), detail,
	)
	if err != nil {
		return fmt.Errorf("写入委托流水失败: %w", err)
	}
	return nil
}

// RecordSnapshot 记录一次资产查询的落盘结果。
func (s *Store) RecordSnapshot(ctx context.Context, screenshotPath, snapshotPath string, snap *trade.AssetSnapshot) error {
	var (
		totalAssets   string
		availableCash string
		positions     int
		degraded      bool
	)
	if snap != nil {
		totalAssets = snap.TotalAssets
		availableCash = snap.AvailableCash
		positions = len(snap.Positions)
		degraded = snap.Raw != ""
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO snapshot_index (screenshot_path, snapshot_path, total_assets, available_cash, positions, degraded)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		screenshotPath, snapshotPath, totalAssets, availableCash, positions, boolToInt(degraded),
	)
	if err != nil {
		return fmt.Errorf("写入快照索引失败: %w", err)
	}
	return nil
}

// OrderEntry 是一条委托流水。
type OrderEntry struct {
	ID        int64
	CreatedAt string
	Side      string
	Code      string
	Price     string
	Quantity  string
	Mode      string
	Accepted  bool
	Detail    string
}

// RecentOrders 返回最近 limit 条委托流水，按时间倒序。
func (s *Store) RecentOrders(ctx context.Context, limit int) ([]OrderEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, side, code, price, quantity, mode, accepted, detail
		 FROM order_journal ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("查询委托流水失败: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var entries []OrderEntry
	for rows.Next() {
		var e OrderEntry
		var accepted int
		if err := rows.Scan(&e.ID, &e.CreatedAt, &e.Side, &e.Code, &e.Price, &e.Quantity, &e.Mode, &accepted, &e.Detail); err != nil {
			return nil, fmt.Errorf("读取委托流水失败: %w", err)
		}
		e.Accepted = accepted != 0
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
