package db

import (
	"context"
	"fmt"
)

// RecentLogLimit caps how many audit rows the admin console receives.
const RecentLogLimit = 50

// AppendLog writes one audit row.
func (s *Store) AppendLog(ctx context.Context, entry *SystemLog) error {
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("append system log %s: %w", entry.Action, err)
	}
	return nil
}

// RecentLogs returns up to limit audit rows, highest id first.
func (s *Store) RecentLogs(ctx context.Context, limit int) ([]SystemLog, error) {
	if limit <= 0 || limit > RecentLogLimit {
		limit = RecentLogLimit
	}
	logs := []SystemLog{}
	if err := s.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("recent system logs: %w", err)
	}
	return logs, nil
}
