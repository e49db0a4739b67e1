package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/driftline/collective/internal/memory"
)

// SnapshotRecord is one persisted snapshot row, summary columns plus the
// full JSON envelope.
type SnapshotRecord struct {
	ID        int64               `json:"id"`
	CreatedAt time.Time           `json:"created_at"`
	EchoCount int                 `json:"echo_count"`
	EmptyPct  float64             `json:"empty_percentage"`
	Health    memory.HealthStatus `json:"health_status"`
	Snapshot  *memory.Snapshot    `json:"snapshot"`
}

// SaveSnapshot implements memory.Sink: the snapshot is serialized once
// and inserted with indexed summary columns for cheap querying.
func (db *DB) SaveSnapshot(ctx context.Context, snap *memory.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO memory_snapshots (created_at, echo_count, empty_percentage, health_status, data)
		VALUES (?, ?, ?, ?, ?)`,
		snap.Timestamp.UnixMilli(), snap.TotalEchoes, snap.Stats.EmptyPct, string(snap.Stats.Health), string(data),
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// Recent returns the newest n persisted snapshots, newest first.
func (db *DB) Recent(ctx context.Context, n int) ([]SnapshotRecord, error) {
	if n <= 0 {
		n = 10
	}
	rows, err := db.QueryContext(ctx, `
		SELECT id, created_at, echo_count, empty_percentage, health_status, data
		FROM memory_snapshots ORDER BY created_at DESC, id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var records []SnapshotRecord
	for rows.Next() {
		var (
			rec       SnapshotRecord
			createdMs int64
			health    string
			data      string
		)
		if err := rows.Scan(&rec.ID, &createdMs, &rec.EchoCount, &rec.EmptyPct, &health, &data); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		rec.CreatedAt = time.UnixMilli(createdMs).UTC()
		rec.Health = memory.HealthStatus(health)
		rec.Snapshot = &memory.Snapshot{}
		if err := json.Unmarshal([]byte(data), rec.Snapshot); err != nil {
			return nil, fmt.Errorf("decode snapshot %d: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Count returns the number of persisted snapshots.
func (db *DB) Count(ctx context.Context) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM memory_snapshots`).Scan(&n)
	return n, err
}

// LogSink is a no-op sink that only logs snapshot intent. Used when no
// database is configured.
type LogSink struct{}

// SaveSnapshot implements memory.Sink.
func (LogSink) SaveSnapshot(_ context.Context, snap *memory.Snapshot) error {
	log.Printf("snapshot sink: would persist %d echoes (%s)", snap.TotalEchoes, snap.Stats.Health)
	return nil
}
