package rekey

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/arloliu/rekey/types"
)

// RunBulkWrite sequences count writes at a fixed interval and reports
// aggregate statistics, including the number of times the active key slot
// changed mid-run.
//
// Keys are formed as "<prefix>:<id>" for ids in [startID, startID+count) and
// values carry the id plus a microsecond timestamp, so successive runs over
// the same key range are distinguishable in the store. Each write goes
// through the full recovery ladder; a write that still fails after recovery
// is counted and the run continues.
//
// The interval elapses between consecutive writes, not after the last one.
// A canceled ctx stops the run early; statistics cover the writes issued up
// to that point.
//
// Parameters:
//   - ctx: Context for the run
//   - prefix: Key prefix for the generated keys
//   - startID: First id in the key range
//   - count: Number of writes to issue
//   - interval: Pause between consecutive writes
//   - observer: Optional per-write callback, may be nil
//
// Returns:
//   - types.BulkWriteStats: Aggregate outcome of the run
func (m *Manager) RunBulkWrite(ctx context.Context, prefix string, startID, count int, interval time.Duration, observer BulkObserver) types.BulkWriteStats {
	runID := uuid.NewString()
	stats := types.BulkWriteStats{FinalSlot: m.keys.Active()}

	m.config.Logger.Info("bulk write run started",
		"run_id", runID,
		"prefix", prefix,
		"start_id", startID,
		"count", count,
		"interval", interval,
	)

	for i := 0; i < count; i++ {
		if ctx.Err() != nil {
			m.config.Logger.Warn("bulk write run canceled",
				"run_id", runID,
				"written", stats.Total,
				"error", ctx.Err(),
			)

			break
		}

		id := startID + i
		key := fmt.Sprintf("%s:%d", prefix, id)
		value := fmt.Sprintf("data-%d-%d", id, time.Now().UnixMicro())

		slotBefore := m.keys.Active()
		ok, err := m.Write(ctx, key, value)

		stats.Total++
		if ok {
			stats.Successful++
		} else {
			stats.Failed++
			m.config.Logger.Warn("bulk write failed",
				"run_id", runID,
				"key", key,
				"error", err,
			)
		}

		slotAfter := m.keys.Active()
		if slotAfter != slotBefore {
			stats.KeySwitches++
			m.config.Logger.Info("key switch during bulk write",
				"run_id", runID,
				"key", key,
				"from", m.config.SlotNames.Name(slotBefore),
				"to", m.config.SlotNames.Name(slotAfter),
			)
		}

		if observer != nil {
			observer(id, stats.Successful > stats.Failed, slotAfter)
		}

		if i < count-1 {
			time.Sleep(interval)
		}
	}

	stats.FinalSlot = m.keys.Active()
	m.config.Logger.Info("bulk write run finished",
		"run_id", runID,
		"total", stats.Total,
		"successful", stats.Successful,
		"failed", stats.Failed,
		"key_switches", stats.KeySwitches,
		"final_slot", m.config.SlotNames.Name(stats.FinalSlot),
	)

	return stats
}
