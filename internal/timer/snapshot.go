package timer

import (
	"fmt"

	"myworld/backend/internal/model"
)

// Snapshot is the read-only display state of a Controller.
type Snapshot struct {
	Phase            model.Phase     `json:"phase"`
	PhaseLabel       string          `json:"phaseLabel"`
	RemainingSeconds int             `json:"remainingSeconds"`
	Display          string          `json:"display"`
	Running          bool            `json:"running"`
	Durations        model.Durations `json:"durations"`
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		Phase:            c.phase,
		PhaseLabel:       c.phase.Label(),
		RemainingSeconds: c.remaining,
		Display:          FormatClock(c.remaining),
		Running:          c.running,
		Durations:        c.durations,
	}
}

// FormatClock renders seconds as zero-padded mm:ss. Minutes are not wrapped
// into hours, so 90 minutes shows as 90:00.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Subscribe returns a channel that receives a snapshot after every state
// change. Slow readers miss intermediate snapshots rather than block the
// controller. The channel is closed by Close.
func (c *Controller) Subscribe() <-chan Snapshot {
	ch := make(chan Snapshot, 1)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		close(ch)
		return ch
	}
	c.subscribers = append(c.subscribers, ch)
	return ch
}

// publishLocked sends the current snapshot to every subscriber without
// blocking. The caller holds c.mu, so subscribers see snapshots in order.
func (c *Controller) publishLocked() {
	snap := c.snapshotLocked()
	for _, ch := range c.subscribers {
		select {
		case ch <- snap:
		default:
			// Replace the stale snapshot with the latest one.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}
