package timer

import "time"

type ticker struct {
	stop chan struct{}
}

// startTickerLocked launches the tick goroutine unless one is active.
func (c *Controller) startTickerLocked() {
	if c.ticker != nil {
		return
	}
	t := &ticker{stop: make(chan struct{})}
	c.ticker = t
	go c.runTicker(t, c.interval)
}

// stopTickerLocked signals the tick goroutine to exit. It does not wait:
// the goroutine may be blocked on c.mu inside tick, and the generation
// check there discards that last tick.
func (c *Controller) stopTickerLocked() {
	if c.ticker == nil {
		return
	}
	close(c.ticker.stop)
	c.ticker = nil
}

func (c *Controller) runTicker(t *ticker, interval time.Duration) {
	tk := time.NewTicker(interval)
	defer tk.Stop()
	for {
		select {
		case <-t.stop:
			return
		case <-tk.C:
			c.tick(t)
		}
	}
}

// TickerActive reports whether a tick goroutine is currently owned by the
// controller.
func (c *Controller) TickerActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ticker != nil
}
