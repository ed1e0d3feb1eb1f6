package telemetry

// Collector accumulates per-tick samples within fixed-tick windows and
// produces WindowStats.
type Collector struct {
	windowTicks uint64
	dt          float64

	windowStart uint64

	speeds   []float64
	grounded int
	airRun   int
	airMax   int

	jumps   int
	commits int
	pickups int
}

// NewCollector creates a collector whose windows span windowTicks fixed
// ticks of dt seconds each.
func NewCollector(windowTicks int, dt float64) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowTicks: uint64(windowTicks),
		dt:          dt,
		speeds:      make([]float64, 0, windowTicks),
	}
}

// RecordTick records the state of one fixed tick.
func (c *Collector) RecordTick(speed float64, grounded bool) {
	c.speeds = append(c.speeds, speed)
	if grounded {
		c.grounded++
		c.airRun = 0
		return
	}
	c.airRun++
	c.airMax = max(c.airMax, c.airRun)
}

// RecordJump records a jump.
func (c *Collector) RecordJump() { c.jumps++ }

// RecordCommit records a committed gravity change.
func (c *Collector) RecordCommit() { c.commits++ }

// RecordPickup records a collected pickup.
func (c *Collector) RecordPickup() { c.pickups++ }

// ShouldFlush returns true once the window that started at the last flush
// is complete at tick.
func (c *Collector) ShouldFlush(tick uint64) bool {
	return tick-c.windowStart >= c.windowTicks
}

// Flush produces the stats for the current window and starts a new one.
// gravity, collected and remaining describe the state at the window end.
func (c *Collector) Flush(tick uint64, simTime float64, gravity string, collected int, remaining float64) WindowStats {
	s := WindowStats{
		WindowEnd: tick,
		SimTime:   simTime,
		Airtime:   float64(c.airMax) * c.dt,
		Jumps:     c.jumps,
		Commits:   c.commits,
		Pickups:   c.pickups,
		Collected: collected,
		Gravity:   gravity,
		Remaining: remaining,
	}
	if n := len(c.speeds); n > 0 {
		s.GroundedFrac = float64(c.grounded) / float64(n)
	}
	s.SpeedMean, s.SpeedStd, s.SpeedP50, s.SpeedP90, s.SpeedMax = SpeedStats(c.speeds)

	c.windowStart = tick
	c.speeds = c.speeds[:0]
	c.grounded = 0
	c.airMax = c.airRun
	c.jumps = 0
	c.commits = 0
	c.pickups = 0
	return s
}

// Reset discards the current window and restarts counting at tick 0.
func (c *Collector) Reset() {
	c.windowStart = 0
	c.speeds = c.speeds[:0]
	c.grounded = 0
	c.airRun = 0
	c.airMax = 0
	c.jumps = 0
	c.commits = 0
	c.pickups = 0
}
