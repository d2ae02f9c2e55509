package build

import (
	"sync"
	"time"
)

// DefaultTickInterval is the default time between build ticks.
const DefaultTickInterval = 500 * time.Millisecond

// Ticker is a source of periodic ticks.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFunc creates a new Ticker that ticks every d.
type TickerFunc func(d time.Duration) Ticker

// NewTimeTicker returns a Ticker backed by a time.Ticker.
func NewTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

type timeTicker struct {
	t *time.Ticker
}

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// ManualTicker is a Ticker that only ticks when Tick is called.
type ManualTicker struct {
	c       chan time.Time
	stopped chan struct{}
	once    sync.Once
}

// NewManualTicker returns a new ManualTicker.
func NewManualTicker() *ManualTicker {
	return &ManualTicker{
		c:       make(chan time.Time),
		stopped: make(chan struct{}),
	}
}

// C returns the ticks channel.
func (m *ManualTicker) C() <-chan time.Time { return m.c }

// Stop stops the ticker. It's safe to call multiple times.
func (m *ManualTicker) Stop() { m.once.Do(func() { close(m.stopped) }) }

// Tick blocks until the tick is received by the consumer or the ticker is stopped.
// It returns false if the ticker was stopped.
func (m *ManualTicker) Tick() bool {
	select {
	case <-m.stopped:
		return false
	default:
	}

	select {
	case m.c <- time.Now():
		return true
	case <-m.stopped:
		return false
	}
}

// Stopped returns true if the ticker has been stopped.
func (m *ManualTicker) Stopped() bool {
	select {
	case <-m.stopped:
		return true
	default:
		return false
	}
}
