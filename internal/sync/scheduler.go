package sync

import (
	"context"
	"net"
	"time"
)

// DefaultSyncInterval is the cadence of the periodic trigger. There is no
// backoff inside the retry policy; pacing between attempts comes from this
// cadence.
const DefaultSyncInterval = 5 * time.Minute

// ConnectivityProbe reports whether the backend looks reachable. The
// scheduler fires an extra sync when the probe flips from offline to online.
type ConnectivityProbe func(ctx context.Context) bool

// DialProbe probes connectivity with a short TCP dial.
func DialProbe(addr string) ConnectivityProbe {
	return func(ctx context.Context) bool {
		d := net.Dialer{Timeout: 3 * time.Second}
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			return false
		}
		_ = conn.Close()
		return true
	}
}

// Scheduler drives the processor from the periodic timer and the
// reconnect event. Explicit user triggers call Process directly; all
// triggers coalesce through the processor's own guard.
type Scheduler struct {
	processor *Processor
	interval  time.Duration
	probe     ConnectivityProbe
}

// NewScheduler creates a scheduler. A nil probe disables reconnect
// detection; interval <= 0 uses the default.
func NewScheduler(p *Processor, interval time.Duration, probe ConnectivityProbe) *Scheduler {
	if interval <= 0 {
		interval = DefaultSyncInterval
	}
	return &Scheduler{processor: p, interval: interval, probe: probe}
}

// Run blocks until ctx is done, triggering syncs for userID on the timer
// and on reconnect.
func (s *Scheduler) Run(ctx context.Context, userID string) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	online := true
	if s.probe != nil {
		online = s.probe(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.probe != nil {
				now := s.probe(ctx)
				if now && !online {
					// Reconnected: sync immediately rather than waiting
					// out another tick.
					online = true
					s.processor.Process(ctx, userID)
					continue
				}
				online = now
				if !online {
					continue
				}
			}
			s.processor.Process(ctx, userID)
		}
	}
}
