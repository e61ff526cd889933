// Package scheduler keeps the cached stats snapshot warm by recomputing it
// on a fixed interval.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"
)

// SnapshotRefresher is the dependency that actually does the work.
// The scheduler calls RefreshStats on every tick while running.
type SnapshotRefresher interface {
	RefreshStats(ctx context.Context) error
}

// RefresherService exposes a small control surface for the refresher.
// Start/Stop are synchronous controls, and IsRunning reports whether
// ticks are currently being accepted.
type RefresherService interface {
	Start() error
	Stop() error
	IsRunning() bool
}

// DefaultInterval is used when no custom interval is provided.
const DefaultInterval = 15 * time.Second

// DefaultRefreshTimeout bounds a single refresh before it is cancelled
// via context timeout.
const DefaultRefreshTimeout = 5 * time.Second

// controlTimeout is how long we wait for the control loop to accept a
// Start/Stop command and acknowledge it. This protects callers from
// hanging forever if the loop is not running.
const controlTimeout = 2 * time.Second

// controlOp represents the kind of command sent into the internal control loop.
type controlOp int

const (
	opStart controlOp = iota
	opStop
	opStatus
)

// controlMsg is sent over the ctrl channel to drive the refresher's state.
type controlMsg struct {
	op   controlOp
	resp chan bool // used by callers to get a synchronous answer
}

// refresherService owns the internal state and runs the control loop.
// All mutable state lives in the loop goroutine, so no locks are needed.
type refresherService struct {
	refresher      SnapshotRefresher
	interval       time.Duration
	refreshTimeout time.Duration
	ctrl           chan controlMsg
}

// NewRefresherService creates a stats refresher with the given interval and
// per-refresh timeout. Non-positive values fall back to the defaults.
func NewRefresherService(
	refresher SnapshotRefresher,
	interval time.Duration,
	refreshTimeout time.Duration,
) RefresherService {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if refreshTimeout <= 0 {
		refreshTimeout = DefaultRefreshTimeout
	}

	s := &refresherService{
		refresher:      refresher,
		interval:       interval,
		refreshTimeout: refreshTimeout,
		ctrl:           make(chan controlMsg),
	}

	// The control loop is started in its own goroutine and lives
	// for the lifetime of the process.
	go s.loop()

	return s
}

// Start tells the refresher to begin processing ticks. It blocks until the
// internal loop has acknowledged the state change, or returns an error if
// the control loop does not respond in time.
func (s *refresherService) Start() error {
	resp := make(chan bool)
	msg := controlMsg{op: opStart, resp: resp}

	select {
	case s.ctrl <- msg:
	case <-time.After(controlTimeout):
		return fmt.Errorf("[StatsRefresher] Start: control loop not responding")
	}

	select {
	case <-resp:
		return nil
	case <-time.After(controlTimeout):
		return fmt.Errorf("[StatsRefresher] Start: acknowledgement timeout")
	}
}

// Stop tells the refresher to stop accepting new ticks. If a refresh is
// currently running, Stop waits until it finishes (or times out) before
// returning.
func (s *refresherService) Stop() error {
	resp := make(chan bool)
	msg := controlMsg{op: opStop, resp: resp}

	select {
	case s.ctrl <- msg:
	case <-time.After(controlTimeout):
		return fmt.Errorf("[StatsRefresher] Stop: control loop not responding")
	}

	select {
	case <-resp:
		return nil
	case <-time.After(controlTimeout):
		return fmt.Errorf("[StatsRefresher] Stop: acknowledgement timeout")
	}
}

// IsRunning reports whether the refresher is currently in "running" mode.
// It does not mean a refresh is actively executing, only that new ticks
// will be processed when the timer fires.
func (s *refresherService) IsRunning() bool {
	resp := make(chan bool)
	s.ctrl <- controlMsg{op: opStatus, resp: resp}
	return <-resp
}

// loop owns all mutable state and reacts to control messages, timer ticks
// and refresh completions. The refresh itself runs in its own goroutine so
// the loop keeps answering control messages while a refresh is in flight.
func (s *refresherService) loop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// running: whether new ticks should be accepted
	// inRefresh: whether a refresh goroutine is currently executing
	running := false
	inRefresh := false

	// refreshDone carries the result of the in-flight refresh goroutine.
	refreshDone := make(chan error, 1)

	// pendingStop is a response channel completed once the current refresh
	// finishes, if Stop was called mid-refresh.
	var pendingStop chan bool

	for {
		select {
		case msg := <-s.ctrl:
			switch msg.op {
			case opStart:
				if !running {
					log.Printf("[StatsRefresher] Started (interval=%s, timeout=%s)\n",
						s.interval, s.refreshTimeout)
				}
				running = true
				msg.resp <- true

			case opStop:
				if !running && !inRefresh {
					log.Println("[StatsRefresher] Stop requested, but already idle.")
					msg.resp <- true
					continue
				}

				running = false

				if inRefresh {
					pendingStop = msg.resp
				} else {
					msg.resp <- true
				}

			case opStatus:
				msg.resp <- running
			}

		case <-ticker.C:
			if !running || inRefresh {
				continue
			}

			inRefresh = true

			ctx, cancel := context.WithTimeout(context.Background(), s.refreshTimeout)
			go func() {
				defer cancel()
				refreshDone <- s.refresher.RefreshStats(ctx)
			}()

		case err := <-refreshDone:
			inRefresh = false

			if err != nil {
				log.Printf("[StatsRefresher] Refresh failed: %v\n", err)
			}

			if pendingStop != nil {
				pendingStop <- true
				pendingStop = nil
				log.Println("[StatsRefresher] Stopped.")
			}
		}
	}
}
