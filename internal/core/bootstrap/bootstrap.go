package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	appLog "digitalclock/internal/log"
)

// ErrNoSurface indicates that no display surface could be obtained.
var ErrNoSurface = errors.New("no display surface")

const (
	DefaultInterval    = time.Second
	DefaultMaxAttempts = 30
)

// OverlayConfig is the set of surface properties that turns a plain window
// into the background widget.
type OverlayConfig struct {
	Borderless     bool
	Transparent    bool
	IgnoresPointer bool
	AllWorkspaces  bool
	NoShadow       bool
	FullScreen     bool
}

// DefaultOverlay enables every overlay property.
func DefaultOverlay() OverlayConfig {
	return OverlayConfig{
		Borderless:     true,
		Transparent:    true,
		IgnoresPointer: true,
		AllWorkspaces:  true,
		NoShadow:       true,
		FullScreen:     true,
	}
}

// Surface is a display surface the overlay can be applied to.
type Surface interface {
	ID() string
	ApplyOverlay(config OverlayConfig) error
}

// SurfaceLocator finds an existing overlay candidate or creates one.
// Find must skip the settings surface. A missing surface is reported as an
// untyped nil, never as a nil pointer wrapped in Surface.
type SurfaceLocator interface {
	Find() (Surface, bool)
	Create() (Surface, error)
}

// Config contains runtime options for Bootstrap.
type Config struct {
	Interval    time.Duration
	MaxAttempts int
	Overlay     OverlayConfig
}

// Bootstrap polls for a display surface and applies the overlay
// configuration to the first one it finds, forcing creation once the
// attempt budget is spent.
type Bootstrap struct {
	tickMu      sync.Mutex
	mu          sync.Mutex
	locator     SurfaceLocator
	config      Config
	state       State
	attempts    int
	forceIssued bool
	surfaceID   string
	configured  map[string]bool
	observers   []chan Status
	cancel      context.CancelFunc
	running     bool
}

// New creates a Bootstrap in the Searching state.
func New(locator SurfaceLocator, config Config) *Bootstrap {
	if config.Interval <= 0 {
		config.Interval = DefaultInterval
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = DefaultMaxAttempts
	}
	if config.Overlay == (OverlayConfig{}) {
		config.Overlay = DefaultOverlay()
	}
	return &Bootstrap{
		locator:    locator,
		config:     config,
		state:      StateSearching,
		configured: make(map[string]bool),
	}
}

// Subscribe registers a new observer channel.
func (boot *Bootstrap) Subscribe(buffer int) <-chan Status {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Status, buffer)
	boot.mu.Lock()
	boot.observers = append(boot.observers, ch)
	boot.mu.Unlock()
	return ch
}

// Status returns the current state snapshot.
func (boot *Bootstrap) Status() Status {
	boot.mu.Lock()
	defer boot.mu.Unlock()
	return boot.statusLocked("")
}

// State returns the current state.
func (boot *Bootstrap) State() State {
	boot.mu.Lock()
	defer boot.mu.Unlock()
	return boot.state
}

// Start launches the polling loop. It stops by itself on a terminal state.
func (boot *Bootstrap) Start(ctx context.Context) {
	boot.mu.Lock()
	if boot.running || boot.state.Terminal() {
		boot.mu.Unlock()
		return
	}
	boot.running = true
	runCtx, cancel := context.WithCancel(ctx)
	boot.cancel = cancel
	boot.mu.Unlock()

	go boot.run(runCtx)
}

// Stop terminates the polling loop and closes observers.
func (boot *Bootstrap) Stop() {
	boot.mu.Lock()
	if boot.cancel != nil {
		boot.cancel()
		boot.cancel = nil
	}
	boot.running = false
	observers := boot.observers
	boot.observers = nil
	boot.mu.Unlock()

	for _, ch := range observers {
		close(ch)
	}
}

// Tick performs one poll and returns the resulting state.
func (boot *Bootstrap) Tick() State {
	boot.tickMu.Lock()
	defer boot.tickMu.Unlock()

	boot.mu.Lock()
	state := boot.state
	boot.mu.Unlock()
	if state.Terminal() {
		return state
	}

	if surface, ok := boot.locator.Find(); ok && surface != nil {
		if err := boot.configure(surface); err == nil {
			return boot.transition(inputSurfaceFound, surface.ID(), "overlay configured")
		} else {
			appLog.Error("overlay configuration failed", err, "surface", surface.ID())
		}
	}

	boot.mu.Lock()
	boot.attempts++
	spent := boot.attempts >= boot.config.MaxAttempts && !boot.forceIssued
	if spent {
		boot.forceIssued = true
	}
	boot.mu.Unlock()

	if !spent {
		return boot.transition(inputSurfaceMissing, "", "")
	}

	boot.transition(inputBudgetSpent, "", "forcing surface creation")
	surface, err := boot.locator.Create()
	if err == nil && surface == nil {
		err = ErrNoSurface
	}
	if err == nil {
		err = boot.configure(surface)
	}
	if err != nil {
		appLog.Error("overlay unavailable, giving up", err, "attempts", boot.Status().Attempts)
		return boot.transition(inputForceFailed, "", fmt.Sprintf("give up: %v", err))
	}
	return boot.transition(inputForceSucceeded, surface.ID(), "overlay configured on created surface")
}

// configure applies the overlay once per surface.
func (boot *Bootstrap) configure(surface Surface) error {
	id := surface.ID()
	boot.mu.Lock()
	done := boot.configured[id]
	boot.mu.Unlock()
	if done {
		return nil
	}

	if err := surface.ApplyOverlay(boot.config.Overlay); err != nil {
		return fmt.Errorf("apply overlay to %s: %w", id, err)
	}

	boot.mu.Lock()
	boot.configured[id] = true
	boot.mu.Unlock()
	return nil
}

func (boot *Bootstrap) transition(in input, surfaceID, message string) State {
	boot.mu.Lock()
	defer boot.mu.Unlock()

	from := boot.state
	boot.state = next(from, in)
	if surfaceID != "" {
		boot.surfaceID = surfaceID
	}
	if boot.state != from {
		appLog.Info("overlay bootstrap", "from", string(from), "to", string(boot.state), "attempts", boot.attempts)
		boot.emitLocked(boot.statusLocked(message))
	}
	return boot.state
}

func (boot *Bootstrap) run(ctx context.Context) {
	ticker := time.NewTicker(boot.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if boot.Tick().Terminal() {
				boot.mu.Lock()
				boot.running = false
				boot.mu.Unlock()
				return
			}
		}
	}
}

func (boot *Bootstrap) statusLocked(message string) Status {
	return Status{
		State:       boot.state,
		Attempts:    boot.attempts,
		MaxAttempts: boot.config.MaxAttempts,
		ForceIssued: boot.forceIssued,
		SurfaceID:   boot.surfaceID,
		Message:     message,
		At:          time.Now(),
	}
}

func (boot *Bootstrap) emitLocked(status Status) {
	for _, ch := range boot.observers {
		select {
		case ch <- status:
		default:
		}
	}
}
