package calendar

import (
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	appLog "digitalclock/internal/log"
)

// DefaultSchedule polls remote calendars every quarter hour.
const DefaultSchedule = "*/15 * * * *"

// Poller emits a change signal on a cron schedule so remote calendars
// without push notifications are re-read periodically.
type Poller struct {
	mu       sync.Mutex
	cron     *cron.Cron
	schedule string
	notifier *Notifier
	running  bool
}

// NewPoller validates schedule and creates a stopped Poller.
func NewPoller(schedule string) (*Poller, error) {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	poller := &Poller{
		cron:     cron.New(),
		schedule: schedule,
		notifier: NewNotifier(),
	}
	if _, err := poller.cron.AddFunc(schedule, poller.tick); err != nil {
		return nil, fmt.Errorf("parse refresh schedule %q: %w", schedule, err)
	}
	return poller, nil
}

// Changes returns the tick signal.
func (poller *Poller) Changes() <-chan struct{} {
	return poller.notifier.Changes()
}

// Start begins the schedule.
func (poller *Poller) Start() {
	poller.mu.Lock()
	defer poller.mu.Unlock()
	if poller.running {
		return
	}
	poller.running = true
	poller.cron.Start()
	appLog.Info("calendar poller started", "schedule", poller.schedule)
}

// Stop halts the schedule and waits for a running tick to finish.
func (poller *Poller) Stop() {
	poller.mu.Lock()
	if !poller.running {
		poller.mu.Unlock()
		return
	}
	poller.running = false
	poller.mu.Unlock()

	<-poller.cron.Stop().Done()
}

func (poller *Poller) tick() {
	appLog.Debug("calendar poll tick")
	poller.notifier.Notify()
}
