/*
 * Copyright (c) 2024 Johan Stenstam, johani@johani.org
 */

package notify

import (
	"log"
	"sync"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"

	"github.com/johanix/tdns-notify/internal/zonestore"
)

// Tunables, defaults per spec.md §6.
const (
	DefaultMaxNotifyNum    = 30
	DefaultMaxNotifyTryNum = 5
	DefaultNotifyTimeout   = 3 * time.Second
	DefaultIdleSleepTime   = 10 * time.Second
)

// Config holds the controller's tunables.
type Config struct {
	MaxNotifyNum    int
	MaxNotifyTryNum int
	NotifyTimeout   time.Duration
	IdleSleepTime   time.Duration
}

// DefaultConfig returns the spec's recommended tunables.
func DefaultConfig() Config {
	return Config{
		MaxNotifyNum:    DefaultMaxNotifyNum,
		MaxNotifyTryNum: DefaultMaxNotifyTryNum,
		NotifyTimeout:   DefaultNotifyTimeout,
		IdleSleepTime:   DefaultIdleSleepTime,
	}
}

// NotifySnapshot is a read-only, lock-copied view of one zone's notify
// state, for external consumers (admin API, CLI).
type NotifySnapshot struct {
	Zone           ZoneID
	Target         string
	RemainingCount int
	TryCount       int
	SecondsLeft    float64
	Notifying      bool
}

type readEvent struct {
	zone  ZoneID
	epoch uint64
	data  []byte
	err   error
}

type controlMsg struct {
	shutdown bool
}

// Controller is the public entry point: enqueue zones with SendNotify,
// start the dispatcher goroutine with Dispatcher, stop it with
// Shutdown. All exported methods are safe to call from any goroutine.
type Controller struct {
	cfg   Config
	store zonestore.Store
	dial  socketDialer

	mu             sync.Mutex
	infos          cmap.ConcurrentMap[string, *ZoneNotifyInfo]
	notifyingZones []ZoneID
	waitingZones   []ZoneID

	eventCh   chan readEvent
	controlCh chan controlMsg
	doneCh    chan struct{}
}

// NewController builds a controller over store, discovering every
// zone's notify slaves from NS+glue (spec.md §4.1).
func NewController(store zonestore.Store, cfg Config) (*Controller, error) {
	slaves, err := initNotifyOut(store)
	if err != nil {
		return nil, err
	}

	c := &Controller{
		cfg:       cfg,
		store:     store,
		dial:      defaultDialer,
		infos:     cmap.New[*ZoneNotifyInfo](),
		eventCh:   make(chan readEvent, 64),
		controlCh: make(chan controlMsg, 4),
	}
	for zone, targets := range slaves {
		c.infos.Set(zone.String(), &ZoneNotifyInfo{ZoneID: zone, NotifySlaves: targets, currentTarget: -1})
	}
	return c, nil
}

// Register adds or replaces a zone's notify targets, for callers that
// configure slaves externally rather than through NS+glue discovery.
func (c *Controller) Register(zone ZoneID, targets []NotifyTarget) {
	c.mu.Lock()
	defer c.mu.Unlock()
	info, ok := c.infos.Get(zone.String())
	if !ok {
		info = &ZoneNotifyInfo{ZoneID: zone, currentTarget: -1}
		c.infos.Set(zone.String(), info)
	}
	info.NotifySlaves = targets
}

func containsZone(list []ZoneID, z ZoneID) bool {
	for _, x := range list {
		if x == z {
			return true
		}
	}
	return false
}

// SendNotify enqueues zone for notification, per spec.md §4.5. It is a
// no-op — not an error — for unknown zones or zones with no notify
// targets, and for a zone already present in the waiting queue.
func (c *Controller) SendNotify(zoneName, class string) {
	zone := zonestore.NewZoneID(zoneName, class)

	c.mu.Lock()
	info, ok := c.infos.Get(zone.String())
	if !ok || len(info.NotifySlaves) == 0 {
		c.mu.Unlock()
		return
	}

	inNotifying := containsZone(c.notifyingZones, zone)
	inWaiting := containsZone(c.waitingZones, zone)

	if inWaiting {
		c.mu.Unlock()
		return // duplicate wait entry rejected
	}
	if inNotifying {
		c.waitingZones = append(c.waitingZones, zone)
		c.mu.Unlock()
		c.wake()
		return
	}

	if len(c.notifyingZones) < c.cfg.MaxNotifyNum {
		if c.admit(info) {
			c.notifyingZones = append(c.notifyingZones, zone)
		}
	} else {
		c.waitingZones = append(c.waitingZones, zone)
	}
	c.mu.Unlock()
	c.wake()
}

// admit starts a zone's first SENDING transition, returning false (and
// leaving the zone retired) if the socket could not be opened. Caller
// holds c.mu.
func (c *Controller) admit(info *ZoneNotifyInfo) bool {
	info.currentTarget = 0
	info.tryCount = 0
	if err := c.enterSending(info); err != nil {
		log.Printf("notify: zone %s: failed to open socket to %v: %v — retiring round",
			info.ZoneID, info.NotifySlaves[0], err)
		info.currentTarget = -1
		return false
	}
	return true
}

// Status returns a point-in-time snapshot of one zone's notify state.
func (c *Controller) Status(zone ZoneID) (NotifySnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	info, ok := c.infos.Get(zone.String())
	if !ok {
		return NotifySnapshot{}, false
	}
	return c.snapshotLocked(info), true
}

// AllStatuses returns a snapshot of every tracked zone.
func (c *Controller) AllStatuses() []NotifySnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := c.infos.Items()
	out := make([]NotifySnapshot, 0, len(items))
	for _, info := range items {
		out = append(out, c.snapshotLocked(info))
	}
	return out
}

func (c *Controller) snapshotLocked(info *ZoneNotifyInfo) NotifySnapshot {
	snap := NotifySnapshot{
		Zone:           info.ZoneID,
		RemainingCount: len(info.NotifySlaves) - info.currentTarget - 1,
		TryCount:       info.tryCount,
		Notifying:      info.Notifying(),
	}
	if t, ok := info.CurrentTarget(); ok {
		snap.Target = t.String()
	}
	if info.Notifying() {
		snap.SecondsLeft = time.Until(info.deadline).Seconds()
	}
	return snap
}

func (c *Controller) wake() {
	select {
	case c.controlCh <- controlMsg{}:
	default:
	}
}

// Shutdown stops the dispatcher and waits for it to exit.
func (c *Controller) Shutdown() {
	c.controlCh <- controlMsg{shutdown: true}
	if c.doneCh != nil {
		<-c.doneCh
	}
}
