/*
 * Copyright (c) 2024 Johan Stenstam, johani@johani.org
 */

package notify

import (
	"log"
	"time"
)

// Dispatcher starts the single worker goroutine that drives every
// in-flight zone's state machine, and returns immediately. Call
// Shutdown to stop it. Calling Dispatcher twice on the same Controller
// is a programming error — not guarded against, matching the teacher's
// engines, which are each started exactly once from main().
func (c *Controller) Dispatcher() {
	c.doneCh = make(chan struct{})
	go c.dispatchLoop()
}

// nextWakeup returns how long the dispatcher should wait before it must
// next act, clamped to [0, IdleSleepTime] per spec.md §4.5 step 1.
// Caller holds c.mu.
func (c *Controller) nextWakeup() time.Duration {
	now := time.Now()
	wait := c.cfg.IdleSleepTime

	for _, z := range c.notifyingZones {
		info, ok := c.infos.Get(z.String())
		if !ok || !info.Notifying() {
			continue
		}
		remaining := info.deadline.Sub(now)
		if remaining < 0 {
			remaining = 0
		}
		if remaining < wait {
			wait = remaining
		}
	}
	if wait < 0 {
		wait = 0
	}
	return wait
}

func (c *Controller) dispatchLoop() {
	defer close(c.doneCh)

	timer := time.NewTimer(c.cfg.IdleSleepTime)
	defer timer.Stop()

	for {
		c.mu.Lock()
		wait := c.nextWakeup()
		c.mu.Unlock()

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(wait)

		select {
		case ev := <-c.eventCh:
			c.mu.Lock()
			if info, ok := c.infos.Get(ev.zone.String()); ok && info.Notifying() && info.epoch == ev.epoch {
				c.zoneNotifyHandler(info, EventRead, ev.data)
			}
			c.mu.Unlock()

		case <-timer.C:
			c.mu.Lock()
			now := time.Now()
			for _, z := range append([]ZoneID(nil), c.notifyingZones...) {
				info, ok := c.infos.Get(z.String())
				if !ok || !info.Notifying() {
					continue
				}
				if !info.deadline.After(now) {
					c.zoneNotifyHandler(info, EventTimeout, nil)
				}
			}
			c.mu.Unlock()

		case msg := <-c.controlCh:
			if msg.shutdown {
				c.mu.Lock()
				for _, z := range c.notifyingZones {
					if info, ok := c.infos.Get(z.String()); ok && info.sock != nil {
						info.sock.Close()
						info.sock = nil
					}
				}
				c.mu.Unlock()
				log.Printf("notify: dispatcher shutting down")
				return
			}
			// plain wake-up: loop around and re-evaluate.
		}
	}
}
