/*
 * Copyright (c) 2024 Johan Stenstam, johani@johani.org
 */

package notify

import (
	"log"
	"time"
)

// enterSending builds and sends a NOTIFY query to the zone's current
// target, arms the retry timer, and starts the reader goroutine that
// feeds replies back to the dispatcher. Caller holds c.mu.
func (c *Controller) enterSending(info *ZoneNotifyInfo) error {
	target, ok := info.CurrentTarget()
	if !ok {
		return nil // no more targets; caller should have retired already
	}

	sock, err := c.dial(target)
	if err != nil {
		return err
	}

	_, wire, err := buildNotifyQuery(info.ZoneID)
	if err != nil {
		sock.Close()
		return err
	}

	if info.sock != nil {
		info.sock.Close()
	}
	info.sock = sock
	info.epoch++
	info.queryID = uint16(wire[0])<<8 | uint16(wire[1])
	info.tryCount = 0
	info.deadline = deadlineAfter(c.cfg.NotifyTimeout)

	if err := sock.Send(wire); err != nil {
		log.Printf("notify: zone %s: send to %s failed: %v (treated as lost, retry on timeout)",
			info.ZoneID, target, err)
	}

	c.startReader(info.ZoneID, sock, info.epoch)
	return nil
}

// resend retransmits the outstanding query unchanged (same id) to the
// current target, per spec.md §4.3 / §9 ("query id reuse across
// retries"). Caller holds c.mu.
func (c *Controller) resend(info *ZoneNotifyInfo) {
	target, ok := info.CurrentTarget()
	if !ok {
		return
	}
	m, _ := rebuildWithID(info.ZoneID, info.queryID)
	wire, err := m.Pack()
	if err != nil {
		log.Printf("notify: zone %s: failed to rebuild retry query: %v", info.ZoneID, err)
		return
	}
	if info.sock == nil {
		return
	}
	if err := info.sock.Send(wire); err != nil {
		log.Printf("notify: zone %s: resend to %s failed: %v", info.ZoneID, target, err)
	}
}

// startReader launches the goroutine that blocks on sock's reads and
// forwards datagrams to the dispatcher's event channel. It exits
// silently once sock is closed (either on retirement or shutdown).
func (c *Controller) startReader(zone ZoneID, sock Socket, epoch uint64) {
	go func() {
		buf := make([]byte, 512)
		for {
			n, err := sock.ReadFrom(buf)
			if err != nil {
				return
			}
			data := append([]byte(nil), buf[:n]...)
			select {
			case c.eventCh <- readEvent{zone: zone, epoch: epoch, data: data}:
			case <-c.doneCh:
				return
			}
		}
	}()
}

// advanceTarget moves to the next notify target, or retires the zone
// if there are none left (spec.md §4.4). Caller holds c.mu.
func (c *Controller) advanceTarget(info *ZoneNotifyInfo) {
	next := info.currentTarget + 1
	if info.currentTarget < 0 || next >= len(info.NotifySlaves) {
		c.retireLocked(info)
		return
	}
	info.currentTarget = next
	info.tryCount = 0
	if err := c.enterSending(info); err != nil {
		log.Printf("notify: zone %s: failed to open socket to %v: %v — retiring round",
			info.ZoneID, info.NotifySlaves[next], err)
		c.retireLocked(info)
	}
}

// retireLocked closes out a zone's notify round: closes its socket,
// drops it from notifyingZones, and admits the next waiting zone.
// Caller holds c.mu.
func (c *Controller) retireLocked(info *ZoneNotifyInfo) {
	if info.sock != nil {
		info.sock.Close()
		info.sock = nil
	}
	info.currentTarget = -1
	info.tryCount = 0
	info.epoch++

	for i, z := range c.notifyingZones {
		if z == info.ZoneID {
			c.notifyingZones = append(c.notifyingZones[:i], c.notifyingZones[i+1:]...)
			break
		}
	}

	if len(c.waitingZones) > 0 {
		nextZone := c.waitingZones[0]
		c.waitingZones = c.waitingZones[1:]
		if nextInfo, ok := c.infos.Get(nextZone.String()); ok && c.admit(nextInfo) {
			c.notifyingZones = append(c.notifyingZones, nextZone)
		}
	}
}

// zoneNotifyHandler advances one zone's state machine in response to a
// single event, per spec.md §4.3. Caller holds c.mu.
func (c *Controller) zoneNotifyHandler(info *ZoneNotifyInfo, event Event, data []byte) {
	switch event {
	case EventRead:
		switch handleNotifyReply(info, data) {
		case ReplyOK:
			c.advanceTarget(info)
		default:
			// BAD_*: discarded, retry countdown and timer untouched.
		}

	case EventTimeout:
		if info.tryCount < c.cfg.MaxNotifyTryNum {
			info.tryCount++
			c.resend(info)
			backoff := c.cfg.NotifyTimeout * time.Duration(1<<uint(info.tryCount))
			info.deadline = deadlineAfter(backoff)
		} else {
			c.advanceTarget(info)
		}

	case EventNone:
		if info.tryCount >= c.cfg.MaxNotifyTryNum {
			c.advanceTarget(info)
		}
	}
}
