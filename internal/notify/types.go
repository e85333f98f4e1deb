/*
 * Copyright (c) 2024 Johan Stenstam, johani@johani.org
 */

// Package notify implements the outbound DNS NOTIFY (RFC 1996) sender:
// slave discovery from NS/glue, the NOTIFY wire codec, per-zone retry
// state, and the bounded-concurrency dispatcher that drives it all.
package notify

import (
	"net"
	"strconv"
	"time"

	"github.com/johanix/tdns-notify/internal/zonestore"
)

// ZoneID is the (zone name, class) pair the controller tracks.
type ZoneID = zonestore.ZoneID

// NewZoneID normalizes name/class into a ZoneID (trailing dot, IN default).
func NewZoneID(name, class string) ZoneID {
	return zonestore.NewZoneID(name, class)
}

// NotifyTarget is a secondary nameserver to be notified.
type NotifyTarget struct {
	Address string
	Port    int
}

func (t NotifyTarget) String() string {
	return net.JoinHostPort(t.Address, strconv.Itoa(t.Port))
}

// Classification is the outcome of handling a candidate NOTIFY reply.
type Classification int

const (
	ReplyOK Classification = iota
	BadReplyPacket
	BadQueryID
	BadOpcode
	BadQR
	BadQueryName
)

func (c Classification) String() string {
	switch c {
	case ReplyOK:
		return "REPLY_OK"
	case BadReplyPacket:
		return "BAD_REPLY_PACKET"
	case BadQueryID:
		return "BAD_QUERY_ID"
	case BadOpcode:
		return "BAD_OPCODE"
	case BadQR:
		return "BAD_QR"
	case BadQueryName:
		return "BAD_QUERY_NAME"
	default:
		return "UNKNOWN"
	}
}

// Event is what the dispatcher delivers to the per-zone state machine.
type Event int

const (
	EventRead Event = iota
	EventTimeout
	EventNone
)

// ZoneNotifyInfo holds the per-zone notify state. socket is non-nil only
// while the zone is actively notifying (invariant of spec.md §3).
type ZoneNotifyInfo struct {
	ZoneID       ZoneID
	NotifySlaves []NotifyTarget

	currentTarget int // -1 == none
	sock          Socket
	queryID       uint16
	tryCount      int
	deadline      time.Time
	epoch         uint64 // bumped each time sock is replaced; filters stale read events
}

// CurrentTarget returns the target currently being notified, and whether
// one is set.
func (zi *ZoneNotifyInfo) CurrentTarget() (NotifyTarget, bool) {
	if zi.currentTarget < 0 || zi.currentTarget >= len(zi.NotifySlaves) {
		return NotifyTarget{}, false
	}
	return zi.NotifySlaves[zi.currentTarget], true
}

// Notifying reports whether this zone currently holds a dispatcher slot.
func (zi *ZoneNotifyInfo) Notifying() bool {
	return zi.sock != nil
}

// TryCount returns the number of retries made to the current target.
func (zi *ZoneNotifyInfo) TryCount() int { return zi.tryCount }

// Deadline returns the absolute timeout of the outstanding query.
func (zi *ZoneNotifyInfo) Deadline() time.Time { return zi.deadline }
