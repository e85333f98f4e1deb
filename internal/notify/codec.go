/*
 * Copyright (c) 2024 Johan Stenstam, johani@johani.org
 */

package notify

import (
	"strings"

	"github.com/miekg/dns"
)

// buildNotifyQuery constructs a NOTIFY(SOA) query for zone, wire-encoded
// per RFC 1996: OPCODE=4, AA=1, QR=0, a single SOA question, no
// additional sections. The query id is random, as required so that
// retransmissions with the same id still match a late reply (§9).
func buildNotifyQuery(zone ZoneID) (*dns.Msg, []byte, error) {
	m := new(dns.Msg)
	m.SetNotify(dns.Fqdn(zone.Name))
	m.Id = dns.Id()

	class, ok := dns.StringToClass[strings.ToUpper(zone.Class)]
	if !ok {
		class = dns.ClassINET
	}
	m.Question[0].Qclass = class

	wire, err := m.Pack()
	if err != nil {
		return nil, nil, err
	}
	return m, wire, nil
}

// rebuildWithID reconstructs the NOTIFY query for zone but forces id,
// so a retransmission reuses the original query id (§9: late replies to
// an earlier attempt must still match).
func rebuildWithID(zone ZoneID, id uint16) (*dns.Msg, error) {
	m, _, err := buildNotifyQuery(zone)
	if err != nil {
		return nil, err
	}
	m.Id = id
	return m, nil
}

// handleNotifyReply classifies a candidate reply against the zone's
// outstanding query. Checks run in the order packet, query id, QR,
// OPCODE, query name; the first failing check wins.
func handleNotifyReply(info *ZoneNotifyInfo, data []byte) Classification {
	reply := new(dns.Msg)
	if err := reply.Unpack(data); err != nil {
		return BadReplyPacket
	}
	if len(reply.Question) < 1 {
		return BadReplyPacket
	}
	if reply.Id != info.queryID {
		return BadQueryID
	}
	// QR is checked ahead of OPCODE: a reply with both bits wrong (e.g.
	// flags 0x1010) classifies as BAD_QR, matching the worked scenarios
	// in the test suite this codec is built against.
	if !reply.Response {
		return BadQR
	}
	if reply.Opcode != dns.OpcodeNotify {
		return BadOpcode
	}
	if !strings.EqualFold(dns.Fqdn(reply.Question[0].Name), dns.Fqdn(info.ZoneID.Name)) {
		return BadQueryName
	}
	return ReplyOK
}
