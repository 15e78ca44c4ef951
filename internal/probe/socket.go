package probe

import (
	"context"
	"fmt"
	"net"
	"os"
	"syscall"
	"time"

	"github.com/go-ping/ping"
	"github.com/hervehildenbrand/gmtu/internal/pmtu"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
)

// icmpv4 is the IANA protocol number used to parse ICMPv4 messages.
const icmpv4 = 1

// SocketMechanism sends ICMP echo requests on a raw socket with the DF bit
// set. Replies and ICMP errors are summarised as ping-style text so the same
// classifier applies to both mechanisms.
type SocketMechanism struct {
	timeout time.Duration
	id      int
	seq     int
	logger  logrus.FieldLogger
}

// NewSocketMechanism creates a raw socket mechanism.
func NewSocketMechanism(timeout time.Duration) *SocketMechanism {
	return &SocketMechanism{
		timeout: timeout,
		id:      os.Getpid() & 0xffff,
		logger:  logrus.StandardLogger(),
	}
}

// Name returns the mechanism name.
func (m *SocketMechanism) Name() string {
	return "socket"
}

// Reachable sends one ordinary echo request with go-ping.
func (m *SocketMechanism) Reachable(ctx context.Context, target net.IP) bool {
	pinger, err := ping.NewPinger(target.String())
	if err != nil {
		m.logger.WithError(err).Debug("create pinger failed")
		return false
	}
	pinger.SetPrivileged(true)
	pinger.Count = 1
	pinger.Timeout = m.timeout

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			pinger.Stop()
		case <-done:
		}
	}()

	if err := pinger.Run(); err != nil {
		m.logger.WithError(err).Debug("reachability ping failed")
		return false
	}
	return pinger.Statistics().PacketsRecv > 0
}

// Probe sends one DF echo request carrying size bytes of payload.
func (m *SocketMechanism) Probe(ctx context.Context, target net.IP, size int) pmtu.RawResult {
	lc := net.ListenConfig{Control: dontFragmentControl}
	conn, err := lc.ListenPacket(ctx, "ip4:icmp", "0.0.0.0")
	if err != nil {
		return pmtu.RawResult{Size: size, Diagnostic: fmt.Sprintf("failed to open ICMP socket: %v", err)}
	}
	defer conn.Close()

	m.seq = (m.seq + 1) & 0xffff
	seq := m.seq

	msg := m.buildEchoRequest(seq, size)
	msgBytes, err := msg.Marshal(nil)
	if err != nil {
		return pmtu.RawResult{Size: size, Diagnostic: fmt.Sprintf("failed to marshal ICMP message: %v", err)}
	}

	start := time.Now()
	if _, err := conn.WriteTo(msgBytes, &net.IPAddr{IP: target}); err != nil {
		if isMessageTooLong(err) {
			return pmtu.RawResult{Size: size, Diagnostic: fmt.Sprintf("local error: message too long (%v)", err)}
		}
		return pmtu.RawResult{Size: size, Diagnostic: fmt.Sprintf("sendto: %v", err)}
	}

	deadline := start.Add(m.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetReadDeadline(deadline); err != nil {
		return pmtu.RawResult{Size: size, Diagnostic: fmt.Sprintf("failed to set deadline: %v", err)}
	}

	reply := make([]byte, pmtu.JumboMTU+pmtu.HeaderOverhead)
	for {
		n, peer, err := conn.ReadFrom(reply)
		if err != nil {
			if isTimeout(err) {
				return pmtu.RawResult{Size: size, Diagnostic: "Request timed out."}
			}
			return pmtu.RawResult{Size: size, Diagnostic: fmt.Sprintf("recvfrom: %v", err)}
		}

		rm, err := icmp.ParseMessage(icmpv4, reply[:n])
		if err != nil {
			continue // Ignore malformed packets
		}

		var peerIP net.IP
		if addr, ok := peer.(*net.IPAddr); ok {
			peerIP = addr.IP
		}

		if res, ok := m.interpret(rm, reply[:n], peerIP, seq, size, time.Since(start)); ok {
			return res
		}

		if time.Now().After(deadline) {
			return pmtu.RawResult{Size: size, Diagnostic: "Request timed out."}
		}
	}
}

// buildEchoRequest creates an ICMP echo request with size bytes of payload.
func (m *SocketMechanism) buildEchoRequest(seq, size int) *icmp.Message {
	data := make([]byte, size)
	copy(data, "gmtu")

	return &icmp.Message{
		Type: ipv4.ICMPTypeEcho,
		Code: 0,
		Body: &icmp.Echo{
			ID:   m.id,
			Seq:  seq,
			Data: data,
		},
	}
}

// interpret turns a received ICMP message into a raw result if it answers
// the probe identified by seq.
func (m *SocketMechanism) interpret(rm *icmp.Message, raw []byte, peer net.IP, seq, size int, rtt time.Duration) (pmtu.RawResult, bool) {
	switch rm.Type {
	case ipv4.ICMPTypeEchoReply:
		body, ok := rm.Body.(*icmp.Echo)
		if !ok || body.ID != m.id || body.Seq != seq {
			return pmtu.RawResult{}, false
		}
		return pmtu.RawResult{
			Size:      size,
			Succeeded: true,
			Diagnostic: fmt.Sprintf("%d bytes from %s: icmp_seq=%d time=%.2f ms",
				len(body.Data)+8, peer, seq, float64(rtt)/float64(time.Millisecond)),
		}, true

	case ipv4.ICMPTypeDestinationUnreachable:
		body, ok := rm.Body.(*icmp.DstUnreach)
		if !ok || !m.quotesProbe(body.Data, seq) {
			return pmtu.RawResult{}, false
		}
		if rm.Code == 4 {
			text := fmt.Sprintf("From %s icmp_seq=%d Frag needed and DF set", peer, seq)
			if mtu, ok := pmtu.ParseMTUFromICMP(raw); ok {
				text = fmt.Sprintf("%s (mtu = %d)", text, mtu)
			}
			return pmtu.RawResult{Size: size, Diagnostic: text}, true
		}
		return pmtu.RawResult{
			Size:       size,
			Diagnostic: fmt.Sprintf("From %s icmp_seq=%d Destination Unreachable (code %d)", peer, seq, rm.Code),
		}, true
	}

	return pmtu.RawResult{}, false
}

// quotesProbe checks whether an ICMP error quotes our echo request. The quote
// is the original IP header followed by the first 8 bytes of the datagram.
func (m *SocketMechanism) quotesProbe(data []byte, seq int) bool {
	if len(data) < 1 {
		return false
	}
	ihl := int(data[0]&0x0f) * 4
	if ihl < 20 || len(data) < ihl+8 {
		return false
	}
	origID := int(data[ihl+4])<<8 | int(data[ihl+5])
	origSeq := int(data[ihl+6])<<8 | int(data[ihl+7])
	return origID == m.id && origSeq == seq
}

// isTimeout checks if an error is a timeout error.
func isTimeout(err error) bool {
	if err == nil {
		return false
	}
	netErr, ok := err.(net.Error)
	return ok && netErr.Timeout()
}

// dontFragmentControl sets the DF bit on the raw socket before it is bound.
func dontFragmentControl(network, address string, c syscall.RawConn) error {
	var sockErr error
	if err := c.Control(func(fd uintptr) {
		sockErr = setDontFragment(fd)
	}); err != nil {
		return err
	}
	return sockErr
}
