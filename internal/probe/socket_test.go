package probe

import (
	"net"
	"strings"
	"testing"
	"time"

	"github.com/hervehildenbrand/gmtu/internal/pmtu"
	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
)

// quotedEcho builds the IPv4 header + 8 bytes an ICMP error quotes.
func quotedEcho(id, seq int) []byte {
	q := make([]byte, 28)
	q[0] = 0x45 // version 4, IHL 5
	q[9] = 1    // ICMP
	q[20] = 8   // echo request
	q[24] = byte(id >> 8)
	q[25] = byte(id)
	q[26] = byte(seq >> 8)
	q[27] = byte(seq)
	return q
}

// fragNeeded builds a raw Fragmentation Needed message with a next-hop MTU.
func fragNeeded(t *testing.T, id, seq, mtu int) (*icmp.Message, []byte) {
	t.Helper()
	msg := &icmp.Message{
		Type: ipv4.ICMPTypeDestinationUnreachable,
		Code: 4,
		Body: &icmp.DstUnreach{Data: quotedEcho(id, seq)},
	}
	raw, err := msg.Marshal(nil)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	raw[6] = byte(mtu >> 8)
	raw[7] = byte(mtu)

	rm, err := icmp.ParseMessage(icmpv4, raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return rm, raw
}

func TestSocketMechanism_BuildEchoRequest_PayloadSize(t *testing.T) {
	m := NewSocketMechanism(time.Second)

	msg := m.buildEchoRequest(7, 1472)

	if msg.Type != ipv4.ICMPTypeEcho {
		t.Errorf("expected Echo type, got %v", msg.Type)
	}
	body, ok := msg.Body.(*icmp.Echo)
	if !ok {
		t.Fatal("expected Echo body")
	}
	if len(body.Data) != 1472 {
		t.Errorf("payload = %d bytes, want 1472", len(body.Data))
	}
	if body.Seq != 7 || body.ID != m.id {
		t.Errorf("id/seq = %d/%d, want %d/7", body.ID, body.Seq, m.id)
	}

	wire, err := msg.Marshal(nil)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if len(wire)+20 != 1472+pmtu.HeaderOverhead {
		t.Errorf("datagram = %d bytes, want %d", len(wire)+20, 1472+pmtu.HeaderOverhead)
	}
}

func TestSocketMechanism_Interpret_EchoReply(t *testing.T) {
	m := NewSocketMechanism(time.Second)
	rm := &icmp.Message{
		Type: ipv4.ICMPTypeEchoReply,
		Body: &icmp.Echo{ID: m.id, Seq: 3, Data: make([]byte, 1472)},
	}

	raw, ok := m.interpret(rm, nil, net.ParseIP("192.0.2.1"), 3, 1472, 10*time.Millisecond)

	if !ok {
		t.Fatal("expected reply to match")
	}
	if !raw.Succeeded {
		t.Error("expected success")
	}
	if !strings.HasPrefix(raw.Diagnostic, "1480 bytes from 192.0.2.1") {
		t.Errorf("Diagnostic = %q", raw.Diagnostic)
	}
	if got := pmtu.DefaultClassifier().Classify(raw).Class; got != pmtu.Fits {
		t.Errorf("classified as %v, want fits", got)
	}
}

func TestSocketMechanism_Interpret_IgnoresOtherEchoes(t *testing.T) {
	m := NewSocketMechanism(time.Second)

	otherID := &icmp.Message{Type: ipv4.ICMPTypeEchoReply, Body: &icmp.Echo{ID: m.id + 1, Seq: 3}}
	if _, ok := m.interpret(otherID, nil, nil, 3, 100, 0); ok {
		t.Error("expected reply with another ID to be ignored")
	}

	staleSeq := &icmp.Message{Type: ipv4.ICMPTypeEchoReply, Body: &icmp.Echo{ID: m.id, Seq: 2}}
	if _, ok := m.interpret(staleSeq, nil, nil, 3, 100, 0); ok {
		t.Error("expected reply to an earlier probe to be ignored")
	}
}

func TestSocketMechanism_Interpret_FragmentationNeeded(t *testing.T) {
	m := NewSocketMechanism(time.Second)
	rm, wire := fragNeeded(t, m.id, 5, 1400)

	raw, ok := m.interpret(rm, wire, net.ParseIP("10.0.0.1"), 5, 1472, time.Millisecond)

	if !ok {
		t.Fatal("expected frag needed to match")
	}
	if raw.Succeeded {
		t.Error("expected failure")
	}
	if !strings.Contains(raw.Diagnostic, "Frag needed and DF set (mtu = 1400)") {
		t.Errorf("Diagnostic = %q", raw.Diagnostic)
	}
	if got := pmtu.DefaultClassifier().Classify(raw).Class; got != pmtu.DoesNotFit {
		t.Errorf("classified as %v, want too-large", got)
	}
}

func TestSocketMechanism_Interpret_OtherUnreachableIsIndeterminate(t *testing.T) {
	m := NewSocketMechanism(time.Second)
	rm := &icmp.Message{
		Type: ipv4.ICMPTypeDestinationUnreachable,
		Code: 1, // host unreachable
		Body: &icmp.DstUnreach{Data: quotedEcho(m.id, 9)},
	}

	raw, ok := m.interpret(rm, nil, net.ParseIP("10.0.0.1"), 9, 1000, 0)

	if !ok {
		t.Fatal("expected unreachable to match")
	}
	if got := pmtu.DefaultClassifier().Classify(raw).Class; got != pmtu.Indeterminate {
		t.Errorf("classified as %v, want indeterminate", got)
	}
}

func TestSocketMechanism_QuotesProbe(t *testing.T) {
	m := NewSocketMechanism(time.Second)

	if !m.quotesProbe(quotedEcho(m.id, 4), 4) {
		t.Error("expected quote of our probe to match")
	}
	if m.quotesProbe(quotedEcho(m.id^0x1, 4), 4) {
		t.Error("expected quote of another ID not to match")
	}
	if m.quotesProbe([]byte{0x45, 0, 0}, 4) {
		t.Error("expected truncated quote not to match")
	}
}

func TestSocketMechanism_Name(t *testing.T) {
	if NewSocketMechanism(time.Second).Name() != "socket" {
		t.Error("expected name socket")
	}
}
