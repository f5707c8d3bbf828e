package netsim

import "testing"

func TestPacketKindString(t *testing.T) {
	testcases := []struct {
		name string
		kind PacketKind
		want string
	}{
		{name: "data", kind: PacketKindData, want: "DATA"},
		{name: "ack", kind: PacketKindAck, want: "ACK"},
		{name: "setup", kind: PacketKindSetup, want: "SETUP"},
		{name: "unknown", kind: PacketKind(99), want: "UNKNOWN"},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.kind.String(); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestNewDataPacket(t *testing.T) {
	src := NewHost("src", nil)
	dst := NewHost("dst", nil)
	pkt := newDataPacket(7, src, dst)
	if pkt.SizeBits != DataPacketSizeBits {
		t.Fatalf("got size %d, want %d", pkt.SizeBits, DataPacketSizeBits)
	}
	if pkt.Kind != PacketKindData {
		t.Fatalf("got kind %s, want DATA", pkt.Kind)
	}
	if pkt.ID != 7 || pkt.Src != src || pkt.Dst != dst {
		t.Fatalf("unexpected packet: %+v", pkt)
	}
}

func TestNewSetupPacket(t *testing.T) {
	src := NewHost("src", nil)
	dst := NewHost("dst", nil)
	pkt := newSetupPacket(10, 19, src, dst)
	if pkt.Kind != PacketKindSetup {
		t.Fatalf("got kind %s, want SETUP", pkt.Kind)
	}
	if pkt.ID != 10 || pkt.MaxID != 19 {
		t.Fatalf("got id=%d maxid=%d, want id=10 maxid=19", pkt.ID, pkt.MaxID)
	}
	if pkt.SizeBits != ControlPacketSizeBits {
		t.Fatalf("got size %d, want %d", pkt.SizeBits, ControlPacketSizeBits)
	}
}
