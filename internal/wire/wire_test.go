package wire

import (
	"reflect"
	"testing"
)

func roundTrip[T Packet](t *testing.T, p T, fresh func() T) {
	t.Helper()
	data, err := EncodePacket(p)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, remainder := Decode(data, func(tag byte) {
		t.Fatalf("unhandled tag 0x%02x", tag)
	})
	if len(remainder) != 0 {
		t.Fatalf("unexpected remainder: %v", remainder)
	}
	if len(decoded) != 1 {
		t.Fatalf("expected 1 packet, got %d", len(decoded))
	}
	out := fresh()
	rv := reflect.ValueOf(out)
	if rv.Kind() == reflect.Ptr {
		rv.Elem().Set(reflect.ValueOf(decoded[0].Packet).Elem())
	}
	if !reflect.DeepEqual(p, out) {
		t.Fatalf("round-trip mismatch: sent %+v, got %+v", p, out)
	}
}

func TestRoundTripLogin(t *testing.T) {
	roundTrip(t, &LoginRequest{ProtocolVersion: 11, Username: "alice", MapSeed: 42, Dimension: 0},
		func() *LoginRequest { return &LoginRequest{} })
}

func TestRoundTripHandshake(t *testing.T) {
	roundTrip(t, &HandshakeRequest{Username: "bob"}, func() *HandshakeRequest { return &HandshakeRequest{} })
}

func TestRoundTripChatUnicode(t *testing.T) {
	roundTrip(t, &Chat{Message: "héllo wörld 世界"}, func() *Chat { return &Chat{} })
}

func TestRoundTripPosition(t *testing.T) {
	roundTrip(t, &PlayerPosition{X: 1.5, Y: 64, Stance: 65.62, Z: -10.25, OnGround: true},
		func() *PlayerPosition { return &PlayerPosition{} })
}

func TestRoundTripDigging(t *testing.T) {
	roundTrip(t, &PlayerDigging{Status: DigStarted, X: 5, Y: 64, Z: 5, Face: 1},
		func() *PlayerDigging { return &PlayerDigging{} })
}

func TestRoundTripBuildWithSlot(t *testing.T) {
	roundTrip(t, &PlayerBlockPlacement{X: 1, Y: 2, Z: 3, Direction: 1, Held: Slot{ID: 1, Count: 1, Damage: 0}},
		func() *PlayerBlockPlacement { return &PlayerBlockPlacement{} })
}

func TestRoundTripBuildEmptySlot(t *testing.T) {
	roundTrip(t, &PlayerBlockPlacement{X: 1, Y: 2, Z: 3, Direction: 1, Held: EmptySlot},
		func() *PlayerBlockPlacement { return &PlayerBlockPlacement{} })
}

func TestRoundTripWindowAction(t *testing.T) {
	roundTrip(t, &WindowAction{WindowID: 1, Slot: 3, RightClick: true, ActionNumber: 7, Shift: false, Item: EmptySlot},
		func() *WindowAction { return &WindowAction{} })
}

func TestRoundTripSign(t *testing.T) {
	roundTrip(t, &UpdateSign{X: 1, Y: 2, Z: 3, Line1: "a", Line2: "b", Line3: "c", Line4: "d"},
		func() *UpdateSign { return &UpdateSign{} })
}

func TestDecodeTruncatedYieldsNoPackets(t *testing.T) {
	full, err := EncodePacket(&Chat{Message: "hello"})
	if err != nil {
		t.Fatal(err)
	}
	truncated := full[:len(full)-2]
	packets, remainder := Decode(truncated, nil)
	if len(packets) != 0 {
		t.Fatalf("expected 0 packets from truncated input, got %d", len(packets))
	}
	if len(remainder) != len(truncated) {
		t.Fatalf("expected remainder unchanged, got %d bytes", len(remainder))
	}
}

func TestDecodeMultiplePackets(t *testing.T) {
	a, _ := EncodePacket(&KeepAlive{})
	b, _ := EncodePacket(&Chat{Message: "hi"})
	buf := append(append([]byte{}, a...), b...)
	packets, remainder := Decode(buf, nil)
	if len(packets) != 2 {
		t.Fatalf("expected 2 packets, got %d", len(packets))
	}
	if len(remainder) != 0 {
		t.Fatalf("expected no remainder, got %d bytes", len(remainder))
	}
}

func TestDecodeMalformedSkipsTagByte(t *testing.T) {
	// A Chat payload whose i16 length prefix is negative can never become
	// valid no matter how many more bytes arrive (spec.md §7's
	// DecodeError::Malformed), unlike plain truncation.
	malformed := []byte{TagChat, 0x80, 0x00}

	var gotTag byte
	calls := 0
	packets, remainder := Decode(malformed, nil, func(tag byte, err error) {
		calls++
		gotTag = tag
		if err == nil {
			t.Fatalf("expected non-nil error for malformed packet")
		}
	})
	if calls != 1 || gotTag != TagChat {
		t.Fatalf("expected 1 onMalformed call for tag 0x%02x, got %d calls for tag 0x%02x", TagChat, calls, gotTag)
	}
	if len(packets) != 0 {
		t.Fatalf("expected 0 packets, got %d", len(packets))
	}
	// Only the bad tag byte is dropped; decoding resumes at the next byte
	// rather than discarding the whole buffer.
	if len(remainder) != len(malformed)-1 {
		t.Fatalf("expected the malformed tag byte alone to be skipped, got %d bytes remaining", len(remainder))
	}
}

func TestDecodeTruncatedDoesNotInvokeOnMalformed(t *testing.T) {
	full, err := EncodePacket(&Chat{Message: "hello"})
	if err != nil {
		t.Fatal(err)
	}
	truncated := full[:len(full)-2]
	calls := 0
	packets, remainder := Decode(truncated, nil, func(tag byte, err error) { calls++ })
	if calls != 0 {
		t.Fatalf("expected truncation not to call onMalformed, got %d calls", calls)
	}
	if len(packets) != 0 || len(remainder) != len(truncated) {
		t.Fatalf("expected truncated input to wait untouched")
	}
}

func TestDecodeUnknownTagStopsAndReportsOnce(t *testing.T) {
	calls := 0
	buf := []byte{0xAB, 0x00, 0x00}
	packets, remainder := Decode(buf, func(tag byte) {
		calls++
		if tag != 0xAB {
			t.Fatalf("unexpected tag 0x%02x", tag)
		}
	})
	if len(packets) != 0 || calls != 1 {
		t.Fatalf("expected 0 packets and 1 callback, got %d packets, %d calls", len(packets), calls)
	}
	if len(remainder) != len(buf) {
		t.Fatalf("expected full buffer as remainder")
	}
}
