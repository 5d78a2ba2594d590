package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"testing"
)

func TestHeaderRoundTrip(t *testing.T) {
	cases := []Header{
		{ObjectID: 0, Opcode: 0, Size: 0},
		{ObjectID: DisplayID, Opcode: uint16(DisplayGetRegistry), Size: RequestSize},
		{ObjectID: RegistryID, Opcode: uint16(RegistryGlobal), Size: 44},
		{ObjectID: 1<<32 - 1, Opcode: 1<<16 - 1, Size: 1<<16 - 1},
		{ObjectID: 0xff000001, Opcode: 7, Size: 4096},
	}
	for _, want := range cases {
		b := EncodeHeader(want.ObjectID, want.Opcode, want.Size)
		got := DecodeHeader(b[:], 0)
		if got != want {
			t.Fatalf("round trip mismatch: got %v, want %v", got, want)
		}
	}
}

func TestDecodeHeaderAtOffset(t *testing.T) {
	buf := make([]byte, 3)
	h := EncodeHeader(9, 2, 16)
	buf = append(buf, h[:]...)

	got := DecodeHeader(buf, 3)
	if got.ObjectID != 9 || got.Opcode != 2 || got.Size != 16 {
		t.Fatalf("unexpected header: %v", got)
	}
}

func TestHeaderByteLayout(t *testing.T) {
	b := EncodeHeader(0x01020304, 0x0506, 0x0708)
	if v := binary.NativeEndian.Uint32(b[0:4]); v != 0x01020304 {
		t.Fatalf("object id field: got %#x", v)
	}
	if v := binary.NativeEndian.Uint16(b[4:6]); v != 0x0506 {
		t.Fatalf("opcode field: got %#x", v)
	}
	if v := binary.NativeEndian.Uint16(b[6:8]); v != 0x0708 {
		t.Fatalf("size field: got %#x", v)
	}
}

func TestPayloadLen(t *testing.T) {
	if n := (Header{Size: RequestSize}).PayloadLen(); n != 4 {
		t.Fatalf("expected 4, got %d", n)
	}
	if n := (Header{Size: 3}).PayloadLen(); n != 0 {
		t.Fatalf("undersized header should report 0, got %d", n)
	}
}

func TestEncodeNewIDRequest(t *testing.T) {
	b := EncodeNewIDRequest(DisplayID, uint16(DisplayGetRegistry), RegistryID)
	h := DecodeHeader(b[:], 0)
	if h.ObjectID != DisplayID || h.Opcode != 1 || h.Size != 12 {
		t.Fatalf("unexpected header: %v", h)
	}
	if id := binary.NativeEndian.Uint32(b[8:12]); id != RegistryID {
		t.Fatalf("new_id: got %d, want %d", id, RegistryID)
	}
}

func TestPayloadBounds(t *testing.T) {
	frame := AppendCallbackDoneFrame(nil, 3, 77)
	h := DecodeHeader(frame, 0)

	p, err := Payload(frame, HeaderSize, h)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(p, frame[8:12]) {
		t.Fatalf("payload mismatch: %v", p)
	}

	if _, err := Payload(frame[:10], HeaderSize, h); !errors.Is(err, ErrIncomplete) {
		t.Fatalf("expected ErrIncomplete, got %v", err)
	}

	if _, err := Payload(frame, HeaderSize, Header{Size: 4}); !errors.Is(err, ErrShortFrame) {
		t.Fatalf("expected ErrShortFrame, got %v", err)
	}
}

func TestParseOpcodes(t *testing.T) {
	if r, err := ParseDisplayRequest(1); err != nil || r != DisplayGetRegistry {
		t.Fatalf("get_registry: %v %v", r, err)
	}
	if r, err := ParseDisplayRequest(0); err != nil || r != DisplaySync {
		t.Fatalf("sync: %v %v", r, err)
	}
	if _, err := ParseDisplayRequest(2); !errors.Is(err, ErrUnknownOpcode) {
		t.Fatalf("expected ErrUnknownOpcode, got %v", err)
	}
	if _, err := ParseDisplayEvent(9); !errors.Is(err, ErrUnknownOpcode) {
		t.Fatalf("expected ErrUnknownOpcode, got %v", err)
	}
	if e, err := ParseRegistryEvent(0); err != nil || e != RegistryGlobal {
		t.Fatalf("global: %v %v", e, err)
	}
	if _, err := ParseRegistryRequest(1); !errors.Is(err, ErrUnknownOpcode) {
		t.Fatalf("expected ErrUnknownOpcode, got %v", err)
	}
	if e, err := ParseCallbackEvent(0); err != nil || e != CallbackDone {
		t.Fatalf("done: %v %v", e, err)
	}
	if _, err := ParseCallbackEvent(1); !errors.Is(err, ErrUnknownOpcode) {
		t.Fatalf("expected ErrUnknownOpcode, got %v", err)
	}
}

func TestOpcodeStrings(t *testing.T) {
	cases := []struct {
		got  fmt.Stringer
		want string
	}{
		{DisplayGetRegistry, "get_registry"},
		{DisplaySync, "sync"},
		{DisplayError, "error"},
		{RegistryGlobal, "global"},
		{RegistryBind, "bind"},
		{CallbackDone, "done"},
		{DisplayRequest(5), "display_request(5)"},
		{RegistryEvent(3), "registry_event(3)"},
	}
	for _, tc := range cases {
		if tc.got.String() != tc.want {
			t.Fatalf("got %q, want %q", tc.got.String(), tc.want)
		}
	}
}
