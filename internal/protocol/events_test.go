package protocol

import (
	"encoding/binary"
	"errors"
	"testing"
)

func TestGlobalRoundTrip(t *testing.T) {
	want := Global{Name: 5, Interface: "wl_data_device_manager", Version: 2}
	frame := AppendGlobalFrame(nil, RegistryID, want)

	h := DecodeHeader(frame, 0)
	if h.ObjectID != RegistryID || h.Opcode != uint16(RegistryGlobal) {
		t.Fatalf("unexpected header: %v", h)
	}
	if int(h.Size) != len(frame) {
		t.Fatalf("size field %d, frame length %d", h.Size, len(frame))
	}
	if h.Size != 8+4+28+4 {
		t.Fatalf("expected 44-byte frame, got %d", h.Size)
	}

	got, err := DecodeGlobal(frame[HeaderSize:])
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestDecodeGlobalTruncated(t *testing.T) {
	frame := AppendGlobalFrame(nil, RegistryID, Global{Name: 1, Interface: "wl_compositor", Version: 6})
	payload := frame[HeaderSize:]
	for cut := 0; cut < len(payload); cut++ {
		if _, err := DecodeGlobal(payload[:cut]); !errors.Is(err, ErrIncomplete) {
			t.Fatalf("cut=%d: expected ErrIncomplete, got %v", cut, err)
		}
	}
}

func TestDecodeGlobalNullInterface(t *testing.T) {
	var payload []byte
	payload = binary.NativeEndian.AppendUint32(payload, 8)
	payload = binary.NativeEndian.AppendUint32(payload, 0) // null string
	payload = binary.NativeEndian.AppendUint32(payload, 2)
	if len(payload) != GlobalMinSize {
		t.Fatalf("payload length %d", len(payload))
	}
	g, err := DecodeGlobal(payload)
	if err != nil {
		t.Fatal(err)
	}
	if g != (Global{Name: 8, Version: 2}) {
		t.Fatalf("unexpected global %+v", g)
	}
	if _, err := DecodeGlobal(payload[:GlobalMinSize-1]); !errors.Is(err, ErrIncomplete) {
		t.Fatalf("expected ErrIncomplete below GlobalMinSize, got %v", err)
	}
}

func TestDisplayErrorWithoutMessage(t *testing.T) {
	frame := AppendDisplayErrorFrame(nil, DisplayErrorEvent{ObjectID: 3, Code: 1})
	if len(frame) != HeaderSize+DisplayErrorMinSize {
		t.Fatalf("unexpected frame length %d", len(frame))
	}
	ev, err := DecodeDisplayError(frame[HeaderSize:])
	if err != nil {
		t.Fatal(err)
	}
	if ev.ObjectID != 3 || ev.Code != 1 || ev.HasMessage {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestDisplayErrorWithMessage(t *testing.T) {
	want := DisplayErrorEvent{ObjectID: 2, Code: 7, Message: "invalid object", HasMessage: true}
	frame := AppendDisplayErrorFrame(nil, want)
	ev, err := DecodeDisplayError(frame[HeaderSize:])
	if err != nil {
		t.Fatal(err)
	}
	if ev != want {
		t.Fatalf("got %+v, want %+v", ev, want)
	}
	if ev.Error() != "display error on object 2: code 7: invalid object" {
		t.Fatalf("unexpected message: %q", ev.Error())
	}
}

func TestDisplayErrorShort(t *testing.T) {
	if _, err := DecodeDisplayError(make([]byte, 7)); !errors.Is(err, ErrIncomplete) {
		t.Fatalf("expected ErrIncomplete, got %v", err)
	}
}

func TestDisplayErrorDamagedMessage(t *testing.T) {
	frame := AppendDisplayErrorFrame(nil, DisplayErrorEvent{ObjectID: 4, Code: 1, Message: "boom", HasMessage: true})
	payload := frame[HeaderSize:]

	truncated := payload[:len(payload)-1]
	noNUL := append([]byte(nil), payload...)
	// "boom" sits after the 8 fixed bytes and the length prefix; its NUL
	// is the next byte.
	noNUL[DisplayErrorMinSize+4+4] = 'x'

	for name, p := range map[string][]byte{"truncated": truncated, "missing NUL": noNUL} {
		ev, err := DecodeDisplayError(p)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if ev.ObjectID != 4 || ev.Code != 1 || ev.HasMessage || ev.Message != "" {
			t.Fatalf("%s: unexpected event %+v", name, ev)
		}
	}
}

func TestSmallPayloads(t *testing.T) {
	frame := AppendCallbackDoneFrame(nil, 3, 99)
	if len(frame) != HeaderSize+CallbackDoneSize {
		t.Fatalf("unexpected callback frame length %d", len(frame))
	}
	id, err := DecodeDeleteID(frame[HeaderSize:])
	if err != nil || id != 99 {
		t.Fatalf("delete_id: %d %v", id, err)
	}
	name, err := DecodeGlobalRemove(frame[HeaderSize:])
	if err != nil || name != 99 {
		t.Fatalf("global_remove: %d %v", name, err)
	}
	if _, err := DecodeGlobalRemove(nil); !errors.Is(err, ErrIncomplete) {
		t.Fatalf("expected ErrIncomplete, got %v", err)
	}
}
