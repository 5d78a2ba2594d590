package protocol

import (
	"encoding/binary"
	"errors"
	"testing"
)

func TestStringPaddingDataDeviceManager(t *testing.T) {
	const name = "wl_data_device_manager"
	b := AppendString(nil, name)

	if len(b) != 28 {
		t.Fatalf("expected 28-byte field, got %d", len(b))
	}
	if n := binary.NativeEndian.Uint32(b[0:4]); n != uint32(len(name)+1) {
		t.Fatalf("length prefix: got %d, want %d", n, len(name)+1)
	}
	if string(b[4:4+len(name)]) != name {
		t.Fatalf("content mismatch: %q", b[4:4+len(name)])
	}
	for i := 4 + len(name); i < len(b); i++ {
		if b[i] != 0 {
			t.Fatalf("byte %d should be NUL/pad, got %#x", i, b[i])
		}
	}
	if StringFieldLen(name) != len(b) {
		t.Fatalf("StringFieldLen: got %d, want %d", StringFieldLen(name), len(b))
	}
}

func TestStringPaddingLengths(t *testing.T) {
	cases := []struct {
		s    string
		want int
	}{
		{"", 8},
		{"abc", 8},
		{"abcd", 12},
		{"wl_shm", 12},
		{"wl_seat", 12},
		{"wl_compositor", 20},
	}
	for _, tc := range cases {
		b := AppendString(nil, tc.s)
		if len(b) != tc.want {
			t.Fatalf("%q: expected %d bytes, got %d", tc.s, tc.want, len(b))
		}
		if len(b)%4 != 0 {
			t.Fatalf("%q: field not 4-byte aligned", tc.s)
		}
	}
}

func TestReadStringRoundTrip(t *testing.T) {
	for _, s := range []string{"", "a", "wl_output", "wl_data_device_manager", "zwp_linux_dmabuf_v1"} {
		b := AppendString(nil, s)
		b = binary.NativeEndian.AppendUint32(b, 0xdeadbeef)

		got, next, err := ReadString(b, 0)
		if err != nil {
			t.Fatalf("%q: %v", s, err)
		}
		if got != s {
			t.Fatalf("got %q, want %q", got, s)
		}
		if next != StringFieldLen(s) {
			t.Fatalf("%q: next offset %d, want %d", s, next, StringFieldLen(s))
		}
		if v := binary.NativeEndian.Uint32(b[next:]); v != 0xdeadbeef {
			t.Fatalf("%q: trailing field misaligned", s)
		}
	}
}

func TestReadStringNull(t *testing.T) {
	b := binary.NativeEndian.AppendUint32(nil, 0)
	s, next, err := ReadString(b, 0)
	if err != nil || s != "" || next != 4 {
		t.Fatalf("null string: %q %d %v", s, next, err)
	}
}

func TestReadStringIncomplete(t *testing.T) {
	full := AppendString(nil, "wl_data_device_manager")
	for cut := 0; cut < len(full); cut++ {
		_, next, err := ReadString(full[:cut], 0)
		if !errors.Is(err, ErrIncomplete) {
			t.Fatalf("cut=%d: expected ErrIncomplete, got %v", cut, err)
		}
		if next != 0 {
			t.Fatalf("cut=%d: offset should not advance, got %d", cut, next)
		}
	}
}

func TestReadStringHugeLength(t *testing.T) {
	b := binary.NativeEndian.AppendUint32(nil, 1<<32-1)
	b = append(b, make([]byte, 16)...)
	if _, _, err := ReadString(b, 0); !errors.Is(err, ErrIncomplete) {
		t.Fatalf("expected ErrIncomplete, got %v", err)
	}
}

func TestReadStringMissingNUL(t *testing.T) {
	b := binary.NativeEndian.AppendUint32(nil, 4)
	b = append(b, 'a', 'b', 'c', 'd')
	if _, _, err := ReadString(b, 0); !errors.Is(err, ErrMalformedString) {
		t.Fatalf("expected ErrMalformedString, got %v", err)
	}
}

func TestReadUint32(t *testing.T) {
	b := binary.NativeEndian.AppendUint32(nil, 42)
	v, next, err := ReadUint32(b, 0)
	if err != nil || v != 42 || next != 4 {
		t.Fatalf("got %d %d %v", v, next, err)
	}
	if _, _, err := ReadUint32(b, 1); !errors.Is(err, ErrIncomplete) {
		t.Fatalf("expected ErrIncomplete, got %v", err)
	}
}
