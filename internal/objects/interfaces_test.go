package objects

import (
	"errors"
	"testing"
)

func TestParseInterfaceRoundTrip(t *testing.T) {
	for _, iface := range KnownInterfaces() {
		got, err := ParseInterface(iface.String())
		if err != nil {
			t.Fatalf("%s: %v", iface, err)
		}
		if got != iface {
			t.Fatalf("got %v, want %v", got, iface)
		}
	}
}

func TestParseInterfaceUnknown(t *testing.T) {
	for _, name := range []string{"", "wl_bogus", "interface(0)", "WL_SHM"} {
		got, err := ParseInterface(name)
		if !errors.Is(err, ErrUnknownInterface) {
			t.Fatalf("%q: expected ErrUnknownInterface, got %v", name, err)
		}
		if got != InterfaceUnknown {
			t.Fatalf("%q: expected InterfaceUnknown, got %v", name, got)
		}
	}
}

func TestInterfaceStringOutOfRange(t *testing.T) {
	if s := Interface(99).String(); s != "interface(99)" {
		t.Fatalf("got %q", s)
	}
	if s := DataDeviceManager.String(); s != "wl_data_device_manager" {
		t.Fatalf("got %q", s)
	}
}
