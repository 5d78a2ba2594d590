package objects

import (
	"errors"
	"fmt"
)

var ErrUnknownInterface = errors.New("unknown interface")

// Interface identifies a global interface the client knows how to look for.
type Interface int

const (
	InterfaceUnknown Interface = iota
	Compositor
	Subcompositor
	Shm
	Seat
	Output
	DataDeviceManager
	XdgWmBase
)

var interfaceNames = [...]string{
	InterfaceUnknown:  "",
	Compositor:        "wl_compositor",
	Subcompositor:     "wl_subcompositor",
	Shm:               "wl_shm",
	Seat:              "wl_seat",
	Output:            "wl_output",
	DataDeviceManager: "wl_data_device_manager",
	XdgWmBase:         "xdg_wm_base",
}

// String returns the interface's wire name.
func (i Interface) String() string {
	if i <= InterfaceUnknown || int(i) >= len(interfaceNames) {
		return fmt.Sprintf("interface(%d)", int(i))
	}
	return interfaceNames[i]
}

// ParseInterface maps a wire name to an Interface.
func ParseInterface(name string) (Interface, error) {
	for i := Compositor; int(i) < len(interfaceNames); i++ {
		if interfaceNames[i] == name {
			return i, nil
		}
	}
	return InterfaceUnknown, fmt.Errorf("%w: %q", ErrUnknownInterface, name)
}

// KnownInterfaces returns every interface ParseInterface accepts.
func KnownInterfaces() []Interface {
	out := make([]Interface, 0, len(interfaceNames)-1)
	for i := Compositor; int(i) < len(interfaceNames); i++ {
		out = append(out, i)
	}
	return out
}
