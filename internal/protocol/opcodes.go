package protocol

import (
	"errors"
	"fmt"
)

var ErrUnknownOpcode = errors.New("unknown opcode")

// DisplayRequest is a request sent to the display object.
type DisplayRequest uint16

const (
	DisplaySync        DisplayRequest = 0
	DisplayGetRegistry DisplayRequest = 1
)

func (r DisplayRequest) String() string {
	switch r {
	case DisplaySync:
		return "sync"
	case DisplayGetRegistry:
		return "get_registry"
	default:
		return fmt.Sprintf("display_request(%d)", uint16(r))
	}
}

// ParseDisplayRequest converts a wire opcode into a DisplayRequest.
func ParseDisplayRequest(op uint16) (DisplayRequest, error) {
	switch DisplayRequest(op) {
	case DisplaySync, DisplayGetRegistry:
		return DisplayRequest(op), nil
	default:
		return 0, fmt.Errorf("%w: display request %d", ErrUnknownOpcode, op)
	}
}

// DisplayEvent is an event emitted by the display object.
type DisplayEvent uint16

const (
	DisplayError    DisplayEvent = 0
	DisplayDeleteID DisplayEvent = 1
)

func (e DisplayEvent) String() string {
	switch e {
	case DisplayError:
		return "error"
	case DisplayDeleteID:
		return "delete_id"
	default:
		return fmt.Sprintf("display_event(%d)", uint16(e))
	}
}

// ParseDisplayEvent converts a wire opcode into a DisplayEvent.
func ParseDisplayEvent(op uint16) (DisplayEvent, error) {
	switch DisplayEvent(op) {
	case DisplayError, DisplayDeleteID:
		return DisplayEvent(op), nil
	default:
		return 0, fmt.Errorf("%w: display event %d", ErrUnknownOpcode, op)
	}
}

// RegistryRequest is a request sent to the registry object.
type RegistryRequest uint16

const RegistryBind RegistryRequest = 0

func (r RegistryRequest) String() string {
	if r == RegistryBind {
		return "bind"
	}
	return fmt.Sprintf("registry_request(%d)", uint16(r))
}

// ParseRegistryRequest converts a wire opcode into a RegistryRequest.
func ParseRegistryRequest(op uint16) (RegistryRequest, error) {
	if RegistryRequest(op) == RegistryBind {
		return RegistryBind, nil
	}
	return 0, fmt.Errorf("%w: registry request %d", ErrUnknownOpcode, op)
}

// RegistryEvent is an event emitted by the registry object.
type RegistryEvent uint16

const (
	RegistryGlobal       RegistryEvent = 0
	RegistryGlobalRemove RegistryEvent = 1
)

func (e RegistryEvent) String() string {
	switch e {
	case RegistryGlobal:
		return "global"
	case RegistryGlobalRemove:
		return "global_remove"
	default:
		return fmt.Sprintf("registry_event(%d)", uint16(e))
	}
}

// ParseRegistryEvent converts a wire opcode into a RegistryEvent.
func ParseRegistryEvent(op uint16) (RegistryEvent, error) {
	switch RegistryEvent(op) {
	case RegistryGlobal, RegistryGlobalRemove:
		return RegistryEvent(op), nil
	default:
		return 0, fmt.Errorf("%w: registry event %d", ErrUnknownOpcode, op)
	}
}

// CallbackEvent is an event emitted by a callback object.
type CallbackEvent uint16

const CallbackDone CallbackEvent = 0

func (e CallbackEvent) String() string {
	if e == CallbackDone {
		return "done"
	}
	return fmt.Sprintf("callback_event(%d)", uint16(e))
}

// ParseCallbackEvent converts a wire opcode into a CallbackEvent.
func ParseCallbackEvent(op uint16) (CallbackEvent, error) {
	if CallbackEvent(op) == CallbackDone {
		return CallbackDone, nil
	}
	return 0, fmt.Errorf("%w: callback event %d", ErrUnknownOpcode, op)
}
