package objects

import "github.com/genogenov/clip-for-fun/internal/protocol"

// Display is the root object.
type Display struct{}

// ID returns the display's fixed object id.
func (Display) ID() uint32 { return protocol.DisplayID }

// TryDecodeError decodes a display error event. It matches only frames
// addressed to the display with the error opcode.
func (d Display) TryDecodeError(h protocol.Header, buf []byte, payloadOff int) (protocol.DisplayErrorEvent, bool, error) {
	if h.ObjectID != d.ID() || h.Opcode != uint16(protocol.DisplayError) {
		return protocol.DisplayErrorEvent{}, false, nil
	}
	payload, err := protocol.Payload(buf, payloadOff, h)
	if err != nil {
		return protocol.DisplayErrorEvent{}, false, err
	}
	ev, err := protocol.DecodeDisplayError(payload)
	if err != nil {
		return protocol.DisplayErrorEvent{}, false, err
	}
	return ev, true, nil
}

// TryDecodeDeleteID decodes a delete_id event, which the server sends
// once it has released an object id (e.g. after a callback fired).
func (d Display) TryDecodeDeleteID(h protocol.Header, buf []byte, payloadOff int) (uint32, bool, error) {
	if h.ObjectID != d.ID() || h.Opcode != uint16(protocol.DisplayDeleteID) {
		return 0, false, nil
	}
	payload, err := protocol.Payload(buf, payloadOff, h)
	if err != nil {
		return 0, false, err
	}
	id, err := protocol.DecodeDeleteID(payload)
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}
