package protocol

import "encoding/binary"

// AppendFrame appends a complete frame (header + args) to dst. args must
// already be 4-byte aligned and short enough for the u16 size field.
func AppendFrame(dst []byte, objectID uint32, opcode uint16, args []byte) []byte {
	h := EncodeHeader(objectID, opcode, uint16(HeaderSize+len(args)))
	dst = append(dst, h[:]...)
	return append(dst, args...)
}

// AppendGlobalFrame appends a registry global event addressed to registryID.
func AppendGlobalFrame(dst []byte, registryID uint32, g Global) []byte {
	args := make([]byte, 0, 8+StringFieldLen(g.Interface))
	args = binary.NativeEndian.AppendUint32(args, g.Name)
	args = AppendString(args, g.Interface)
	args = binary.NativeEndian.AppendUint32(args, g.Version)
	return AppendFrame(dst, registryID, uint16(RegistryGlobal), args)
}

// AppendDisplayErrorFrame appends a display error event. The message
// string is only written when HasMessage is set.
func AppendDisplayErrorFrame(dst []byte, e DisplayErrorEvent) []byte {
	args := make([]byte, 0, DisplayErrorMinSize+StringFieldLen(e.Message))
	args = binary.NativeEndian.AppendUint32(args, e.ObjectID)
	args = binary.NativeEndian.AppendUint32(args, e.Code)
	if e.HasMessage {
		args = AppendString(args, e.Message)
	}
	return AppendFrame(dst, DisplayID, uint16(DisplayError), args)
}

// AppendCallbackDoneFrame appends a callback done event for callbackID.
func AppendCallbackDoneFrame(dst []byte, callbackID, data uint32) []byte {
	args := binary.NativeEndian.AppendUint32(nil, data)
	return AppendFrame(dst, callbackID, uint16(CallbackDone), args)
}
