package protocol

// Header: [4B object id][2B opcode][2B total size], host byte order.
const HeaderSize = 8

// MaxFrameSize is the largest frame the 16-bit size field can describe.
const MaxFrameSize = 1<<16 - 1

// NewIDArgSize is the size of a single new_id argument.
const NewIDArgSize = 4

// RequestSize is the total size of a request carrying one new_id argument.
const RequestSize = HeaderSize + NewIDArgSize

// Well-known object identifiers. The display always exists; the registry
// id is a convention of the first allocation made by a fresh client.
const (
	DisplayID  uint32 = 1
	RegistryID uint32 = 2
)

// Fixed payload sizes (excluding header).
const (
	DisplayErrorMinSize = 8  // u32 object id + u32 code
	GlobalMinSize       = 12 // u32 name + u32 empty string + u32 version
	CallbackDoneSize    = 4  // u32 callback data
)
