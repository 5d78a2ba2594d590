package objects

import "github.com/genogenov/clip-for-fun/internal/protocol"

// Callback is a one-shot object created by a sync request.
type Callback struct {
	ID uint32
}

// IsDone reports whether h is this callback's done event. Done events
// addressed to any other object are not ours.
func (c Callback) IsDone(h protocol.Header) bool {
	return c.ID != 0 && h.ObjectID == c.ID && h.Opcode == uint16(protocol.CallbackDone)
}
