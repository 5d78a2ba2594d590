package session

import (
	"fmt"

	"github.com/genogenov/clip-for-fun/internal/objects"
	"github.com/genogenov/clip-for-fun/internal/protocol"
)

// Outcome is the terminal state of a successful resolution call.
// A transport that runs dry is reported as ErrTransportExhausted instead.
type Outcome int

const (
	OutcomeFound Outcome = iota + 1
	OutcomeEnumerationComplete
	OutcomeProtocolError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFound:
		return "found"
	case OutcomeEnumerationComplete:
		return "enumeration_complete"
	case OutcomeProtocolError:
		return "protocol_error"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result describes how a resolution ended.
type Result struct {
	Outcome Outcome

	// Entry is set when Outcome is OutcomeFound.
	Entry objects.Entry

	// ProtocolError is set when Outcome is OutcomeProtocolError.
	ProtocolError protocol.DisplayErrorEvent

	// Globals is the number of global events decoded before the outcome.
	Globals int
}

// Found reports whether the interface was located.
func (r Result) Found() bool {
	return r.Outcome == OutcomeFound
}

// State tracks where a session is in the request/response exchange.
type State int

const (
	StateIdle State = iota
	StateRequestsQueued
	StateAwaitingResponse
	StateResolutionFound
	StateEnumerationComplete
	StateProtocolErrorObserved
	StateTransportExhausted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRequestsQueued:
		return "requests_queued"
	case StateAwaitingResponse:
		return "awaiting_response"
	case StateResolutionFound:
		return "resolution_found"
	case StateEnumerationComplete:
		return "enumeration_complete"
	case StateProtocolErrorObserved:
		return "protocol_error_observed"
	case StateTransportExhausted:
		return "transport_exhausted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether s ends a resolution call.
func (s State) Terminal() bool {
	return s >= StateResolutionFound
}
