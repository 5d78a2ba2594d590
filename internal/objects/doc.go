// Package objects models the protocol objects a client talks to while
// enumerating globals: the display (root object, id 1), the registry,
// and one-shot callbacks.
//
// Each object decodes only the events addressed to it. Decoders take the
// frame header, the buffer holding the frame, and the offset of the
// payload within that buffer; they report (value, matched, err) where
// err is protocol.ErrIncomplete when the payload has not fully arrived.
package objects
