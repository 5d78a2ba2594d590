package objects

import (
	"sort"

	"github.com/genogenov/clip-for-fun/internal/protocol"
)

// Entry is a global the registry advertised for one of the interfaces
// being searched for.
type Entry struct {
	Name      uint32
	Interface Interface
	Version   uint32
}

// GlobalAdvertised is a decoded global event. Match is InterfaceUnknown
// when the global is not one of the targets, or when an earlier global
// already matched the same interface.
type GlobalAdvertised struct {
	Name      uint32
	Interface string
	Version   uint32
	Match     Interface
}

// Matched reports whether the global was recorded as a registry entry.
func (g GlobalAdvertised) Matched() bool {
	return g.Match != InterfaceUnknown
}

// Registry tracks the globals advertised on one registry object.
// Registry is not safe for concurrent use.
type Registry struct {
	id      uint32
	targets []Interface
	entries map[Interface]Entry
}

// NewRegistry creates a registry bound to object id, searching for targets.
func NewRegistry(id uint32, targets ...Interface) *Registry {
	return &Registry{
		id:      id,
		targets: targets,
		entries: make(map[Interface]Entry),
	}
}

// ID returns the registry's object id.
func (r *Registry) ID() uint32 {
	return r.id
}

// TryDecodeGlobal decodes a global event addressed to this registry.
// Returns ok=false for frames that are not global events on r.
// First match wins: later globals for an already-recorded interface are
// reported with Match == InterfaceUnknown.
func (r *Registry) TryDecodeGlobal(h protocol.Header, buf []byte, payloadOff int) (GlobalAdvertised, bool, error) {
	if h.ObjectID != r.id || h.Opcode != uint16(protocol.RegistryGlobal) {
		return GlobalAdvertised{}, false, nil
	}
	payload, err := protocol.Payload(buf, payloadOff, h)
	if err != nil {
		return GlobalAdvertised{}, false, err
	}
	g, err := protocol.DecodeGlobal(payload)
	if err != nil {
		return GlobalAdvertised{}, false, err
	}

	ev := GlobalAdvertised{Name: g.Name, Interface: g.Interface, Version: g.Version}
	for _, target := range r.targets {
		if g.Interface != target.String() {
			continue
		}
		if _, seen := r.entries[target]; seen {
			break
		}
		r.entries[target] = Entry{Name: g.Name, Interface: target, Version: g.Version}
		ev.Match = target
		break
	}
	return ev, true, nil
}

// TryDecodeGlobalRemove decodes a global_remove event and drops any entry
// recorded under the removed name.
func (r *Registry) TryDecodeGlobalRemove(h protocol.Header, buf []byte, payloadOff int) (uint32, bool, error) {
	if h.ObjectID != r.id || h.Opcode != uint16(protocol.RegistryGlobalRemove) {
		return 0, false, nil
	}
	payload, err := protocol.Payload(buf, payloadOff, h)
	if err != nil {
		return 0, false, err
	}
	name, err := protocol.DecodeGlobalRemove(payload)
	if err != nil {
		return 0, false, err
	}
	for iface, e := range r.entries {
		if e.Name == name {
			delete(r.entries, iface)
		}
	}
	return name, true, nil
}

// Entry returns the recorded entry for iface.
func (r *Registry) Entry(iface Interface) (Entry, bool) {
	e, ok := r.entries[iface]
	return e, ok
}

// Entries returns all recorded entries ordered by global name.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
