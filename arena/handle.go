package arena

import (
	"unsafe"

	"github.com/hupe1980/memgo/ptr"
)

// Handle binds a Ref to the arena that issued it, making the pair usable
// wherever a ptr.Pointer is accepted. A Handle whose Ref has gone stale
// resolves to nil rather than a dangling address, and so does the zero
// Handle.
type Handle struct {
	arena *Arena
	ref   Ref
}

// Handle binds ref to the arena as a resolvable pointer.
func (a *Arena) Handle(ref Ref) Handle {
	return Handle{arena: a, ref: ref}
}

// UnsafePointer resolves the handle through the owning arena.
func (h Handle) UnsafePointer() unsafe.Pointer {
	if h.arena == nil {
		return nil
	}
	return h.arena.Get(h.ref)
}

// Ref returns the reference the handle resolves.
func (h Handle) Ref() Ref { return h.ref }

var _ ptr.Pointer = Handle{}
