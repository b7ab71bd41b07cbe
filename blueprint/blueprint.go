// Package blueprint provides an ordered, settable bundle of component
// values that can be stamped onto a World in one shot (§6 "Blueprint").
// It depends on the root ecsrt package but is never imported back by it.
package blueprint

import (
	"github.com/bitdrifter-labs/ecsrt"
)

type entry struct {
	id    ecsrt.ComponentID
	value any
}

// Blueprint is an ordered bundle of (component type, value) pairs with
// set semantics: re-adding a type overwrites its value in place rather
// than appending a duplicate entry.
type Blueprint struct {
	registry *ecsrt.Registry
	entries  []entry
	index    map[ecsrt.ComponentID]int
}

// New constructs an empty Blueprint bound to r. With registers component
// types on this same registry; Without, Has and Get look them up there.
func New(r *ecsrt.Registry) *Blueprint {
	return &Blueprint{registry: r, index: make(map[ecsrt.ComponentID]int)}
}

// With sets (registering T on the blueprint's registry if unseen) T's
// value, overwriting it if the blueprint already carries T. Returns bp
// so calls can be chained.
func With[T any](bp *Blueprint, value T) *Blueprint {
	id := ecsrt.MustRegister[T](bp.registry)
	bp.setRaw(id, value)
	return bp
}

// Without drops T from the blueprint if present; a no-op otherwise.
func Without[T any](bp *Blueprint) *Blueprint {
	id := ecsrt.IDOf[T](bp.registry)
	i, ok := bp.index[id]
	if !ok {
		return bp
	}
	bp.entries = append(bp.entries[:i], bp.entries[i+1:]...)
	delete(bp.index, id)
	for otherID, idx := range bp.index {
		if idx > i {
			bp.index[otherID] = idx - 1
		}
	}
	return bp
}

// Has reports whether the blueprint carries T.
func Has[T any](bp *Blueprint) bool {
	id := ecsrt.IDOf[T](bp.registry)
	_, ok := bp.index[id]
	return ok
}

// Get returns the blueprint's value for T, or a NotFoundError if absent.
func Get[T any](bp *Blueprint) (T, error) {
	var zero T
	id := ecsrt.IDOf[T](bp.registry)
	i, ok := bp.index[id]
	if !ok {
		return zero, ecsrt.NotFoundError{Subject: "component in blueprint"}
	}
	v, ok := bp.entries[i].value.(T)
	if !ok {
		return zero, ecsrt.InvalidArgumentError{Reason: "blueprint entry type mismatch"}
	}
	return v, nil
}

// TryGet is Get without the error return, for callers that only care
// about presence.
func TryGet[T any](bp *Blueprint) (T, bool) {
	v, err := Get[T](bp)
	return v, err == nil
}

// Clone returns an independent copy of bp. Component values are copied
// by assignment; a value-type component is fully independent in the
// clone, a pointer-typed component still aliases the original's target.
func (bp *Blueprint) Clone() *Blueprint {
	clone := New(bp.registry)
	clone.entries = append([]entry(nil), bp.entries...)
	clone.index = make(map[ecsrt.ComponentID]int, len(bp.index))
	for k, v := range bp.index {
		clone.index[k] = v
	}
	return clone
}

// Signature returns the component signature this blueprint would
// produce on instantiation.
func (bp *Blueprint) Signature() ecsrt.Signature {
	sig := ecsrt.EmptySignature
	for _, en := range bp.entries {
		sig = sig.WithID(en.id)
	}
	return sig
}

// ComponentCount returns the number of distinct components set on bp.
func (bp *Blueprint) ComponentCount() int { return len(bp.entries) }

func (bp *Blueprint) setRaw(id ecsrt.ComponentID, value any) {
	if i, ok := bp.index[id]; ok {
		bp.entries[i].value = value
		return
	}
	bp.index[id] = len(bp.entries)
	bp.entries = append(bp.entries, entry{id: id, value: value})
}
