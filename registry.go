package ecsrt

import (
	"reflect"

	"github.com/TheBitDrifter/bark"
)

// ComponentID is a dense identifier in [0, Config.MaxComponentTypes) for a
// registered component type.
type ComponentID int

// unregisteredID is returned by IDOf for a type that has never been
// registered on this Registry.
const unregisteredID ComponentID = -1

// copyRow moves one row of a component's column from a source chunk/slot
// to a destination chunk/slot. Registered once per type at registration
// time (§9 "Component row copy during migration"): generic code captures
// the concrete type T once, so archetype migration never needs reflection.
type copyRow func(src, dst *Chunk, srcSlot, dstSlot int) error

// zeroColumn materializes (or re-slices) a component's column on a chunk.
type zeroColumn func(c *Chunk) error

// setAny writes a type-erased value into a chunk column, used by the
// blueprint package which only ever holds component values as `any`.
type setAny func(c *Chunk, slot int, value any) error

// getAny reads a type-erased value out of a chunk column, used by the
// snapshot package which serializes component values without knowing
// their concrete type at the call site.
type getAny func(c *Chunk, slot int) (any, error)

type componentTypeInfo struct {
	id      ComponentID
	typ     reflect.Type
	copyRow copyRow
	zeroCol zeroColumn
	setAny  setAny
	getAny  getAny
}

// Registry is a process-independent mapping from component type to a
// dense id in [0, 63]. Registration is first-touch and monotonic within a
// generation; ids never change until Reset is called. Registry is owned
// by a World (§9 "Process-wide registry", resolved in favor of per-World
// ownership) but can also be used standalone in tests.
type Registry struct {
	byType     map[reflect.Type]*componentTypeInfo
	byID       []*componentTypeInfo
	generation uint64
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		byType: make(map[reflect.Type]*componentTypeInfo),
	}
}

// Generation returns the counter bumped by Reset. Cached ids obtained
// before a Reset must not be reused once the generation changes.
func (r *Registry) Generation() uint64 { return r.generation }

// Reset clears all registrations and bumps the generation counter. This
// is test-only: productive code must not depend on reusing ids across a
// reset.
func (r *Registry) Reset() {
	r.byType = make(map[reflect.Type]*componentTypeInfo)
	r.byID = nil
	r.generation++
}

// Register assigns (or returns the existing) ComponentID for T. Fails
// with CapacityExceededError once the 65th distinct type is registered.
func Register[T any](r *Registry) (ComponentID, error) {
	t := reflect.TypeFor[T]()
	if info, ok := r.byType[t]; ok {
		return info.id, nil
	}
	if len(r.byID) >= Config.MaxComponentTypes {
		return unregisteredID, CapacityExceededError{
			Reason: "more than 64 distinct component types registered",
		}
	}
	id := ComponentID(len(r.byID))
	info := &componentTypeInfo{
		id:      id,
		typ:     t,
		copyRow: copyRowFor[T](id),
		zeroCol: zeroColumnFor[T](id),
		setAny:  setAnyFor[T](id),
		getAny:  getAnyFor[T](id),
	}
	r.byType[t] = info
	r.byID = append(r.byID, info)
	return id, nil
}

// MustRegister is Register, panicking (with a bark trace) on failure. It
// is convenient at world-construction time, when a CapacityExceededError
// is a programmer error rather than a runtime condition to recover from.
func MustRegister[T any](r *Registry) ComponentID {
	id, err := Register[T](r)
	if err != nil {
		panic(bark.AddTrace(err))
	}
	return id
}

// IDOf returns the ComponentID for T, or -1 if T has never been
// registered on r. This read path is infallible by design (§4.2).
func IDOf[T any](r *Registry) ComponentID {
	t := reflect.TypeFor[T]()
	info, ok := r.byType[t]
	if !ok {
		return unregisteredID
	}
	return info.id
}

func (r *Registry) infoByID(id ComponentID) *componentTypeInfo {
	if id < 0 || int(id) >= len(r.byID) {
		return nil
	}
	return r.byID[id]
}

// TypeNameOf returns the fully qualified type name registered for id, or
// "" if id is unknown. Used by the blueprint textual/binary codecs.
func (r *Registry) TypeNameOf(id ComponentID) string {
	info := r.infoByID(id)
	if info == nil {
		return ""
	}
	return info.typ.PkgPath() + "." + info.typ.Name()
}

// SetAny writes value (boxed as any) into chunk c at slot for component
// id, used by the blueprint package's Instantiate path where the static
// component type is not known at the call site.
func (r *Registry) SetAny(id ComponentID, c *Chunk, slot int, value any) error {
	info := r.infoByID(id)
	if info == nil {
		return NotFoundError{Subject: "component id in registry"}
	}
	return info.setAny(c, slot, value)
}

// GetAny reads chunk c's component id at slot, boxed as any, used by
// the snapshot package's serializer which has no static type for the
// component it is reading.
func (r *Registry) GetAny(id ComponentID, c *Chunk, slot int) (any, error) {
	info := r.infoByID(id)
	if info == nil {
		return nil, NotFoundError{Subject: "component id in registry"}
	}
	return info.getAny(c, slot)
}
