package ecsrt

import "github.com/TheBitDrifter/mask"

// Signature is a 64-bit bitmask over a Registry identifying which
// component types are present. Two signatures are equal iff their masks
// are equal; Signature is comparable and usable directly as a map key,
// the way the teacher keys its archetype table by a raw mask.Mask.
//
// Signature values are immutable: With/Without return a new Signature
// rather than mutating the receiver.
type Signature struct {
	bits mask.Mask
}

// EmptySignature is the signature with no components set. A freshly
// created entity always starts in the archetype keyed by EmptySignature.
var EmptySignature = Signature{}

// WithID returns a Signature with id's bit set.
func (s Signature) WithID(id ComponentID) Signature {
	if s.HasID(id) {
		return s
	}
	next := s.bits
	next.Mark(uint32(id))
	return Signature{bits: next}
}

// WithoutID returns a Signature with id's bit cleared.
func (s Signature) WithoutID(id ComponentID) Signature {
	next := s.bits
	next.Unmark(uint32(id))
	return Signature{bits: next}
}

// HasID reports whether id's bit is set.
func (s Signature) HasID(id ComponentID) bool {
	var m mask.Mask
	m.Mark(uint32(id))
	return s.bits.ContainsAll(m)
}

// With returns a Signature with T's bit set, registering T on r if it
// hasn't been seen before.
func With[T any](r *Registry, s Signature) Signature {
	return s.WithID(MustRegister[T](r))
}

// Without returns a Signature with T's bit cleared. T need not be
// registered; an unregistered type is simply absent already.
func Without[T any](r *Registry, s Signature) Signature {
	id := IDOf[T](r)
	if id == unregisteredID {
		return s
	}
	return s.WithoutID(id)
}

// Has reports whether T's bit is set in s.
func Has[T any](r *Registry, s Signature) bool {
	id := IDOf[T](r)
	if id == unregisteredID {
		return false
	}
	return s.HasID(id)
}

// HasAll reports whether s contains every bit set in other.
func (s Signature) HasAll(other Signature) bool {
	return s.bits.ContainsAll(other.bits)
}

// HasAny reports whether s contains at least one bit set in other. The
// empty signature contains no bits, so HasAny against EmptySignature is
// always false.
func (s Signature) HasAny(other Signature) bool {
	if other.IsEmpty() {
		return false
	}
	return s.bits.ContainsAny(other.bits)
}

// HasNone reports whether s shares no bits with other.
func (s Signature) HasNone(other Signature) bool {
	return s.bits.ContainsNone(other.bits)
}

// IsEmpty reports whether no bits are set.
func (s Signature) IsEmpty() bool {
	return s.bits.IsEmpty()
}

// Equals reports whether s and other have identical masks.
func (s Signature) Equals(other Signature) bool {
	return s.bits == other.bits
}

// Count returns the number of set bits. Rarely called on a hot path, so
// a linear scan over the registry's id space is acceptable.
func (s Signature) Count() int {
	n := 0
	for id := ComponentID(0); id < ComponentID(Config.MaxComponentTypes); id++ {
		if s.HasID(id) {
			n++
		}
	}
	return n
}

// Union returns a Signature containing every bit set in either s or
// other.
func (s Signature) Union(other Signature) Signature {
	result := s
	for id := ComponentID(0); id < ComponentID(Config.MaxComponentTypes); id++ {
		if other.HasID(id) {
			result = result.WithID(id)
		}
	}
	return result
}

// Bits packs s into a plain uint64, one bit per component id, for
// serialization formats (the snapshot writer) that need a stable wire
// representation independent of the mask package's internal layout.
func (s Signature) Bits() uint64 {
	var bits uint64
	for id := ComponentID(0); id < ComponentID(Config.MaxComponentTypes); id++ {
		if s.HasID(id) {
			bits |= 1 << uint(id)
		}
	}
	return bits
}

// SignatureFromBits reconstructs a Signature from the wire
// representation produced by Bits.
func SignatureFromBits(bits uint64) Signature {
	sig := EmptySignature
	for id := ComponentID(0); id < ComponentID(Config.MaxComponentTypes); id++ {
		if bits&(1<<uint(id)) != 0 {
			sig = sig.WithID(id)
		}
	}
	return sig
}

// Intersect returns a Signature containing only the bits set in both s
// and other. Used by archetype migration to find the set of components
// preserved bit-exactly across a move (§4.5).
func (s Signature) Intersect(other Signature) Signature {
	var result Signature
	for id := ComponentID(0); id < ComponentID(Config.MaxComponentTypes); id++ {
		if s.HasID(id) && other.HasID(id) {
			result = result.WithID(id)
		}
	}
	return result
}
