package ecsrt

import "fmt"

// NotFoundError reports that an entity, component, or named resource does
// not exist where one was expected.
type NotFoundError struct {
	Subject string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("not found: %s", e.Subject)
}

// DuplicateError reports that an entity or named resource already exists
// where a unique one was expected.
type DuplicateError struct {
	Subject string
}

func (e DuplicateError) Error() string {
	return fmt.Sprintf("duplicate: %s", e.Subject)
}

// OutOfRangeError reports an invalid chunk slot index.
type OutOfRangeError struct {
	Index, Len int
}

func (e OutOfRangeError) Error() string {
	return fmt.Sprintf("index %d out of range [0,%d)", e.Index, e.Len)
}

// ChunkFullError reports an attempt to add an entity to a chunk at capacity.
type ChunkFullError struct {
	Capacity int
}

func (e ChunkFullError) Error() string {
	return fmt.Sprintf("chunk is full at capacity %d", e.Capacity)
}

// NotInSignatureError reports a column access for a component absent from
// a chunk or archetype's signature.
type NotInSignatureError struct {
	Component string
}

func (e NotInSignatureError) Error() string {
	return fmt.Sprintf("component %s is not in this signature", e.Component)
}

// CapacityExceededError reports that a hard capacity limit was exceeded,
// e.g. the 64 component-type registry slots. A non-positive event channel
// capacity is reported by the event package's InvalidCapacityError
// instead.
type CapacityExceededError struct {
	Reason string
}

func (e CapacityExceededError) Error() string {
	return fmt.Sprintf("capacity exceeded: %s", e.Reason)
}

// InvalidArgumentError reports a malformed argument, such as a
// type-erased component value whose dynamic type does not match the
// registered component type.
type InvalidArgumentError struct {
	Reason string
}

func (e InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument: %s", e.Reason)
}

// StateViolationError reports a structural mutation attempted while a
// query iterator held a view over the world.
type StateViolationError struct {
	Reason string
}

func (e StateViolationError) Error() string {
	return fmt.Sprintf("state violation: %s", e.Reason)
}

// UnsupportedVersionError reports a serialized payload whose version byte
// this build does not understand.
type UnsupportedVersionError struct {
	Got, Want byte
}

func (e UnsupportedVersionError) Error() string {
	return fmt.Sprintf("unsupported version: got %d, want %d", e.Got, e.Want)
}

// MalformedPayloadError reports a structurally invalid serialized payload.
type MalformedPayloadError struct {
	Reason string
}

func (e MalformedPayloadError) Error() string {
	return fmt.Sprintf("malformed payload: %s", e.Reason)
}
