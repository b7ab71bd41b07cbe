package ecsrt

// copyRowFor builds the per-type row-copy trampoline a Registry stores at
// registration time (§9 "Component row copy during migration"). Because
// the type parameter is bound once, archetype migration never needs
// reflection on the hot path: it just calls the stored closure for every
// id in the intersection signature.
func copyRowFor[T any](id ComponentID) copyRow {
	return func(src, dst *Chunk, srcSlot, dstSlot int) error {
		v, err := Get[T](src, id, srcSlot)
		if err != nil {
			return err
		}
		return Set[T](dst, id, dstSlot, v)
	}
}

// zeroColumnFor builds the trampoline that ensures a chunk's column for
// this type exists (materialized, zero-valued) without reading or
// writing any particular row.
func zeroColumnFor[T any](id ComponentID) zeroColumn {
	return func(c *Chunk) error {
		_, err := Column[T](c, id)
		return err
	}
}

// setAnyFor builds the type-erased write trampoline a Registry exposes
// via SetAny, for callers (World.SetComponentAny, used by blueprint
// instantiation and snapshot restore) that only hold a component value
// as `any`.
func setAnyFor[T any](id ComponentID) setAny {
	return func(c *Chunk, slot int, value any) error {
		v, ok := value.(T)
		if !ok {
			return InvalidArgumentError{Reason: "value type does not match registered component type"}
		}
		return Set[T](c, id, slot, v)
	}
}

// getAnyFor builds the type-erased read trampoline a Registry exposes
// via GetAny, for callers (the snapshot serializer) that only need the
// value boxed as `any`.
func getAnyFor[T any](id ComponentID) getAny {
	return func(c *Chunk, slot int) (any, error) {
		return Get[T](c, id, slot)
	}
}
