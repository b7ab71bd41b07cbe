package ecsrt

import "reflect"

// columnEntry holds one component column's backing storage plus a
// type-erased swap primitive, so Chunk.RemoveEntity can swap-with-last
// across every materialized column without knowing each column's
// concrete element type.
type columnEntry struct {
	data any
	swap func(a, b int)
}

func materializeColumn[T any](capacity int) *columnEntry {
	backing := make([]T, capacity)
	entry := &columnEntry{data: backing}
	entry.swap = func(a, b int) {
		s := entry.data.([]T)
		s[a], s[b] = s[b], s[a]
	}
	return entry
}

// Chunk is a fixed-capacity columnar block: a contiguous array of Entity
// slots and one contiguous array per component type in its signature,
// lazily materialized on first access (§4.3). A Chunk is owned by exactly
// one Archetype at a time.
type Chunk struct {
	capacity  int
	count     int
	signature Signature
	entities  []Entity
	columns   map[ComponentID]*columnEntry
}

// NewChunk allocates an empty Chunk for the given signature with the
// given capacity.
func NewChunk(capacity int, signature Signature) *Chunk {
	return &Chunk{
		capacity:  capacity,
		signature: signature,
		entities:  make([]Entity, 0, capacity),
		columns:   make(map[ComponentID]*columnEntry),
	}
}

// Capacity returns the fixed entity-slot capacity of c.
func (c *Chunk) Capacity() int { return c.capacity }

// Count returns the number of occupied slots.
func (c *Chunk) Count() int { return c.count }

// Signature returns the component signature this chunk stores columns for.
func (c *Chunk) Signature() Signature { return c.signature }

// IsEmpty reports whether the chunk holds no entities.
func (c *Chunk) IsEmpty() bool { return c.count == 0 }

// IsFull reports whether the chunk is at capacity.
func (c *Chunk) IsFull() bool { return c.count >= c.capacity }

// AddEntity appends e to the first free slot. Fails with ChunkFullError
// if the chunk is already at capacity.
func (c *Chunk) AddEntity(e Entity) (int, error) {
	if c.IsFull() {
		return -1, ChunkFullError{Capacity: c.capacity}
	}
	slot := c.count
	c.entities = append(c.entities, e)
	c.count++
	return slot, nil
}

// RemoveEntity removes the entity at slot i via swap-with-last: slot i
// receives the last entity's data in every materialized column and the
// entity array, and count decrements. Fails with OutOfRangeError for an
// invalid i.
func (c *Chunk) RemoveEntity(i int) error {
	if i < 0 || i >= c.count {
		return OutOfRangeError{Index: i, Len: c.count}
	}
	last := c.count - 1
	if i != last {
		c.entities[i] = c.entities[last]
		for _, col := range c.columns {
			col.swap(i, last)
		}
	}
	c.entities = c.entities[:last]
	c.count = last
	return nil
}

// GetEntity returns the entity occupying slot i.
func (c *Chunk) GetEntity(i int) (Entity, error) {
	if i < 0 || i >= c.count {
		return NullEntity, OutOfRangeError{Index: i, Len: c.count}
	}
	return c.entities[i], nil
}

// EntitiesSpan returns a read-only view of the occupied entity slots.
func (c *Chunk) EntitiesSpan() []Entity {
	return c.entities[:c.count]
}

// Find returns the slot index of e, or -1 if e is not present. Linear
// scan; used only on rare paths per §4.3 (structural mutation via the
// World normally uses the archetype's location map instead).
func (c *Chunk) Find(e Entity) int {
	for i, got := range c.entities {
		if got == e {
			return i
		}
	}
	return -1
}

// Column materializes (on first call) the column for component id T and
// returns it as a slice of length Count(). Subsequent calls return a view
// over the same backing storage. Fails with NotInSignatureError if T is
// not part of this chunk's signature.
func Column[T any](c *Chunk, id ComponentID) ([]T, error) {
	if !c.signature.HasID(id) {
		return nil, NotInSignatureError{Component: reflect.TypeFor[T]().String()}
	}
	entry, ok := c.columns[id]
	if !ok {
		entry = materializeColumn[T](c.capacity)
		c.columns[id] = entry
	}
	return entry.data.([]T)[:c.count], nil
}

// Get returns the value of component id at slot i.
func Get[T any](c *Chunk, id ComponentID, i int) (T, error) {
	var zero T
	col, err := Column[T](c, id)
	if err != nil {
		return zero, err
	}
	if i < 0 || i >= len(col) {
		return zero, OutOfRangeError{Index: i, Len: len(col)}
	}
	return col[i], nil
}

// Set writes the value of component id at slot i.
func Set[T any](c *Chunk, id ComponentID, i int, v T) error {
	col, err := Column[T](c, id)
	if err != nil {
		return err
	}
	if i < 0 || i >= len(col) {
		return OutOfRangeError{Index: i, Len: len(col)}
	}
	col[i] = v
	return nil
}
