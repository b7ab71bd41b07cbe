package ecsrt

// archetypeLocation pinpoints an entity's row within an archetype's chunk
// list.
type archetypeLocation struct {
	chunkIndex int
	slot       int
}

// Archetype is the collection of chunks holding every entity that shares
// one component signature, plus the entity -> (chunk, slot) location map
// that lets structural mutation resolve a row in O(1) (§4.4).
type Archetype struct {
	signature Signature
	chunks    []*Chunk
	location  map[Entity]archetypeLocation
	capacity  int
}

// NewArchetype creates an empty Archetype for signature with the given
// per-chunk capacity.
func NewArchetype(signature Signature, chunkCapacity int) *Archetype {
	return &Archetype{
		signature: signature,
		location:  make(map[Entity]archetypeLocation),
		capacity:  chunkCapacity,
	}
}

// Signature returns the component signature every chunk in this
// archetype stores columns for.
func (a *Archetype) Signature() Signature { return a.signature }

// Contains reports whether e currently resides in this archetype.
func (a *Archetype) Contains(e Entity) bool {
	_, ok := a.location[e]
	return ok
}

// Count returns the total number of entities across all chunks.
func (a *Archetype) Count() int {
	return len(a.location)
}

// Chunks returns the ordered chunk list. Callers must not mutate it.
func (a *Archetype) Chunks() []*Chunk { return a.chunks }

// AddEntity places e in the first chunk with room, allocating a new
// tail chunk if every existing chunk is full. "First chunk with space"
// is deterministic: lowest index (§4.4). Fails with DuplicateError if e
// is already present.
func (a *Archetype) AddEntity(e Entity) error {
	if a.Contains(e) {
		return DuplicateError{Subject: "entity " + e.String() + " already in archetype"}
	}
	_, _, err := a.addEntityRow(e)
	return err
}

// addEntityRow is AddEntity's implementation, additionally returning the
// chunk and slot the entity landed in so migration can copy columns into
// it directly.
func (a *Archetype) addEntityRow(e Entity) (*Chunk, int, error) {
	for ci, chunk := range a.chunks {
		if !chunk.IsFull() {
			slot, err := chunk.AddEntity(e)
			if err != nil {
				return nil, -1, err
			}
			a.location[e] = archetypeLocation{chunkIndex: ci, slot: slot}
			return chunk, slot, nil
		}
	}
	chunk := NewChunk(a.capacity, a.signature)
	slot, err := chunk.AddEntity(e)
	if err != nil {
		return nil, -1, err
	}
	a.chunks = append(a.chunks, chunk)
	a.location[e] = archetypeLocation{chunkIndex: len(a.chunks) - 1, slot: slot}
	return chunk, slot, nil
}

// Reserve ensures this archetype can accept n additional entities
// without allocating a new chunk per entity: it appends however many
// full tail chunks are needed up front, accounting for existing
// vacancies. Used by batch instantiation (§6) so that creating many
// entities from one blueprint costs at most a handful of chunk
// allocations rather than one destination-chunk check per entity.
func (a *Archetype) Reserve(n int) {
	needed := n
	for _, c := range a.chunks {
		if needed <= 0 {
			return
		}
		free := c.Capacity() - c.Count()
		if free > needed {
			free = needed
		}
		needed -= free
	}
	for needed > 0 {
		c := NewChunk(a.capacity, a.signature)
		a.chunks = append(a.chunks, c)
		needed -= a.capacity
	}
}

// RemoveEntity removes e from the archetype. The chunk performs a
// swap-with-last removal; if that swap moved a different entity into e's
// old slot, that entity's location entry is rewritten to match. A chunk
// left empty is released unless it is the archetype's only chunk, and
// every entity in a chunk whose index shifted as a result has its
// location rewritten (§4.4).
func (a *Archetype) RemoveEntity(e Entity) error {
	loc, ok := a.location[e]
	if !ok {
		return NotFoundError{Subject: "entity " + e.String() + " in archetype"}
	}
	chunk := a.chunks[loc.chunkIndex]

	lastSlot := chunk.Count() - 1
	var movedEntity Entity
	movedExists := loc.slot < lastSlot
	if movedExists {
		movedEntity, _ = chunk.GetEntity(lastSlot)
	}

	if err := chunk.RemoveEntity(loc.slot); err != nil {
		return err
	}
	delete(a.location, e)

	if movedExists {
		a.location[movedEntity] = archetypeLocation{chunkIndex: loc.chunkIndex, slot: loc.slot}
	}

	if chunk.IsEmpty() && len(a.chunks) > 1 {
		a.releaseChunk(loc.chunkIndex)
	}
	return nil
}

// releaseChunk drops an empty chunk and rewrites the location of every
// entity in chunks whose index shifts as a result.
func (a *Archetype) releaseChunk(index int) {
	a.chunks = append(a.chunks[:index], a.chunks[index+1:]...)
	for e, loc := range a.location {
		if loc.chunkIndex > index {
			a.location[e] = archetypeLocation{chunkIndex: loc.chunkIndex - 1, slot: loc.slot}
		}
	}
}

// HasComponent reports whether the archetype's signature carries T and e
// is present.
func HasComponent[T any](a *Archetype, r *Registry, e Entity) bool {
	id := IDOf[T](r)
	if id == unregisteredID {
		return false
	}
	return a.signature.HasID(id) && a.Contains(e)
}

// GetComponent resolves e's location and returns its component T.
func GetComponent[T any](a *Archetype, id ComponentID, e Entity) (T, error) {
	var zero T
	loc, ok := a.location[e]
	if !ok {
		return zero, NotFoundError{Subject: "entity " + e.String() + " in archetype"}
	}
	return Get[T](a.chunks[loc.chunkIndex], id, loc.slot)
}

// SetComponent resolves e's location and writes its component T.
func SetComponent[T any](a *Archetype, id ComponentID, e Entity, v T) error {
	loc, ok := a.location[e]
	if !ok {
		return NotFoundError{Subject: "entity " + e.String() + " in archetype"}
	}
	return Set[T](a.chunks[loc.chunkIndex], id, loc.slot, v)
}

// Utilization returns the fraction of total chunk capacity in use.
func (a *Archetype) Utilization() float64 {
	if len(a.chunks) == 0 {
		return 0
	}
	return float64(a.Count()) / float64(len(a.chunks)*a.capacity)
}

// RemoveEmptyChunks releases every empty chunk that isn't the sole
// remaining chunk, rewriting locations as needed. Returns the number of
// chunks released. This is the interface-level defragmentation hook
// named in §1/§9; it only ever drops fully empty chunks, it does not
// rebalance partially-filled ones.
func (a *Archetype) RemoveEmptyChunks() int {
	released := 0
	for i := len(a.chunks) - 1; i >= 0; i-- {
		if len(a.chunks) <= 1 {
			break
		}
		if a.chunks[i].IsEmpty() {
			a.releaseChunk(i)
			released++
		}
	}
	return released
}

// locationOf exposes an entity's (chunk, slot) pair for the query engine
// and for entity-relative helpers built on top of the archetype.
func (a *Archetype) locationOf(e Entity) (archetypeLocation, bool) {
	loc, ok := a.location[e]
	return loc, ok
}
