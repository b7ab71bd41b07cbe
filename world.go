package ecsrt

import (
	"github.com/TheBitDrifter/bark"
	"github.com/bitdrifter-labs/ecsrt/event"
	"github.com/bitdrifter-labs/ecsrt/scheduler"
)

// World owns the entity allocator, the archetype registry, the
// structural-mutation and query surface, the change tracker, the
// per-type event channels, and the system scheduler (§3 "World").
//
// A newly created entity resides in the empty-signature archetype.
type World struct {
	registry      *Registry
	chunkCapacity int

	archetypes      []*Archetype // registration order (§5)
	archetypesBySig map[Signature]*Archetype

	entityArchetype map[Entity]*Archetype

	nextID      uint32
	freeIDs     []uint32
	lastVersion map[uint32]uint32

	tracker   *ChangeTracker
	events    *event.Registry
	scheduler *scheduler.Scheduler[*World]

	iterating      int
	scratchIndices []int
}

// NewWorld constructs a World using Config's default chunk and event
// channel capacities.
func NewWorld() *World {
	return NewWorldWithCapacity(Config.DefaultChunkCapacity)
}

// NewWorldWithCapacity constructs a World whose archetypes allocate
// chunks of the given capacity.
func NewWorldWithCapacity(chunkCapacity int) *World {
	w := &World{
		registry:        NewRegistry(),
		chunkCapacity:   chunkCapacity,
		archetypesBySig: make(map[Signature]*Archetype),
		entityArchetype: make(map[Entity]*Archetype),
		lastVersion:     make(map[uint32]uint32),
		tracker:         NewChangeTracker(),
		events:          event.NewRegistry(Config.DefaultEventCapacity),
		scheduler:       scheduler.New[*World](),
	}
	return w
}

// Registry returns the World's owned component type registry.
func (w *World) Registry() *Registry { return w.registry }

// Tracker returns the World's change tracker.
func (w *World) Tracker() *ChangeTracker { return w.tracker }

// Events returns the World's event channel registry.
func (w *World) Events() *event.Registry { return w.events }

// Scheduler returns the World's system scheduler.
func (w *World) Scheduler() *scheduler.Scheduler[*World] { return w.scheduler }

// RegisterSystem appends sys to the scheduler in arbitrary order;
// resolved execution order is computed lazily at the next Step/Tick.
func (w *World) RegisterSystem(sys scheduler.System[*World]) {
	w.scheduler.Register(sys)
}

// ArchetypeFor returns the archetype for sig, creating it (in
// registration order) if it doesn't exist yet.
func (w *World) ArchetypeFor(sig Signature) *Archetype {
	return w.archetypeFor(sig)
}

func (w *World) archetypeFor(sig Signature) *Archetype {
	if a, ok := w.archetypesBySig[sig]; ok {
		return a
	}
	a := NewArchetype(sig, w.chunkCapacity)
	w.archetypesBySig[sig] = a
	w.archetypes = append(w.archetypes, a)
	return a
}

// Archetypes returns every archetype in registration order. Callers must
// not mutate the returned slice.
func (w *World) Archetypes() []*Archetype { return w.archetypes }

// BeginIterationLock increments the world's structural-mutation guard,
// used by external collaborators (the bridge package's IntentProcessor)
// that read the world across a callback without holding a query
// iterator of their own.
func (w *World) BeginIterationLock() { w.iterating++ }

// EndIterationLock releases a lock acquired via BeginIterationLock.
func (w *World) EndIterationLock() { w.iterating-- }

func (w *World) checkMutationAllowed() error {
	if w.iterating > 0 {
		return StateViolationError{Reason: "structural mutation attempted during query iteration"}
	}
	return nil
}

// CreateEntity allocates a fresh entity id (recycled from the free
// queue if one is available, with a strictly greater version than any
// previously issued for that id) and places it in the empty-signature
// archetype.
func (w *World) CreateEntity() (Entity, error) {
	if err := w.checkMutationAllowed(); err != nil {
		return NullEntity, err
	}
	return w.createEntityIn(w.archetypeFor(EmptySignature))
}

// CreateEntityInArchetype allocates a fresh entity id directly into
// arch, skipping the empty-signature archetype. Used by the blueprint
// package so instantiation costs one archetype placement rather than an
// allocation plus N migrations.
func (w *World) CreateEntityInArchetype(arch *Archetype) (Entity, error) {
	if err := w.checkMutationAllowed(); err != nil {
		return NullEntity, err
	}
	return w.createEntityIn(arch)
}

// CreateEntitiesInArchetype allocates n fresh entities directly into
// arch. Callers should Reserve(n) on arch first so this doesn't force a
// chunk allocation per entity.
func (w *World) CreateEntitiesInArchetype(arch *Archetype, n int) ([]Entity, error) {
	if err := w.checkMutationAllowed(); err != nil {
		return nil, err
	}
	out := make([]Entity, n)
	for i := 0; i < n; i++ {
		e, err := w.createEntityIn(arch)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

func (w *World) createEntityIn(arch *Archetype) (Entity, error) {
	var id, version uint32
	if n := len(w.freeIDs); n > 0 {
		id = w.freeIDs[n-1]
		w.freeIDs = w.freeIDs[:n-1]
		version = w.lastVersion[id] + 1
	} else {
		w.nextID++
		id = w.nextID
		version = 1
	}
	w.lastVersion[id] = version
	e := NewEntity(id, version)
	if err := arch.AddEntity(e); err != nil {
		return NullEntity, err
	}
	w.entityArchetype[e] = arch
	return e, nil
}

// DestroyEntity removes e from its archetype, returns its id to the free
// queue, and forgets it in the change tracker (§4.5).
func (w *World) DestroyEntity(e Entity) error {
	if err := w.checkMutationAllowed(); err != nil {
		return err
	}
	arch, ok := w.entityArchetype[e]
	if !ok {
		return NotFoundError{Subject: "entity " + e.String()}
	}
	if err := arch.RemoveEntity(e); err != nil {
		return err
	}
	delete(w.entityArchetype, e)
	w.tracker.Forget(e)
	w.freeIDs = append(w.freeIDs, e.ID())
	return nil
}

// HasComponentOf reports whether entity e carries component T.
func HasComponentOf[T any](w *World, e Entity) bool {
	arch, ok := w.entityArchetype[e]
	if !ok {
		return false
	}
	return HasComponent[T](arch, w.registry, e)
}

// GetComponentOf reads entity e's component T.
func GetComponentOf[T any](w *World, e Entity) (T, error) {
	var zero T
	arch, ok := w.entityArchetype[e]
	if !ok {
		return zero, NotFoundError{Subject: "entity " + e.String()}
	}
	id := IDOf[T](w.registry)
	if id == unregisteredID || !arch.signature.HasID(id) {
		return zero, NotFoundError{Subject: "component on entity " + e.String()}
	}
	return GetComponent[T](arch, id, e)
}

// AddComponent attaches (or, if already present, overwrites) component T
// on e, migrating e to the archetype for S.With(T) when T is new
// (§4.5). All components in the signature intersection are preserved
// bit-exactly across the move.
func AddComponent[T any](w *World, e Entity, value T) error {
	if err := w.checkMutationAllowed(); err != nil {
		return err
	}
	arch, ok := w.entityArchetype[e]
	if !ok {
		return NotFoundError{Subject: "entity " + e.String()}
	}
	id := MustRegister[T](w.registry)
	if arch.signature.HasID(id) {
		if err := SetComponent[T](arch, id, e, value); err != nil {
			return err
		}
		w.tracker.MarkChanged(e, id)
		return nil
	}

	newSig := arch.signature.WithID(id)
	dstArch, err := w.migrate(e, arch, newSig)
	if err != nil {
		return err
	}
	loc, _ := dstArch.locationOf(e)
	if err := Set[T](dstArch.chunks[loc.chunkIndex], id, loc.slot, value); err != nil {
		return err
	}
	w.tracker.MarkChanged(e, id)
	return nil
}

// MustAddComponent is AddComponent, panicking (with a bark trace) on
// failure. Convenient at setup time when the error is a programmer
// mistake (unknown entity) rather than a condition to recover from.
func MustAddComponent[T any](w *World, e Entity, value T) {
	if err := AddComponent[T](w, e, value); err != nil {
		panic(bark.AddTrace(err))
	}
}

// RemoveComponent detaches component T from e, migrating e to the
// archetype for S.Without(T). No-op if T is not present (§4.5).
func RemoveComponent[T any](w *World, e Entity) error {
	if err := w.checkMutationAllowed(); err != nil {
		return err
	}
	arch, ok := w.entityArchetype[e]
	if !ok {
		return NotFoundError{Subject: "entity " + e.String()}
	}
	id := IDOf[T](w.registry)
	if id == unregisteredID || !arch.signature.HasID(id) {
		return nil
	}
	newSig := arch.signature.WithoutID(id)
	_, err := w.migrate(e, arch, newSig)
	return err
}

// migrate moves e's row from srcArch to the archetype for newSig,
// preserving every component in the intersection of the two signatures
// via the registry's per-type copyRow trampolines (§9 "Component row
// copy during migration"). Ordering follows §4.5: reserve destination
// slot -> copy shared columns -> remove from source (possibly swapping
// the source-tail entity) -> update both location maps.
func (w *World) migrate(e Entity, srcArch *Archetype, newSig Signature) (*Archetype, error) {
	srcLoc, ok := srcArch.locationOf(e)
	if !ok {
		return nil, NotFoundError{Subject: "entity " + e.String() + " in archetype"}
	}
	srcChunk := srcArch.chunks[srcLoc.chunkIndex]

	dstArch := w.archetypeFor(newSig)
	dstChunk, dstSlot, err := dstArch.addEntityRow(e)
	if err != nil {
		return nil, err
	}

	shared := srcArch.signature.Intersect(newSig)
	for id := ComponentID(0); id < ComponentID(Config.MaxComponentTypes); id++ {
		if !shared.HasID(id) {
			continue
		}
		info := w.registry.infoByID(id)
		if info == nil {
			continue
		}
		if err := info.copyRow(srcChunk, dstChunk, srcLoc.slot, dstSlot); err != nil {
			dstArch.RemoveEntity(e)
			return nil, err
		}
	}

	if err := srcArch.RemoveEntity(e); err != nil {
		return nil, err
	}
	w.entityArchetype[e] = dstArch
	return dstArch, nil
}

// SetComponentAny writes value (boxed as any) into e's component id,
// used by the blueprint package's Instantiate path where the concrete
// component type isn't known statically at the call site.
func (w *World) SetComponentAny(e Entity, id ComponentID, value any) error {
	arch, ok := w.entityArchetype[e]
	if !ok {
		return NotFoundError{Subject: "entity " + e.String()}
	}
	loc, ok := arch.locationOf(e)
	if !ok {
		return NotFoundError{Subject: "entity " + e.String() + " in archetype"}
	}
	if err := w.registry.SetAny(id, arch.chunks[loc.chunkIndex], loc.slot, value); err != nil {
		return err
	}
	w.tracker.MarkChanged(e, id)
	return nil
}

// EventsFor returns the World's channel for event type T, creating it
// (with its configured or default capacity) on first access (§4.8
// "created on first events<T>() call").
func EventsFor[T any](w *World) *event.Channel[T] {
	return event.ChannelFor[T](w.events)
}

// PublishEvent publishes ev on T's channel.
func PublishEvent[T any](w *World, ev T) {
	EventsFor[T](w).Publish(ev)
}

// MarkOneFrameEvents flags T's channel to be cleared by Step at every
// frame boundary, regardless of whether it was drained (§4.8).
func MarkOneFrameEvents[T any](w *World) {
	event.MarkOneFrame[T](w.events)
}

// Step runs one simulation frame: executes every registered system in
// resolved (phase, order, insertion) order, clears every one-frame
// event channel, then advances the change tracker (§9 "Mixing of
// frame-boundary responsibilities", resolved as a single ordered call).
func (w *World) Step(dt float32) {
	w.scheduler.Tick(w, dt)
	w.events.ClearOneFrameChannels()
	w.tracker.AdvanceFrame()
}
