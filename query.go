package ecsrt

import "iter"

// QueryBuilder accumulates With/Without/Changed/Optional filters over
// component ids and resolves, against a World's archetype list, which
// chunks a given Iterate call should visit (§4.6).
//
// A QueryBuilder is cheap to construct and re-use across frames; it
// holds no reference to any particular World.
type QueryBuilder struct {
	with             Signature
	without          Signature
	changed          []ComponentID
	changedSignature Signature
	optional         []ComponentID
}

// NewQuery constructs an empty QueryBuilder matching every archetype.
func NewQuery() *QueryBuilder {
	return &QueryBuilder{}
}

// WithID requires id's component to be present.
func (q *QueryBuilder) WithID(id ComponentID) *QueryBuilder {
	q.with = q.with.WithID(id)
	return q
}

// WithoutID excludes archetypes carrying id's component.
func (q *QueryBuilder) WithoutID(id ComponentID) *QueryBuilder {
	q.without = q.without.WithID(id)
	return q
}

// ChangedID additionally requires id's component to have been written
// (via AddComponent, World.SetComponentAny, or ViewSetTracked) during the
// current frame, on a per-entity basis (§4.6, §4.8). A changed filter
// also implies presence, matching QueryWith's semantics for the same id.
func (q *QueryBuilder) ChangedID(id ComponentID) *QueryBuilder {
	q.with = q.with.WithID(id)
	q.changed = append(q.changed, id)
	q.changedSignature = q.changedSignature.WithID(id)
	return q
}

// OptionalID marks id as eligible to read via ViewOptionalGet without
// being required for archetype membership (§4.6 "optional component
// access"). Unlike WithID, an optional id never excludes an archetype
// that lacks it; ViewOptionalGet reports its absence per chunk instead.
func (q *QueryBuilder) OptionalID(id ComponentID) *QueryBuilder {
	q.optional = append(q.optional, id)
	return q
}

// Optional returns the component ids registered as optional on q, in
// registration order.
func (q *QueryBuilder) Optional() []ComponentID {
	return q.optional
}

// QueryWith requires T's component, registering T on r if unseen.
func QueryWith[T any](q *QueryBuilder, r *Registry) *QueryBuilder {
	return q.WithID(MustRegister[T](r))
}

// QueryWithout excludes archetypes carrying T.
func QueryWithout[T any](q *QueryBuilder, r *Registry) *QueryBuilder {
	id := IDOf[T](r)
	if id == unregisteredID {
		return q
	}
	return q.WithoutID(id)
}

// QueryChanged additionally requires T to have changed this frame.
func QueryChanged[T any](q *QueryBuilder, r *Registry) *QueryBuilder {
	return q.ChangedID(MustRegister[T](r))
}

// QueryOptional marks T as optionally readable in matched chunks.
func QueryOptional[T any](q *QueryBuilder, r *Registry) *QueryBuilder {
	return q.OptionalID(MustRegister[T](r))
}

func (q *QueryBuilder) matches(sig Signature) bool {
	if !sig.HasAll(q.with) {
		return false
	}
	if !q.without.IsEmpty() && sig.HasAny(q.without) {
		return false
	}
	return true
}

// ChunkView is a read/write window over one chunk's rows matched by a
// query. When the query had no Changed filter, indices is nil and the
// view spans every occupied slot in the chunk; otherwise indices holds
// the filtered slot list in ascending order (§4.6).
type ChunkView struct {
	chunk   *Chunk
	indices []int
}

// Len returns the number of rows visible through this view.
func (v *ChunkView) Len() int {
	if v.indices != nil {
		return len(v.indices)
	}
	return v.chunk.Count()
}

func (v *ChunkView) resolve(i int) int {
	if v.indices != nil {
		return v.indices[i]
	}
	return i
}

// Entity returns the entity at view-relative row i.
func (v *ChunkView) Entity(i int) (Entity, error) {
	return v.chunk.GetEntity(v.resolve(i))
}

// ViewColumn materializes component T's column on the view's underlying
// chunk and returns it unfiltered. Callers iterating a filtered view
// must index it through ViewGet/ViewSet or resolve row indices
// themselves via Entity-based lookups; ViewColumn is for queries with no
// Changed filter, where view-relative and chunk-relative indices match.
func ViewColumn[T any](v *ChunkView, id ComponentID) ([]T, error) {
	return Column[T](v.chunk, id)
}

// ViewGet reads component T at view-relative row i.
func ViewGet[T any](v *ChunkView, id ComponentID, i int) (T, error) {
	return Get[T](v.chunk, id, v.resolve(i))
}

// ViewSet writes component T at view-relative row i.
func ViewSet[T any](v *ChunkView, id ComponentID, i int) func(T) error {
	slot := v.resolve(i)
	chunk := v.chunk
	return func(val T) error {
		return Set[T](chunk, id, slot, val)
	}
}

// ViewSetTracked writes component T at view-relative row i and marks it
// changed on w's ChangeTracker, the same as AddComponent/SetComponentAny
// do outside iteration. Systems that mutate components in place through a
// ChunkView (the only mutation iteration permits, per Iterate's docs)
// should use this instead of ViewSet whenever downstream Changed queries
// must observe the write this frame.
func ViewSetTracked[T any](w *World, v *ChunkView, id ComponentID, i int) func(T) error {
	slot := v.resolve(i)
	chunk := v.chunk
	return func(val T) error {
		if err := Set[T](chunk, id, slot, val); err != nil {
			return err
		}
		e, err := chunk.GetEntity(slot)
		if err != nil {
			return err
		}
		w.tracker.MarkChanged(e, id)
		return nil
	}
}

// ViewOptionalGet reads component T at view-relative row i, reporting ok
// = false instead of an error when the underlying chunk's archetype
// doesn't carry T at all. Intended for ids declared via
// QueryBuilder.OptionalID/QueryOptional, whose presence varies across the
// archetypes a query matches; ViewGet's NotInSignatureError is the right
// tool for a required id, since that case is a programmer error, not a
// per-chunk absence to branch on.
func ViewOptionalGet[T any](v *ChunkView, id ComponentID, i int) (T, bool) {
	col, err := Column[T](v.chunk, id)
	if err != nil {
		var zero T
		return zero, false
	}
	slot := v.resolve(i)
	if slot < 0 || slot >= len(col) {
		var zero T
		return zero, false
	}
	return col[slot], true
}

// Iterate walks every archetype matching q, in archetype registration
// order, yielding one ChunkView per non-empty chunk (§4.6, §8 property
// 9: registration-order traversal is deterministic run to run for a
// fixed sequence of structural operations).
//
// Structural mutation (CreateEntity/DestroyEntity/AddComponent/
// RemoveComponent) is rejected with StateViolationError for the
// duration of the walk (§7, §8 property 8); read-only access and
// SetComponent on the in-place value are safe.
func (w *World) Iterate(q *QueryBuilder) iter.Seq[*ChunkView] {
	return func(yield func(*ChunkView) bool) {
		w.iterating++
		defer func() { w.iterating-- }()

		for _, arch := range w.archetypes {
			if !q.matches(arch.signature) {
				continue
			}
			for _, chunk := range arch.chunks {
				if chunk.IsEmpty() {
					continue
				}
				view := w.buildView(chunk, q)
				if view.Len() == 0 {
					continue
				}
				if !yield(view) {
					return
				}
			}
		}
	}
}

func (w *World) buildView(chunk *Chunk, q *QueryBuilder) *ChunkView {
	if len(q.changed) == 0 {
		return &ChunkView{chunk: chunk}
	}

	w.scratchIndices = w.scratchIndices[:0]
	for i := 0; i < chunk.Count(); i++ {
		e, err := chunk.GetEntity(i)
		if err != nil {
			continue
		}
		if w.tracker.HasChangedAny(e, q.changedSignature) {
			w.scratchIndices = append(w.scratchIndices, i)
		}
	}
	owned := make([]int, len(w.scratchIndices))
	copy(owned, w.scratchIndices)
	return &ChunkView{chunk: chunk, indices: owned}
}
