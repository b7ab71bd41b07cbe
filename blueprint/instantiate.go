package blueprint

import "github.com/bitdrifter-labs/ecsrt"

// Instantiate creates a single entity carrying every component set on
// bp, placing it directly into the archetype for bp's signature (no
// intermediate migration through the empty-signature archetype).
func Instantiate(w *ecsrt.World, bp *Blueprint) (ecsrt.Entity, error) {
	arch := w.ArchetypeFor(bp.Signature())
	e, err := w.CreateEntityInArchetype(arch)
	if err != nil {
		return ecsrt.NullEntity, err
	}
	if err := stamp(w, e, bp); err != nil {
		return ecsrt.NullEntity, err
	}
	return e, nil
}

// InstantiateBatch creates n entities from bp, reserving archetype chunk
// capacity for all n up front so the batch costs at most a handful of
// chunk allocations rather than one per entity (§4.1).
func InstantiateBatch(w *ecsrt.World, bp *Blueprint, n int) ([]ecsrt.Entity, error) {
	arch := w.ArchetypeFor(bp.Signature())
	arch.Reserve(n)

	entities, err := w.CreateEntitiesInArchetype(arch, n)
	if err != nil {
		return nil, err
	}
	for _, e := range entities {
		if err := stamp(w, e, bp); err != nil {
			return nil, err
		}
	}
	return entities, nil
}

func stamp(w *ecsrt.World, e ecsrt.Entity, bp *Blueprint) error {
	for _, en := range bp.entries {
		if err := w.SetComponentAny(e, en.id, en.value); err != nil {
			return err
		}
	}
	return nil
}
