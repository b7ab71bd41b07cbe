/*
Package ecsrt provides an Entity-Component-System (ECS) runtime for
interactive and simulation workloads.

ecsrt offers a performant approach to managing simulation entities through
component-based design. It's built on an archetype-based storage system
that keeps entities with the same component signature together, in
fixed-capacity columnar chunks, for optimal cache utilization.

Core Concepts:

  - Entity: a packed (id, version) handle that represents a simulated object.
  - Component: a plain value type that participates in storage only by id.
  - Chunk: a fixed-capacity columnar block holding entities and component data.
  - Archetype: the set of chunks holding every entity with one signature.
  - World: the entity allocator, archetype registry, and structural-mutation
    and query surface.
  - Query: a composable filter over archetypes and their chunks.

Basic Usage:

	// Create a world; component types register themselves on first use.
	world := ecsrt.NewWorld()

	// Create an entity and attach components.
	e, err := world.CreateEntity()
	if err != nil {
		// handle error
	}
	ecsrt.MustAddComponent(world, e, Position{X: 10, Y: 20})
	ecsrt.MustAddComponent(world, e, Velocity{X: 1, Y: 2})

	// Query entities and process them.
	r := world.Registry()
	positionID := ecsrt.MustRegister[Position](r)
	velocityID := ecsrt.MustRegister[Velocity](r)
	q := ecsrt.NewQuery()
	ecsrt.QueryWith[Position](q, r)
	ecsrt.QueryWith[Velocity](q, r)

	for view := range world.Iterate(q) {
		positions, _ := ecsrt.ViewColumn[Position](view, positionID)
		velocities, _ := ecsrt.ViewColumn[Velocity](view, velocityID)
		for i := 0; i < view.Len(); i++ {
			positions[i].X += velocities[i].X
			positions[i].Y += velocities[i].Y
		}
	}

ecsrt is the core runtime of a larger simulation/visual bridge stack, but
also works as a standalone library.
*/
package ecsrt
