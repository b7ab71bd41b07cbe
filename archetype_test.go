package ecsrt

import "testing"

func TestArchetypeAddEntitySpillsToNewChunk(t *testing.T) {
	a := NewArchetype(EmptySignature, 2)
	for i := uint32(1); i <= 5; i++ {
		if err := a.AddEntity(NewEntity(i, 1)); err != nil {
			t.Fatalf("AddEntity() error = %v", err)
		}
	}
	if got, want := len(a.Chunks()), 3; got != want {
		t.Errorf("len(Chunks()) = %d, want %d", got, want)
	}
	if got, want := a.Count(), 5; got != want {
		t.Errorf("Count() = %d, want %d", got, want)
	}
}

func TestArchetypeAddDuplicateEntity(t *testing.T) {
	a := NewArchetype(EmptySignature, 4)
	e := NewEntity(1, 1)
	a.AddEntity(e)
	if err := a.AddEntity(e); err == nil {
		t.Fatal("AddEntity() duplicate: error = nil, want DuplicateError")
	} else if _, ok := err.(DuplicateError); !ok {
		t.Errorf("AddEntity() error type = %T, want DuplicateError", err)
	}
}

func TestArchetypeRemoveEntityReleasesEmptyChunk(t *testing.T) {
	a := NewArchetype(EmptySignature, 2)
	entities := make([]Entity, 0, 4)
	for i := uint32(1); i <= 4; i++ {
		e := NewEntity(i, 1)
		entities = append(entities, e)
		a.AddEntity(e)
	}
	if len(a.Chunks()) != 2 {
		t.Fatalf("setup: len(Chunks()) = %d, want 2", len(a.Chunks()))
	}

	if err := a.RemoveEntity(entities[2]); err != nil {
		t.Fatalf("RemoveEntity() error = %v", err)
	}
	if err := a.RemoveEntity(entities[3]); err != nil {
		t.Fatalf("RemoveEntity() error = %v", err)
	}
	if got, want := len(a.Chunks()), 1; got != want {
		t.Errorf("len(Chunks()) after draining second chunk = %d, want %d", got, want)
	}
	if got, want := a.Count(), 2; got != want {
		t.Errorf("Count() = %d, want %d", got, want)
	}
}

func TestArchetypeGetSetComponent(t *testing.T) {
	r := NewRegistry()
	posID, _ := Register[testPosition](r)
	sig := EmptySignature.WithID(posID)
	a := NewArchetype(sig, 4)

	e := NewEntity(1, 1)
	a.AddEntity(e)

	if err := SetComponent[testPosition](a, posID, e, testPosition{X: 5, Y: 6}); err != nil {
		t.Fatalf("SetComponent() error = %v", err)
	}
	got, err := GetComponent[testPosition](a, posID, e)
	if err != nil {
		t.Fatalf("GetComponent() error = %v", err)
	}
	if got.X != 5 || got.Y != 6 {
		t.Errorf("GetComponent() = %+v, want {5 6}", got)
	}

	if !HasComponent[testPosition](a, r, e) {
		t.Error("HasComponent() = false, want true")
	}
	if HasComponent[testVelocity](a, r, e) {
		t.Error("HasComponent() for absent type = true, want false")
	}
}

func TestArchetypeReserve(t *testing.T) {
	a := NewArchetype(EmptySignature, 4)
	a.AddEntity(NewEntity(1, 1))
	a.Reserve(10)

	if got, want := len(a.Chunks()), 3; got != want {
		t.Errorf("len(Chunks()) after Reserve(10) with 1 existing entity = %d, want %d", got, want)
	}
}

func TestArchetypeUtilization(t *testing.T) {
	a := NewArchetype(EmptySignature, 4)
	if got, want := a.Utilization(), 0.0; got != want {
		t.Errorf("Utilization() on empty archetype = %v, want %v", got, want)
	}
	a.AddEntity(NewEntity(1, 1))
	a.AddEntity(NewEntity(2, 1))
	if got, want := a.Utilization(), 0.5; got != want {
		t.Errorf("Utilization() = %v, want %v", got, want)
	}
}
