package ecsrt

import "testing"

func TestChunkAddEntityUntilFull(t *testing.T) {
	sig := EmptySignature
	c := NewChunk(2, sig)

	if _, err := c.AddEntity(NewEntity(1, 1)); err != nil {
		t.Fatalf("AddEntity() error = %v", err)
	}
	if _, err := c.AddEntity(NewEntity(2, 1)); err != nil {
		t.Fatalf("AddEntity() error = %v", err)
	}
	if _, err := c.AddEntity(NewEntity(3, 1)); err == nil {
		t.Fatal("AddEntity() on full chunk: error = nil, want ChunkFullError")
	} else if _, ok := err.(ChunkFullError); !ok {
		t.Errorf("AddEntity() error type = %T, want ChunkFullError", err)
	}
}

func TestChunkColumnAccess(t *testing.T) {
	r := NewRegistry()
	posID, _ := Register[testPosition](r)
	sig := EmptySignature.WithID(posID)
	c := NewChunk(4, sig)

	slot, err := c.AddEntity(NewEntity(1, 1))
	if err != nil {
		t.Fatalf("AddEntity() error = %v", err)
	}

	if err := Set[testPosition](c, posID, slot, testPosition{X: 1, Y: 2}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := Get[testPosition](c, posID, slot)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.X != 1 || got.Y != 2 {
		t.Errorf("Get() = %+v, want {1 2}", got)
	}
}

func TestChunkColumnNotInSignature(t *testing.T) {
	r := NewRegistry()
	posID, _ := Register[testPosition](r)
	velID, _ := Register[testVelocity](r)
	sig := EmptySignature.WithID(posID)
	c := NewChunk(4, sig)

	if _, err := Column[testVelocity](c, velID); err == nil {
		t.Fatal("Column() for absent type: error = nil, want NotInSignatureError")
	} else if _, ok := err.(NotInSignatureError); !ok {
		t.Errorf("Column() error type = %T, want NotInSignatureError", err)
	}
}

func TestChunkRemoveEntitySwapsLast(t *testing.T) {
	r := NewRegistry()
	posID, _ := Register[testPosition](r)
	sig := EmptySignature.WithID(posID)
	c := NewChunk(4, sig)

	e1 := NewEntity(1, 1)
	e2 := NewEntity(2, 1)
	e3 := NewEntity(3, 1)
	s1, _ := c.AddEntity(e1)
	_, _ = c.AddEntity(e2)
	s3, _ := c.AddEntity(e3)

	Set[testPosition](c, posID, s1, testPosition{X: 1})
	Set[testPosition](c, posID, s3, testPosition{X: 3})

	if err := c.RemoveEntity(s1); err != nil {
		t.Fatalf("RemoveEntity() error = %v", err)
	}
	if c.Count() != 2 {
		t.Fatalf("Count() after remove = %d, want 2", c.Count())
	}

	got, _ := c.GetEntity(s1)
	if got != e3 {
		t.Errorf("GetEntity(0) after swap-remove = %v, want %v (last entity moved in)", got, e3)
	}
	pos, _ := Get[testPosition](c, posID, s1)
	if pos.X != 3 {
		t.Errorf("component data did not move with swapped entity: X = %v, want 3", pos.X)
	}
}

func TestChunkFind(t *testing.T) {
	c := NewChunk(4, EmptySignature)
	e1 := NewEntity(1, 1)
	c.AddEntity(e1)

	if got := c.Find(e1); got != 0 {
		t.Errorf("Find() = %d, want 0", got)
	}
	if got := c.Find(NewEntity(99, 1)); got != -1 {
		t.Errorf("Find() for absent entity = %d, want -1", got)
	}
}

func TestChunkOutOfRange(t *testing.T) {
	c := NewChunk(4, EmptySignature)
	if _, err := c.GetEntity(0); err == nil {
		t.Fatal("GetEntity() on empty chunk: error = nil, want OutOfRangeError")
	} else if _, ok := err.(OutOfRangeError); !ok {
		t.Errorf("GetEntity() error type = %T, want OutOfRangeError", err)
	}
}
