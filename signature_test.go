package ecsrt

import "testing"

func TestSignatureWithHasID(t *testing.T) {
	r := NewRegistry()
	posID, _ := Register[testPosition](r)
	velID, _ := Register[testVelocity](r)

	sig := EmptySignature.WithID(posID)
	if !sig.HasID(posID) {
		t.Error("HasID(posID) = false, want true")
	}
	if sig.HasID(velID) {
		t.Error("HasID(velID) = true, want false")
	}
}

func TestSignatureWithoutID(t *testing.T) {
	r := NewRegistry()
	posID, _ := Register[testPosition](r)
	sig := EmptySignature.WithID(posID)
	sig = sig.WithoutID(posID)
	if sig.HasID(posID) {
		t.Error("HasID() after WithoutID = true, want false")
	}
}

func TestSignatureGenericHelpers(t *testing.T) {
	r := NewRegistry()
	sig := With[testPosition](r, EmptySignature)
	sig = With[testVelocity](r, sig)

	if !Has[testPosition](r, sig) || !Has[testVelocity](r, sig) {
		t.Error("Has() false for registered components")
	}
	if Has[testHealth](r, sig) {
		t.Error("Has() true for never-added component")
	}

	sig = Without[testPosition](r, sig)
	if Has[testPosition](r, sig) {
		t.Error("Has() true after Without")
	}
}

func TestSignatureHasAllAnyNone(t *testing.T) {
	r := NewRegistry()
	posID, _ := Register[testPosition](r)
	velID, _ := Register[testVelocity](r)
	healthID, _ := Register[testHealth](r)

	sig := EmptySignature.WithID(posID).WithID(velID)
	want := EmptySignature.WithID(posID)

	if !sig.HasAll(want) {
		t.Error("HasAll() = false, want true")
	}
	if !sig.HasAny(want) {
		t.Error("HasAny() = false, want true")
	}

	absent := EmptySignature.WithID(healthID)
	if sig.HasAll(absent) {
		t.Error("HasAll() = true, want false")
	}
	if sig.HasAny(absent) {
		t.Error("HasAny() = true, want false")
	}
	if !sig.HasNone(absent) {
		t.Error("HasNone() = false, want true")
	}
}

func TestSignatureHasAnyAgainstEmpty(t *testing.T) {
	r := NewRegistry()
	posID, _ := Register[testPosition](r)
	sig := EmptySignature.WithID(posID)
	if sig.HasAny(EmptySignature) {
		t.Error("HasAny(EmptySignature) = true, want false")
	}
}

func TestSignatureEqualsAndIsEmpty(t *testing.T) {
	r := NewRegistry()
	posID, _ := Register[testPosition](r)

	a := EmptySignature.WithID(posID)
	b := EmptySignature.WithID(posID)
	if !a.Equals(b) {
		t.Error("Equals() = false for identical masks")
	}
	if !EmptySignature.IsEmpty() {
		t.Error("IsEmpty() = false for EmptySignature")
	}
	if a.IsEmpty() {
		t.Error("IsEmpty() = true for non-empty signature")
	}
}

func TestSignatureCount(t *testing.T) {
	r := NewRegistry()
	posID, _ := Register[testPosition](r)
	velID, _ := Register[testVelocity](r)

	sig := EmptySignature.WithID(posID).WithID(velID)
	if got, want := sig.Count(), 2; got != want {
		t.Errorf("Count() = %d, want %d", got, want)
	}
}

func TestSignatureUnionIntersect(t *testing.T) {
	r := NewRegistry()
	posID, _ := Register[testPosition](r)
	velID, _ := Register[testVelocity](r)
	healthID, _ := Register[testHealth](r)

	a := EmptySignature.WithID(posID).WithID(velID)
	b := EmptySignature.WithID(velID).WithID(healthID)

	union := a.Union(b)
	if !union.HasID(posID) || !union.HasID(velID) || !union.HasID(healthID) {
		t.Error("Union() missing a bit present in either operand")
	}

	intersect := a.Intersect(b)
	if !intersect.HasID(velID) {
		t.Error("Intersect() missing shared bit")
	}
	if intersect.HasID(posID) || intersect.HasID(healthID) {
		t.Error("Intersect() contains a bit not shared by both operands")
	}
}
