package ecsrt

import "testing"

func TestChangeTrackerMarkAndHasChanged(t *testing.T) {
	r := NewRegistry()
	posID, _ := Register[testPosition](r)
	tracker := NewChangeTracker()
	e := NewEntity(1, 1)

	if tracker.HasChanged(e, posID) {
		t.Error("HasChanged() before any mark = true, want false")
	}
	tracker.MarkChanged(e, posID)
	if !tracker.HasChanged(e, posID) {
		t.Error("HasChanged() after MarkChanged = false, want true")
	}
}

func TestChangeTrackerAdvanceFrameClearsDirty(t *testing.T) {
	r := NewRegistry()
	posID, _ := Register[testPosition](r)
	tracker := NewChangeTracker()
	e := NewEntity(1, 1)
	tracker.MarkChanged(e, posID)

	frameBefore := tracker.Frame()
	tracker.AdvanceFrame()

	if tracker.HasChanged(e, posID) {
		t.Error("HasChanged() after AdvanceFrame = true, want false")
	}
	if tracker.Frame() != frameBefore+1 {
		t.Errorf("Frame() = %d, want %d", tracker.Frame(), frameBefore+1)
	}
}

func TestChangeTrackerForget(t *testing.T) {
	r := NewRegistry()
	posID, _ := Register[testPosition](r)
	tracker := NewChangeTracker()
	e := NewEntity(1, 1)
	tracker.MarkChanged(e, posID)
	tracker.Forget(e)

	if tracker.HasChanged(e, posID) {
		t.Error("HasChanged() after Forget = true, want false")
	}
}

func TestChangeTrackerHasChangedAny(t *testing.T) {
	r := NewRegistry()
	posID, _ := Register[testPosition](r)
	velID, _ := Register[testVelocity](r)
	tracker := NewChangeTracker()
	e := NewEntity(1, 1)
	tracker.MarkChanged(e, posID)

	mask := EmptySignature.WithID(posID).WithID(velID)
	if !tracker.HasChangedAny(e, mask) {
		t.Error("HasChangedAny() = false, want true")
	}

	other := NewEntity(2, 1)
	if tracker.HasChangedAny(other, mask) {
		t.Error("HasChangedAny() for untouched entity = true, want false")
	}
}
