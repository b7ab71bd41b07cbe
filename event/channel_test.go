package event

import "testing"

func TestNewChannelInvalidCapacity(t *testing.T) {
	if _, err := NewChannel[int](0); err == nil {
		t.Fatal("NewChannel(0): error = nil, want InvalidCapacityError")
	} else if _, ok := err.(InvalidCapacityError); !ok {
		t.Errorf("NewChannel(0) error type = %T, want InvalidCapacityError", err)
	}
}

func TestChannelFIFOWithinCapacity(t *testing.T) {
	ch, _ := NewChannel[int](4)
	for i := 1; i <= 3; i++ {
		ch.Publish(i)
	}
	for i := 1; i <= 3; i++ {
		v, ok := ch.TryConsume()
		if !ok {
			t.Fatalf("TryConsume() ok = false at i=%d", i)
		}
		if v != i {
			t.Errorf("TryConsume() = %d, want %d", v, i)
		}
	}
	if _, ok := ch.TryConsume(); ok {
		t.Error("TryConsume() on drained channel: ok = true, want false")
	}
}

func TestChannelOverflowKeepsLastCapacity(t *testing.T) {
	ch, _ := NewChannel[int](3)
	for i := 1; i <= 5; i++ {
		ch.Publish(i)
	}
	got := ch.ToArray()
	want := []int{3, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("ToArray() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ToArray()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestChannelConsumeAllDrainsInOrder(t *testing.T) {
	ch, _ := NewChannel[string](4)
	ch.Publish("a")
	ch.Publish("b")
	ch.Publish("c")

	var got []string
	ch.ConsumeAll(func(s string) { got = append(got, s) })

	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ConsumeAll order[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if stats := ch.Stats(); !stats.Empty {
		t.Error("Stats().Empty = false after ConsumeAll, want true")
	}
}

func TestChannelClear(t *testing.T) {
	ch, _ := NewChannel[int](2)
	ch.Publish(1)
	ch.Clear()
	if stats := ch.Stats(); stats.Count != 0 {
		t.Errorf("Stats().Count after Clear = %d, want 0", stats.Count)
	}
}

func TestChannelStatsFullAndUtilization(t *testing.T) {
	ch, _ := NewChannel[int](2)
	ch.Publish(1)
	ch.Publish(2)
	stats := ch.Stats()
	if !stats.Full {
		t.Error("Stats().Full = false, want true")
	}
	if stats.Utilization != 1.0 {
		t.Errorf("Stats().Utilization = %v, want 1.0", stats.Utilization)
	}
}

func TestRegistryOneFrameClearing(t *testing.T) {
	r := NewRegistry(8)
	type tick struct{ N int }
	MarkOneFrame[tick](r)

	ChannelFor[tick](r).Publish(tick{N: 1})
	r.ClearOneFrameChannels()

	if _, ok := ChannelFor[tick](r).TryConsume(); ok {
		t.Error("TryConsume() after ClearOneFrameChannels = ok, want drained")
	}
}

func TestRegistryPerTypeCapacity(t *testing.T) {
	r := NewRegistry(8)
	type small struct{ N int }
	SetCapacity[small](r, 2)

	ch := ChannelFor[small](r)
	if stats := ch.Stats(); stats.Capacity != 2 {
		t.Errorf("Stats().Capacity = %d, want 2", stats.Capacity)
	}
}

func TestRegistryChannelForIsStable(t *testing.T) {
	r := NewRegistry(4)
	type ev struct{ N int }
	a := ChannelFor[ev](r)
	b := ChannelFor[ev](r)
	if a != b {
		t.Error("ChannelFor() returned distinct channels for the same type")
	}
}
