package event

import (
	"reflect"
	"sync"
)

// clearer is the type-erased surface a Registry needs to clear a
// channel without knowing its element type. *Channel[T] satisfies this
// for every T.
type clearer interface {
	Clear()
}

// Registry is a type-keyed collection of event channels, created
// lazily on first access, with support for flagging a type's channel as
// "one-frame" so the owning World can clear it at the frame boundary
// (§3 "Event Channel", §4.8).
type Registry struct {
	mu              sync.Mutex
	channels        map[reflect.Type]any
	capacities      map[reflect.Type]int
	oneFrame        map[reflect.Type]bool
	defaultCapacity int
}

// NewRegistry constructs a Registry whose channels default to
// defaultCapacity when no per-type capacity was configured first.
func NewRegistry(defaultCapacity int) *Registry {
	return &Registry{
		channels:        make(map[reflect.Type]any),
		capacities:      make(map[reflect.Type]int),
		oneFrame:        make(map[reflect.Type]bool),
		defaultCapacity: defaultCapacity,
	}
}

// SetCapacity fixes the capacity used for T's channel. Must be called
// before the first ChannelFor[T] call; it has no effect afterward since
// the channel is already constructed.
func SetCapacity[T any](r *Registry, capacity int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.capacities[reflect.TypeFor[T]()] = capacity
}

// MarkOneFrame flags T's channel for clearing at every frame boundary.
func MarkOneFrame[T any](r *Registry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.oneFrame[reflect.TypeFor[T]()] = true
}

// IsOneFrame reports whether T was flagged via MarkOneFrame.
func IsOneFrame[T any](r *Registry) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.oneFrame[reflect.TypeFor[T]()]
}

// ChannelFor returns T's channel, creating it (per-type capacity, or the
// registry default) on first call.
func ChannelFor[T any](r *Registry) *Channel[T] {
	t := reflect.TypeFor[T]()
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.channels[t]; ok {
		return existing.(*Channel[T])
	}
	capacity, ok := r.capacities[t]
	if !ok {
		capacity = r.defaultCapacity
	}
	ch, err := NewChannel[T](capacity)
	if err != nil {
		// Only reachable if a caller configured a non-positive
		// capacity, either via SetCapacity or as the default passed to
		// NewRegistry.
		panic(err)
	}
	r.channels[t] = ch
	return ch
}

// ClearOneFrameChannels clears every channel flagged one-frame. Called
// by World.Step at the explicit frame boundary (§4.8, §9).
func (r *Registry) ClearOneFrameChannels() {
	r.mu.Lock()
	flagged := make([]reflect.Type, 0, len(r.oneFrame))
	for t, on := range r.oneFrame {
		if on {
			flagged = append(flagged, t)
		}
	}
	chans := make([]clearer, 0, len(flagged))
	for _, t := range flagged {
		if ch, ok := r.channels[t]; ok {
			if c, ok := ch.(clearer); ok {
				chans = append(chans, c)
			}
		}
	}
	r.mu.Unlock()

	for _, c := range chans {
		c.Clear()
	}
}
