// Package bridge connects the simulation World to an external
// presentation layer (a renderer, an audio engine) through one-frame
// event channels, so the core never holds a direct reference to
// whatever draws or plays the simulation (§6 "Visual bridge").
package bridge

import (
	"github.com/bitdrifter-labs/ecsrt"
	"github.com/bitdrifter-labs/ecsrt/scheduler"
)

// PositionChanged reports that an entity's position was written this
// frame.
type PositionChanged struct {
	Entity ecsrt.Entity
	X, Y   float64
}

// EntitySpawned reports that an entity was created and should be
// reflected in the presentation layer.
type EntitySpawned struct {
	Entity ecsrt.Entity
}

// EntityDestroyed reports that an entity was destroyed.
type EntityDestroyed struct {
	Entity ecsrt.Entity
}

// HealthChanged reports an entity's current/max health values changing.
type HealthChanged struct {
	Entity       ecsrt.Entity
	Current, Max int
}

// AnimationTriggered reports a named animation cue fired this frame.
type AnimationTriggered struct {
	Entity ecsrt.Entity
	Name   string
}

// SoundTriggered reports a named sound cue fired this frame.
type SoundTriggered struct {
	Entity ecsrt.Entity
	Name   string
}

// VisualBridge is the surface a presentation layer implements to react
// to simulation events. Implementations must not mutate the World from
// within a callback; IntentProcessor enforces this for the duration of
// a drain the same way query iteration enforces it (§5).
type VisualBridge interface {
	OnPositionChanged(e ecsrt.Entity, x, y float64)
	OnEntitySpawned(e ecsrt.Entity)
	OnEntityDestroyed(e ecsrt.Entity)
	OnHealthChanged(e ecsrt.Entity, current, max int)
	OnAnimationTriggered(e ecsrt.Entity, name string)
	OnSoundTriggered(e ecsrt.Entity, name string)
}

// IntentProcessor is a Presentation-phase System that drains every
// bridge event channel FIFO and forwards each event to a VisualBridge.
// The six channels are not one-frame by default: call MarkEventsOneFrame
// (which flags each event type via ecsrt.MarkOneFrameEvents) so
// undrained events don't leak into the next frame if no bridge is
// attached.
type IntentProcessor struct {
	bridge VisualBridge
	order  int32
}

// NewIntentProcessor constructs an IntentProcessor targeting bridge.
func NewIntentProcessor(bridge VisualBridge) *IntentProcessor {
	return &IntentProcessor{bridge: bridge}
}

// Phase places the processor in the Presentation phase, after gameplay
// systems have finished mutating the world for the frame.
func (p *IntentProcessor) Phase() scheduler.Phase { return scheduler.Presentation }

// Order returns the processor's position within the Presentation phase.
func (p *IntentProcessor) Order() int32 { return p.order }

// Update drains every bridge event channel and forwards events to the
// bridge, holding the world's iteration lock for the duration so a
// careless bridge callback cannot trigger a structural mutation.
func (p *IntentProcessor) Update(w *ecsrt.World, dt float32) {
	w.BeginIterationLock()
	defer w.EndIterationLock()

	ecsrt.EventsFor[PositionChanged](w).ConsumeAll(func(ev PositionChanged) {
		p.bridge.OnPositionChanged(ev.Entity, ev.X, ev.Y)
	})
	ecsrt.EventsFor[EntitySpawned](w).ConsumeAll(func(ev EntitySpawned) {
		p.bridge.OnEntitySpawned(ev.Entity)
	})
	ecsrt.EventsFor[EntityDestroyed](w).ConsumeAll(func(ev EntityDestroyed) {
		p.bridge.OnEntityDestroyed(ev.Entity)
	})
	ecsrt.EventsFor[HealthChanged](w).ConsumeAll(func(ev HealthChanged) {
		p.bridge.OnHealthChanged(ev.Entity, ev.Current, ev.Max)
	})
	ecsrt.EventsFor[AnimationTriggered](w).ConsumeAll(func(ev AnimationTriggered) {
		p.bridge.OnAnimationTriggered(ev.Entity, ev.Name)
	})
	ecsrt.EventsFor[SoundTriggered](w).ConsumeAll(func(ev SoundTriggered) {
		p.bridge.OnSoundTriggered(ev.Entity, ev.Name)
	})
}

// MarkEventsOneFrame flags all six bridge event types one-frame on w,
// so the World clears any undrained events at the next Step regardless
// of whether an IntentProcessor is registered.
func MarkEventsOneFrame(w *ecsrt.World) {
	ecsrt.MarkOneFrameEvents[PositionChanged](w)
	ecsrt.MarkOneFrameEvents[EntitySpawned](w)
	ecsrt.MarkOneFrameEvents[EntityDestroyed](w)
	ecsrt.MarkOneFrameEvents[HealthChanged](w)
	ecsrt.MarkOneFrameEvents[AnimationTriggered](w)
	ecsrt.MarkOneFrameEvents[SoundTriggered](w)
}
