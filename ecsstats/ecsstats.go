// Package ecsstats exports a World's occupancy and scheduling behavior
// as Prometheus metrics for an embedding application to scrape. It is
// purely additive: nothing in the core depends on a running registry,
// and an application that never imports this package pays no cost for
// it (§9, mirroring delaneyj-arche's ecs/stats shape).
package ecsstats

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bitdrifter-labs/ecsrt"
	"github.com/bitdrifter-labs/ecsrt/event"
	"github.com/bitdrifter-labs/ecsrt/scheduler"
)

// Exporter owns the Prometheus collectors describing a World: entity
// and archetype counts, per-archetype chunk utilization, per-system
// update timing, and per-event-type channel utilization.
type Exporter struct {
	entityCount      prometheus.Gauge
	archetypeCount   prometheus.Gauge
	chunkCount       prometheus.Gauge
	archetypeFill    *prometheus.GaugeVec
	systemTiming     *prometheus.HistogramVec
	eventUtilization *prometheus.GaugeVec
}

// NewExporter constructs an Exporter and registers its collectors
// against reg. reg is always caller-supplied: this package never
// touches prometheus.DefaultRegisterer.
func NewExporter(reg *prometheus.Registry, namespace string) *Exporter {
	e := &Exporter{
		entityCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "entities_total", Help: "Live entity count across all archetypes.",
		}),
		archetypeCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "archetypes_total", Help: "Distinct archetype count.",
		}),
		chunkCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "chunks_total", Help: "Total chunk count across all archetypes.",
		}),
		archetypeFill: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "archetype_utilization_ratio", Help: "Occupied-slot fraction, per archetype signature.",
		}, []string{"signature"}),
		systemTiming: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "system_update_seconds", Help: "Per-system Update() duration.",
		}, []string{"system"}),
		eventUtilization: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "event_channel_utilization_ratio", Help: "Occupied-slot fraction, per event type.",
		}, []string{"event_type"}),
	}
	reg.MustRegister(
		e.entityCount,
		e.archetypeCount,
		e.chunkCount,
		e.archetypeFill,
		e.systemTiming,
		e.eventUtilization,
	)
	return e
}

// CollectWorld refreshes the entity/archetype/chunk gauges from w's
// current state. Call once per frame, or on whatever cadence the
// embedding application scrapes at.
func (e *Exporter) CollectWorld(w *ecsrt.World) {
	archetypes := w.Archetypes()
	entityTotal, chunkTotal := 0, 0
	e.archetypeFill.Reset()

	for _, a := range archetypes {
		entityTotal += a.Count()
		chunkTotal += len(a.Chunks())
		e.archetypeFill.WithLabelValues(signatureLabel(a)).Set(a.Utilization())
	}
	e.entityCount.Set(float64(entityTotal))
	e.archetypeCount.Set(float64(len(archetypes)))
	e.chunkCount.Set(float64(chunkTotal))
}

// CollectScheduler records the most recent Update() duration of every
// system registered on s, labeled by name.
func CollectScheduler[W any](e *Exporter, s *scheduler.Scheduler[W], nameOf func(scheduler.System[W]) string) {
	for _, sys := range s.Systems() {
		timing, ok := s.TimingFor(sys)
		if !ok {
			continue
		}
		e.systemTiming.WithLabelValues(nameOf(sys)).Observe(timing.Current.Seconds())
	}
}

// ObserveEventChannel records ch's current occupancy under the given
// event type label, so callers don't need to thread a type parameter
// through the Exporter itself.
func ObserveEventChannel[T any](e *Exporter, label string, ch *event.Channel[T]) {
	stats := ch.Stats()
	e.eventUtilization.WithLabelValues(label).Set(stats.Utilization)
}

func signatureLabel(a *ecsrt.Archetype) string {
	return fmt.Sprintf("0x%x", a.Signature().Bits())
}
