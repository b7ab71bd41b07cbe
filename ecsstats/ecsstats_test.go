package ecsstats

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/bitdrifter-labs/ecsrt"
	"github.com/bitdrifter-labs/ecsrt/event"
	"github.com/bitdrifter-labs/ecsrt/scheduler"
)

type position struct{ X, Y float64 }

type fakeSystem struct {
	phase scheduler.Phase
	order int32
}

func (s *fakeSystem) Phase() scheduler.Phase            { return s.phase }
func (s *fakeSystem) Order() int32                      { return s.order }
func (s *fakeSystem) Update(w *ecsrt.World, dt float32) {}

func TestCollectWorldReportsEntityAndArchetypeCounts(t *testing.T) {
	w := ecsrt.NewWorld()
	e1, _ := w.CreateEntity()
	ecsrt.AddComponent(w, e1, position{X: 1})
	_, _ = w.CreateEntity()

	reg := prometheus.NewRegistry()
	exp := NewExporter(reg, "test")
	exp.CollectWorld(w)

	if got := testutil.ToFloat64(exp.entityCount); got != 2 {
		t.Errorf("entityCount = %v, want 2", got)
	}
	if got := testutil.ToFloat64(exp.archetypeCount); got != 2 {
		t.Errorf("archetypeCount = %v, want 2", got)
	}
}

func TestCollectSchedulerRecordsTiming(t *testing.T) {
	s := scheduler.New[*ecsrt.World]()
	sys := &fakeSystem{phase: scheduler.Update}
	s.Register(sys)

	w := ecsrt.NewWorld()
	s.Tick(w, 0.016)

	reg := prometheus.NewRegistry()
	exp := NewExporter(reg, "test")
	CollectScheduler(exp, s, func(scheduler.System[*ecsrt.World]) string { return "fakeSystem" })

	if testutil.CollectAndCount(exp.systemTiming) == 0 {
		t.Error("expected at least one observed sample in systemTiming histogram")
	}
}

func TestObserveEventChannelReportsUtilization(t *testing.T) {
	ch, err := event.NewChannel[int](4)
	if err != nil {
		t.Fatalf("NewChannel: %v", err)
	}
	ch.Publish(1)
	ch.Publish(2)

	reg := prometheus.NewRegistry()
	exp := NewExporter(reg, "test")
	ObserveEventChannel(exp, "damage", ch)

	got := testutil.ToFloat64(exp.eventUtilization.WithLabelValues("damage"))
	if got != 0.5 {
		t.Errorf("utilization = %v, want 0.5", got)
	}
}

func TestNewExporterRegistersAgainstCallerRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewExporter(reg, "test")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(families) == 0 {
		t.Error("expected collectors registered against the supplied registry")
	}
}
