package neuron

import (
	"testing"

	"github.com/san-kum/hrsim/internal/dynamo"
)

func TestBurstTiming(t *testing.T) {
	tests := []struct {
		period, duration float64
		dt               float64
		points           int
	}{
		{0.001, 1.0, 0.0933, 3},
		{0.01, 1.0, 0.1, 28},
		{0.001, 0.5, 0.0933, 6},
		{0.0001, 1.0, 0.0281, 1},
		{0.001, 5.0, 0.0556, 1},
	}

	for _, tt := range tests {
		dt, points, ok := burstTiming(tt.duration, tt.period)
		if !ok {
			t.Errorf("period=%v duration=%v: no timing", tt.period, tt.duration)
			continue
		}
		if dt != tt.dt || points != tt.points {
			t.Errorf("period=%v duration=%v: got dt=%v points=%d, want dt=%v points=%d",
				tt.period, tt.duration, dt, points, tt.dt, tt.points)
		}
	}
}

func TestBurstTimingRejectsNonPositive(t *testing.T) {
	for _, c := range [][2]float64{{0, 0.001}, {-1, 0.001}, {1, 0}, {1, -0.5}} {
		if _, _, ok := burstTiming(c[0], c[1]); ok {
			t.Errorf("burstTiming(%v, %v) should not apply", c[0], c[1])
		}
	}
}

func TestBurstSyncFallsBackToPeriodTiming(t *testing.T) {
	e := New()
	e.Configure(KeyBurstSync, 1)
	e.Configure(KeyBurstDuration, 0)
	e.Configure(KeyPeriodSeconds, 0.01)

	p := e.Params()
	if p.Dt != 0.01 || p.SamplePoints != 1 {
		t.Errorf("expected period timing, got dt=%v points=%d", p.Dt, p.SamplePoints)
	}
}

func TestBurstSyncDisablesSlowScaling(t *testing.T) {
	p := DefaultParameters()
	p.BurstDuration = 4
	sys := NewSystem(&p)

	dst := make(dynamo.State, 3)
	x := dynamo.State{DefaultX, DefaultY, DefaultZ}
	sys.Derive(dst, x, dynamo.Control{0}, 0)
	scaled := dst[2]

	p.BurstSync = true
	sys.Derive(dst, x, dynamo.Control{0}, 0)
	if dst[2] != scaled*4 {
		t.Errorf("expected unscaled dz %v, got %v", scaled*4, dst[2])
	}
}

func TestDerive(t *testing.T) {
	p := DefaultParameters()
	sys := NewSystem(&p)
	if sys.StateDim() != 3 || sys.ControlDim() != 1 {
		t.Fatalf("unexpected dims %d/%d", sys.StateDim(), sys.ControlDim())
	}

	dst := make(dynamo.State, 3)
	sys.Derive(dst, dynamo.State{0, 0, 0}, dynamo.Control{0.5}, 0)

	want := dynamo.State{3.0 - 0.5, 1.0, 0.006 * 4.0 * 1.6}
	for i := range want {
		if diff := dst[i] - want[i]; diff > 1e-15 || diff < -1e-15 {
			t.Errorf("d%d: got %v, want %v", i, dst[i], want[i])
		}
	}
}

func TestStepDoesNotAllocate(t *testing.T) {
	e := New()
	e.Configure(KeyPeriodSeconds, 0.001)
	e.Configure(KeySPoints, 4)

	allocs := testing.AllocsPerRun(200, func() {
		e.SetInput(InputSynaptic, 0.1)
		e.Step(0.001)
		_ = e.Output(OutputMillivolts)
	})
	if allocs != 0 {
		t.Errorf("expected no allocations per tick, got %v", allocs)
	}
}

func TestOutputNames(t *testing.T) {
	for _, name := range []string{OutputX, OutputY, OutputZ, OutputVolts, OutputMillivolts} {
		if !IsOutput(name) {
			t.Errorf("%q should be an output", name)
		}
	}
	if IsOutput("i_syn") {
		t.Error("i_syn is an input, not an output")
	}
	if len(ConfigKeys()) != 13 {
		t.Errorf("expected 13 config keys, got %d", len(ConfigKeys()))
	}
}
