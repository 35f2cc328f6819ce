package plugin

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/hrsim/internal/dynamo"
	"github.com/san-kum/hrsim/internal/neuron"
)

func TestVariants(t *testing.T) {
	vs := Variants()
	require.Len(t, vs, 2)
	assert.Equal(t, VariantClassic, vs[0].ID)
	assert.Equal(t, VariantV2, vs[1].ID)
	assert.False(t, vs[0].SelfCorrect)
	assert.True(t, vs[1].SelfCorrect)

	_, ok := Lookup("izhikevich")
	assert.False(t, ok)
}

func TestNewInstanceUnknownVariant(t *testing.T) {
	_, err := NewInstance("izhikevich")
	assert.True(t, errors.Is(err, ErrUnknownVariant))
}

func TestDescriptorsJSON(t *testing.T) {
	in, err := NewInstance(VariantV2)
	require.NoError(t, err)

	meta, err := json.Marshal(in.Meta())
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"name": "Hindmarsh Rose v2",
		"default_vars": [
			["x", -0.9013], ["y", -3.1594], ["z", 3.24782],
			["e", 3.0], ["mu", 0.006], ["s", 4.0], ["vh", 1.0],
			["burst_duration", 1.0]
		]
	}`, string(meta))

	behavior, err := json.Marshal(in.Behavior())
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"supports_start_stop": true,
		"supports_restart": true,
		"extendable_inputs": {"type": "none"},
		"loads_started": true
	}`, string(behavior))

	schema, err := json.Marshal(in.UISchema())
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"outputs": ["Membrane potential (V)", "Membrane potential (mV)"],
		"inputs": ["i_syn"],
		"variables": ["x", "y", "z"]
	}`, string(schema))

	var back Meta
	require.NoError(t, json.Unmarshal(meta, &back))
	assert.Equal(t, in.Meta(), back)
}

func TestOutputsAreCopies(t *testing.T) {
	in, err := NewInstance(VariantClassic)
	require.NoError(t, err)

	outs := in.Outputs()
	assert.Equal(t, []string{"x", "y", "z"}, outs)
	outs[0] = "mutated"
	assert.Equal(t, "x", in.Outputs()[0])
	assert.Equal(t, []string{"i_syn"}, in.Inputs())
}

func TestSetConfigJSON(t *testing.T) {
	in, err := NewInstance(VariantV2)
	require.NoError(t, err)

	ignored, err := in.SetConfigJSON([]byte(`{"e": 3.25, "mu": 0.01, "label": "cell", "gain": 2, "period_seconds": 0.001}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"gain", "label"}, ignored)

	m := in.Snapshot()
	assert.Equal(t, 3.25, m.Params.E)
	assert.Equal(t, 0.01, m.Params.Mu)
	assert.Equal(t, 0.001, m.Params.Dt)
}

func TestSetConfigJSONMalformed(t *testing.T) {
	in, err := NewInstance(VariantV2)
	require.NoError(t, err)
	before := in.Snapshot()

	for _, bad := range []string{`{"e": `, `[1, 2]`, `null`, `"e"`} {
		_, err := in.SetConfigJSON([]byte(bad))
		assert.True(t, errors.Is(err, ErrBadConfig), "input %s", bad)
	}
	assert.Equal(t, before, in.Snapshot())
}

func TestProcessSelfCorrection(t *testing.T) {
	v2, err := NewInstance(VariantV2)
	require.NoError(t, err)
	v2.Process(0, 0.001)
	assert.Equal(t, 0.001, v2.Snapshot().Params.PeriodSeconds)
	assert.NotEqual(t, neuron.DefaultX, v2.Output(neuron.OutputVolts))

	classic, err := NewInstance(VariantClassic)
	require.NoError(t, err)
	classic.Process(0, 0.001)
	assert.Zero(t, classic.Snapshot().Params.PeriodSeconds)
	assert.Equal(t, neuron.DefaultX, classic.Output(neuron.OutputX))

	_, err = classic.SetConfigJSON([]byte(`{"period_seconds": 0.001}`))
	require.NoError(t, err)
	classic.Process(1, 0.001)
	assert.NotEqual(t, neuron.DefaultX, classic.Output(neuron.OutputX))
}

func TestMillivoltOutput(t *testing.T) {
	in, err := NewInstance(VariantV2)
	require.NoError(t, err)
	_, err = in.SetConfigJSON([]byte(`{"x": 0.5}`))
	require.NoError(t, err)

	assert.Equal(t, 0.5, in.Output("Membrane potential (V)"))
	assert.Equal(t, 500.0, in.Output("Membrane potential (mV)"))
	assert.Zero(t, in.Output("bogus"))
}

func TestRestartAndClose(t *testing.T) {
	in, err := NewInstance(VariantV2)
	require.NoError(t, err)
	for i := uint64(0); i < 20; i++ {
		in.Process(i, 0.001)
	}
	in.Restart()
	assert.Equal(t, neuron.DefaultX, in.Output(neuron.OutputVolts))

	in.Close()
	assert.False(t, in.SetInput("i_syn", 1))
	assert.Zero(t, in.Output(neuron.OutputVolts))
	_, err = in.SetConfigJSON([]byte(`{"e": 1}`))
	assert.True(t, errors.Is(err, ErrClosed))
	assert.True(t, errors.Is(in.SetParam("e", 1), ErrClosed))
	in.Process(0, 0.001)
}

func TestSetParam(t *testing.T) {
	in, err := NewInstance(VariantClassic)
	require.NoError(t, err)
	require.NoError(t, in.SetParam("e", 3.5))
	assert.Equal(t, 3.5, in.GetParams()["e"])
	assert.True(t, errors.Is(in.SetParam("nope", 1), dynamo.ErrUnknownParam))
}

func TestInstanceIsConfigurable(t *testing.T) {
	in, err := NewInstance(VariantV2)
	require.NoError(t, err)

	var c dynamo.Configurable = in
	require.NoError(t, c.SetParam("mu", 0.004))
	params := c.GetParams()
	assert.Equal(t, 0.004, params["mu"])
	assert.Contains(t, params, "e")
}

func TestHostLifecycle(t *testing.T) {
	h := NewHost()

	a, err := h.Create(VariantV2)
	require.NoError(t, err)
	b, err := h.Create(VariantClassic)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), a)
	assert.Equal(t, uint64(2), b)
	assert.Equal(t, []uint64{1, 2}, h.Handles())

	_, err = h.Create("nope")
	assert.True(t, errors.Is(err, ErrUnknownVariant))

	inA, err := h.Get(a)
	require.NoError(t, err)
	inA.SetInput("i_syn", 1)
	inA.Process(0, 0.001)

	inB, err := h.Get(b)
	require.NoError(t, err)
	assert.Zero(t, inB.Snapshot().State.SynapticInput)

	require.NoError(t, h.Destroy(a))
	assert.True(t, errors.Is(h.Destroy(a), ErrUnknownHandle))
	_, err = h.Get(a)
	assert.True(t, errors.Is(err, ErrUnknownHandle))

	c, err := h.Create(VariantV2)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), c)

	h.Shutdown()
	assert.Empty(t, h.Handles())
	assert.Len(t, h.Variants(), 2)
}

func TestInstanceConcurrentUse(t *testing.T) {
	in, err := NewInstance(VariantV2)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := uint64(0); i < 500; i++ {
			in.Process(i, 0.001)
			_ = in.Output(neuron.OutputMillivolts)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			in.SetInput("i_syn", float64(i%3))
			_, _ = in.SetConfigJSON([]byte(`{"e": 3.0}`))
		}
	}()
	wg.Wait()
}
