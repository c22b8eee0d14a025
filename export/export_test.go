package export_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/lagorce-stick/stick-kernel/encoder"
	"github.com/lagorce-stick/stick-kernel/export"
	"github.com/lagorce-stick/stick-kernel/network"
	"github.com/lagorce-stick/stick-kernel/neuron"
	"github.com/lagorce-stick/stick-kernel/simulator"
)

func testSimulator(t *testing.T) *simulator.Simulator {
	t.Helper()
	enc, err := encoder.New(10*time.Millisecond, 100*time.Millisecond)
	require.NoError(t, err)

	root := network.NewRoot("root")
	a, err := root.NewNeuron("a", neuron.DefaultParams())
	require.NoError(t, err)
	b, err := root.NewNeuron("b", neuron.DefaultParams())
	require.NoError(t, err)

	sim := simulator.New(root, enc, 100*time.Microsecond)
	sim.RecordVoltage = true
	sim.ApplyInputValue(0.2, b, 0)
	sim.ApplyInputValue(0.1, a, 5*time.Millisecond)
	require.NoError(t, sim.Simulate(200*time.Millisecond))
	return sim
}

func TestSpikesAreSortedByTimeThenUid(t *testing.T) {
	sim := testSimulator(t)
	records := export.Spikes(sim)
	require.NotEmpty(t, records)

	for i := 1; i < len(records); i++ {
		prev, cur := records[i-1], records[i]
		require.True(t, prev.Time < cur.Time || (prev.Time == cur.Time && prev.UID <= cur.UID),
			"records out of order at %d: %+v then %+v", i, prev, cur)
	}
}

func TestVoltagesEmptyWithoutRecordVoltage(t *testing.T) {
	enc, err := encoder.New(10*time.Millisecond, 100*time.Millisecond)
	require.NoError(t, err)
	root := network.NewRoot("root")
	_, err = root.NewNeuron("a", neuron.DefaultParams())
	require.NoError(t, err)

	sim := simulator.New(root, enc, 100*time.Microsecond)
	require.NoError(t, sim.Simulate(5*time.Millisecond))

	require.Empty(t, export.Voltages(sim))
}

func TestVoltagesPopulatedWhenRecording(t *testing.T) {
	sim := testSimulator(t)
	records := export.Voltages(sim)
	require.NotEmpty(t, records)
}

func TestWriteSpikesProducesValidYAML(t *testing.T) {
	sim := testSimulator(t)
	var buf bytes.Buffer
	require.NoError(t, export.WriteSpikes(&buf, sim))

	var decoded []export.SpikeRecord
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, export.Spikes(sim), decoded)
}

func TestWriteVoltagesProducesValidYAML(t *testing.T) {
	sim := testSimulator(t)
	var buf bytes.Buffer
	require.NoError(t, export.WriteVoltages(&buf, sim))

	var decoded []export.VoltageRecord
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, export.Voltages(sim), decoded)
}
