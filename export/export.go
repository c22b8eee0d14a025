/*
Package export implements STICK's persisted state layout: flat, ascending-
ordered record lists for spikes and voltages, serialized with
gopkg.in/yaml.v3 for a chronogram plotter or topology viewer (both
explicitly out of this core's scope) to consume.
*/
package export

import (
	"io"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lagorce-stick/stick-kernel/simulator"
)

// SpikeRecord is one (uid, time) entry of the flat spike record list.
type SpikeRecord struct {
	UID  string        `yaml:"uid"`
	Time time.Duration `yaml:"time"`
}

// VoltageRecord is one (uid, time, V) entry of the flat voltage record list.
type VoltageRecord struct {
	UID  string        `yaml:"uid"`
	Time time.Duration `yaml:"time"`
	V    float64       `yaml:"v"`
}

// Spikes flattens every neuron's spike log into a single record list,
// ordered ascending by (time, uid).
func Spikes(sim *simulator.Simulator) []SpikeRecord {
	var out []SpikeRecord
	for _, uid := range sim.UIDs() {
		for _, t := range sim.SpikeLog(uid) {
			out = append(out, SpikeRecord{UID: uid, Time: t})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Time != out[j].Time {
			return out[i].Time < out[j].Time
		}
		return out[i].UID < out[j].UID
	})
	return out
}

// Voltages flattens every neuron's voltage trace into a single record
// list, ordered ascending by (time, uid). Empty unless the Simulator ran
// with RecordVoltage set.
func Voltages(sim *simulator.Simulator) []VoltageRecord {
	var out []VoltageRecord
	for _, uid := range sim.UIDs() {
		for _, p := range sim.VoltageLog(uid) {
			out = append(out, VoltageRecord{UID: uid, Time: p.Time, V: p.V})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Time != out[j].Time {
			return out[i].Time < out[j].Time
		}
		return out[i].UID < out[j].UID
	})
	return out
}

// WriteSpikes serializes Spikes(sim) as YAML to w.
func WriteSpikes(w io.Writer, sim *simulator.Simulator) error {
	return yaml.NewEncoder(w).Encode(Spikes(sim))
}

// WriteVoltages serializes Voltages(sim) as YAML to w.
func WriteVoltages(w io.Writer, sim *simulator.Simulator) error {
	return yaml.NewEncoder(w).Encode(Voltages(sim))
}
