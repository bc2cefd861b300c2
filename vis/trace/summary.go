package trace

import "math"

// Channel kinds reported in a summary.
const (
	KindCV = "CV"
	KindMV = "MV"
)

// ChannelSummary aggregates one channel's series.
type ChannelSummary struct {
	Kind       string  `yaml:"kind"`
	Name       string  `yaml:"name"`
	Unit       string  `yaml:"unit"`
	Last       float64 `yaml:"last_realized"` // value at index T-1
	Min        float64 `yaml:"min"`
	Max        float64 `yaml:"max"`
	Bound      *Bound  `yaml:"bound,omitempty"`
	Violations int     `yaml:"violations"` // samples outside Bound; 0 when unbounded
}

// TraceSummary aggregates statistics from a Model.
type TraceSummary struct {
	Scenario      string           `yaml:"scenario"`
	T             int              `yaml:"T"`
	PredictionLen int              `yaml:"prediction_len"`
	ActuationLen  int              `yaml:"actuation_len"`
	Channels      []ChannelSummary `yaml:"channels"`
}

// Summarize computes per-channel statistics from a Model, CV channels first.
// Safe for nil models (returns zero-value fields).
func Summarize(m *Model) *TraceSummary {
	summary := &TraceSummary{Channels: make([]ChannelSummary, 0)}
	if m == nil {
		return summary
	}
	summary.Scenario = m.scenario
	summary.T = m.t
	summary.PredictionLen = m.predLen
	summary.ActuationLen = m.actLen

	for i := range m.cv {
		b, ok := m.CVConstraint(i)
		summary.Channels = append(summary.Channels,
			summarizeSeries(KindCV, m.Output(i), m.CVUnit(i), m.Prediction(i), m.t, b, ok))
	}
	for i := range m.mv {
		b, ok := m.MVConstraint(i)
		summary.Channels = append(summary.Channels,
			summarizeSeries(KindMV, m.Input(i), m.MVUnit(i), m.Actuation(i), m.t, b, ok))
	}
	return summary
}

func summarizeSeries(kind, name, unit string, series []float64, t int, b Bound, bounded bool) ChannelSummary {
	cs := ChannelSummary{
		Kind: kind,
		Name: name,
		Unit: unit,
		Last: series[t-1],
		Min:  math.Inf(1),
		Max:  math.Inf(-1),
	}
	if bounded {
		cs.Bound = &Bound{Lower: b.Lower, Upper: b.Upper}
	}
	for _, v := range series {
		cs.Min = math.Min(cs.Min, v)
		cs.Max = math.Max(cs.Max, v)
		if bounded && !b.Contains(v) {
			cs.Violations++
		}
	}
	return cs
}
