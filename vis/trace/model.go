// Package trace loads recorded MPC simulation runs and normalises them into a
// fixed-shape, read-only Model.
//
// A record carries n_CV controlled-variable channels and n_MV manipulated-variable
// channels. Each CV row of the prediction matrix spans the realized history
// [0, T) followed by the forecast [T, PredictionLen); each MV row of the
// actuation matrix spans [0, ActuationLen). Recorder variants differ in whether
// P, M, constraint bounds and reference trajectories are present; Load resolves
// all of that once so consumers only see the canonical shape.
package trace

import (
	"gonum.org/v1/gonum/mat"
)

// Bound is a (lower, upper) constraint pair. Lower <= Upper always holds for a
// Bound held by a Model.
type Bound struct {
	Lower float64 `yaml:"lower"`
	Upper float64 `yaml:"upper"`
}

// Contains reports whether v lies within the bound (inclusive).
func (b Bound) Contains(v float64) bool {
	return v >= b.Lower && v <= b.Upper
}

type cvChannel struct {
	output    string
	unit      string
	bound     Bound
	bounded   bool
	hasRef    bool
	measuredN int // length of the measured series; 0 when absent
}

type mvChannel struct {
	input   string
	unit    string
	bound   Bound
	bounded bool
}

// Model is the normalised, immutable in-memory form of one recorded run.
// Row i of every matrix corresponds to channel i in declaration order.
type Model struct {
	scenario       string
	t, p, m        int
	hasConstraints bool

	yPred *mat.Dense // n_CV × PredictionLen
	ref   *mat.Dense // n_CV × PredictionLen, rows valid where cv[i].hasRef
	y     *mat.Dense // n_CV × PredictionLen, row i valid for cv[i].measuredN columns
	u     *mat.Dense // n_MV × ActuationLen

	predLen, actLen int

	cv []cvChannel
	mv []mvChannel
}

// Scenario returns the record's scenario identifier.
func (m *Model) Scenario() string { return m.scenario }

// T returns the realized (control) length.
func (m *Model) T() int { return m.t }

// P returns the prediction-horizon extension, as recorded or derived.
func (m *Model) P() int { return m.p }

// M returns the control-horizon extension, as recorded or derived.
func (m *Model) M() int { return m.m }

// NumCV returns the number of controlled-variable channels.
func (m *Model) NumCV() int { return len(m.cv) }

// NumMV returns the number of manipulated-variable channels.
func (m *Model) NumMV() int { return len(m.mv) }

// PredictionLen is the column count of the prediction matrix.
func (m *Model) PredictionLen() int { return m.predLen }

// ActuationLen is the column count of the actuation matrix.
func (m *Model) ActuationLen() int { return m.actLen }

// HasConstraints reports whether any channel carries a bound pair.
func (m *Model) HasConstraints() bool { return m.hasConstraints }

// Output returns the display name of CV channel i.
func (m *Model) Output(i int) string { return m.cv[i].output }

// CVUnit returns the display unit of CV channel i.
func (m *Model) CVUnit(i int) string { return m.cv[i].unit }

// CVConstraint returns the bound of CV channel i, if it has one.
func (m *Model) CVConstraint(i int) (Bound, bool) { return m.cv[i].bound, m.cv[i].bounded }

// Input returns the display name of MV channel i.
func (m *Model) Input(i int) string { return m.mv[i].input }

// MVUnit returns the display unit of MV channel i.
func (m *Model) MVUnit(i int) string { return m.mv[i].unit }

// MVConstraint returns the bound of MV channel i, if it has one.
func (m *Model) MVConstraint(i int) (Bound, bool) { return m.mv[i].bound, m.mv[i].bounded }

// Outputs returns the CV display names in declaration order.
func (m *Model) Outputs() []string {
	out := make([]string, len(m.cv))
	for i, ch := range m.cv {
		out[i] = ch.output
	}
	return out
}

// CVUnits returns the CV units in declaration order.
func (m *Model) CVUnits() []string {
	out := make([]string, len(m.cv))
	for i, ch := range m.cv {
		out[i] = ch.unit
	}
	return out
}

// Inputs returns the MV display names in declaration order.
func (m *Model) Inputs() []string {
	out := make([]string, len(m.mv))
	for i, ch := range m.mv {
		out[i] = ch.input
	}
	return out
}

// MVUnits returns the MV units in declaration order.
func (m *Model) MVUnits() []string {
	out := make([]string, len(m.mv))
	for i, ch := range m.mv {
		out[i] = ch.unit
	}
	return out
}

// Prediction returns a copy of the predicted/realized trajectory of CV channel i.
func (m *Model) Prediction(i int) []float64 {
	return mat.Row(nil, i, m.yPred)
}

// Reference returns a copy of the reference trajectory of CV channel i.
func (m *Model) Reference(i int) ([]float64, bool) {
	if !m.cv[i].hasRef {
		return nil, false
	}
	return mat.Row(nil, i, m.ref), true
}

// Measurement returns a copy of the realized measurement of CV channel i.
// It reports false when the recorder left the series empty.
func (m *Model) Measurement(i int) ([]float64, bool) {
	n := m.cv[i].measuredN
	if n == 0 {
		return nil, false
	}
	return mat.Row(nil, i, m.y)[:n], true
}

// Actuation returns a copy of the actuation trajectory of MV channel i.
func (m *Model) Actuation(i int) []float64 {
	return mat.Row(nil, i, m.u)
}

// Predictions returns a copy of the n_CV × PredictionLen prediction matrix.
func (m *Model) Predictions() mat.Matrix {
	return denseCopy(m.yPred)
}

// Actuations returns a copy of the n_MV × ActuationLen actuation matrix.
func (m *Model) Actuations() mat.Matrix {
	return denseCopy(m.u)
}

// denseCopy copies d; a nil d (no channels) yields an empty matrix whose Dims are 0, 0.
func denseCopy(d *mat.Dense) mat.Matrix {
	if d == nil {
		return &mat.Dense{}
	}
	return mat.DenseCopyOf(d)
}
