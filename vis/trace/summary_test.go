package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gotvinne/Light-weight-MPC/vis/internal/testutil"
)

func TestSummarize_NilModel_ZeroValues(t *testing.T) {
	summary := Summarize(nil)

	assert.Equal(t, "", summary.Scenario)
	assert.Equal(t, 0, summary.T)
	assert.Empty(t, summary.Channels)
}

func TestSummarize_StepTest_LastMinMax(t *testing.T) {
	// GIVEN the step_test fixture (level ramps 0..6.5, valve 60..40)
	m, err := Load(testutil.TestdataPath(t, "step_test.json"), LoadOptions{})
	require.NoError(t, err)

	// WHEN summarized
	summary := Summarize(m)

	// THEN CV channels come first, each with its realized statistics
	require.Len(t, summary.Channels, 2)
	level := summary.Channels[0]
	assert.Equal(t, KindCV, level.Kind)
	assert.Equal(t, "level", level.Name)
	assert.Equal(t, "m", level.Unit)
	testutil.AssertFloat64Equal(t, "level last", 6.5, level.Last, 1e-12)
	testutil.AssertFloat64Equal(t, "level max", 6.5, level.Max, 1e-12)
	assert.Equal(t, 0.0, level.Min)
	require.NotNil(t, level.Bound)
	assert.Equal(t, 0, level.Violations)

	valve := summary.Channels[1]
	assert.Equal(t, KindMV, valve.Kind)
	assert.Equal(t, "valve", valve.Name)
	assert.Equal(t, 40.0, valve.Last)
	assert.Equal(t, 40.0, valve.Min)
	assert.Equal(t, 60.0, valve.Max)
}

func TestSummarize_ValuesOutsideBound_CountedAsViolations(t *testing.T) {
	// GIVEN a level series that leaves [0, 2] after the third sample
	rec := testutil.StepTestRecord()
	cv := testutil.Channel(rec, "CV", 0)
	cv["c"] = []any{0.0, 2.0}

	m, err := Load(testutil.WriteRecord(t, rec), LoadOptions{})
	require.NoError(t, err)

	// WHEN summarized
	summary := Summarize(m)

	// THEN samples 2.5 .. 4.5 are violations (5 of them)
	assert.Equal(t, 5, summary.Channels[0].Violations)
}

func TestSummarize_LastRealizedIgnoresForecast(t *testing.T) {
	// GIVEN T=4 with a forecast extending past T
	m, err := Load(testutil.TestdataPath(t, "sim_closed_loop.json"), LoadOptions{})
	require.NoError(t, err)

	summary := Summarize(m)

	// THEN last_realized is the value at T-1, not the end of the series
	assert.Equal(t, 14.0, summary.Channels[0].Last)
	assert.Equal(t, 16.0, summary.Channels[0].Max)
	assert.Equal(t, 8.0, summary.Channels[2].Last)
}
