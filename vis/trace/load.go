package trace

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"
)

// Format names the serialization of a record.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath picks the record format from the file extension.
// Anything other than .yaml/.yml is treated as JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads and normalises the trace record at path.
func Load(path string, opts LoadOptions) (*Model, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", ErrFileAccess, path, err)
	}
	defer func() { _ = file.Close() }()

	m, err := Decode(file, FormatForPath(path), opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logrus.Debugf("loaded %s: scenario=%q T=%d n_CV=%d n_MV=%d prediction=%d actuation=%d constraints=%v",
		path, m.scenario, m.t, m.NumCV(), m.NumMV(), m.predLen, m.actLen, m.hasConstraints)
	return m, nil
}

// Decode parses a record from r and normalises it. Nothing is returned unless
// the whole record is consistent.
func Decode(r io.Reader, format Format, opts LoadOptions) (*Model, error) {
	if !validSchemas[opts.Schema] {
		return nil, fmt.Errorf("unknown schema %q; valid: current, legacy", opts.Schema)
	}
	if !validConstraintPolicies[opts.Constraints] {
		return nil, fmt.Errorf("unknown constraint policy %q; valid: first-channel, per-channel", opts.Constraints)
	}

	raw, err := parseRecord(r, format)
	if err != nil {
		return nil, err
	}
	if opts.schema() == SchemaLegacy {
		upgradeLegacyRecord(raw)
	}
	return normalise(raw, opts.constraints())
}

// parseRecord decodes the input into a generic key-value structure.
func parseRecord(r io.Reader, format Format) (map[string]any, error) {
	var raw map[string]any
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: parsing YAML record: %v", ErrFileAccess, err)
		}
	default:
		decoder := json.NewDecoder(r)
		decoder.UseNumber()
		if err := decoder.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: parsing JSON record: %v", ErrFileAccess, err)
		}
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: record is empty", ErrFileAccess)
	}
	return raw, nil
}

func normalise(raw map[string]any, policy ConstraintPolicy) (*Model, error) {
	m := &Model{}
	var err error

	if m.scenario, err = requireString(raw, keyScenario, keyScenario); err != nil {
		return nil, err
	}
	if m.t, err = requireInt(raw, keyT, keyT); err != nil {
		return nil, err
	}
	if m.t < 1 {
		return nil, fmt.Errorf("%w: T must be >= 1, got %d", ErrMalformedRecord, m.t)
	}
	nCV, err := requireCount(raw, keyNumCV)
	if err != nil {
		return nil, err
	}
	nMV, err := requireCount(raw, keyNumMV)
	if err != nil {
		return nil, err
	}
	cvs, err := requireChannels(raw, keyCV, nCV, keyNumCV)
	if err != nil {
		return nil, err
	}
	mvs, err := requireChannels(raw, keyMV, nMV, keyNumMV)
	if err != nil {
		return nil, err
	}
	recordedP, hasP, err := optionalCount(raw, keyP)
	if err != nil {
		return nil, err
	}
	recordedM, hasM, err := optionalCount(raw, keyM)
	if err != nil {
		return nil, err
	}

	// Horizons are resolved from the first channel of each group.
	if nCV > 0 {
		first, err := requireFloats(cvs[0], keyPrediction, channelPath(keyCV, 0, keyPrediction))
		if err != nil {
			return nil, fmt.Errorf("%w%s", err, legacyHint(cvs[0]))
		}
		m.predLen, m.p, err = resolveHorizon(m.t, len(first), recordedP, hasP, channelPath(keyCV, 0, keyPrediction), keyP)
		if err != nil {
			return nil, err
		}
	} else {
		m.predLen, m.p = m.t, recordedP
	}
	if nMV > 0 {
		first, err := requireFloats(mvs[0], keyActuation, channelPath(keyMV, 0, keyActuation))
		if err != nil {
			return nil, fmt.Errorf("%w%s", err, legacyHint(mvs[0]))
		}
		m.actLen, m.m, err = resolveHorizon(m.t, len(first), recordedM, hasM, channelPath(keyMV, 0, keyActuation), keyM)
		if err != nil {
			return nil, err
		}
	} else {
		m.actLen, m.m = m.t, recordedM
	}

	probe := firstChannelHasConstraint(cvs, mvs)

	if nCV > 0 {
		m.yPred = mat.NewDense(nCV, m.predLen, nil)
	}
	m.cv = make([]cvChannel, nCV)
	for i, obj := range cvs {
		if err := m.parseCV(i, obj, policy, probe); err != nil {
			return nil, err
		}
	}

	if nMV > 0 {
		m.u = mat.NewDense(nMV, m.actLen, nil)
	}
	m.mv = make([]mvChannel, nMV)
	for i, obj := range mvs {
		if err := m.parseMV(i, obj, policy, probe); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// resolveHorizon returns the series length and horizon extension for a group.
// When the record states the extension, the first channel must span T, T+ext or
// T+ext+1 samples (open-loop, closed-loop, closed-loop with the initial sample).
func resolveHorizon(t, n, recorded int, recordedOK bool, path, extKey string) (length, ext int, err error) {
	if n < t {
		return 0, 0, fmt.Errorf("%w: %s has %d samples, fewer than T=%d", ErrChannelLengthMismatch, path, n, t)
	}
	if !recordedOK {
		return n, n - t, nil
	}
	switch n - t {
	case 0, recorded, recorded + 1:
		return n, recorded, nil
	}
	return 0, 0, fmt.Errorf("%w: %s has %d samples; with T=%d and %s=%d expected %d, %d or %d",
		ErrChannelLengthMismatch, path, n, t, extKey, recorded, t, t+recorded, t+recorded+1)
}

// firstChannelHasConstraint probes the first CV channel, or the first MV
// channel when there are no CVs.
func firstChannelHasConstraint(cvs, mvs []map[string]any) bool {
	switch {
	case len(cvs) > 0:
		_, ok := cvs[0][keyConstraint]
		return ok
	case len(mvs) > 0:
		_, ok := mvs[0][keyConstraint]
		return ok
	}
	return false
}

func (m *Model) parseCV(i int, obj map[string]any, policy ConstraintPolicy, probe bool) error {
	ch := &m.cv[i]
	var err error
	if ch.output, err = requireString(obj, keyOutput, channelPath(keyCV, i, keyOutput)); err != nil {
		return fmt.Errorf("%w%s", err, legacyHint(obj))
	}
	if ch.unit, err = requireString(obj, keyUnit, channelPath(keyCV, i, keyUnit)); err != nil {
		return fmt.Errorf("%w%s", err, legacyHint(obj))
	}

	pred, err := requireSeries(obj, keyPrediction, channelPath(keyCV, i, keyPrediction), m.predLen)
	if err != nil {
		return fmt.Errorf("%w%s", err, legacyHint(obj))
	}
	m.yPred.SetRow(i, pred)

	ref, ok, err := optionalFloats(obj, keyReference, channelPath(keyCV, i, keyReference))
	if err != nil {
		return err
	}
	if ok {
		if len(ref) != m.predLen {
			return fmt.Errorf("%w: %s has %d samples, expected %d",
				ErrChannelLengthMismatch, channelPath(keyCV, i, keyReference), len(ref), m.predLen)
		}
		if m.ref == nil {
			m.ref = mat.NewDense(len(m.cv), m.predLen, nil)
		}
		m.ref.SetRow(i, ref)
		ch.hasRef = true
	}

	y, ok, err := optionalFloats(obj, keyMeasured, channelPath(keyCV, i, keyMeasured))
	if err != nil {
		return err
	}
	if ok && len(y) > 0 {
		if len(y) > m.predLen {
			return fmt.Errorf("%w: %s has %d samples, more than the %d-sample horizon",
				ErrChannelLengthMismatch, channelPath(keyCV, i, keyMeasured), len(y), m.predLen)
		}
		if m.y == nil {
			m.y = mat.NewDense(len(m.cv), m.predLen, nil)
		}
		row := make([]float64, m.predLen)
		copy(row, y)
		m.y.SetRow(i, row)
		ch.measuredN = len(y)
	}

	ch.bound, ch.bounded, err = m.readBound(obj, channelPath(keyCV, i, keyConstraint), policy, probe)
	return err
}

func (m *Model) parseMV(i int, obj map[string]any, policy ConstraintPolicy, probe bool) error {
	ch := &m.mv[i]
	var err error
	if ch.input, err = requireString(obj, keyInput, channelPath(keyMV, i, keyInput)); err != nil {
		return fmt.Errorf("%w%s", err, legacyHint(obj))
	}
	if ch.unit, err = requireString(obj, keyUnit, channelPath(keyMV, i, keyUnit)); err != nil {
		return fmt.Errorf("%w%s", err, legacyHint(obj))
	}

	u, err := requireSeries(obj, keyActuation, channelPath(keyMV, i, keyActuation), m.actLen)
	if err != nil {
		return err
	}
	m.u.SetRow(i, u)

	ch.bound, ch.bounded, err = m.readBound(obj, channelPath(keyMV, i, keyConstraint), policy, probe)
	return err
}

// readBound extracts the channel's bound pair according to the policy. Under
// the first-channel policy a probe of false skips every channel, and a probe of
// true requires every channel to carry one.
func (m *Model) readBound(obj map[string]any, path string, policy ConstraintPolicy, probe bool) (Bound, bool, error) {
	v, present := obj[keyConstraint]
	if policy == ConstraintsFirstChannel {
		if !probe {
			return Bound{}, false, nil
		}
		if !present {
			return Bound{}, false, fmt.Errorf("%w: %s missing; the first channel is constrained so every channel must be",
				ErrMalformedRecord, path)
		}
	} else if !present {
		return Bound{}, false, nil
	}

	pair, err := toFloats(v, path)
	if err != nil {
		return Bound{}, false, err
	}
	if len(pair) != 2 {
		return Bound{}, false, fmt.Errorf("%w: %s must be a [lower, upper] pair, got %d values", ErrMalformedRecord, path, len(pair))
	}
	b := Bound{Lower: pair[0], Upper: pair[1]}
	if b.Lower > b.Upper {
		return Bound{}, false, fmt.Errorf("%w: %s lower %g > upper %g", ErrInvalidConstraint, path, b.Lower, b.Upper)
	}
	m.hasConstraints = true
	return b, true, nil
}

func channelPath(group string, i int, key string) string {
	return fmt.Sprintf("%s[%d].%s", group, i, key)
}

func requireString(obj map[string]any, key, path string) (string, error) {
	v, ok := obj[key]
	if !ok {
		return "", fmt.Errorf("%w: %s missing", ErrMalformedRecord, path)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string, got %T", ErrMalformedRecord, path, v)
	}
	return s, nil
}

func requireInt(obj map[string]any, key, path string) (int, error) {
	v, ok := obj[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s missing", ErrMalformedRecord, path)
	}
	return toInt(v, path)
}

func requireCount(obj map[string]any, key string) (int, error) {
	n, err := requireInt(obj, key, key)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: %s must be non-negative, got %d", ErrMalformedRecord, key, n)
	}
	return n, nil
}

func optionalCount(obj map[string]any, key string) (int, bool, error) {
	v, ok := obj[key]
	if !ok {
		return 0, false, nil
	}
	n, err := toInt(v, key)
	if err != nil {
		return 0, false, err
	}
	if n < 0 {
		return 0, false, fmt.Errorf("%w: %s must be non-negative, got %d", ErrMalformedRecord, key, n)
	}
	return n, true, nil
}

// requireChannels returns the channel objects under key, which must number exactly n.
func requireChannels(obj map[string]any, key string, n int, countKey string) ([]map[string]any, error) {
	v, ok := obj[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s missing", ErrMalformedRecord, key)
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be a sequence, got %T", ErrMalformedRecord, key, v)
	}
	if len(list) != n {
		return nil, fmt.Errorf("%w: %s=%d but %s has %d channels", ErrMalformedRecord, countKey, n, key, len(list))
	}
	channels := make([]map[string]any, n)
	for i, item := range list {
		ch, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s[%d] must be a mapping, got %T", ErrMalformedRecord, key, i, item)
		}
		channels[i] = ch
	}
	return channels, nil
}

func requireFloats(obj map[string]any, key, path string) ([]float64, error) {
	v, ok := obj[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s missing", ErrMalformedRecord, path)
	}
	return toFloats(v, path)
}

// requireSeries reads a required series that must span exactly n samples.
func requireSeries(obj map[string]any, key, path string, n int) ([]float64, error) {
	s, err := requireFloats(obj, key, path)
	if err != nil {
		return nil, err
	}
	if len(s) != n {
		return nil, fmt.Errorf("%w: %s has %d samples, expected %d", ErrChannelLengthMismatch, path, len(s), n)
	}
	return s, nil
}

func optionalFloats(obj map[string]any, key, path string) ([]float64, bool, error) {
	v, ok := obj[key]
	if !ok || v == nil {
		return nil, false, nil
	}
	s, err := toFloats(v, path)
	if err != nil {
		return nil, false, err
	}
	return s, true, nil
}

func toFloats(v any, path string) ([]float64, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be a numeric sequence, got %T", ErrMalformedRecord, path, v)
	}
	out := make([]float64, len(list))
	for i, item := range list {
		f, err := toFloat(item, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

// toFloat accepts the numeric representations produced by encoding/json
// (with UseNumber) and yaml.v3.
func toFloat(v any, path string) (float64, error) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", ErrMalformedRecord, path, err)
		}
		return f, nil
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	}
	return 0, fmt.Errorf("%w: %s must be numeric, got %T", ErrMalformedRecord, path, v)
}

func toInt(v any, path string) (int, error) {
	f, err := toFloat(v, path)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %s must be an integer, got %v", ErrMalformedRecord, path, v)
	}
	return int(f), nil
}
