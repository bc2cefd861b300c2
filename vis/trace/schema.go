package trace

import (
	"github.com/sirupsen/logrus"
)

// Canonical record keys.
const (
	keyScenario   = "scenario"
	keyT          = "T"
	keyP          = "P"
	keyM          = "M"
	keyNumCV      = "n_CV"
	keyNumMV      = "n_MV"
	keyCV         = "CV"
	keyMV         = "MV"
	keyOutput     = "output"
	keyInput      = "input"
	keyUnit       = "unit"
	keyConstraint = "c"
	keyPrediction = "y_pred"
	keyReference  = "ref"
	keyMeasured   = "y"
	keyActuation  = "u"
)

// Schema selects the adapter applied to a raw record before normalisation.
type Schema string

const (
	// SchemaCurrent is the canonical lower-case schema (output, unit, y_pred).
	SchemaCurrent Schema = "current"
	// SchemaLegacy is the first recorder's schema (Output, Unit, y_hat).
	SchemaLegacy Schema = "legacy"
)

var validSchemas = map[Schema]bool{
	SchemaCurrent: true,
	SchemaLegacy:  true,
	"":            true, // empty defaults to current
}

// IsValidSchema returns true if the given string names a recognized schema.
func IsValidSchema(s string) bool {
	return validSchemas[Schema(s)]
}

// ConstraintPolicy controls how the presence of constraint bounds is decided.
type ConstraintPolicy string

const (
	// ConstraintsFirstChannel probes the first channel only and applies the
	// answer to every channel, CV and MV alike.
	ConstraintsFirstChannel ConstraintPolicy = "first-channel"
	// ConstraintsPerChannel reads each channel's bound independently.
	ConstraintsPerChannel ConstraintPolicy = "per-channel"
)

var validConstraintPolicies = map[ConstraintPolicy]bool{
	ConstraintsFirstChannel: true,
	ConstraintsPerChannel:   true,
	"":                      true, // empty defaults to first-channel
}

// IsValidConstraintPolicy returns true if the given string names a recognized policy.
func IsValidConstraintPolicy(p string) bool {
	return validConstraintPolicies[ConstraintPolicy(p)]
}

// LoadOptions configures Load and Decode. The zero value selects the
// canonical schema and the first-channel constraint policy.
type LoadOptions struct {
	Schema      Schema
	Constraints ConstraintPolicy
}

func (o LoadOptions) schema() Schema {
	if o.Schema == "" {
		return SchemaCurrent
	}
	return o.Schema
}

func (o LoadOptions) constraints() ConstraintPolicy {
	if o.Constraints == "" {
		return ConstraintsFirstChannel
	}
	return o.Constraints
}

// legacyChannelKeys maps legacy per-channel keys to canonical ones.
var legacyChannelKeys = map[string]string{
	"Output": keyOutput,
	"Input":  keyInput,
	"Unit":   keyUnit,
	"y_hat":  keyPrediction,
}

// upgradeLegacyRecord rewrites legacy channel keys in place. MV channels of the
// oldest recorder carry their name under "Output", so that key maps to input there.
func upgradeLegacyRecord(raw map[string]any) {
	renameChannelKeys(raw, keyCV, legacyChannelKeys)

	mvKeys := make(map[string]string, len(legacyChannelKeys))
	for k, v := range legacyChannelKeys {
		mvKeys[k] = v
	}
	mvKeys["Output"] = keyInput
	renameChannelKeys(raw, keyMV, mvKeys)
}

func renameChannelKeys(raw map[string]any, group string, keys map[string]string) {
	channels, ok := raw[group].([]any)
	if !ok {
		return
	}
	for i, ch := range channels {
		obj, ok := ch.(map[string]any)
		if !ok {
			continue
		}
		for oldKey, newKey := range keys {
			v, present := obj[oldKey]
			if !present {
				continue
			}
			if _, clash := obj[newKey]; clash {
				continue
			}
			logrus.Warnf("legacy key %s[%d].%s mapped to %q; re-record with the current schema", group, i, oldKey, newKey)
			obj[newKey] = v
			delete(obj, oldKey)
		}
	}
}

// legacyHint returns a suffix for missing-field errors when the channel looks
// like it was written by the legacy recorder.
func legacyHint(obj map[string]any) string {
	for k := range legacyChannelKeys {
		if _, ok := obj[k]; ok {
			return " (record uses legacy keys; load with schema \"legacy\")"
		}
	}
	return ""
}
