package cmd

import (
	"errors"

	"github.com/gotvinne/Light-weight-MPC/vis/render"
	"github.com/gotvinne/Light-weight-MPC/vis/trace"
)

// errorKinds is checked in order; the first match names the failure.
var errorKinds = []struct {
	err  error
	kind string
}{
	{trace.ErrFileAccess, "FileAccessError"},
	{trace.ErrMalformedRecord, "MalformedRecordError"},
	{trace.ErrChannelLengthMismatch, "ChannelLengthMismatchError"},
	{trace.ErrInvalidConstraint, "InvalidConstraintError"},
	{render.ErrLayout, "LayoutError"},
	{render.ErrChannelIndex, "ChannelIndexError"},
}

// errorKind returns the taxonomy name for err, or "Error" when unclassified.
func errorKind(err error) string {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return "Error"
}
