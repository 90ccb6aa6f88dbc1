package core

import (
	"strings"

	"github.com/udithaR/Alitheia-Core/schema"
)

// LineAttribution is the line-level credit derived from one file diff.
type LineAttribution struct {
	Added    int
	Removed  int
	Modified int
}

// CountDiffLines counts added and removed lines across every chunk.
// Only the leading "+" or "-" of a line matters.
func CountDiffLines(chunks []schema.DiffChunk) (added, removed int) {
	for _, chunk := range chunks {
		for line := range strings.SplitSeq(chunk.Text, "\n") {
			switch {
			case strings.HasPrefix(line, "+"):
				added++
			case strings.HasPrefix(line, "-"):
				removed++
			}
		}
	}
	return added, removed
}

// AttributeLines splits raw counts into modified lines and a signed remainder.
// The overlap min(added, removed) counts as modified; only the surplus on
// one side is credited as added or removed.
func AttributeLines(added, removed int) LineAttribution {
	attr := LineAttribution{Modified: min(added, removed)}
	if added > removed {
		attr.Added = added - removed
	} else {
		attr.Removed = removed - added
	}
	return attr
}

// Actions turns the attribution into line actions, omitting zero magnitudes.
func (a LineAttribution) Actions(developer, resourceID string) []schema.Action {
	var actions []schema.Action
	for _, credit := range []struct {
		t schema.ActionType
		n int
	}{
		{schema.LinesModified, a.Modified},
		{schema.LinesAdded, a.Added},
		{schema.LinesRemoved, a.Removed},
	} {
		if credit.n > 0 {
			actions = append(actions, schema.NewAction(developer, resourceID, credit.t, int64(credit.n)))
		}
	}
	return actions
}
