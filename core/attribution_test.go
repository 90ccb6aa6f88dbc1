package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/udithaR/Alitheia-Core/schema"
)

func TestAttributeLines(t *testing.T) {
	tests := []struct {
		added, removed int
		want           LineAttribution
	}{
		{0, 0, LineAttribution{}},
		{10, 0, LineAttribution{Added: 10}},
		{0, 7, LineAttribution{Removed: 7}},
		{10, 4, LineAttribution{Modified: 4, Added: 6}},
		{4, 10, LineAttribution{Modified: 4, Removed: 6}},
		{5, 5, LineAttribution{Modified: 5}},
	}
	for _, tt := range tests {
		got := AttributeLines(tt.added, tt.removed)
		assert.Equal(t, tt.want, got, "added=%d removed=%d", tt.added, tt.removed)
		assert.Equal(t, tt.added, got.Added+got.Modified)
		assert.Equal(t, tt.removed, got.Removed+got.Modified)
	}
}

func TestCountDiffLines(t *testing.T) {
	chunks := []schema.DiffChunk{
		{Text: "@@ -1,3 +1,3 @@\n context\n-old\n+new\n+newer\n"},
		{Text: "@@ -20 +21 @@\n-gone\n-also gone\n\\ No newline at end of file\n"},
	}
	added, removed := CountDiffLines(chunks)
	assert.Equal(t, 2, added)
	assert.Equal(t, 3, removed)

	added, removed = CountDiffLines(nil)
	assert.Zero(t, added)
	assert.Zero(t, removed)
}

func TestLineAttribution_Actions(t *testing.T) {
	id := schema.CommitResourceID("abc")
	actions := LineAttribution{Added: 6, Modified: 4}.Actions(ada, id)
	assert.Equal(t, []schema.Action{
		schema.NewAction(ada, id, schema.LinesModified, 4),
		schema.NewAction(ada, id, schema.LinesAdded, 6),
	}, actions)

	assert.Empty(t, LineAttribution{}.Actions(ada, id))
}
