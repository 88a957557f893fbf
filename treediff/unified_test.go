package treediff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/greentree/text"
)

func TestUnified(t *testing.T) {
	tests := []struct {
		name    string
		old     string
		changes []text.Change
		context int
		want    string
	}{
		{
			name:    "replace within a line",
			old:     "a\nb\nc\n",
			changes: []text.Change{text.NewChange(text.NewSpan(2, 1), "B")},
			context: 1,
			want: "--- old\n+++ new\n" +
				"@@ -1,3 +1,3 @@\n" +
				" a\n-b\n+B\n c\n",
		},
		{
			name:    "insert a line",
			old:     "a\nc\n",
			changes: []text.Change{text.NewChange(text.NewSpan(2, 0), "b\n")},
			context: 0,
			want: "--- old\n+++ new\n" +
				"@@ -1,0 +2,1 @@\n" +
				"+b\n",
		},
		{
			name:    "delete a line",
			old:     "a\nb\nc\n",
			changes: []text.Change{text.NewChange(text.NewSpan(2, 2), "")},
			context: 1,
			want: "--- old\n+++ new\n" +
				"@@ -1,3 +1,2 @@\n" +
				" a\n-b\n c\n",
		},
		{
			name: "two hunks",
			old:  "1\n2\n3\n4\n5\n6\n7\n8\n",
			changes: []text.Change{
				text.NewChange(text.NewSpan(0, 1), "one"),
				text.NewChange(text.NewSpan(14, 1), "eight"),
			},
			context: 1,
			want: "--- old\n+++ new\n" +
				"@@ -1,2 +1,2 @@\n" +
				"-1\n+one\n 2\n" +
				"@@ -7,2 +7,2 @@\n" +
				" 7\n-8\n+eight\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Unified("old", "new", tt.old, tt.changes, tt.context)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnifiedNoChanges(t *testing.T) {
	got, err := Unified("old", "new", "a\n", nil, 3)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestUnifiedRejectsBadChanges(t *testing.T) {
	_, err := Unified("old", "new", "a\n", []text.Change{text.NewChange(text.NewSpan(5, 1), "")}, 3)
	assert.ErrorIs(t, err, text.ErrChangeOutOfRange)
}
