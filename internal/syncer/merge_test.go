package syncer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thoreinstein/mcpsync/internal/format"
)

func TestDeepMerge(t *testing.T) {
	tests := []struct {
		name    string
		base    format.Doc
		overlay format.Doc
		want    format.Doc
	}{
		{
			name:    "disjoint keys",
			base:    format.Doc{"a": 1},
			overlay: format.Doc{"b": 2},
			want:    format.Doc{"a": 1, "b": 2},
		},
		{
			name:    "overlay scalar wins",
			base:    format.Doc{"a": 1},
			overlay: format.Doc{"a": 2},
			want:    format.Doc{"a": 2},
		},
		{
			name: "nested objects merge",
			base: format.Doc{
				"servers": map[string]any{"fs": map[string]any{"command": "npx"}},
			},
			overlay: format.Doc{
				"servers": map[string]any{"git": map[string]any{"command": "git-mcp"}},
			},
			want: format.Doc{
				"servers": map[string]any{
					"fs":  map[string]any{"command": "npx"},
					"git": map[string]any{"command": "git-mcp"},
				},
			},
		},
		{
			name:    "overlay object replaces scalar",
			base:    format.Doc{"a": "x"},
			overlay: format.Doc{"a": map[string]any{"b": 1}},
			want:    format.Doc{"a": map[string]any{"b": 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeepMerge(tt.base, tt.overlay))
		})
	}
}

func TestDeepMerge_DoesNotMutateInputs(t *testing.T) {
	base := format.Doc{"servers": map[string]any{"a": map[string]any{}}}
	overlay := format.Doc{"servers": map[string]any{"b": map[string]any{}}}

	DeepMerge(base, overlay)

	assert.Len(t, base["servers"], 1)
	assert.Len(t, overlay["servers"], 1)
}
