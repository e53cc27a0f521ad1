package syncer

import (
	"github.com/thoreinstein/mcpsync/internal/format"
)

// DeepMerge merges overlay into base recursively and returns a new document.
// Where a key holds an object on both sides the objects are merged; otherwise
// the overlay value wins. Neither input is mutated.
//
// This is only used to apply an explicit custom overlay onto the canonical
// config before a pass. Per-target merging is structural replacement of the
// MCP keys, handled by the format adapters.
func DeepMerge(base, overlay format.Doc) format.Doc {
	merged := make(format.Doc, len(base)+len(overlay))
	for k, v := range base {
		merged[k] = v
	}

	for k, v := range overlay {
		existing, ok := merged[k]
		if !ok {
			merged[k] = v
			continue
		}

		existingMap, okBase := existing.(map[string]any)
		overlayMap, okOverlay := v.(map[string]any)
		if okBase && okOverlay {
			merged[k] = DeepMerge(existingMap, overlayMap)
		} else {
			merged[k] = v
		}
	}

	return merged
}
