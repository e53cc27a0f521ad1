package format

import (
	"github.com/thoreinstein/mcpsync/internal/paths"
)

// detectionOrder is the fixed-priority adapter list for format detection.
// Order is load-bearing: the most specific shapes are probed first.
//   - Cursor's shape ({mcpServers, mcp}) is a superset of both Claude's
//     ({mcpServers}) and StandardMCP's ({mcp}), so it goes first; a mixed
//     document must never be mistaken for plain Claude or Standard.
//   - VSCode's nested mcp.servers must be probed before the bare mcp check.
//   - Legacy matches anything and terminates the loop.
var detectionOrder = []Adapter{
	Cursor{},
	VSCode{},
	ClaudeDesktop{},
	StandardMCP{},
	Legacy{},
}

// DetectionOrder returns the detection priority list.
// The returned slice is a copy; the order itself never changes at runtime.
func DetectionOrder() []Adapter {
	out := make([]Adapter, len(detectionOrder))
	copy(out, detectionOrder)
	return out
}

// DetectFormat returns the first adapter whose Detect matches doc.
// Legacy guarantees a non-nil result for any input.
func DetectFormat(doc Doc) Adapter {
	for _, a := range detectionOrder {
		if a.Detect(doc) {
			return a
		}
	}
	return Legacy{}
}

// appWriters maps known application names to their preferred write dialect.
// Writing always uses the app's canonical dialect, regardless of which
// dialect the app's existing file happens to be in.
var appWriters = map[string]Adapter{
	paths.AppClaude:          ClaudeDesktop{},
	paths.AppVSCode:          VSCode{},
	paths.AppCursor:          Cursor{},
	paths.AppWindsurf:        StandardMCP{},
	paths.AppRoocodeVSCode:   StandardMCP{},
	paths.AppRoocodeWindsurf: StandardMCP{},
}

// ForApp returns the preferred write adapter for an application.
// Unknown app names fall back to StandardMCP.
func ForApp(app string) Adapter {
	if a, ok := appWriters[app]; ok {
		return a
	}
	return StandardMCP{}
}
