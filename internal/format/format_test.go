package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleServers is a typical opaque server map.
func sampleServers() map[string]any {
	return map[string]any{
		"fs": map[string]any{
			"command": "npx",
			"args":    []any{"x"},
		},
	}
}

func TestClaudeDesktop_Detect(t *testing.T) {
	a := ClaudeDesktop{}
	assert.True(t, a.Detect(Doc{"mcpServers": map[string]any{}}))
	assert.False(t, a.Detect(Doc{"mcp": map[string]any{}}))
	assert.False(t, a.Detect(Doc{}))
}

func TestClaudeDesktop_Extract(t *testing.T) {
	a := ClaudeDesktop{}
	got := a.Extract(Doc{"mcpServers": sampleServers(), "theme": "dark"})

	assert.Equal(t, "claude_desktop", got["format"])
	assert.Equal(t, sampleServers(), got["servers"])
}

func TestClaudeDesktop_Merge_InputShapes(t *testing.T) {
	a := ClaudeDesktop{}

	tests := []struct {
		name      string
		canonical Doc
	}{
		{"normalized servers shape", Doc{"servers": sampleServers()}},
		{"claude mcpServers shape", Doc{"mcpServers": sampleServers()}},
		{"bare name-to-definition map", Doc(sampleServers())},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.Merge(Doc{"theme": "dark"}, tt.canonical)
			assert.Equal(t, sampleServers(), got["mcpServers"])
			assert.Equal(t, "dark", got["theme"])
		})
	}
}

func TestVSCode_Detect(t *testing.T) {
	a := VSCode{}
	assert.True(t, a.Detect(Doc{"mcp": map[string]any{"servers": map[string]any{}}}))
	assert.False(t, a.Detect(Doc{"mcp": map[string]any{}}), "bare mcp without servers is StandardMCP territory")
	assert.False(t, a.Detect(Doc{"mcp": "not an object"}))
	assert.False(t, a.Detect(Doc{"mcpServers": map[string]any{}}))
}

func TestVSCode_Extract(t *testing.T) {
	a := VSCode{}

	t.Run("with inputs", func(t *testing.T) {
		doc := Doc{"mcp": map[string]any{
			"servers": sampleServers(),
			"inputs":  []any{map[string]any{"id": "token"}},
		}}
		got := a.Extract(doc)
		assert.Equal(t, "vscode", got["format"])
		assert.Equal(t, sampleServers(), got["servers"])
		assert.Len(t, got["inputs"], 1)
	})

	t.Run("inputs default to empty sequence", func(t *testing.T) {
		got := a.Extract(Doc{"mcp": map[string]any{"servers": sampleServers()}})
		assert.Equal(t, []any{}, got["inputs"])
	})
}

func TestVSCode_Merge_PreservesSettings(t *testing.T) {
	a := VSCode{}
	existing := Doc{
		"editor.fontSize": 14,
		"mcp":             map[string]any{},
	}

	got := a.Merge(existing, Doc{"servers": sampleServers()})

	assert.Equal(t, 14, got["editor.fontSize"])
	mcp := got["mcp"].(map[string]any)
	assert.Equal(t, sampleServers(), mcp["servers"])
	assert.Equal(t, []any{}, mcp["inputs"])

	// The input document's mcp section is not mutated
	assert.Empty(t, existing["mcp"].(map[string]any))
}

func TestVSCode_Merge_FromClaudeShape(t *testing.T) {
	a := VSCode{}
	got := a.Merge(Doc{}, Doc{"mcpServers": sampleServers()})

	mcp := got["mcp"].(map[string]any)
	assert.Equal(t, sampleServers(), mcp["servers"])
	assert.Equal(t, []any{}, mcp["inputs"])
}

func TestVSCode_Merge_CarriesInputs(t *testing.T) {
	a := VSCode{}
	inputs := []any{map[string]any{"id": "api-key"}}
	got := a.Merge(Doc{}, Doc{"servers": sampleServers(), "inputs": inputs})

	mcp := got["mcp"].(map[string]any)
	assert.Equal(t, inputs, mcp["inputs"])
}

func TestCursor_Detect(t *testing.T) {
	a := Cursor{}
	assert.True(t, a.Detect(Doc{"mcpServers": map[string]any{}, "mcp": map[string]any{}}))
	assert.False(t, a.Detect(Doc{"mcpServers": map[string]any{}}))
	assert.False(t, a.Detect(Doc{"mcp": map[string]any{}}))
	assert.False(t, a.Detect(Doc{"mcpServers": map[string]any{}, "mcp": "junk"}))
}

func TestCursor_Extract_PrefersMCPSection(t *testing.T) {
	a := Cursor{}
	doc := Doc{
		"mcpServers": map[string]any{"legacy": map[string]any{}},
		"mcp":        map[string]any{"servers": sampleServers()},
	}

	got := a.Extract(doc)
	assert.Equal(t, sampleServers(), got["servers"])
}

func TestCursor_Extract_LegacyFallback(t *testing.T) {
	a := Cursor{}
	got := a.Extract(Doc{"mcpServers": sampleServers()})

	assert.Equal(t, "cursor_legacy", got["format"])
	assert.Equal(t, sampleServers(), got["servers"])
}

func TestCursor_Merge_RemovesLegacyKey(t *testing.T) {
	a := Cursor{}
	existing := Doc{
		"mcpServers": map[string]any{"old": map[string]any{}},
		"mcp":        map[string]any{},
		"telemetry":  false,
	}

	got := a.Merge(existing, Doc{"servers": sampleServers()})

	assert.NotContains(t, got, "mcpServers")
	assert.Equal(t, Doc{"servers": sampleServers()}, got["mcp"])
	assert.Equal(t, false, got["telemetry"])

	// The input still has its legacy key; merge returns a new document
	assert.Contains(t, existing, "mcpServers")
}

func TestStandardMCP(t *testing.T) {
	a := StandardMCP{}

	assert.True(t, a.Detect(Doc{"mcp": map[string]any{}}))
	assert.False(t, a.Detect(Doc{}))

	extracted := a.Extract(Doc{"mcp": map[string]any{"servers": sampleServers()}})
	assert.Equal(t, sampleServers(), extracted["servers"])

	merged := a.Merge(Doc{"other": "setting"}, Doc{"servers": sampleServers()})
	assert.Equal(t, Doc{"servers": sampleServers()}, merged["mcp"])
	assert.Equal(t, "setting", merged["other"])
}

func TestLegacy(t *testing.T) {
	a := Legacy{}

	assert.True(t, a.Detect(Doc{}))
	assert.True(t, a.Detect(Doc{"anything": 1}))

	assert.Empty(t, a.Extract(Doc{"anything": 1}))

	merged := a.Merge(Doc{"keep": true}, Doc{"servers": sampleServers()})
	assert.Equal(t, Doc{"servers": sampleServers()}, merged["mcp"])
	assert.Equal(t, true, merged["keep"])
}

// TestMerge_NonDestructive verifies that for every adapter, keys outside the
// MCP-relevant subtree survive a merge untouched.
func TestMerge_NonDestructive(t *testing.T) {
	existing := Doc{
		"unrelated": map[string]any{"nested": []any{1, 2, 3}},
		"flag":      true,
	}
	canonical := Doc{"servers": sampleServers()}

	for _, a := range DetectionOrder() {
		t.Run(a.Name(), func(t *testing.T) {
			got := a.Merge(existing, canonical)
			assert.Equal(t, existing["unrelated"], got["unrelated"])
			assert.Equal(t, existing["flag"], got["flag"])
		})
	}
}

// TestRoundTrip verifies merge(doc, extract(doc)) preserves the server set
// for each adapter's own dialect.
func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		adapter Adapter
		doc     Doc
		servers func(Doc) map[string]any
	}{
		{
			name:    "claude",
			adapter: ClaudeDesktop{},
			doc:     Doc{"mcpServers": sampleServers(), "theme": "dark"},
			servers: func(d Doc) map[string]any { return d["mcpServers"].(map[string]any) },
		},
		{
			name:    "vscode",
			adapter: VSCode{},
			doc: Doc{"mcp": map[string]any{
				"servers": sampleServers(),
				"inputs":  []any{},
			}},
			servers: func(d Doc) map[string]any {
				return d["mcp"].(map[string]any)["servers"].(map[string]any)
			},
		},
		{
			name:    "cursor",
			adapter: Cursor{},
			doc: Doc{
				"mcpServers": map[string]any{"stale": map[string]any{}},
				"mcp":        map[string]any{"servers": sampleServers()},
			},
			servers: func(d Doc) map[string]any {
				return d["mcp"].(map[string]any)["servers"].(map[string]any)
			},
		},
		{
			name:    "standard",
			adapter: StandardMCP{},
			doc:     Doc{"mcp": map[string]any{"servers": sampleServers()}},
			servers: func(d Doc) map[string]any {
				return d["mcp"].(map[string]any)["servers"].(map[string]any)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extracted := tt.adapter.Extract(tt.doc)
			merged := tt.adapter.Merge(tt.doc, extracted)
			assert.Equal(t, sampleServers(), tt.servers(merged))
		})
	}
}

func TestDetectFormat_Priority(t *testing.T) {
	tests := []struct {
		name string
		doc  Doc
		want string
	}{
		{"claude only", Doc{"mcpServers": map[string]any{}}, "Claude Desktop (mcpServers)"},
		{"vscode nested", Doc{"mcp": map[string]any{"servers": map[string]any{}}}, "VSCode (mcp.servers)"},
		{"cursor mixed", Doc{"mcpServers": map[string]any{}, "mcp": map[string]any{}}, "Cursor (mixed)"},
		{
			"cursor mixed with populated mcp",
			Doc{"mcpServers": map[string]any{}, "mcp": map[string]any{"servers": map[string]any{}}},
			"Cursor (mixed)",
		},
		{"standard bare mcp", Doc{"mcp": map[string]any{"other": 1}}, "Standard MCP"},
		{"mcpServers with non-object mcp", Doc{"mcpServers": map[string]any{}, "mcp": 42}, "Claude Desktop (mcpServers)"},
		{"empty document", Doc{}, "Legacy/Empty"},
		{"unrelated document", Doc{"editor.fontSize": 14}, "Legacy/Empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFormat(tt.doc).Name())
		})
	}
}

func TestDetectionOrder_Stable(t *testing.T) {
	order := DetectionOrder()
	require.Len(t, order, 5)

	names := make([]string, len(order))
	for i, a := range order {
		names[i] = a.Name()
	}
	assert.Equal(t, []string{
		"Cursor (mixed)",
		"VSCode (mcp.servers)",
		"Claude Desktop (mcpServers)",
		"Standard MCP",
		"Legacy/Empty",
	}, names)

	// Mutating the returned slice must not affect routing
	order[0] = Legacy{}
	assert.Equal(t, "Cursor (mixed)", DetectFormat(Doc{"mcpServers": map[string]any{}, "mcp": map[string]any{}}).Name())
}

func TestForApp(t *testing.T) {
	tests := []struct {
		app  string
		want string
	}{
		{"Claude", "Claude Desktop (mcpServers)"},
		{"VSCode", "VSCode (mcp.servers)"},
		{"Cursor", "Cursor (mixed)"},
		{"Windsurf", "Standard MCP"},
		{"Roocode-VSCode", "Standard MCP"},
		{"Roocode-Windsurf", "Standard MCP"},
		{"SomethingElse", "Standard MCP"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ForApp(tt.app).Name(), "app %s", tt.app)
	}
}

func TestServers(t *testing.T) {
	assert.Equal(t, sampleServers(), Servers(Doc{"servers": sampleServers()}))
	assert.Empty(t, Servers(Doc{}))
	assert.Empty(t, Servers(nil))
	assert.Empty(t, Servers(Doc{"servers": "junk"}))
}
