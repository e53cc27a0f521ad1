package format

// Cursor handles Cursor's mixed dialect carrying both a legacy mcpServers
// key and a newer mcp section.
type Cursor struct{}

// Detect requires both mcpServers and an object-valued mcp key.
// Because this shape is a superset of both Claude's and StandardMCP's, the
// detection order must probe Cursor before StandardMCP.
func (Cursor) Detect(doc Doc) bool {
	if !hasKey(doc, "mcpServers") {
		return false
	}
	return subDoc(doc, "mcp") != nil
}

// Extract prefers the newer mcp section when present, falling back to the
// legacy mcpServers map otherwise.
func (Cursor) Extract(doc Doc) Doc {
	if mcp := subDoc(doc, "mcp"); mcp != nil {
		return cloneTop(mcp)
	}

	servers := subDoc(doc, "mcpServers")
	if servers == nil {
		servers = Doc{}
	}
	return Doc{
		"format":  "cursor_legacy",
		"servers": servers,
	}
}

// Merge writes the canonical config as the mcp section and drops the legacy
// mcpServers key. This is the one deliberate deletion in any merge rule:
// leaving both sections in place makes Cursor read conflicting server sets.
func (Cursor) Merge(existing, canonical Doc) Doc {
	out := cloneTop(existing)
	out["mcp"] = canonical
	delete(out, "mcpServers")
	return out
}

// Name returns the dialect label.
func (Cursor) Name() string {
	return "Cursor (mixed)"
}
