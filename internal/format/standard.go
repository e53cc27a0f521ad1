package format

// StandardMCP handles the plain top-level mcp dialect used by Windsurf and
// the Roocode extensions.
type StandardMCP struct{}

// Detect reports whether doc carries a top-level mcp key.
func (StandardMCP) Detect(doc Doc) bool {
	return hasKey(doc, "mcp")
}

// Extract returns the mcp subtree as-is, or an empty config when absent.
func (StandardMCP) Extract(doc Doc) Doc {
	if mcp := subDoc(doc, "mcp"); mcp != nil {
		return cloneTop(mcp)
	}
	return Doc{}
}

// Merge writes the canonical config as the mcp key.
func (StandardMCP) Merge(existing, canonical Doc) Doc {
	out := cloneTop(existing)
	out["mcp"] = canonical
	return out
}

// Name returns the dialect label.
func (StandardMCP) Name() string {
	return "Standard MCP"
}
