package format

// Legacy is the fallback for empty or unrecognized documents. It matches
// anything, guaranteeing the detection loop terminates, and initializes such
// documents with the standard mcp key on merge.
type Legacy struct{}

// Detect always matches.
func (Legacy) Detect(Doc) bool {
	return true
}

// Extract returns an empty canonical config; an unrecognized document has no
// MCP servers to offer.
func (Legacy) Extract(Doc) Doc {
	return Doc{}
}

// Merge writes the canonical config as the mcp key, same as StandardMCP.
func (Legacy) Merge(existing, canonical Doc) Doc {
	out := cloneTop(existing)
	out["mcp"] = canonical
	return out
}

// Name returns the dialect label.
func (Legacy) Name() string {
	return "Legacy/Empty"
}
