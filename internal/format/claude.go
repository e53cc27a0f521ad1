package format

// ClaudeDesktop handles Claude Desktop's top-level mcpServers dialect.
type ClaudeDesktop struct{}

// Detect reports whether doc carries a top-level mcpServers key.
func (ClaudeDesktop) Detect(doc Doc) bool {
	_, ok := doc["mcpServers"]
	return ok
}

// Extract normalizes the mcpServers map into canonical form.
func (ClaudeDesktop) Extract(doc Doc) Doc {
	servers := subDoc(doc, "mcpServers")
	if servers == nil {
		servers = Doc{}
	}
	return Doc{
		"format":  "claude_desktop",
		"servers": servers,
	}
}

// Merge writes the canonical server set back as mcpServers.
// The canonical config may arrive in normalized {servers: ...} form, in
// Claude's own {mcpServers: ...} form, or as a bare name→definition map.
func (ClaudeDesktop) Merge(existing, canonical Doc) Doc {
	out := cloneTop(existing)

	switch {
	case hasKey(canonical, "servers"):
		out["mcpServers"] = canonical["servers"]
	case hasKey(canonical, "mcpServers"):
		out["mcpServers"] = canonical["mcpServers"]
	default:
		out["mcpServers"] = canonical
	}

	return out
}

// Name returns the dialect label.
func (ClaudeDesktop) Name() string {
	return "Claude Desktop (mcpServers)"
}

func hasKey(doc Doc, key string) bool {
	_, ok := doc[key]
	return ok
}
