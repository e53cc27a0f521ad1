package format

// VSCode handles the settings.json dialect with a nested mcp.servers object.
type VSCode struct{}

// Detect reports whether doc has an mcp object containing a servers key.
// This is stricter than the bare mcp check of StandardMCP, so VSCode must be
// probed before it in the detection order.
func (VSCode) Detect(doc Doc) bool {
	mcp := subDoc(doc, "mcp")
	if mcp == nil {
		return false
	}
	return hasKey(mcp, "servers")
}

// Extract normalizes mcp.servers and mcp.inputs into canonical form.
func (VSCode) Extract(doc Doc) Doc {
	mcp := subDoc(doc, "mcp")

	servers := subDoc(mcp, "servers")
	if servers == nil {
		servers = Doc{}
	}

	inputs, ok := mcp["inputs"]
	if !ok {
		inputs = []any{}
	}

	return Doc{
		"format":  "vscode",
		"servers": servers,
		"inputs":  inputs,
	}
}

// Merge writes the canonical config into the mcp section, leaving every
// other settings.json key untouched. The inputs sequence is carried over
// when present and defaulted to an empty sequence otherwise.
func (VSCode) Merge(existing, canonical Doc) Doc {
	out := cloneTop(existing)

	mcp := subDoc(out, "mcp")
	if mcp == nil {
		mcp = Doc{}
	} else {
		mcp = cloneTop(mcp)
	}

	switch {
	case hasKey(canonical, "servers"):
		mcp["servers"] = canonical["servers"]
		if inputs, ok := canonical["inputs"]; ok {
			mcp["inputs"] = inputs
		}
	case hasKey(canonical, "mcpServers"):
		mcp["servers"] = canonical["mcpServers"]
	default:
		mcp["servers"] = canonical
	}

	if !hasKey(mcp, "inputs") {
		mcp["inputs"] = []any{}
	}

	out["mcp"] = mcp
	return out
}

// Name returns the dialect label.
func (VSCode) Name() string {
	return "VSCode (mcp.servers)"
}
