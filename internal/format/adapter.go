// Package format implements the per-application MCP config dialects.
//
// Every supported application persists the same logical MCP server set in a
// different JSON shape. An Adapter knows one shape: it can recognize it,
// project it into the shared canonical form, and write a canonical config
// back into an existing document without disturbing unrelated keys.
//
// Adapters are stateless and safe for concurrent use.
package format

// Doc is a parsed JSON object. Both full application config documents and
// canonical MCP configs are represented this way; server definitions are
// treated as opaque values keyed by server name.
type Doc = map[string]any

// Adapter is the strategy interface for one config dialect.
type Adapter interface {
	// Detect reports whether doc is in this adapter's dialect.
	// It is a structural predicate over keys only; values are not validated.
	Detect(doc Doc) bool

	// Extract projects the dialect's MCP-relevant subtree into the canonical
	// shape {servers: ..., ...}. It must not mutate doc.
	Extract(doc Doc) Doc

	// Merge returns a new document equal to existing except for the
	// MCP-relevant keys, which are replaced from canonical per dialect rules.
	// Unrelated keys are never removed. Neither input is mutated.
	Merge(existing, canonical Doc) Doc

	// Name returns a stable human-readable label for reporting.
	Name() string
}

// Servers returns the server map of a canonical config, or an empty map when
// the config has no (or a malformed) servers key.
func Servers(canonical Doc) map[string]any {
	if canonical == nil {
		return map[string]any{}
	}
	if servers, ok := canonical["servers"].(map[string]any); ok {
		return servers
	}
	return map[string]any{}
}

// cloneTop returns a shallow copy of doc with a fresh top-level map.
// Nested values are shared; merge rules only ever replace whole subtrees.
func cloneTop(doc Doc) Doc {
	out := make(Doc, len(doc)+1)
	for k, v := range doc {
		out[k] = v
	}
	return out
}

// subDoc returns doc[key] as a Doc, or nil if absent or not an object.
func subDoc(doc Doc, key string) Doc {
	if doc == nil {
		return nil
	}
	if sub, ok := doc[key].(map[string]any); ok {
		return sub
	}
	return nil
}
