package llm

// BuildEnvelopeSchema returns a JSON-Schema (draft 2020-12 subset) for the
// three-array envelope the extraction prompt demands. The arrays are each
// optional — the source contract tolerates their absence — but when present
// every entry must be an object, so a structurally wrong answer fails fast
// here instead of producing zero-valued records downstream.
func BuildEnvelopeSchema() map[string]any {
	entityArray := map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "object"},
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"invoices":  entityArray,
			"products":  entityArray,
			"customers": entityArray,
		},
	}
}
