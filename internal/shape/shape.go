package shape

import "strings"

// InternalFields are storage and credential fields that must never reach a
// caller on export-style endpoints.
var InternalFields = []string{"partitionKey", "docType", "password", "salt", "merchants", "merchantInvites"}

// StripFields returns a copy of doc without the named top-level fields.
func StripFields(doc map[string]any, fields ...string) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	for _, f := range fields {
		delete(out, f)
	}
	return out
}

// ResolveLanguage collapses multi-language "texts" maps to the single entry
// matching languageCode (case-insensitive), recursively over child nodes. The
// matched entry's fields are merged into the node and the raw map dropped; if
// no entry matches, the texts map is dropped entirely.
func ResolveLanguage(node map[string]any, languageCode string) map[string]any {
	out := make(map[string]any, len(node))
	for k, v := range node {
		if k == "texts" {
			if texts, ok := v.(map[string]any); ok {
				for lang, entry := range texts {
					if !strings.EqualFold(lang, languageCode) {
						continue
					}
					if fields, ok := entry.(map[string]any); ok {
						for fk, fv := range fields {
							out[fk] = fv
						}
					}
					break
				}
				continue
			}
		}
		out[k] = resolveValue(v, languageCode)
	}
	return out
}

func resolveValue(v any, languageCode string) any {
	switch t := v.(type) {
	case map[string]any:
		return ResolveLanguage(t, languageCode)
	case []any:
		items := make([]any, len(t))
		for i, item := range t {
			items[i] = resolveValue(item, languageCode)
		}
		return items
	default:
		return v
	}
}
