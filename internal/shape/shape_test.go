package shape

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripFields(t *testing.T) {
	doc := map[string]any{
		"_id":          "u1",
		"email":        "a@example.com",
		"password":     "hash",
		"salt":         "s",
		"partitionKey": "u1",
		"docType":      "user",
		"merchants":    []any{},
	}

	got := StripFields(doc, InternalFields...)

	assert.Equal(t, map[string]any{"_id": "u1", "email": "a@example.com"}, got)
	// Input is untouched.
	assert.Contains(t, doc, "password")
}

func TestResolveLanguage_PicksMatchingEntryCaseInsensitively(t *testing.T) {
	menu := map[string]any{
		"id": "root",
		"texts": map[string]any{
			"sv-SE": map[string]any{"text": "A"},
			"en-US": map[string]any{"text": "B"},
		},
		"children": []any{
			map[string]any{
				"id": "child",
				"texts": map[string]any{
					"sv-SE": map[string]any{"text": "Barn"},
					"en-US": map[string]any{"text": "Child"},
				},
			},
		},
	}

	got := ResolveLanguage(menu, "EN-us")

	assert.Equal(t, "B", got["text"])
	assert.NotContains(t, got, "texts")

	children := got["children"].([]any)
	child := children[0].(map[string]any)
	assert.Equal(t, "Child", child["text"])
	assert.NotContains(t, child, "texts")
}

func TestResolveLanguage_NoMatchDropsTexts(t *testing.T) {
	menu := map[string]any{
		"id":    "root",
		"texts": map[string]any{"sv-SE": map[string]any{"text": "A"}},
	}

	got := ResolveLanguage(menu, "de-DE")

	assert.NotContains(t, got, "texts")
	assert.NotContains(t, got, "text")
	assert.Equal(t, "root", got["id"])
}
