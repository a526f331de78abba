package bot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "replies.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validCatalog = `{
  "placeholders": {"nama_bisnis": "Studio", "admin": "0812"},
  "fallback": "welcome",
  "rules": [
    {"keywords": ["Konsultasi", "konsultan", "hubungi"], "intent": "konsultasi"},
    {"keywords": ["harga"], "intent": "harga"}
  ],
  "intents": {
    "welcome": {"body": "Halo dari {nama_bisnis}!", "reaction": "👋"},
    "konsultasi": {"body": "Admin {admin} akan menghubungi Anda", "reaction": "🙏"},
    "harga": {"body": "Daftar harga {nama_bisnis}", "reaction": "💰"}
  },
  "errors": {"unsupported_type": "teks saja ya", "general_error": "ada kendala"}
}`

func TestLoadCatalog(t *testing.T) {
	c, err := LoadCatalog(writeCatalog(t, validCatalog))
	require.NoError(t, err)

	assert.Equal(t, "welcome", c.Fallback)
	assert.Len(t, c.Rules, 2)
	// Keywords are normalized at load.
	assert.Equal(t, "konsultasi", c.Rules[0].Keywords[0])
	assert.Equal(t, "teks saja ya", c.Errors.UnsupportedType)
}

func TestLoadCatalogMissingFile(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestLoadCatalogInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed json", `{"fallback":`},
		{"no intents", `{"fallback":"welcome","intents":{},"errors":{"unsupported_type":"a","general_error":"b"}}`},
		{"undefined fallback", `{"fallback":"missing","intents":{"welcome":{"body":"hi"}},"errors":{"unsupported_type":"a","general_error":"b"}}`},
		{"rule references unknown intent", `{"fallback":"welcome","rules":[{"keywords":["x"],"intent":"nope"}],"intents":{"welcome":{"body":"hi"}},"errors":{"unsupported_type":"a","general_error":"b"}}`},
		{"rule without keywords", `{"fallback":"welcome","rules":[{"keywords":[],"intent":"welcome"}],"intents":{"welcome":{"body":"hi"}},"errors":{"unsupported_type":"a","general_error":"b"}}`},
		{"missing error templates", `{"fallback":"welcome","intents":{"welcome":{"body":"hi"}},"errors":{"unsupported_type":"a"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCatalog(writeCatalog(t, tt.content))
			require.Error(t, err)
		})
	}
}

func TestRenderPlaceholders(t *testing.T) {
	c := &Catalog{Placeholders: map[string]string{
		"nama_bisnis": "Studio",
		"admin":       "0812",
	}}

	// Two distinct tokens, each twice: all four occurrences replaced.
	out := c.Render("{nama_bisnis} {admin} — {nama_bisnis} {admin}")
	assert.Equal(t, "Studio 0812 — Studio 0812", out)
}

func TestRenderLeavesUnknownTokens(t *testing.T) {
	c := &Catalog{Placeholders: map[string]string{"admin": "0812"}}

	out := c.Render("hubungi {admin} atau {tidak_dikenal}")
	assert.Equal(t, "hubungi 0812 atau {tidak_dikenal}", out)
}

func TestShippedCatalogLoads(t *testing.T) {
	c, err := LoadCatalog(filepath.Join("..", "..", "templates", "replies.json"))
	require.NoError(t, err)
	assert.Contains(t, c.Intents, IntentConsultation)
	assert.Equal(t, IntentConsultation, c.Rules[0].Intent)
}
