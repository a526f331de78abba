package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := LoadCatalog(writeCatalog(t, validCatalog))
	require.NoError(t, err)
	return c
}

func TestClassifyKeywordSubstring(t *testing.T) {
	cl := NewClassifier(testCatalog(t))

	tests := []struct {
		name   string
		text   string
		intent string
	}{
		{"exact keyword", "konsultasi", "konsultasi"},
		{"keyword inside sentence", "saya mau konsultasi dong", "konsultasi"},
		{"keyword as substring of a word", "butuh konsultan untuk projek", "konsultasi"},
		{"uppercase input", "BERAPA HARGA LOGO?", "harga"},
		{"surrounding whitespace", "   harga   ", "harga"},
		{"no match falls back", "apakah kamu robot?", "welcome"},
		{"empty input falls back", "", "welcome"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := cl.Classify(tt.text)
			assert.Equal(t, tt.intent, reply.Intent)
		})
	}
}

func TestClassifyFirstMatchWins(t *testing.T) {
	// Both rules match "hubungi soal harga"; the konsultasi rule is
	// listed first, so it must win even though harga also matches.
	cl := NewClassifier(testCatalog(t))

	reply := cl.Classify("hubungi soal harga dong")
	assert.Equal(t, "konsultasi", reply.Intent)
}

func TestClassifyRendersPlaceholders(t *testing.T) {
	cl := NewClassifier(testCatalog(t))

	reply := cl.Classify("saya mau konsultasi")
	assert.Equal(t, "Admin 0812 akan menghubungi Anda", reply.Body)
	assert.Equal(t, "🙏", reply.Reaction)
}

func TestClassifyFallbackTemplate(t *testing.T) {
	cl := NewClassifier(testCatalog(t))

	reply := cl.Classify("halo")
	assert.Equal(t, "welcome", reply.Intent)
	assert.Equal(t, "Halo dari Studio!", reply.Body)
	assert.Equal(t, "👋", reply.Reaction)
}
