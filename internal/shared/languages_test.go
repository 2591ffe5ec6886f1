package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLanguages(t *testing.T) {
	assert.Len(t, Languages, 7)

	seen := map[string]bool{}
	for _, l := range Languages {
		assert.False(t, seen[l.Tag], "duplicate tag %s", l.Tag)
		seen[l.Tag] = true
		assert.NotEmpty(t, l.DisplayName)
		assert.Contains(t, l.Template, "ai feedback")
	}
}

func TestLookupLanguage(t *testing.T) {
	l, ok := LookupLanguage("cpp")
	assert.True(t, ok)
	assert.Equal(t, "C++", l.DisplayName)

	assert.True(t, IsSupportedLanguage("go"))
	assert.False(t, IsSupportedLanguage("Go"))
	assert.False(t, IsSupportedLanguage("cobol"))
	assert.False(t, IsSupportedLanguage(""))
}
