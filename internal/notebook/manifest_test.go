package notebook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opendatazurich/starterkit/internal/classify"
)

func TestLoadManifest(t *testing.T) {
	m, err := LoadManifest()
	require.NoError(t, err)

	assert.Equal(t, "csv", m.Default)
	assert.Contains(t, m.Templates, "csv")
	assert.Contains(t, m.Templates, "geo")
}

func TestManifestSelect(t *testing.T) {
	m, err := LoadManifest()
	require.NoError(t, err)

	tests := []struct {
		name  string
		tag   classify.TypeTag
		want  string
		known bool
	}{
		{"csv tag", classify.TagCSV, "tabular.Rmd.tmpl", true},
		{"geo tag", classify.TagGeo, "geo.Rmd.tmpl", true},
		{"unknown tag falls back to default", classify.TagUnknown, "tabular.Rmd.tmpl", false},
		{"novel tag falls back to default", classify.TypeTag("parquet"), "tabular.Rmd.tmpl", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, known := m.Select(tt.tag)
			assert.Equal(t, tt.want, file)
			assert.Equal(t, tt.known, known)
		})
	}
}

func TestManifestSelect_Idempotent(t *testing.T) {
	m, err := LoadManifest()
	require.NoError(t, err)

	// Repeated fallbacks always yield the same template.
	first, _ := m.Select(classify.TagUnknown)
	for i := 0; i < 3; i++ {
		file, known := m.Select(classify.TagUnknown)
		assert.Equal(t, first, file)
		assert.False(t, known)
	}
}
