package notebook

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/opendatazurich/starterkit/internal/classify"
)

//go:embed templates
var templatesFS embed.FS

// manifestPath locates the template manifest inside the embedded tree.
const manifestPath = "templates/manifest.yaml"

// Manifest maps dataset type tags to starter templates. The default entry
// is the fallback for unknown tags.
type Manifest struct {
	Default   string            `yaml:"default"`
	Templates map[string]string `yaml:"templates"`
}

// LoadManifest reads and validates the embedded template manifest.
func LoadManifest() (*Manifest, error) {
	raw, err := templatesFS.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	if _, ok := m.Templates[m.Default]; !ok {
		return nil, fmt.Errorf("manifest default %q has no template entry", m.Default)
	}
	for tag, file := range m.Templates {
		if _, err := templatesFS.ReadFile("templates/" + file); err != nil {
			return nil, fmt.Errorf("template for tag %q: %w", tag, err)
		}
	}
	return &m, nil
}

// Select returns the template file for a type tag. Unknown tags select the
// default template; the second return reports whether the tag was known.
func (m *Manifest) Select(tag classify.TypeTag) (string, bool) {
	if file, ok := m.Templates[string(tag)]; ok {
		return file, true
	}
	return m.Templates[m.Default], false
}
