package ckan

// Resource formats recognized by the starter kit. The portal publishes
// format names with this exact casing.
const (
	FormatCSV     = "CSV"
	FormatParquet = "parquet"
	FormatWFS     = "WFS"
	FormatJSON    = "JSON"
)

// Resource is a single distribution of a dataset package.
type Resource struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Filename     string `json:"filename"`
	Format       string `json:"format"`
	URL          string `json:"url"`
	ResourceType string `json:"resource_type"`
	PackageID    string `json:"package_id"`
	Description  string `json:"description"`
	LastModified string `json:"last_modified"`
}

// Group is a thematic category assigned to a package.
type Group struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

// Tag is a free-form keyword assigned to a package.
type Tag struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

// Organization is the publishing office of a package. Titles may be
// localized on portals running the multilingual extension.
type Organization struct {
	Name  string          `json:"name"`
	Title LocalizedString `json:"title"`
}

// Package is a dataset with its metadata and resources.
type Package struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Title            string       `json:"title"`
	Notes            string       `json:"notes"`
	Remarks          string       `json:"sszBemerkungen"`
	Author           string       `json:"author"`
	Maintainer       string       `json:"maintainer"`
	MaintainerEmail  string       `json:"maintainer_email"`
	MetadataCreated  string       `json:"metadata_created"`
	MetadataModified string       `json:"metadata_modified"`
	Groups           []Group      `json:"groups"`
	Tags             []Tag        `json:"tags"`
	Resources        []Resource   `json:"resources"`
	Organization     Organization `json:"organization"`
}

// IsTabular reports whether the resource is a CSV or parquet distribution.
func IsTabular(r Resource) bool {
	return r.Format == FormatCSV || r.Format == FormatParquet
}

// IsGeo reports whether the resource is a geodata distribution. The portal
// exposes geodata as WFS endpoints with a JSON sidecar.
func IsGeo(r Resource) bool {
	return r.Format == FormatWFS || r.Format == FormatJSON
}

// TabularResources returns the package's CSV and parquet resources in
// declaration order.
func (p *Package) TabularResources() []Resource {
	var out []Resource
	for _, r := range p.Resources {
		if IsTabular(r) {
			out = append(out, r)
		}
	}
	return out
}

// GeoResources returns the package's WFS and JSON resources in declaration
// order.
func (p *Package) GeoResources() []Resource {
	var out []Resource
	for _, r := range p.Resources {
		if IsGeo(r) {
			out = append(out, r)
		}
	}
	return out
}

// FindResource looks up a resource by id.
func (p *Package) FindResource(id string) (Resource, bool) {
	for _, r := range p.Resources {
		if r.ID == id {
			return r, true
		}
	}
	return Resource{}, false
}

// FormatCounts returns the number of resources per format.
func (p *Package) FormatCounts() map[string]int {
	counts := make(map[string]int, len(p.Resources))
	for _, r := range p.Resources {
		counts[r.Format]++
	}
	return counts
}
