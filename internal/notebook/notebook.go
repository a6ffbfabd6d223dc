// Package notebook selects and renders the starter notebooks shipped with
// the data project image. Templates are RMarkdown skeletons embedded in
// the binary and parameterized with dataset metadata.
package notebook

import (
	"fmt"
	"io"
	"text/template"

	"github.com/opendatazurich/starterkit/internal/ckan"
	"github.com/opendatazurich/starterkit/internal/classify"
	"github.com/opendatazurich/starterkit/internal/config"
)

// Provider is the display name of the data provider.
const Provider = "OpenDataZurich"

// Params carries everything a starter template can reference.
type Params struct {
	Package   *ckan.Package
	Resource  ckan.Resource
	Date      string
	Provider  string
	PortalURL string

	// WFSURL is the geoportal WFS endpoint for geo resources, empty for
	// tabular ones.
	WFSURL string
}

// NewParams assembles template parameters for a package. resourceID may be
// the config.ResourceNone sentinel, in which case the first resource
// matching the type tag is used.
func NewParams(pkg *ckan.Package, resourceID string, tag classify.TypeTag, date string) (Params, error) {
	res, err := resolveResource(pkg, resourceID, tag)
	if err != nil {
		return Params{}, err
	}

	p := Params{
		Package:   pkg,
		Resource:  res,
		Date:      date,
		Provider:  Provider,
		PortalURL: ckan.PortalDatasetURL,
	}
	if tag == classify.TagGeo {
		wfsURL, err := ckan.GeoportalWFSURL(res.URL)
		if err != nil {
			return Params{}, fmt.Errorf("resource %q: %w", res.ID, err)
		}
		p.WFSURL = wfsURL
	}
	return p, nil
}

// resolveResource picks the resource named by id, or the first resource of
// the tag's kind when the sentinel is given.
func resolveResource(pkg *ckan.Package, resourceID string, tag classify.TypeTag) (ckan.Resource, error) {
	if resourceID != config.ResourceNone {
		res, ok := pkg.FindResource(resourceID)
		if !ok {
			return ckan.Resource{}, fmt.Errorf("package %q has no resource %q", pkg.Name, resourceID)
		}
		return res, nil
	}

	var candidates []ckan.Resource
	if tag == classify.TagGeo {
		candidates = pkg.GeoResources()
	} else {
		candidates = pkg.TabularResources()
	}
	if len(candidates) == 0 {
		return ckan.Resource{}, fmt.Errorf("package %q has no %s resource", pkg.Name, tag)
	}
	return candidates[0], nil
}

// Render executes the named embedded template with the given parameters.
func Render(w io.Writer, file string, p Params) error {
	tmpl, err := template.ParseFS(templatesFS, "templates/"+file)
	if err != nil {
		return fmt.Errorf("parse template %q: %w", file, err)
	}
	if err := tmpl.Execute(w, p); err != nil {
		return fmt.Errorf("render template %q: %w", file, err)
	}
	return nil
}
