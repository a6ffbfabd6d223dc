// Package classify decides the dataset type of a package: tabular data,
// geodata, or unknown.
package classify

import (
	"context"
	"fmt"

	"github.com/opendatazurich/starterkit/internal/ckan"
)

// TypeTag describes the shape of a dataset.
type TypeTag string

const (
	TagCSV     TypeTag = "csv"
	TagGeo     TypeTag = "geo"
	TagUnknown TypeTag = "unknown"
)

// ParseTag maps classifier output to a TypeTag. Comparison is
// case-sensitive; anything that is not exactly "csv" or "geo" is unknown.
func ParseTag(s string) TypeTag {
	switch s {
	case string(TagCSV):
		return TagCSV
	case string(TagGeo):
		return TagGeo
	default:
		return TagUnknown
	}
}

// Classifier reports the type of a dataset package.
type Classifier interface {
	Classify(ctx context.Context, packageID string) (TypeTag, error)
}

// API classifies packages by inspecting their resource formats via the
// CKAN API. Geodata wins over tabular data when a package carries both.
type API struct {
	Client *ckan.Client
}

// Classify fetches the package and inspects its resources.
func (a *API) Classify(ctx context.Context, packageID string) (TypeTag, error) {
	pkg, err := a.Client.PackageShow(ctx, packageID)
	if err != nil {
		return TagUnknown, fmt.Errorf("classify %q: %w", packageID, err)
	}
	return FromPackage(pkg), nil
}

// FromPackage classifies an already-fetched package.
func FromPackage(pkg *ckan.Package) TypeTag {
	if len(pkg.GeoResources()) > 0 {
		return TagGeo
	}
	if len(pkg.TabularResources()) > 0 {
		return TagCSV
	}
	return TagUnknown
}
