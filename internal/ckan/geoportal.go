package ckan

import (
	"fmt"
	"regexp"
	"strings"
)

// geoportalWFSBase is the WFS endpoint of the city geoportal.
const geoportalWFSBase = "https://www.ogd.stadt-zuerich.ch/wfs/geoportal/"

// identifierRe captures the last path segment before the query string of a
// geoportal resource URL.
var identifierRe = regexp.MustCompile(`/([^/?]+)\?`)

// IdentifierFromURL extracts the layer identifier from a geoportal
// resource URL.
func IdentifierFromURL(rawURL string) (string, error) {
	m := identifierRe.FindStringSubmatch(rawURL)
	if m == nil {
		return "", fmt.Errorf("no identifier in url %q", rawURL)
	}
	return m[1], nil
}

// GeoportalWFSURL converts a geo resource URL into the WFS endpoint that
// serves its layers. URLs that already point at a WFS endpoint pass
// through unchanged.
func GeoportalWFSURL(rawURL string) (string, error) {
	identifier, err := IdentifierFromURL(rawURL)
	if err != nil {
		if strings.Contains(rawURL, "/wfs/") {
			return rawURL, nil
		}
		return "", err
	}
	return geoportalWFSBase + identifier, nil
}
