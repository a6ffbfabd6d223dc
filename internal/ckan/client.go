// Package ckan is a minimal client for the CKAN v3 action API as exposed
// by the OpenDataZurich portal.
package ckan

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the action API of the Zurich open data portal.
const DefaultBaseURL = "https://data.stadt-zuerich.ch/api/3/action"

// PortalDatasetURL is the base link to a dataset's landing page.
const PortalDatasetURL = "https://data.stadt-zuerich.ch/dataset/"

// Client calls the CKAN action API.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// New creates a client for the given action API base URL. An empty base
// URL selects the Zurich portal.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
}

// SetHTTPClient overrides the underlying HTTP client (for tests).
func (c *Client) SetHTTPClient(httpc *http.Client) {
	c.httpc = httpc
}

// APIError is the error object returned in a CKAN envelope with
// success=false.
type APIError struct {
	Message string `json:"message"`
	Type    string `json:"__type"`
}

func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("%s: %s", e.Type, e.Message)
	}
	return e.Message
}

// envelope is the standard CKAN action API response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Result  json.RawMessage `json:"result"`
	Error   *APIError       `json:"error"`
}

// PackageShow fetches a single package by id or name.
func (c *Client) PackageShow(ctx context.Context, id string) (*Package, error) {
	q := url.Values{"id": {id}}
	raw, err := c.get(ctx, "package_show", q)
	if err != nil {
		return nil, fmt.Errorf("package_show %q: %w", id, err)
	}

	var pkg Package
	if err := json.Unmarshal(raw, &pkg); err != nil {
		return nil, fmt.Errorf("package_show %q: decode result: %w", id, err)
	}
	return &pkg, nil
}

// CurrentPackageList fetches one page of packages with their resources.
// An empty page signals the end of the catalog.
func (c *Client) CurrentPackageList(ctx context.Context, limit, offset int) ([]Package, error) {
	q := url.Values{
		"limit":  {strconv.Itoa(limit)},
		"offset": {strconv.Itoa(offset)},
	}
	raw, err := c.get(ctx, "current_package_list_with_resources", q)
	if err != nil {
		return nil, fmt.Errorf("current_package_list_with_resources: %w", err)
	}

	var pkgs []Package
	if err := json.Unmarshal(raw, &pkgs); err != nil {
		return nil, fmt.Errorf("current_package_list_with_resources: decode result: %w", err)
	}
	return pkgs, nil
}

// get performs one action API call and unwraps the envelope.
func (c *Client) get(ctx context.Context, action string, q url.Values) (json.RawMessage, error) {
	u := c.baseURL + "/" + action
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	if !env.Success {
		if env.Error != nil {
			return nil, env.Error
		}
		return nil, fmt.Errorf("api reported failure without error detail")
	}
	return env.Result, nil
}
