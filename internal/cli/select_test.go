package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opendatazurich/starterkit/internal/classify"
	"github.com/opendatazurich/starterkit/internal/config"
)

// fakeClassifier returns a fixed tag or error and counts invocations.
type fakeClassifier struct {
	tag   classify.TypeTag
	err   error
	calls int
}

func (f *fakeClassifier) Classify(ctx context.Context, packageID string) (classify.TypeTag, error) {
	f.calls++
	if f.err != nil {
		return classify.TagUnknown, f.err
	}
	return f.tag, nil
}

func TestSelect_NoPackageID(t *testing.T) {
	var out bytes.Buffer
	fc := &fakeClassifier{tag: classify.TagCSV}

	sel, selected, err := selectTemplate(context.Background(), config.Config{}, fc, &out)
	require.NoError(t, err)

	assert.False(t, selected)
	assert.Zero(t, sel)
	assert.Contains(t, out.String(), "default dataset")
	assert.Equal(t, 0, fc.calls, "classifier must not run without a package id")
}

func TestSelect_MissingResourceUsesSentinel(t *testing.T) {
	var out bytes.Buffer
	cfg := config.Config{PackageID: "velozaehlungen"}
	fc := &fakeClassifier{tag: classify.TagCSV}

	sel, selected, err := selectTemplate(context.Background(), cfg, fc, &out)
	require.NoError(t, err)
	require.True(t, selected)

	assert.Equal(t, config.ResourceNone, sel.ResourceID)
	assert.Contains(t, out.String(), `"NONE"`)
}

func TestSelect_ExplicitResourcePassedThrough(t *testing.T) {
	var out bytes.Buffer
	cfg := config.Config{PackageID: "velozaehlungen", ResourceID: "r-42"}
	fc := &fakeClassifier{tag: classify.TagCSV}

	sel, _, err := selectTemplate(context.Background(), cfg, fc, &out)
	require.NoError(t, err)

	assert.Equal(t, "r-42", sel.ResourceID)
	assert.NotContains(t, out.String(), "NONE")
}

func TestSelect_TemplateMapping(t *testing.T) {
	tests := []struct {
		name         string
		tag          classify.TypeTag
		err          error
		wantTemplate string
		wantFallback bool
	}{
		{"csv selects tabular template", classify.TagCSV, nil, "tabular.Rmd.tmpl", false},
		{"geo selects geo template", classify.TagGeo, nil, "geo.Rmd.tmpl", false},
		{"unknown falls back to tabular", classify.TagUnknown, nil, "tabular.Rmd.tmpl", true},
		{"novel tag falls back to tabular", classify.TypeTag("parquet"), nil, "tabular.Rmd.tmpl", true},
		{"classifier failure falls back to tabular", classify.TagUnknown, errors.New("api down"), "tabular.Rmd.tmpl", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			cfg := config.Config{PackageID: "pkg"}
			fc := &fakeClassifier{tag: tt.tag, err: tt.err}

			sel, selected, err := selectTemplate(context.Background(), cfg, fc, &out)
			require.NoError(t, err, "selection must never fail on classification problems")
			require.True(t, selected)

			assert.Equal(t, tt.wantTemplate, sel.Template)
			assert.Equal(t, tt.wantFallback, sel.Fallback)
			if tt.wantFallback {
				assert.Contains(t, out.String(), "Warning")
			} else {
				assert.NotContains(t, out.String(), "Warning")
			}
		})
	}
}

func TestSelect_FallbackIsIdempotent(t *testing.T) {
	cfg := config.Config{PackageID: "pkg"}
	fc := &fakeClassifier{err: errors.New("always down")}

	var first Selection
	for i := 0; i < 3; i++ {
		var out bytes.Buffer
		sel, _, err := selectTemplate(context.Background(), cfg, fc, &out)
		require.NoError(t, err)
		if i == 0 {
			first = sel
		} else {
			assert.Equal(t, first, sel)
		}
	}
}

func TestSelectCommand_NoPackageExitsZero(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	opts := &SelectOptions{
		RootOptions: rootOpts,
		Config:      &config.Config{},
		Classifier:  &fakeClassifier{tag: classify.TagCSV},
	}

	cmd := &cobra.Command{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)

	err := runSelect(opts, cmd)
	require.NoError(t, err)
	assert.Equal(t, ExitSuccess, GetExitCode(err))
	assert.Contains(t, buf.String(), "default dataset")
}

func TestSelectCommand_JSONFormat(t *testing.T) {
	outBuf := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	opts := &SelectOptions{
		RootOptions: &RootOptions{Format: "json"},
		Config:      &config.Config{PackageID: "velozaehlungen"},
		Classifier:  &fakeClassifier{tag: classify.TagCSV},
	}

	cmd := &cobra.Command{}
	cmd.SetOut(outBuf)
	cmd.SetErr(errBuf)

	require.NoError(t, runSelect(opts, cmd))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(outBuf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	// Notices must not corrupt the JSON stream.
	assert.Contains(t, errBuf.String(), "NONE")
}

func TestSelectCommand_PrintsSelection(t *testing.T) {
	buf := &bytes.Buffer{}
	opts := &SelectOptions{
		RootOptions: &RootOptions{Format: "text"},
		Config:      &config.Config{PackageID: "zonenplan"},
		Classifier:  &fakeClassifier{tag: classify.TagGeo},
	}

	cmd := &cobra.Command{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)

	require.NoError(t, runSelect(opts, cmd))
	assert.Contains(t, buf.String(), "Selected template geo.Rmd.tmpl for package zonenplan")
}
