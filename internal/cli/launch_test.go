package cli

import (
	"bytes"
	"errors"
	"runtime"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opendatazurich/starterkit/internal/classify"
	"github.com/opendatazurich/starterkit/internal/config"
	"github.com/opendatazurich/starterkit/internal/launch"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell not available on windows")
	}
}

func TestLaunch_RunsSelectionThenServer(t *testing.T) {
	requireShell(t)

	buf := &bytes.Buffer{}
	fc := &fakeClassifier{tag: classify.TagGeo}
	opts := &LaunchOptions{
		RootOptions: &RootOptions{Format: "text"},
		Config:      &config.Config{PackageID: "zonenplan"},
		Classifier:  fc,
		Server:      &launch.Server{Bin: "sh", Args: []string{"-c", "echo serving"}, Stdout: buf, Stderr: buf},
	}

	cmd := &cobra.Command{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)

	require.NoError(t, runLaunch(opts, cmd))

	out := buf.String()
	assert.Equal(t, 1, fc.calls)
	assert.Contains(t, out, "Selected template geo.Rmd.tmpl")
	assert.Contains(t, out, "serving")
}

func TestLaunch_SelectionFailureDoesNotBlockServer(t *testing.T) {
	requireShell(t)

	buf := &bytes.Buffer{}
	opts := &LaunchOptions{
		RootOptions: &RootOptions{Format: "text"},
		Config:      &config.Config{PackageID: "pkg"},
		Classifier:  &fakeClassifier{err: errors.New("portal down")},
		Server:      &launch.Server{Bin: "sh", Args: []string{"-c", "echo serving"}, Stdout: buf, Stderr: buf},
	}

	cmd := &cobra.Command{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)

	require.NoError(t, runLaunch(opts, cmd))
	// Classifier failure degrades to the tabular starter, then the server runs.
	assert.Contains(t, buf.String(), "Selected template tabular.Rmd.tmpl")
	assert.Contains(t, buf.String(), "serving")
}

func TestLaunch_SkipSelect(t *testing.T) {
	requireShell(t)

	buf := &bytes.Buffer{}
	fc := &fakeClassifier{tag: classify.TagCSV}
	opts := &LaunchOptions{
		RootOptions: &RootOptions{Format: "text"},
		SkipSelect:  true,
		Config:      &config.Config{PackageID: "pkg"},
		Classifier:  fc,
		Server:      &launch.Server{Bin: "sh", Args: []string{"-c", "true"}, Stdout: buf, Stderr: buf},
	}

	cmd := &cobra.Command{}
	cmd.SetOut(buf)

	require.NoError(t, runLaunch(opts, cmd))
	assert.Equal(t, 0, fc.calls)
}

func TestLaunch_PropagatesServerExitCode(t *testing.T) {
	requireShell(t)

	opts := &LaunchOptions{
		RootOptions: &RootOptions{Format: "text"},
		SkipSelect:  true,
		Config:      &config.Config{},
		Server:      &launch.Server{Bin: "sh", Args: []string{"-c", "exit 7"}, Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}},
	}

	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})

	err := runLaunch(opts, cmd)
	require.Error(t, err)
	assert.Equal(t, 7, GetExitCode(err))
}
