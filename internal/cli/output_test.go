package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitError(t *testing.T) {
	err := NewExitError(ExitFailure, "dataset type unknown")
	assert.Equal(t, "dataset type unknown", err.Error())
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestWrapExitError(t *testing.T) {
	inner := errors.New("connection refused")
	err := WrapExitError(ExitCommandError, "failed to classify", inner)

	assert.Equal(t, "failed to classify: connection refused", err.Error())
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.ErrorIs(t, err, inner)
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain error")))
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, f.Success("done"))
	assert.Equal(t, "done\n", buf.String())
}

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, f.Success(map[string]string{"template": "geo.Rmd.tmpl"}))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestOutputFormatter_Error(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, f.Error("E001", "unknown dataset type"))
	assert.Contains(t, buf.String(), "E001")
	assert.Contains(t, buf.String(), "unknown dataset type")
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	buf := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}

	f := &OutputFormatter{Format: "json", Writer: buf, ErrWriter: errBuf, Verbose: true}
	f.VerboseLog("fetched %d packages", 3)
	assert.Contains(t, errBuf.String(), "fetched 3 packages")
	assert.Empty(t, buf.String(), "verbose output must not corrupt JSON")

	quiet := &OutputFormatter{Format: "text", Writer: buf, Verbose: false}
	quiet.VerboseLog("hidden")
	assert.Empty(t, buf.String())
}
