package classify

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Command classifies packages by running an external command with the
// package id appended as the last argument. The command's trimmed stdout
// is the type tag.
//
// Exec failure, a non-zero exit, and empty output all classify as unknown
// with the underlying error attached, so callers can fall back without
// distinguishing the cases.
type Command struct {
	Argv []string
}

// Classify runs the configured command for the given package id.
func (c *Command) Classify(ctx context.Context, packageID string) (TypeTag, error) {
	if len(c.Argv) == 0 {
		return TagUnknown, fmt.Errorf("classify command not configured")
	}

	args := append(append([]string(nil), c.Argv[1:]...), packageID)
	cmd := exec.CommandContext(ctx, c.Argv[0], args...)

	out, err := cmd.Output()
	if err != nil {
		return TagUnknown, fmt.Errorf("classify command: %w", err)
	}

	tag := strings.TrimSpace(string(out))
	if tag == "" {
		return TagUnknown, fmt.Errorf("classify command: empty output")
	}
	return ParseTag(tag), nil
}
