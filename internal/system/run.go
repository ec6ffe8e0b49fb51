package system

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// output runs one fixed argv and returns its trimmed stdout. Nothing
// passed here is ever derived from command text.
func output(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%s: %w (%s)", name, err, msg)
		}
		return "", fmt.Errorf("%s: %w", name, err)
	}

	return strings.TrimSpace(stdout.String()), nil
}
