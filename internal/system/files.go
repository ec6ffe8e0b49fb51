package system

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// WorkDir lists the visible entries of a directory, the current working
// directory when Dir is empty.
type WorkDir struct {
	Dir string
}

func (w *WorkDir) List(ctx context.Context) ([]string, error) {
	dir := w.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getwd: %w", err)
		}
		dir = wd
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}

	return names, nil
}
