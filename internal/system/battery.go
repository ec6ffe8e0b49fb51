package system

import (
	"context"
	"errors"
	"strings"
)

var ErrNoBattery = errors.New("no battery reported")

// ACPI reads power status with `acpi -b`.
type ACPI struct {
	Bin string
}

func NewACPI() *ACPI {
	return &ACPI{Bin: "acpi"}
}

func (a *ACPI) PowerStatus(ctx context.Context) (string, error) {
	out, err := output(ctx, a.Bin, "-b")
	if err != nil {
		return "", err
	}
	return formatBattery(out)
}

// formatBattery joins multi-battery output into one spoken line.
func formatBattery(out string) (string, error) {
	var lines []string
	for _, l := range strings.Split(out, "\n") {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		lines = append(lines, l)
	}
	if len(lines) == 0 {
		return "", ErrNoBattery
	}
	return strings.Join(lines, "; "), nil
}
