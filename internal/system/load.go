package system

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

var loadRe = regexp.MustCompile(`load averages?:\s*([0-9]+[.,][0-9]+)`)

// Uptime reads the one-minute load average from `uptime`.
type Uptime struct {
	Bin string
}

func NewUptime() *Uptime {
	return &Uptime{Bin: "uptime"}
}

func (u *Uptime) LoadAverage(ctx context.Context) (string, error) {
	out, err := output(ctx, u.Bin)
	if err != nil {
		return "", err
	}
	return parseLoad(out)
}

func parseLoad(out string) (string, error) {
	m := loadRe.FindStringSubmatch(out)
	if len(m) < 2 {
		return "", fmt.Errorf("unexpected uptime output: %q", strings.TrimSpace(out))
	}
	return strings.Replace(m[1], ",", ".", 1), nil
}
