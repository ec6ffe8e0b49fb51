package audio

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

var percentRe = regexp.MustCompile(`(\d+)\s*%`)

type SinkInput struct {
	ID      int
	Volume  int
	AppName string
}

// Pactl talks to PulseAudio/PipeWire through the pactl binary.
type Pactl struct {
	Bin string
}

func NewPactl() *Pactl {
	return &Pactl{Bin: "pactl"}
}

func (p *Pactl) SinkInputs(ctx context.Context) ([]SinkInput, error) {
	out, err := exec.CommandContext(ctx, p.Bin, "list", "sink-inputs").Output()
	if err != nil {
		return nil, fmt.Errorf("pactl list sink-inputs: %w", err)
	}
	return parseSinkInputs(string(out)), nil
}

func (p *Pactl) SetSinkInputVolume(ctx context.Context, id, percent int) error {
	arg := fmt.Sprintf("%d%%", clamp(percent))
	return exec.CommandContext(ctx, p.Bin, "set-sink-input-volume", strconv.Itoa(id), arg).Run()
}

// parseSinkInputs reads the first volume and application.name of every
// "Sink Input #N" block.
func parseSinkInputs(text string) []SinkInput {
	parts := strings.Split(text, "Sink Input #")
	if len(parts) <= 1 {
		return nil
	}

	var res []SinkInput
	for _, block := range parts[1:] {
		newline := strings.IndexByte(block, '\n')
		if newline <= 0 {
			continue
		}

		id, err := strconv.Atoi(strings.TrimSpace(block[:newline]))
		if err != nil {
			continue
		}

		s := SinkInput{ID: id}
		for _, line := range strings.Split(block[newline+1:], "\n") {
			line = strings.TrimSpace(line)

			if strings.HasPrefix(line, "Volume:") && s.Volume == 0 {
				if m := percentRe.FindStringSubmatch(line); len(m) >= 2 {
					if v, err := strconv.Atoi(m[1]); err == nil {
						s.Volume = v
					}
				}
			}

			if strings.HasPrefix(line, "application.name =") && s.AppName == "" {
				if _, rest, ok := strings.Cut(line, "\""); ok {
					if name, _, ok := strings.Cut(rest, "\""); ok {
						s.AppName = name
					}
				}
			}
		}

		if s.Volume == 0 && s.AppName == "" {
			continue
		}
		res = append(res, s)
	}

	return res
}
