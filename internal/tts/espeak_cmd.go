//go:build !espeak

package tts

import (
	"bytes"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Espeak speaks through the espeak-ng binary, blocking until playback
// ends. Text goes through stdin, never argv.
type Espeak struct {
	Bin   string
	Voice string
	Rate  int
}

func NewEspeak(voice string, rate int) *Espeak {
	return &Espeak{Bin: "espeak-ng", Voice: voice, Rate: rate}
}

func (e *Espeak) Speak(text string) error {
	if text == "" {
		return nil
	}

	args := []string{"--stdin"}
	if e.Voice != "" {
		args = append(args, "-v", e.Voice)
	}
	if e.Rate > 0 {
		args = append(args, "-s", strconv.Itoa(e.Rate))
	}

	cmd := exec.Command(e.Bin, args...)
	cmd.Stdin = strings.NewReader(text)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w (%s)", e.Bin, err, msg)
		}
		return fmt.Errorf("%s: %w", e.Bin, err)
	}

	return nil
}
