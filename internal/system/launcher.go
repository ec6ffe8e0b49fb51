package system

import (
	"context"
	"fmt"
	log "log/slog"
	"os/exec"
)

// Launcher starts a program without waiting for it.
type Launcher struct {
	Bin  string
	Args []string
}

func NewTerminal(bin string) *Launcher {
	if bin == "" {
		bin = "gnome-terminal"
	}
	return &Launcher{Bin: bin}
}

// Launch returns once the process has started. The child is not bound to
// ctx, so it outlives the request that spawned it.
func (l *Launcher) Launch(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cmd := exec.Command(l.Bin, l.Args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", l.Bin, err)
	}

	pid := cmd.Process.Pid
	go func() {
		if err := cmd.Wait(); err != nil {
			log.Debug("Launched process exited", "bin", l.Bin, "pid", pid, "err", err)
		}
	}()

	return nil
}
