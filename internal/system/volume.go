package system

import (
	"context"
	"fmt"
)

// Amixer raises a mixer control through `amixer sset`.
type Amixer struct {
	Bin     string
	Device  string
	Control string
}

func NewAmixer() *Amixer {
	return &Amixer{Bin: "amixer", Device: "pulse", Control: "Master"}
}

func (a *Amixer) Raise(ctx context.Context, step int) error {
	args, err := a.args(step)
	if err != nil {
		return err
	}
	_, err = output(ctx, a.Bin, args...)
	return err
}

func (a *Amixer) args(step int) ([]string, error) {
	if step < 1 || step > 100 {
		return nil, fmt.Errorf("volume step %d out of range", step)
	}

	var args []string
	if a.Device != "" {
		args = append(args, "-D", a.Device)
	}
	control := a.Control
	if control == "" {
		control = "Master"
	}
	return append(args, "sset", control, fmt.Sprintf("%d%%+", step)), nil
}
