package utils

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
)

// Runner executes shell commands and returns their combined output.
// For easy mock testing, this is abstracted behind an interface.
type Runner interface {
	Run(ctx context.Context, bin string, args ...string) (string, error)
}

// ShellRunner implements Runner using os/exec.
type ShellRunner struct{}

func (r *ShellRunner) Run(ctx context.Context, bin string, args ...string) (string, error) {
	log.Debug().Str("bin", bin).Strs("args", args).Msg("exec")
	cmd := exec.CommandContext(ctx, bin, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return string(out), fmt.Errorf("%s %s: %w: %s", bin, strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}

// SudoRunner prefixes every command with sudo when Enabled is set.
// Used for anything that touches services, exports, firewall or packages.
type SudoRunner struct {
	Inner   Runner
	Enabled bool
}

func (r *SudoRunner) Run(ctx context.Context, bin string, args ...string) (string, error) {
	if !r.Enabled {
		return r.Inner.Run(ctx, bin, args...)
	}
	return r.Inner.Run(ctx, "sudo", append([]string{bin}, args...)...)
}
