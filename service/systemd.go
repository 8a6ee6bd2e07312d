package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/erikmagkekse/dshare/utils"

	"github.com/rs/zerolog/log"
)

const (
	stateActive   = "active"
	stateInactive = "inactive"
)

// Systemd starts, stops and inspects units through systemctl.
type Systemd struct {
	bin    string
	cmd    utils.Runner
	settle time.Duration
}

// NewSystemd returns a manager that waits settle after start/stop before
// checking the resulting unit state.
func NewSystemd(bin string, cmd utils.Runner, settle time.Duration) *Systemd {
	return &Systemd{bin: bin, cmd: cmd, settle: settle}
}

// State returns the output of systemctl is-active. The exit code is ignored
// since is-active exits non-zero for every state but active.
func (s *Systemd) State(ctx context.Context, unit string) string {
	out, _ := s.cmd.Run(ctx, s.bin, "is-active", unit)
	return strings.TrimSpace(out)
}

func (s *Systemd) IsActive(ctx context.Context, unit string) bool {
	return s.State(ctx, unit) == stateActive
}

func (s *Systemd) IsInactive(ctx context.Context, unit string) bool {
	return s.State(ctx, unit) == stateInactive
}

func (s *Systemd) Start(ctx context.Context, unit string) error {
	if _, err := s.cmd.Run(ctx, s.bin, "start", unit); err != nil {
		return fmt.Errorf("start %s: %w", unit, err)
	}
	if err := s.wait(ctx); err != nil {
		return err
	}
	if state := s.State(ctx, unit); state != stateActive {
		return fmt.Errorf("start %s: unit is %s", unit, state)
	}
	return nil
}

func (s *Systemd) Stop(ctx context.Context, unit string) error {
	if _, err := s.cmd.Run(ctx, s.bin, "stop", unit); err != nil {
		return fmt.Errorf("stop %s: %w", unit, err)
	}
	if err := s.wait(ctx); err != nil {
		return err
	}
	if state := s.State(ctx, unit); state != stateInactive {
		return fmt.Errorf("stop %s: unit is %s", unit, state)
	}
	return nil
}

func (s *Systemd) Enable(ctx context.Context, unit string) error {
	if _, err := s.cmd.Run(ctx, s.bin, "enable", unit); err != nil {
		return fmt.Errorf("enable %s: %w", unit, err)
	}
	return nil
}

// StartAndEnable enables the unit at boot and starts it now.
func (s *Systemd) StartAndEnable(ctx context.Context, unit string) error {
	if _, err := s.cmd.Run(ctx, s.bin, "enable", "--now", unit); err != nil {
		return fmt.Errorf("enable --now %s: %w", unit, err)
	}
	if err := s.wait(ctx); err != nil {
		return err
	}
	if state := s.State(ctx, unit); state != stateActive {
		return fmt.Errorf("enable --now %s: unit is %s", unit, state)
	}
	log.Info().Str("unit", unit).Msg("unit started and enabled")
	return nil
}

// EnsureRunning starts the unit unless it is already active.
func (s *Systemd) EnsureRunning(ctx context.Context, unit string) error {
	if s.IsActive(ctx, unit) {
		return nil
	}
	log.Debug().Str("unit", unit).Msg("starting unit")
	return s.Start(ctx, unit)
}

func (s *Systemd) wait(ctx context.Context) error {
	if s.settle <= 0 {
		return nil
	}
	t := time.NewTimer(s.settle)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
