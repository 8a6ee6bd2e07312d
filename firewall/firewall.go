// Package firewall opens the NFS port for a subnet on ufw or firewalld hosts.
package firewall

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/erikmagkekse/dshare/model"
	"github.com/erikmagkekse/dshare/utils"

	"github.com/rs/zerolog/log"
)

const (
	UFW       = "ufw"
	Firewalld = "firewalld"
)

// UnitChecker reports whether a service unit is active.
type UnitChecker interface {
	IsActive(ctx context.Context, unit string) bool
}

type Firewall struct {
	cmd      utils.Runner
	units    UnitChecker
	lookPath func(string) (string, error)
}

func New(cmd utils.Runner, units UnitChecker) *Firewall {
	return &Firewall{cmd: cmd, units: units, lookPath: exec.LookPath}
}

// Detect returns the first installed and active firewall, or "" if none.
func (f *Firewall) Detect(ctx context.Context) string {
	for _, fw := range []string{UFW, Firewalld} {
		if _, err := f.lookPath(fw); err != nil {
			continue
		}
		if f.units.IsActive(ctx, fw) {
			return fw
		}
	}
	log.Info().Msg("could not find an active firewall, skipping firewall configuration. Add rules manually for your system")
	return ""
}

// AllowNFS lets subnet reach the NFS server on the detected firewall.
func (f *Firewall) AllowNFS(ctx context.Context, subnet string) error {
	switch f.Detect(ctx) {
	case UFW:
		return f.runAll(ctx, UFW, ufwRules(subnet))
	case Firewalld:
		return f.runAll(ctx, Firewalld, firewalldRules(subnet))
	}
	return nil
}

func ufwRules(subnet string) [][]string {
	port := fmt.Sprint(model.NFSPort)
	return [][]string{
		{"ufw", "allow", "from", subnet, "to", "any", "port", port, "proto", "tcp"},
		{"ufw", "allow", "from", subnet, "to", "any", "port", port, "proto", "udp"},
		{"ufw", "reload"},
	}
}

func firewalldRules(subnet string) [][]string {
	rule := fmt.Sprintf(`rule family="ipv4" source address="%s" service name="nfs" accept`, subnet)
	return [][]string{
		{"firewall-cmd", "--add-rich-rule=" + rule, "--permanent"},
		{"firewall-cmd", "--reload"},
	}
}

func (f *Firewall) runAll(ctx context.Context, fw string, cmds [][]string) error {
	for _, c := range cmds {
		if _, err := f.cmd.Run(ctx, c[0], c[1:]...); err != nil {
			return fmt.Errorf("create %s server firewall rule: %w", fw, err)
		}
	}
	log.Info().Str("firewall", fw).Msg("nfs firewall rules applied")
	return nil
}
