// Package setup bootstraps a host as NFS server or client: packages,
// firewall and services.
package setup

import (
	"context"
	"fmt"

	"github.com/erikmagkekse/dshare/model"

	"github.com/rs/zerolog/log"
)

type ServiceManager interface {
	StartAndEnable(ctx context.Context, unit string) error
}

type Firewall interface {
	AllowNFS(ctx context.Context, subnet string) error
}

type PackageInstaller interface {
	Install(ctx context.Context) error
}

// SubnetSource resolves and remembers the subnet exports default to.
type SubnetSource interface {
	Detect(ctx context.Context) (string, error)
	SetSubnet(subnet string) error
}

type Init struct {
	installer PackageInstaller
	services  ServiceManager
	firewall  Firewall
	subnets   SubnetSource
}

func New(installer PackageInstaller, services ServiceManager, firewall Firewall, subnets SubnetSource) *Init {
	return &Init{installer: installer, services: services, firewall: firewall, subnets: subnets}
}

type step struct {
	name string
	fn   func(ctx context.Context) error
}

// RunServerInit stashes the bridge subnet, installs packages, opens the
// firewall for the subnet and starts the NFS server.
func (i *Init) RunServerInit(ctx context.Context) error {
	var subnet string
	return run(ctx, "server", []step{
		{"stash bridge subnet", func(ctx context.Context) error {
			s, err := i.subnets.Detect(ctx)
			if err != nil {
				return err
			}
			subnet = s
			return i.subnets.SetSubnet(s)
		}},
		{"install system dependencies", i.installer.Install},
		{"set server firewall config", func(ctx context.Context) error {
			return i.firewall.AllowNFS(ctx, subnet)
		}},
		{"start and enable " + model.ServerUnit, func(ctx context.Context) error {
			return i.services.StartAndEnable(ctx, model.ServerUnit)
		}},
	})
}

// RunClientInit installs packages and starts the NFS client target.
func (i *Init) RunClientInit(ctx context.Context) error {
	return run(ctx, "client", []step{
		{"install system dependencies", i.installer.Install},
		{"start and enable " + model.ClientUnit, func(ctx context.Context) error {
			return i.services.StartAndEnable(ctx, model.ClientUnit)
		}},
	})
}

func run(ctx context.Context, role string, steps []step) error {
	for _, s := range steps {
		log.Info().Str("role", role).Str("step", s.name).Msg("init")
		if err := s.fn(ctx); err != nil {
			log.Debug().Str("role", role).Str("step", s.name).Msg("init step failed")
			return fmt.Errorf("initialize %s: %s: %w", role, s.name, err)
		}
	}
	return nil
}
