package main

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/erikmagkekse/dshare/agent"
	v1 "github.com/erikmagkekse/dshare/agent/api/v1"
	"github.com/erikmagkekse/dshare/console"
	"github.com/erikmagkekse/dshare/exports"
	"github.com/erikmagkekse/dshare/firewall"
	"github.com/erikmagkekse/dshare/model"
	"github.com/erikmagkekse/dshare/mount"
	"github.com/erikmagkekse/dshare/netinfo"
	"github.com/erikmagkekse/dshare/service"
	"github.com/erikmagkekse/dshare/setup"
	"github.com/erikmagkekse/dshare/utils"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

// app wires the packages together from the parsed config.
type app struct {
	cfg      *model.Config
	console  *console.Console
	cmd      utils.Runner
	services *service.Systemd
	subnets  *netinfo.Resolver
}

func newApp(cfg *model.Config) *app {
	con := console.New()
	cmd := &utils.SudoRunner{Inner: &utils.ShellRunner{}, Enabled: cfg.Sudo}
	return &app{
		cfg:      cfg,
		console:  con,
		cmd:      cmd,
		services: service.NewSystemd(cfg.SystemctlBin, cmd, cfg.ServiceSettle),
		subnets: netinfo.NewResolver(
			netinfo.NewStash(cfg.StashFile),
			netinfo.SystemNetlink(),
			cfg.BridgeInterface,
			cfg.DefaultSubnet,
			con,
		),
	}
}

func (a *app) exportServer() *exports.Server {
	return exports.NewServer(a.cfg.ExportsFile, exports.NewExportfs(a.cfg.ExportfsBin, a.cmd), a.services, a.console)
}

func (a *app) mountClient() *mount.Client {
	return mount.NewClient(a.cfg.FstabFile, a.cmd, a.console)
}

func (a *app) bootstrap() (*setup.Init, error) {
	installer, err := setup.NewInstaller(a.cfg.OSReleaseFile, a.cmd)
	if err != nil {
		return nil, err
	}
	fw := firewall.New(a.cmd, a.services)
	return setup.New(installer, a.services, fw, a.subnets), nil
}

func (a *app) command() *cli.Command {
	return &cli.Command{
		Name:    model.AppName,
		Usage:   "Share commands",
		Version: version + " (" + commit + ")",
		Commands: []*cli.Command{
			a.serverCommand(),
			a.clientCommand(),
		},
	}
}

func (a *app) serverCommand() *cli.Command {
	access := a.subnets.DefaultClient(model.AnyClient)
	return &cli.Command{
		Name:    "server",
		Aliases: []string{"s"},
		Usage:   "Share server commands (dshare-server)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "export", Aliases: []string{"e"}, Usage: "export directory (Provide full path)"},
			&cli.StringFlag{Name: "access", Aliases: []string{"a"}, Value: access, Usage: "access IP or subnet for export (with --remove, \"all\" removes every client)"},
			&cli.StringFlag{Name: "options", Aliases: []string{"o"}, Value: model.DefaultExportOptions, Usage: "export options"},
			&cli.BoolFlag{Name: "display", Aliases: []string{"d"}, Usage: "display exports"},
			&cli.BoolFlag{Name: "active", Usage: "with --display, list what the kernel is exporting"},
			&cli.StringFlag{Name: "remove", Aliases: []string{"R"}, Usage: "remove export directory (Provide full path)"},
			&cli.BoolFlag{Name: "init", Aliases: []string{"I"}, Usage: "initialize server service"},
		},
		Action: a.serverAction,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "serve the export registry over HTTP",
				Action: a.serveAction,
			},
		},
	}
}

func (a *app) serverAction(ctx context.Context, cmd *cli.Command) error {
	srv := a.exportServer()
	switch {
	case cmd.String("export") != "":
		return srv.AddExport(ctx, cmd.String("export"), cmd.String("access"), cmd.String("options"))
	case cmd.String("remove") != "":
		return srv.RemoveExport(ctx, cmd.String("remove"), cmd.String("access"))
	case cmd.Bool("display") && cmd.Bool("active"):
		return a.displayActive(ctx, srv)
	case cmd.Bool("display"):
		return srv.Display(ctx)
	case cmd.Bool("init"):
		i, err := a.bootstrap()
		if err != nil {
			return err
		}
		return i.RunServerInit(ctx)
	}
	return nil
}

func (a *app) displayActive(ctx context.Context, srv *exports.Server) error {
	active, err := srv.Exportfs().Active(ctx)
	if err != nil {
		return err
	}
	msg := "Active exports:"
	for _, e := range active {
		msg += fmt.Sprintf("\n%s %s", e.Path, e.Client)
	}
	a.console.Success(msg)
	return nil
}

func (a *app) serveAction(ctx context.Context, _ *cli.Command) error {
	log.Info().Str("version", version).Str("commit", commit).Msg("starting dshare agent")
	return agent.NewAgent(&a.cfg.Agent, a.exportServer(), version, commit).Run(ctx)
}

func (a *app) clientCommand() *cli.Command {
	return &cli.Command{
		Name:    "client",
		Aliases: []string{"c"},
		Usage:   "Share client commands (dshare-client)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "create", Aliases: []string{"c"}, Usage: "create mount point (Provide full path to new mount point)"},
			&cli.StringFlag{Name: "ip", Aliases: []string{"i"}, Usage: "server IP address to use when creating mount point"},
			&cli.StringFlag{Name: "remote", Aliases: []string{"r"}, Usage: "remote directory to mount when creating mount point"},
			&cli.StringFlag{Name: "remove", Aliases: []string{"R"}, Usage: "remove mount point (Provide full path to mount point)"},
			&cli.StringFlag{Name: "options", Aliases: []string{"o"}, Value: model.DefaultMountOptions, Usage: "mount options"},
			&cli.BoolFlag{Name: "init", Aliases: []string{"I"}, Usage: "initialize client service"},
			&cli.StringFlag{Name: "agent", Usage: "dshare agent URL on the server; asks it to export the remote directory to this host first"},
			&cli.StringFlag{Name: "agent-token", Sources: cli.EnvVars("DSHARE_AGENT_TOKEN"), Usage: "token for the dshare agent"},
		},
		Action: a.clientAction,
	}
}

func (a *app) clientAction(ctx context.Context, cmd *cli.Command) error {
	client := a.mountClient()
	switch {
	case cmd.String("create") != "":
		ip, remote := cmd.String("ip"), cmd.String("remote")
		if ip == "" || remote == "" {
			return usageError("IP and remote directory are required when creating a mount point")
		}
		if url := cmd.String("agent"); url != "" {
			if err := requestExport(ctx, v1.NewClient(url, cmd.String("agent-token")), ip, remote); err != nil {
				return err
			}
		}
		return client.CreateMount(ctx, ip, remote, cmd.String("create"), cmd.String("options"))
	case cmd.String("remove") != "":
		return client.RemoveMount(ctx, cmd.String("remove"))
	case cmd.Bool("init"):
		i, err := a.bootstrap()
		if err != nil {
			return err
		}
		return i.RunClientInit(ctx)
	}
	return nil
}

// requestExport asks the server's agent to export remote to the address
// this host uses to reach the server.
func requestExport(ctx context.Context, c *v1.Client, server, remote string) error {
	local, err := localAddrFor(server)
	if err != nil {
		return err
	}
	if _, err := c.AddExport(ctx, v1.ExportRequest{Path: remote, Client: local}); err != nil {
		return fmt.Errorf("request export of %s:%s: %w", server, remote, err)
	}
	log.Info().Str("server", server).Str("path", remote).Str("client", local).Msg("export requested from agent")
	return nil
}

// localAddrFor returns the source address the kernel picks for server. A UDP
// dial sends no packets.
func localAddrFor(server string) (string, error) {
	conn, err := net.Dial("udp", net.JoinHostPort(server, strconv.Itoa(model.NFSPort)))
	if err != nil {
		return "", fmt.Errorf("resolve local address for %s: %w", server, err)
	}
	defer func() { _ = conn.Close() }()
	return conn.LocalAddr().(*net.UDPAddr).IP.String(), nil
}
