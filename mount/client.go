package mount

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/erikmagkekse/dshare/console"
	"github.com/erikmagkekse/dshare/fstab"
	"github.com/erikmagkekse/dshare/model"
	"github.com/erikmagkekse/dshare/utils"

	"github.com/rs/zerolog/log"
	mountutils "k8s.io/mount-utils"
)

// mountTimeout bounds mount -a and umount, which hang on unreachable servers.
const mountTimeout = 2 * time.Minute

// MountPointChecker is satisfied by k8s.io/mount-utils mount.Interface.
type MountPointChecker interface {
	IsLikelyNotMountPoint(file string) (bool, error)
}

// Client manages NFS mounts recorded in fstab.
type Client struct {
	fstabFile string
	cmd       utils.Runner
	mounts    MountPointChecker
	console   *console.Console
}

func NewClient(fstabFile string, cmd utils.Runner, con *console.Console) *Client {
	return &Client{fstabFile: fstabFile, cmd: cmd, mounts: mountutils.New(""), console: con}
}

// CreateMount creates the mount point, records server:remote in fstab and
// mounts everything fstab lists. An existing entry for the same source is
// left as is.
func (c *Client) CreateMount(ctx context.Context, server, remote, mountPoint, options string) error {
	if options == "" {
		options = model.DefaultMountOptions
	}
	if mountPoint != "" {
		mountPoint = filepath.Clean(mountPoint)
	}
	req := model.MountRequest{Server: server, Remote: remote, MountPoint: mountPoint, Options: options}
	if err := model.Validate(req); err != nil {
		return err
	}

	if err := os.MkdirAll(mountPoint, 0755); err != nil {
		return fmt.Errorf("create mount directory %s: %w", mountPoint, err)
	}

	tab, err := fstab.Load(c.fstabFile)
	if err != nil {
		return err
	}
	entry := fstab.NFSEntry(server, remote, mountPoint, options)
	target := mountPoint
	if tab.Add(entry) {
		if err := tab.Save(c.fstabFile); err != nil {
			return fmt.Errorf("save fstab: %w", err)
		}
		log.Debug().Str("entry", entry.String()).Msg("created fstab entry")
	} else if existing, ok := tab.FindSource(entry.Source); ok && existing.Target != mountPoint {
		log.Warn().
			Str("source", entry.Source).
			Str("target", existing.Target).
			Str("requested", mountPoint).
			Msg("source already mounted elsewhere in fstab, remove that mount first to move it")
		target = existing.Target
	} else {
		log.Debug().Str("source", entry.Source).Msg("entry already exists in fstab")
	}

	if err := c.MountAll(ctx); err != nil {
		return err
	}
	c.console.Success(fmt.Sprintf("Successfully mounted %s --> %s", entry.Source, target))
	return nil
}

// RemoveMount unmounts mountPoint and drops its fstab entry.
func (c *Client) RemoveMount(ctx context.Context, mountPoint string) error {
	mountPoint = filepath.Clean(mountPoint)
	notMnt, err := c.mounts.IsLikelyNotMountPoint(mountPoint)
	if err != nil || notMnt {
		return model.NotFound(fmt.Sprintf("mount path does not exist: %s", mountPoint))
	}

	if err := c.unmount(ctx, mountPoint); err != nil {
		return err
	}

	tab, err := fstab.Load(c.fstabFile)
	if err != nil {
		return err
	}
	if n := tab.Remove(mountPoint); n > 0 {
		if err := tab.Save(c.fstabFile); err != nil {
			return fmt.Errorf("remove fstab entry for %s: %w", mountPoint, err)
		}
	} else {
		log.Warn().Str("path", mountPoint).Str("fstab", c.fstabFile).Msg("unmounted, but no fstab entry matched the mount point")
	}

	c.console.Success(fmt.Sprintf("Successfully removed mount %s", mountPoint))
	return nil
}

// MountAll mounts every fstab entry.
func (c *Client) MountAll(ctx context.Context) error {
	if err := c.timed(ctx, "mount_all", "mount", "-a"); err != nil {
		return fmt.Errorf("mount all fstab shares: %w", err)
	}
	return nil
}

// unmount tries a regular umount first and falls back to a forced one for
// mounts stuck on an unreachable server.
func (c *Client) unmount(ctx context.Context, path string) error {
	if err := c.timed(ctx, "umount", "umount", path); err == nil {
		return nil
	}
	log.Warn().Str("path", path).Msg("umount failed, trying force unmount")
	if err := c.timed(ctx, "force_umount", "umount", "-f", path); err != nil {
		return fmt.Errorf("force umount: %w", err)
	}
	return nil
}

func (c *Client) timed(ctx context.Context, op, bin string, args ...string) error {
	ctx, cancel := context.WithTimeout(ctx, mountTimeout)
	defer cancel()

	start := time.Now()
	_, err := c.cmd.Run(ctx, bin, args...)
	mountDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		mountOpsTotal.WithLabelValues(op, "error").Inc()
		return err
	}
	mountOpsTotal.WithLabelValues(op, "success").Inc()
	return nil
}
