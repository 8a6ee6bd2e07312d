package setup

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/erikmagkekse/dshare/utils"

	"github.com/joho/godotenv"
)

// Installer installs the NFS packages with the host's package manager.
type Installer struct {
	bin  string
	args []string
	cmd  utils.Runner
}

// String renders the install command line.
func (i *Installer) String() string {
	return strings.Join(append([]string{i.bin}, i.args...), " ")
}

func (i *Installer) Install(ctx context.Context) error {
	if _, err := i.cmd.Run(ctx, i.bin, i.args...); err != nil {
		return fmt.Errorf("install system dependencies: %w", err)
	}
	return nil
}

// NewInstaller picks the install command from an os-release file. Debian
// derivatives use apt; RHEL derivatives use dnf, falling back to yum.
func NewInstaller(osRelease string, cmd utils.Runner) (*Installer, error) {
	return newInstaller(osRelease, cmd, exec.LookPath)
}

func newInstaller(osRelease string, cmd utils.Runner, lookPath func(string) (string, error)) (*Installer, error) {
	family, err := osFamily(osRelease)
	if err != nil {
		return nil, err
	}

	switch {
	case hasWord(family, "debian"), hasWord(family, "ubuntu"):
		return &Installer{bin: "apt", args: []string{"install", "-y", "nfs-common", "nfs-kernel-server"}, cmd: cmd}, nil
	case hasWord(family, "rhel"), hasWord(family, "fedora"), hasWord(family, "centos"):
		for _, pm := range []string{"dnf", "yum"} {
			if _, err := lookPath(pm); err == nil {
				return &Installer{bin: pm, args: []string{"install", "-y", "nfs-utils"}, cmd: cmd}, nil
			}
		}
		return nil, fmt.Errorf("unable to find package manager for RHEL based system: %s", family)
	}
	return nil, fmt.Errorf("unsupported OS: %s", family)
}

// osFamily returns ID_LIKE from os-release, or ID for distributions that are
// their own family (debian, fedora).
func osFamily(path string) (string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	family := strings.ToLower(strings.TrimSpace(values["ID_LIKE"]))
	if id := strings.ToLower(strings.TrimSpace(values["ID"])); id != "" {
		family = strings.TrimSpace(family + " " + id)
	}
	if family == "" {
		return "", fmt.Errorf("no ID or ID_LIKE in %s", path)
	}
	return family, nil
}

func hasWord(s, word string) bool {
	for _, f := range strings.Fields(s) {
		if f == word {
			return true
		}
	}
	return false
}
