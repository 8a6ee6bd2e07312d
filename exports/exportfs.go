package exports

import (
	"context"
	"strings"

	"github.com/erikmagkekse/dshare/utils"
)

// ExportInfo is one path+client pair the kernel is currently exporting.
type ExportInfo struct {
	Path   string `json:"path"`
	Client string `json:"client"`
}

// Exportfs drives the exportfs(8) binary.
type Exportfs struct {
	bin string
	cmd utils.Runner
}

func NewExportfs(bin string, cmd utils.Runner) *Exportfs {
	return &Exportfs{bin: bin, cmd: cmd}
}

// Reload re-exports everything in the exports file and drops what is gone.
func (e *Exportfs) Reload(ctx context.Context) error {
	_, err := e.cmd.Run(ctx, e.bin, "-rav")
	return err
}

// Sync re-exports without verbose output, used by the reconciler.
func (e *Exportfs) Sync(ctx context.Context) error {
	_, err := e.cmd.Run(ctx, e.bin, "-ra")
	return err
}

// Active returns all path+client pairs currently exported.
// exportfs -v wraps long paths onto two lines:
//
//	/short/path  client(opts)
//	/very/long/path
//	        client(opts)
func (e *Exportfs) Active(ctx context.Context) ([]ExportInfo, error) {
	out, err := e.cmd.Run(ctx, e.bin, "-v")
	if err != nil {
		return nil, err
	}
	return parseActive(out), nil
}

// parseActive parses the output of exportfs -v into export pairs.
func parseActive(output string) []ExportInfo {
	var active []ExportInfo
	var currentPath string
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		indented := strings.HasPrefix(line, "\t") || strings.HasPrefix(line, " ")
		switch {
		case !indented && len(fields) >= 2:
			client, _ := splitClient(fields[1])
			active = append(active, ExportInfo{Path: fields[0], Client: client})
			currentPath = ""
		case !indented:
			currentPath = fields[0]
		case currentPath != "":
			client, _ := splitClient(fields[0])
			active = append(active, ExportInfo{Path: currentPath, Client: client})
			currentPath = ""
		}
	}
	return active
}
