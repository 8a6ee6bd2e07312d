package model

import "time"

const AppName = "dshare"

const (
	DefaultExportOptions = "rw,sync,no_subtree_check,no_root_squash"
	DefaultMountOptions  = "defaults,nofail,_netdev"
	DefaultSubnet        = "192.168.120.0/24"

	// AllClients selects every client of an export path on removal.
	AllClients = "all"
	// AnyClient is the exports(5) wildcard used when no subnet was stashed.
	AnyClient = "*"

	ServerUnit = "nfs-server"
	ClientUnit = "nfs-client.target"

	NFSPort = 2049
)

type Config struct {
	ExportsFile     string        `env:"DSHARE_EXPORTS_FILE" envDefault:"/etc/exports"`
	FstabFile       string        `env:"DSHARE_FSTAB_FILE" envDefault:"/etc/fstab"`
	StashFile       string        `env:"DSHARE_STASH_FILE" envDefault:"/etc/dshare/share.env"`
	OSReleaseFile   string        `env:"DSHARE_OS_RELEASE" envDefault:"/etc/os-release"`
	BridgeInterface string        `env:"DSHARE_BRIDGE_INTERFACE" envDefault:"virbr0"`
	DefaultSubnet   string        `env:"DSHARE_DEFAULT_SUBNET" envDefault:"192.168.120.0/24"`
	ExportfsBin     string        `env:"DSHARE_EXPORTFS_BIN" envDefault:"exportfs"`
	SystemctlBin    string        `env:"DSHARE_SYSTEMCTL_BIN" envDefault:"systemctl"`
	Sudo            bool          `env:"DSHARE_SUDO" envDefault:"true"`
	ServiceSettle   time.Duration `env:"DSHARE_SERVICE_SETTLE" envDefault:"1s"`
	MetricsTextfile string        `env:"DSHARE_METRICS_TEXTFILE"`
	Agent           AgentConfig
}

type AgentConfig struct {
	ListenAddr        string        `env:"DSHARE_AGENT_LISTEN_ADDR" envDefault:":8080"`
	Token             string        `env:"DSHARE_AGENT_TOKEN"`
	TLSCert           string        `env:"DSHARE_AGENT_TLS_CERT"`
	TLSKey            string        `env:"DSHARE_AGENT_TLS_KEY"`
	ReconcileInterval time.Duration `env:"DSHARE_AGENT_RECONCILE_INTERVAL" envDefault:"5m"`
}
