// Package netinfo finds the subnet exports default to and remembers it
// between runs.
package netinfo

import (
	"fmt"
	"net"

	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"
)

// Netlinker is the part of netlink used for address lookup.
type Netlinker interface {
	LinkByName(name string) (netlink.Link, error)
	AddrList(link netlink.Link, family int) ([]netlink.Addr, error)
}

type systemNetlink struct{}

func (systemNetlink) LinkByName(name string) (netlink.Link, error) { return netlink.LinkByName(name) }

func (systemNetlink) AddrList(link netlink.Link, family int) ([]netlink.Addr, error) {
	return netlink.AddrList(link, family)
}

// SystemNetlink queries the host's netlink socket.
func SystemNetlink() Netlinker { return systemNetlink{} }

// BridgeSubnet returns the network of the first IPv4 address on iface,
// e.g. 192.168.122.1/24 on virbr0 yields 192.168.122.0/24.
func BridgeSubnet(nl Netlinker, iface string) (string, error) {
	link, err := nl.LinkByName(iface)
	if err != nil {
		return "", fmt.Errorf("interface %s not found: %w", iface, err)
	}
	addrs, err := nl.AddrList(link, unix.AF_INET)
	if err != nil {
		return "", fmt.Errorf("reading addresses of %s: %w", iface, err)
	}
	for _, addr := range addrs {
		if addr.IPNet == nil || addr.IP.To4() == nil {
			continue
		}
		return networkOf(addr.IPNet), nil
	}
	return "", fmt.Errorf("no IPv4 address on interface %s", iface)
}

func networkOf(ipNet *net.IPNet) string {
	n := net.IPNet{IP: ipNet.IP.Mask(ipNet.Mask), Mask: ipNet.Mask}
	return n.String()
}
