package consul

import (
	"net"
	"strconv"

	"github.com/pkg/errors"
)

// AdvertiseAddr turns a listen address into the host and port announced to the
// agent. Wildcard hosts are replaced with the first non-loopback IPv4 address.
func AdvertiseAddr(listenAddr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(listenAddr)
	if err != nil {
		return "", 0, errors.Wrapf(err, "parse listen address %s", listenAddr)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, errors.Wrapf(err, "parse port %s", portStr)
	}
	if ip := net.ParseIP(host); host != "" && (ip == nil || !ip.IsUnspecified()) {
		return host, port, nil
	}
	host, err = findAvailableIPv4Addr()
	if err != nil {
		return "", 0, err
	}
	return host, port, nil
}

func findAvailableIPv4Addr() (string, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return "", errors.Wrap(err, "list network interfaces")
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			return "", errors.Wrapf(err, "list addresses of %s", iface.Name)
		}
		for _, addr := range addrs {
			if ipNet, ok := addr.(*net.IPNet); ok {
				if ip4 := ipNet.IP.To4(); ip4 != nil {
					return ip4.String(), nil
				}
			}
		}
	}
	return "", errors.New("no valid network interface found")
}
