package net

import (
	"net"

	"InkBoard/internal/logging"
)

// GetOutgoingIP returns the address this host uses to reach others. Offline
// hosts report their first LAN address, then loopback.
func GetOutgoingIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err == nil {
		defer conn.Close()
		if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok {
			return addr.IP.String(), nil
		}
	}
	ip := firstIPv4()
	if ip.IsLoopback() {
		logging.For("net").Warn("no LAN address found, boards on other hosts cannot reach this one")
	}
	return ip.String(), nil
}

// firstIPv4 returns the first IPv4 address of an interface that is up, or
// loopback.
func firstIPv4() net.IP {
	ifaces, _ := net.Interfaces()
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, _ := iface.Addrs()
		for _, a := range addrs {
			if ipnet, ok := a.(*net.IPNet); ok && ipnet.IP.To4() != nil {
				return ipnet.IP.To4()
			}
		}
	}
	return net.IPv4(127, 0, 0, 1)
}
