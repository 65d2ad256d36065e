package net

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/hashicorp/mdns"
)

// ServiceType is the mDNS service under which recognizers are advertised.
const ServiceType = "_inkrecognizer._tcp"

// ErrNotFound is returned by Discover when no recognizer answered.
var ErrNotFound = errors.New("no recognizer found on the local network")

// Advertise announces a recognizer listening on port. Shut the returned
// server down to withdraw it.
func Advertise(port int, info ...string) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}
	if len(info) == 0 {
		info = []string{"InkBoard recognizer"}
	}

	service, err := mdns.NewMDNSService(
		host,
		ServiceType,
		"",
		"",
		port,
		[]net.IP{firstIPv4()},
		info,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	return server, nil
}

// Browse collects the host:port of every recognizer that answers within
// timeout.
func Browse(ctx context.Context, timeout time.Duration) ([]string, error) {
	entries := make(chan *mdns.ServiceEntry, 8)
	found := make(chan []string, 1)
	go func() {
		var addrs []string
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			addrs = append(addrs, fmt.Sprintf("%s:%d", e.AddrV4.String(), e.Port))
		}
		found <- addrs
	}()

	params := mdns.DefaultParams(ServiceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < params.Timeout {
			params.Timeout = left
		}
	}
	err := mdns.Query(params)
	close(entries)
	addrs := <-found
	if err != nil {
		return addrs, fmt.Errorf("mDNS query: %w", err)
	}
	return addrs, nil
}

// Discover returns the websocket URL of the first recognizer found.
func Discover(ctx context.Context, timeout time.Duration) (string, error) {
	addrs, err := Browse(ctx, timeout)
	if err != nil {
		return "", err
	}
	if len(addrs) == 0 {
		return "", ErrNotFound
	}
	return RecognizerURL(addrs[0]), nil
}

// RecognizerURL is the websocket endpoint of a recognizer at hostport.
func RecognizerURL(hostport string) string {
	return "ws://" + hostport + RecognizePath
}
